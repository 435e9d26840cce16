package filesystem

import "github.com/weberc2/blockfs/pkg/device"

// Statfs summarizes the usage of a file system.
type Statfs struct {
	VolumeID    string `json:"volumeId"`
	Descriptors int    `json:"descriptors"`

	// UsedDescriptors includes orphans.
	UsedDescriptors     int         `json:"usedDescriptors"`
	OrphanedDescriptors int         `json:"orphanedDescriptors"`
	Names               int         `json:"names"`
	OpenHandles         int         `json:"openHandles"`
	MaxOpenFiles        int         `json:"maxOpenFiles"`
	Device              device.Stat `json:"device"`
}

func (fs *FileSystem) Statfs() Statfs {
	stat := Statfs{
		VolumeID:     fs.volumeID,
		Descriptors:  len(fs.descriptors),
		Names:        len(fs.names),
		MaxOpenFiles: len(fs.handles),
		Device:       fs.device.Stat(),
	}
	for _, d := range fs.descriptors {
		if d != nil {
			stat.UsedDescriptors++
			if d.LinksCount < 1 {
				stat.OrphanedDescriptors++
			}
		}
	}
	for i := range fs.handles {
		if fs.handles[i].open {
			stat.OpenHandles++
		}
	}
	return stat
}
