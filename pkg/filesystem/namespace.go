package filesystem

import (
	"fmt"
	"sort"
	"unicode/utf8"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Stat is a snapshot of a descriptor. It shares no memory with the file
// system.
type Stat struct {
	Index       Index    `json:"index"`
	FileType    FileType `json:"fileType"`
	Size        Byte     `json:"size"`
	LinksCount  uint32   `json:"linksCount"`
	Blocks      int      `json:"blocks"`
	BlockMap    []Block  `json:"blockMap"`
	OpenHandles int      `json:"openHandles"`
}

type Entry struct {
	Name  string `json:"name"`
	Index Index  `json:"index"`
}

// Create makes an empty regular file named `name` in the first free
// descriptor slot.
func (fs *FileSystem) Create(name string) (Index, error) {
	if err := fs.validateName(name); err != nil {
		return IndexNil, fmt.Errorf("creating file `%s`: %w", name, err)
	}
	if _, found := fs.names[name]; found {
		return IndexNil, fmt.Errorf("creating file `%s`: %w", name, ExistsErr)
	}

	for i, d := range fs.descriptors {
		if d == nil {
			fs.descriptors[i] = &Descriptor{
				FileType:   FileTypeRegular,
				BlockMap:   []Block{},
				LinksCount: 1,
			}
			fs.names[name] = Index(i)
			return Index(i), nil
		}
	}
	return IndexNil, fmt.Errorf(
		"creating file `%s` in table of `%d` descriptors: %w",
		name,
		len(fs.descriptors),
		OutOfDescriptorsErr,
	)
}

func (fs *FileSystem) Stat(name string) (Stat, error) {
	index, d, err := fs.lookup(name)
	if err != nil {
		return Stat{}, fmt.Errorf("stat `%s`: %w", name, err)
	}
	return Stat{
		Index:       index,
		FileType:    d.FileType,
		Size:        d.Size,
		LinksCount:  d.LinksCount,
		Blocks:      len(d.BlockMap),
		BlockMap:    append([]Block{}, d.BlockMap...),
		OpenHandles: fs.openHandles(index),
	}, nil
}

// Ls returns a copy of the namespace.
func (fs *FileSystem) Ls() map[string]Index {
	out := make(map[string]Index, len(fs.names))
	for name, index := range fs.names {
		out[name] = index
	}
	return out
}

// Entries returns the namespace ordered by name.
func (fs *FileSystem) Entries() []Entry {
	entries := make([]Entry, 0, len(fs.names))
	for name, index := range fs.names {
		entries = append(entries, Entry{Name: name, Index: index})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Link binds `name` to the descriptor already bound to `existing`.
func (fs *FileSystem) Link(existing, name string) error {
	index, d, err := fs.lookup(existing)
	if err != nil {
		return fmt.Errorf("linking `%s` to `%s`: %w", name, existing, err)
	}
	if err := fs.validateName(name); err != nil {
		return fmt.Errorf("linking `%s` to `%s`: %w", name, existing, err)
	}
	if _, found := fs.names[name]; found {
		return fmt.Errorf("linking `%s` to `%s`: %w", name, existing, ExistsErr)
	}
	fs.names[name] = index
	d.LinksCount++
	return nil
}

// Unlink removes `name` from the namespace. When the last name goes away
// the descriptor is reclaimed, unless a handle still refers to it, in which
// case it lingers as an orphan.
func (fs *FileSystem) Unlink(name string) error {
	index, d, err := fs.lookup(name)
	if err != nil {
		return fmt.Errorf("unlinking `%s`: %w", name, err)
	}
	delete(fs.names, name)
	d.LinksCount--
	if d.LinksCount > 0 {
		return nil
	}

	if handles := fs.openHandles(index); handles > 0 {
		fs.logger.Info(
			"orphaned descriptor",
			"name", name,
			"index", index,
			"openHandles", handles,
		)
		return nil
	}

	if err := fs.reclaim(index); err != nil {
		return fmt.Errorf("unlinking `%s`: %w", name, err)
	}
	return nil
}

// reclaim frees every block of the descriptor at `index` and empties its
// slot. The slot is emptied even if a block fails to free.
func (fs *FileSystem) reclaim(index Index) error {
	d := fs.descriptors[index]
	fs.descriptors[index] = nil
	fs.logger.Debug(
		"reclaiming descriptor",
		"index", index,
		"blocks", len(d.BlockMap),
	)
	if err := fs.freeBlocks(d.BlockMap); err != nil {
		return fmt.Errorf("reclaiming descriptor `%d`: %w", index, err)
	}
	return nil
}

func (fs *FileSystem) validateName(name string) error {
	if length := utf8.RuneCountInString(name); length < 1 ||
		length > fs.maxNameLength {
		return fmt.Errorf(
			"name length `%d` not in [1, %d]: %w",
			length,
			fs.maxNameLength,
			InvalidNameErr,
		)
	}
	return nil
}
