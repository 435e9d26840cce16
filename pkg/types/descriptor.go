package types

import (
	"fmt"
)

// Index identifies a slot in the descriptor table.
type Index int

const IndexNil Index = -1

// Descriptor is the per-file metadata record. `BlockMap[i]` holds the bytes
// `[i*blockSize, (i+1)*blockSize)` of the file.
type Descriptor struct {
	FileType   FileType
	Size       Byte
	BlockMap   []Block
	LinksCount uint32
}

type FileType uint8

const (
	FileTypeInvalid FileType = iota
	FileTypeRegular
)

func (ft FileType) String() string {
	switch ft {
	case FileTypeInvalid:
		return "Invalid"
	case FileTypeRegular:
		return "Regular"
	default:
		panic(fmt.Sprintf("invalid file type: `%d`", ft))
	}
}

func (ft FileType) MarshalJSON() ([]byte, error) {
	s := ft.String()
	out := make([]byte, len(s)+2)
	out[0] = '"'
	out[len(out)-1] = '"'
	copy(out[1:], s)
	return out, nil
}
