package filesystem

import (
	"fmt"

	"github.com/weberc2/blockfs/pkg/math"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Read returns up to `size` bytes starting at the cursor of `handle` and
// advances the cursor by the number of bytes returned. Reads stop at the end
// of the file; a cursor at or past the end yields no bytes.
func (fs *FileSystem) Read(handle Handle, size Byte) ([]byte, error) {
	s, err := fs.session(handle)
	if err != nil {
		return nil, fmt.Errorf("reading handle `%d`: %w", handle, err)
	}
	if size < 0 {
		return nil, fmt.Errorf(
			"reading `%d` bytes from handle `%d`: %w",
			size,
			handle,
			InvalidSizeErr,
		)
	}

	d := fs.descriptors[s.index]
	if s.cursor >= d.Size {
		return []byte{}, nil
	}

	blockSize := fs.device.BlockSize()
	length := math.Min(size, d.Size-s.cursor)
	out := make([]byte, length)
	buf := make([]byte, blockSize)
	for chunkBegin := Byte(0); chunkBegin < length; {
		position := s.cursor + chunkBegin
		chunkBlock := position / blockSize
		chunkOffset := position % blockSize
		chunkLength := math.Min(length-chunkBegin, blockSize-chunkOffset)
		if err := fs.device.ReadBlock(d.BlockMap[chunkBlock], buf); err != nil {
			return nil, fmt.Errorf(
				"reading handle `%d` at offset `%d`: %w",
				handle,
				position,
				err,
			)
		}
		copy(
			out[chunkBegin:chunkBegin+chunkLength],
			buf[chunkOffset:chunkOffset+chunkLength],
		)
		chunkBegin += chunkLength
	}

	s.cursor += length
	return out, nil
}
