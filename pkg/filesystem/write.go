package filesystem

import (
	"fmt"

	"github.com/weberc2/blockfs/pkg/math"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Write writes all of `data` at the cursor of `handle`, growing the file as
// needed, and advances the cursor past the written bytes. Blocks skipped
// over by a cursor past the end of the file read back as zeros.
//
// Every block the write needs is allocated before any block is written. If
// the device runs out of blocks the file is left unchanged.
func (fs *FileSystem) Write(handle Handle, data []byte) (Byte, error) {
	s, err := fs.session(handle)
	if err != nil {
		return 0, fmt.Errorf("writing handle `%d`: %w", handle, err)
	}
	if len(data) < 1 {
		return 0, nil
	}

	d := fs.descriptors[s.index]
	blockSize := fs.device.BlockSize()
	length := Byte(len(data))
	end := s.cursor + length
	if end < s.cursor {
		return 0, fmt.Errorf(
			"writing `%d` bytes to handle `%d` at offset `%d`: %w",
			length,
			handle,
			s.cursor,
			InvalidOffsetErr,
		)
	}

	blockMap := d.BlockMap
	var fresh []Block
	if have, need := len(d.BlockMap), int(math.DivRoundUp(end, blockSize)); need > have {
		if fresh, err = fs.allocBlocks(need - have); err != nil {
			return 0, fmt.Errorf(
				"writing `%d` bytes to handle `%d` at offset `%d`: %w",
				length,
				handle,
				s.cursor,
				err,
			)
		}
		blockMap = append(d.BlockMap[:have:have], fresh...)
	}

	buf := make([]byte, blockSize)
	for chunkBegin := Byte(0); chunkBegin < length; {
		position := s.cursor + chunkBegin
		chunkBlock := position / blockSize
		chunkOffset := position % blockSize
		chunkLength := math.Min(length-chunkBegin, blockSize-chunkOffset)
		block := blockMap[chunkBlock]

		// a partial block keeps the bytes around the chunk
		if chunkLength < blockSize {
			if err := fs.device.ReadBlock(block, buf); err != nil {
				fs.releaseBlocks(fresh)
				return 0, fmt.Errorf(
					"writing handle `%d` at offset `%d`: %w",
					handle,
					position,
					err,
				)
			}
		}
		copy(buf[chunkOffset:], data[chunkBegin:chunkBegin+chunkLength])
		if err := fs.device.WriteBlock(block, buf); err != nil {
			fs.releaseBlocks(fresh)
			return 0, fmt.Errorf(
				"writing handle `%d` at offset `%d`: %w",
				handle,
				position,
				err,
			)
		}
		chunkBegin += chunkLength
	}

	d.BlockMap = blockMap
	d.Size = math.Max(d.Size, end)
	s.cursor = end
	return length, nil
}
