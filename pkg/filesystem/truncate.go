package filesystem

import (
	"fmt"

	"github.com/weberc2/blockfs/pkg/math"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Truncate sets the size of the file named `name`. Shrinking frees the
// blocks past the new end; growing appends zeroed blocks. Either way, the
// bytes between the new size and the end of the last block are zero.
func (fs *FileSystem) Truncate(name string, size Byte) error {
	_, d, err := fs.lookup(name)
	if err != nil {
		return fmt.Errorf("truncating `%s`: %w", name, err)
	}
	if size < 0 {
		return fmt.Errorf(
			"truncating `%s` to `%d`: %w",
			name,
			size,
			InvalidSizeErr,
		)
	}

	switch {
	case size < d.Size:
		err = fs.shrink(d, size)
	case size > d.Size:
		err = fs.grow(d, size)
	}
	if err != nil {
		return fmt.Errorf("truncating `%s` to `%d`: %w", name, size, err)
	}
	return nil
}

func (fs *FileSystem) shrink(d *Descriptor, size Byte) error {
	blockSize := fs.device.BlockSize()
	keep := int(math.DivRoundUp(size, blockSize))

	// block-aligned cuts leave the new last block intact
	if offset := size % blockSize; offset != 0 {
		if err := fs.zeroTail(d.BlockMap[keep-1], offset); err != nil {
			return err
		}
	}

	freed := d.BlockMap[keep:]
	d.BlockMap = d.BlockMap[:keep:keep]
	d.Size = size
	if err := fs.freeBlocks(freed); err != nil {
		return fmt.Errorf("freeing `%d` trailing blocks: %w", len(freed), err)
	}
	return nil
}

func (fs *FileSystem) grow(d *Descriptor, size Byte) error {
	blockSize := fs.device.BlockSize()
	have := len(d.BlockMap)

	var fresh []Block
	if need := int(math.DivRoundUp(size, blockSize)); need > have {
		var err error
		if fresh, err = fs.allocBlocks(need - have); err != nil {
			return err
		}
	}

	if offset := d.Size % blockSize; offset != 0 {
		if err := fs.zeroTail(d.BlockMap[have-1], offset); err != nil {
			fs.releaseBlocks(fresh)
			return err
		}
	}

	d.BlockMap = append(d.BlockMap[:have:have], fresh...)
	d.Size = size
	return nil
}

// zeroTail zeroes the bytes of `block` from `offset` to the end of the block.
func (fs *FileSystem) zeroTail(block Block, offset Byte) error {
	buf := make([]byte, fs.device.BlockSize())
	if err := fs.device.ReadBlock(block, buf); err != nil {
		return fmt.Errorf("zeroing block `%d` from `%d`: %w", block, offset, err)
	}
	for i := range buf[offset:] {
		buf[offset+Byte(i)] = 0
	}
	if err := fs.device.WriteBlock(block, buf); err != nil {
		return fmt.Errorf("zeroing block `%d` from `%d`: %w", block, offset, err)
	}
	return nil
}
