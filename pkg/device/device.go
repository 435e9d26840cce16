// Package device defines the fixed-size block device consumed by the file
// system engine along with two implementations: `Memory`, which keeps every
// block in a single in-memory volume, and `Object`, which stores each block
// as an object in an `objectstore.ObjectStore`.
package device

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Device is a pool of fixed-size blocks. Blocks must be allocated before they
// can be read or written. Implementations are not required to be safe for
// concurrent use.
type Device interface {
	// BlockSize returns the size of every block on the device.
	BlockSize() Byte

	// ReadBlock copies the contents of `block` into `buf`, which must be
	// exactly `BlockSize()` bytes long.
	ReadBlock(block Block, buf []byte) error

	// WriteBlock overwrites `block` with `buf`, which must be exactly
	// `BlockSize()` bytes long.
	WriteBlock(block Block, buf []byte) error

	// AllocBlock takes a block out of the free pool. It fails with
	// `OutOfBlocksErr` when the pool is empty.
	AllocBlock() (Block, error)

	// FreeBlock returns `block` to the free pool.
	FreeBlock(block Block) error

	Stat() Stat
}

// Stat summarizes a device's capacity.
type Stat struct {
	BlockSize   Byte   `json:"blockSize"`
	TotalBlocks uint64 `json:"totalBlocks"`
	FreeBlocks  uint64 `json:"freeBlocks"`
}

const (
	OutOfBlocksErr       ConstError = "out of blocks"
	BlockNotAllocatedErr ConstError = "block not allocated"
	InvalidBufferSizeErr ConstError = "buffer size does not match block size"
	InvalidGeometryErr   ConstError = "invalid device geometry"
)

func checkBuffer(blockSize Byte, buf []byte) error {
	if Byte(len(buf)) != blockSize {
		return fmt.Errorf(
			"wanted `%d` byte buffer; found `%d`: %w",
			blockSize,
			len(buf),
			InvalidBufferSizeErr,
		)
	}
	return nil
}

func checkGeometry(blockSize Byte, blocks uint64) error {
	if blockSize < 1 || blocks < 1 {
		return fmt.Errorf(
			"block size `%d`, blocks `%d`: %w",
			blockSize,
			blocks,
			InvalidGeometryErr,
		)
	}
	return nil
}
