package alloc

import . "github.com/weberc2/blockfs/pkg/types"

// BlockAllocator maps allocator values onto block ids, keeping `BlockNil`
// out of circulation.
type BlockAllocator struct {
	Allocator
}

func (ba BlockAllocator) Alloc() (Block, bool) {
	if b, ok := ba.Allocator.Alloc(); ok {
		return Block(b + 1), true
	}
	return BlockNil, false
}

func (ba BlockAllocator) Free(b Block) {
	ba.Allocator.Free(uint64(b) - 1)
}

func (ba BlockAllocator) Allocated(b Block) bool {
	if b == BlockNil {
		return false
	}
	return ba.Allocator.Test(uint64(b) - 1)
}
