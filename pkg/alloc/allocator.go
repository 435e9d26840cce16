package alloc

type Allocator interface {
	Alloc() (uint64, bool)
	Free(uint64)
	Test(uint64) bool
}

var _ Allocator = (*Bitmap)(nil)
