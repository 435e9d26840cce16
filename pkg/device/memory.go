package device

import (
	"fmt"

	"github.com/weberc2/blockfs/pkg/alloc"
	"github.com/weberc2/blockfs/pkg/io"
	. "github.com/weberc2/blockfs/pkg/types"
)

var _ Device = (*Memory)(nil)

// Memory is a device whose blocks live in one contiguous in-memory volume.
// Block `b` occupies bytes `[(b-1)*blockSize, b*blockSize)` of the volume.
type Memory struct {
	allocator alloc.BlockAllocator
	volume    io.Volume
	blockSize Byte
	blocks    uint64
	free      uint64
}

func NewMemory(blockSize Byte, blocks uint64) (*Memory, error) {
	if err := checkGeometry(blockSize, blocks); err != nil {
		return nil, fmt.Errorf("creating memory device: %w", err)
	}
	bitmap := alloc.New(blocks)
	return &Memory{
		allocator: alloc.BlockAllocator{Allocator: &bitmap},
		volume:    io.NewBuffer(make([]byte, blockSize*Byte(blocks))),
		blockSize: blockSize,
		blocks:    blocks,
		free:      blocks,
	}, nil
}

func (m *Memory) BlockSize() Byte { return m.blockSize }

func (m *Memory) ReadBlock(block Block, buf []byte) error {
	if err := m.check(block, buf); err != nil {
		return fmt.Errorf("reading block `%d`: %w", block, err)
	}
	if err := m.section(block).ReadAt(0, buf); err != nil {
		return fmt.Errorf("reading block `%d`: %w", block, err)
	}
	return nil
}

func (m *Memory) WriteBlock(block Block, buf []byte) error {
	if err := m.check(block, buf); err != nil {
		return fmt.Errorf("writing block `%d`: %w", block, err)
	}
	if err := m.section(block).WriteAt(0, buf); err != nil {
		return fmt.Errorf("writing block `%d`: %w", block, err)
	}
	return nil
}

func (m *Memory) AllocBlock() (Block, error) {
	block, ok := m.allocator.Alloc()
	if !ok {
		return BlockNil, fmt.Errorf(
			"allocating block from `%d` total: %w",
			m.blocks,
			OutOfBlocksErr,
		)
	}
	m.free--
	return block, nil
}

func (m *Memory) FreeBlock(block Block) error {
	if !m.allocator.Allocated(block) {
		return fmt.Errorf("freeing block `%d`: %w", block, BlockNotAllocatedErr)
	}
	m.allocator.Free(block)
	m.free++
	return nil
}

func (m *Memory) Stat() Stat {
	return Stat{BlockSize: m.blockSize, TotalBlocks: m.blocks, FreeBlocks: m.free}
}

func (m *Memory) check(block Block, buf []byte) error {
	if err := checkBuffer(m.blockSize, buf); err != nil {
		return err
	}
	if !m.allocator.Allocated(block) {
		return BlockNotAllocatedErr
	}
	return nil
}

func (m *Memory) section(block Block) *io.Section {
	return io.NewSection(m.volume, Byte(block-1)*m.blockSize, m.blockSize)
}
