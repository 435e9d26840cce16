package device

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/weberc2/blockfs/pkg/alloc"
	"github.com/weberc2/blockfs/pkg/objectstore"
	. "github.com/weberc2/blockfs/pkg/types"
)

var _ Device = (*Object)(nil)

// Object is a device that stores each block as an object. Allocation is
// tracked in memory; an allocated block that was never written reads as
// zeros.
type Object struct {
	store     objectstore.ObjectStore
	bucket    string
	prefix    string
	allocator alloc.BlockAllocator
	blockSize Byte
	blocks    uint64
	free      uint64
}

type ObjectParams struct {
	Store      objectstore.ObjectStore
	Bucket     string
	VolumeName string

	// VolumeID namespaces this volume's objects beneath the volume name.
	// Defaults to a random UUID.
	VolumeID  string
	BlockSize Byte
	Blocks    uint64
}

func NewObject(params *ObjectParams) (*Object, error) {
	if err := checkGeometry(params.BlockSize, params.Blocks); err != nil {
		return nil, fmt.Errorf("creating object device: %w", err)
	}
	volumeID := params.VolumeID
	if volumeID == "" {
		volumeID = uuid.NewString()
	}
	bitmap := alloc.New(params.Blocks)
	return &Object{
		store:     params.Store,
		bucket:    params.Bucket,
		prefix:    path.Join(slug.Make(params.VolumeName), volumeID),
		allocator: alloc.BlockAllocator{Allocator: &bitmap},
		blockSize: params.BlockSize,
		blocks:    params.Blocks,
		free:      params.Blocks,
	}, nil
}

// Prefix returns the key prefix under which every block object is stored.
func (o *Object) Prefix() string { return o.prefix }

func (o *Object) BlockSize() Byte { return o.blockSize }

func (o *Object) ReadBlock(block Block, buf []byte) error {
	if err := o.check(block, buf); err != nil {
		return fmt.Errorf("reading block `%d`: %w", block, err)
	}

	body, err := o.store.GetObject(o.bucket, o.key(block))
	if err != nil {
		var e *objectstore.ObjectNotFoundErr
		if errors.As(err, &e) {
			for i := range buf {
				buf[i] = 0
			}
			return nil
		}
		return fmt.Errorf("reading block `%d`: %w", block, err)
	}
	defer body.Close()

	if _, err := io.ReadFull(body, buf); err != nil {
		return fmt.Errorf("reading block `%d`: reading object: %w", block, err)
	}
	return nil
}

func (o *Object) WriteBlock(block Block, buf []byte) error {
	if err := o.check(block, buf); err != nil {
		return fmt.Errorf("writing block `%d`: %w", block, err)
	}
	if err := o.store.PutObject(
		o.bucket,
		o.key(block),
		bytes.NewReader(buf),
	); err != nil {
		return fmt.Errorf("writing block `%d`: %w", block, err)
	}
	return nil
}

func (o *Object) AllocBlock() (Block, error) {
	block, ok := o.allocator.Alloc()
	if !ok {
		return BlockNil, fmt.Errorf(
			"allocating block from `%d` total: %w",
			o.blocks,
			OutOfBlocksErr,
		)
	}
	o.free--
	return block, nil
}

// FreeBlock deletes the block's object before releasing the block, so a
// failed delete leaves the block allocated.
func (o *Object) FreeBlock(block Block) error {
	if !o.allocator.Allocated(block) {
		return fmt.Errorf("freeing block `%d`: %w", block, BlockNotAllocatedErr)
	}
	if err := o.store.DeleteObject(o.bucket, o.key(block)); err != nil {
		var e *objectstore.ObjectNotFoundErr
		if !errors.As(err, &e) {
			return fmt.Errorf("freeing block `%d`: %w", block, err)
		}
	}
	o.allocator.Free(block)
	o.free++
	return nil
}

func (o *Object) Stat() Stat {
	return Stat{BlockSize: o.blockSize, TotalBlocks: o.blocks, FreeBlocks: o.free}
}

// Keys lists the objects currently stored for this volume.
func (o *Object) Keys() ([]string, error) {
	keys, err := o.store.ListObjects(o.bucket, o.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("listing block objects: %w", err)
	}
	return keys, nil
}

func (o *Object) check(block Block, buf []byte) error {
	if err := checkBuffer(o.blockSize, buf); err != nil {
		return err
	}
	if !o.allocator.Allocated(block) {
		return BlockNotAllocatedErr
	}
	return nil
}

func (o *Object) key(block Block) string {
	return fmt.Sprintf("%s/%d", o.prefix, block)
}
