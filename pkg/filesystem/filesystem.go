// Package filesystem implements a flat, single-volume file store on top of a
// `device.Device`. Files are reached by name through the namespace and are
// read and written through handles, each of which carries its own cursor.
//
// A `FileSystem` is not safe for concurrent use; see `Synchronized`.
package filesystem

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/weberc2/blockfs/pkg/device"
	. "github.com/weberc2/blockfs/pkg/types"
)

const (
	DefaultDescriptors   = 100
	DefaultMaxOpenFiles  = 100
	DefaultMaxNameLength = 255
)

type FileSystem struct {
	device        device.Device
	logger        *slog.Logger
	maxOpenFiles  int
	maxNameLength int
	volumeID      string

	// descriptors holds one entry per slot; `nil` marks an empty slot
	descriptors []*Descriptor
	names       map[string]Index
	handles     []session
}

type Params struct {
	Device device.Device

	// Descriptors is the descriptor table capacity used for the initial
	// `Mkfs()`. Defaults to `DefaultDescriptors`.
	Descriptors   int
	MaxOpenFiles  int
	MaxNameLength int
	Logger        *slog.Logger
}

// New creates a file system over `params.Device` and formats it.
func New(params *Params) (*FileSystem, error) {
	fs := FileSystem{
		device:        params.Device,
		logger:        params.Logger,
		maxOpenFiles:  params.MaxOpenFiles,
		maxNameLength: params.MaxNameLength,
	}
	if fs.logger == nil {
		fs.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if fs.maxOpenFiles < 1 {
		fs.maxOpenFiles = DefaultMaxOpenFiles
	}
	if fs.maxNameLength < 1 {
		fs.maxNameLength = DefaultMaxNameLength
	}

	descriptors := params.Descriptors
	if descriptors == 0 {
		descriptors = DefaultDescriptors
	}
	if err := fs.Mkfs(descriptors); err != nil {
		return nil, fmt.Errorf("creating file system: %w", err)
	}
	return &fs, nil
}

// Mkfs discards every file, name and handle and replaces the descriptor
// table with `capacity` empty slots. Blocks owned by the discarded files are
// returned to the device. The volume receives a new id.
func (fs *FileSystem) Mkfs(capacity int) error {
	if capacity < 1 {
		return fmt.Errorf(
			"formatting with capacity `%d`: %w",
			capacity,
			InvalidCapacityErr,
		)
	}

	var err error
	for i, d := range fs.descriptors {
		if d == nil {
			continue
		}
		if e := fs.freeBlocks(d.BlockMap); e != nil && err == nil {
			err = fmt.Errorf("formatting: releasing descriptor `%d`: %w", i, e)
		}
	}

	fs.descriptors = make([]*Descriptor, capacity)
	fs.names = map[string]Index{}
	fs.handles = make([]session, fs.maxOpenFiles)
	for i := range fs.handles {
		fs.handles[i] = closedSession
	}
	fs.volumeID = uuid.NewString()

	fs.logger.Info(
		"formatted volume",
		"volume", fs.volumeID,
		"descriptors", capacity,
		"blockSize", fs.device.BlockSize(),
	)
	return err
}

func (fs *FileSystem) VolumeID() string { return fs.volumeID }

func (fs *FileSystem) lookup(name string) (Index, *Descriptor, error) {
	index, found := fs.names[name]
	if !found {
		return IndexNil, nil, NotFoundErr
	}
	return index, fs.descriptors[index], nil
}

// allocBlocks allocates `n` zeroed blocks or none at all.
func (fs *FileSystem) allocBlocks(n int) ([]Block, error) {
	if free := fs.device.Stat().FreeBlocks; uint64(n) > free {
		return nil, fmt.Errorf(
			"allocating `%d` blocks with `%d` free: %w",
			n,
			free,
			device.OutOfBlocksErr,
		)
	}
	var blocks []Block
	zeros := make([]byte, fs.device.BlockSize())
	for len(blocks) < n {
		block, err := fs.device.AllocBlock()
		if err != nil {
			fs.releaseBlocks(blocks)
			return nil, fmt.Errorf(
				"allocating block `%d` of `%d`: %w",
				len(blocks)+1,
				n,
				err,
			)
		}
		blocks = append(blocks, block)
		if err := fs.device.WriteBlock(block, zeros); err != nil {
			fs.releaseBlocks(blocks)
			return nil, fmt.Errorf("zeroing new block `%d`: %w", block, err)
		}
	}
	return blocks, nil
}

// freeBlocks returns every block to the device, reporting the first failure.
func (fs *FileSystem) freeBlocks(blocks []Block) error {
	var err error
	for _, block := range blocks {
		if e := fs.device.FreeBlock(block); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// releaseBlocks undoes an allocation that is being abandoned.
func (fs *FileSystem) releaseBlocks(blocks []Block) {
	if err := fs.freeBlocks(blocks); err != nil {
		fs.logger.Error(
			"releasing abandoned blocks",
			"blocks", len(blocks),
			"err", err.Error(),
		)
	}
}
