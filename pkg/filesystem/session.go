package filesystem

import (
	"fmt"

	. "github.com/weberc2/blockfs/pkg/types"
)

type session struct {
	index  Index
	cursor Byte
	open   bool
}

var closedSession = session{index: IndexNil}

// Open binds the lowest free handle to the file named `name` with its cursor
// at the start of the file.
func (fs *FileSystem) Open(name string) (Handle, error) {
	index, _, err := fs.lookup(name)
	if err != nil {
		return HandleNil, fmt.Errorf("opening `%s`: %w", name, err)
	}
	for i := range fs.handles {
		if !fs.handles[i].open {
			fs.handles[i] = session{index: index, open: true}
			return Handle(i), nil
		}
	}
	return HandleNil, fmt.Errorf(
		"opening `%s` with `%d` handles open: %w",
		name,
		len(fs.handles),
		TooManyOpenFilesErr,
	)
}

// Close releases `handle`. Closing never reclaims a descriptor, even an
// orphaned one.
func (fs *FileSystem) Close(handle Handle) error {
	if _, err := fs.session(handle); err != nil {
		return fmt.Errorf("closing handle `%d`: %w", handle, err)
	}
	fs.handles[handle] = closedSession
	return nil
}

// Seek moves the cursor of `handle` to `offset`. Offsets past the end of the
// file are allowed; a subsequent write fills the gap with zeros.
func (fs *FileSystem) Seek(handle Handle, offset Byte) error {
	s, err := fs.session(handle)
	if err != nil {
		return fmt.Errorf("seeking handle `%d`: %w", handle, err)
	}
	if offset < 0 {
		return fmt.Errorf(
			"seeking handle `%d` to `%d`: %w",
			handle,
			offset,
			InvalidOffsetErr,
		)
	}
	s.cursor = offset
	return nil
}

func (fs *FileSystem) Tell(handle Handle) (Byte, error) {
	s, err := fs.session(handle)
	if err != nil {
		return 0, fmt.Errorf("telling handle `%d`: %w", handle, err)
	}
	return s.cursor, nil
}

func (fs *FileSystem) session(handle Handle) (*session, error) {
	if handle < 0 || int(handle) >= len(fs.handles) ||
		!fs.handles[handle].open {
		return nil, NotOpenErr
	}
	return &fs.handles[handle], nil
}

// openHandles counts the handles bound to the descriptor at `index`.
func (fs *FileSystem) openHandles(index Index) int {
	var n int
	for i := range fs.handles {
		if fs.handles[i].open && fs.handles[i].index == index {
			n++
		}
	}
	return n
}
