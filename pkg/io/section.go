package io

import (
	"fmt"
	"io"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Section exposes the `length` bytes of `inner` starting at `base` as a
// volume of its own. Accesses that would leave the section fail with
// `io.EOF` rather than spilling into neighboring data.
type Section struct {
	inner  Volume
	base   Byte
	length Byte
}

func NewSection(inner Volume, base, length Byte) *Section {
	return &Section{inner: inner, base: base, length: length}
}

func (s *Section) ReadAt(offset Byte, b []byte) error {
	if !s.contains(offset, Byte(len(b))) {
		return fmt.Errorf(
			"reading `%d` bytes from section of `%d` bytes at offset `%d`: %w",
			len(b),
			s.length,
			offset,
			io.EOF,
		)
	}
	if err := s.inner.ReadAt(s.base+offset, b); err != nil {
		return fmt.Errorf(
			"reading offset `%d` from section base `%d`: %w",
			offset,
			s.base,
			err,
		)
	}
	return nil
}

func (s *Section) WriteAt(offset Byte, b []byte) error {
	if !s.contains(offset, Byte(len(b))) {
		return fmt.Errorf(
			"writing `%d` bytes to section of `%d` bytes at offset `%d`: %w",
			len(b),
			s.length,
			offset,
			io.EOF,
		)
	}
	if err := s.inner.WriteAt(s.base+offset, b); err != nil {
		return fmt.Errorf(
			"writing offset `%d` from section base `%d`: %w",
			offset,
			s.base,
			err,
		)
	}
	return nil
}

func (s *Section) contains(offset, length Byte) bool {
	return offset >= 0 && length >= 0 && offset+length <= s.length
}
