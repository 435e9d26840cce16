package io

import (
	"fmt"
	"io"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Buffer is a fixed-size, byte-addressed volume held in memory. Accesses
// must fall entirely within the buffer.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

func (b *Buffer) Len() Byte { return Byte(len(b.data)) }

func (b *Buffer) ReadAt(offset Byte, p []byte) error {
	if b.contains(offset, Byte(len(p))) {
		copy(p, b.data[offset:offset+Byte(len(p))])
		return nil
	}
	return fmt.Errorf(
		"reading `%d` bytes from buffer of `%d` bytes at offset `%d`: %w",
		len(p),
		len(b.data),
		offset,
		io.EOF,
	)
}

func (b *Buffer) WriteAt(offset Byte, p []byte) error {
	if b.contains(offset, Byte(len(p))) {
		copy(b.data[offset:offset+Byte(len(p))], p)
		return nil
	}
	return fmt.Errorf(
		"writing `%d` bytes to buffer of `%d` bytes at offset `%d`: %w",
		len(p),
		len(b.data),
		offset,
		io.EOF,
	)
}

func (b *Buffer) contains(offset, length Byte) bool {
	return offset >= 0 && length >= 0 && offset+length <= Byte(len(b.data))
}
