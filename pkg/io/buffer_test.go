package io

import (
	"bytes"
	"errors"
	"io"
	"testing"

	. "github.com/weberc2/blockfs/pkg/types"
)

func TestBuffer_WriteThenRead(t *testing.T) {
	b := NewBuffer(make([]byte, 16))
	if err := b.WriteAt(4, []byte("hello")); err != nil {
		t.Fatalf("WriteAt(): unexpected err: %v", err)
	}

	var p [5]byte
	if err := b.ReadAt(4, p[:]); err != nil {
		t.Fatalf("ReadAt(): unexpected err: %v", err)
	}
	if wanted := []byte("hello"); !bytes.Equal(wanted, p[:]) {
		t.Fatalf("ReadAt(): wanted `%s`; found `%s`", wanted, p[:])
	}
}

func TestBuffer_OutOfRange(t *testing.T) {
	b := NewBuffer(make([]byte, 8))
	for _, testCase := range []struct {
		name   string
		offset Byte
		length int
	}{
		{name: "straddles end", offset: 6, length: 4},
		{name: "past end", offset: 9, length: 1},
		{name: "negative offset", offset: -1, length: 1},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			p := make([]byte, testCase.length)
			if err := b.ReadAt(testCase.offset, p); !errors.Is(err, io.EOF) {
				t.Fatalf("ReadAt(): wanted `io.EOF`; found `%v`", err)
			}
			if err := b.WriteAt(testCase.offset, p); !errors.Is(err, io.EOF) {
				t.Fatalf("WriteAt(): wanted `io.EOF`; found `%v`", err)
			}
		})
	}
}

func TestBuffer_ReadAtEnd(t *testing.T) {
	b := NewBuffer(make([]byte, 8))
	if err := b.ReadAt(b.Len(), nil); err != nil {
		t.Fatalf("ReadAt(): empty read at end: unexpected err: %v", err)
	}
}
