package filesystem

import (
	"errors"
	"testing"

	. "github.com/weberc2/blockfs/pkg/types"
)

func TestFileSystem_OpenLimit(t *testing.T) {
	dev := newMemory(t, 4, 4)
	fs, err := New(&Params{Device: dev, MaxOpenFiles: 3})
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}
	mustCreate(t, fs, "f")
	for wanted := Handle(0); wanted < 3; wanted++ {
		if found := mustOpen(t, fs, "f"); found != wanted {
			t.Fatalf("Open(): wanted `%d`; found `%d`", wanted, found)
		}
	}
	if _, err := fs.Open("f"); !errors.Is(err, TooManyOpenFilesErr) {
		t.Fatalf("Open(): wanted `%v`; found `%v`", TooManyOpenFilesErr, err)
	}

	if err := fs.Close(1); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
	if found := mustOpen(t, fs, "f"); found != 1 {
		t.Fatalf("Open(): wanted `1`; found `%d`", found)
	}
}

func TestFileSystem_DefaultOpenLimit(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 4)
	mustCreate(t, fs, "f")
	for i := 0; i < DefaultMaxOpenFiles; i++ {
		mustOpen(t, fs, "f")
	}
	if _, err := fs.Open("f"); !errors.Is(err, TooManyOpenFilesErr) {
		t.Fatalf("Open(): wanted `%v`; found `%v`", TooManyOpenFilesErr, err)
	}
}

func TestFileSystem_OpenNotFound(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 4)
	if _, err := fs.Open("missing"); !errors.Is(err, NotFoundErr) {
		t.Fatalf("Open(): wanted `%v`; found `%v`", NotFoundErr, err)
	}
}

func TestFileSystem_NotOpen(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 4)
	mustCreate(t, fs, "f")
	closed := mustOpen(t, fs, "f")
	if err := fs.Close(closed); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}

	for _, handle := range []Handle{closed, HandleNil, DefaultMaxOpenFiles} {
		if err := fs.Close(handle); !errors.Is(err, NotOpenErr) {
			t.Fatalf("Close(%d): wanted `%v`; found `%v`", handle, NotOpenErr, err)
		}
		if err := fs.Seek(handle, 0); !errors.Is(err, NotOpenErr) {
			t.Fatalf("Seek(%d): wanted `%v`; found `%v`", handle, NotOpenErr, err)
		}
		if _, err := fs.Tell(handle); !errors.Is(err, NotOpenErr) {
			t.Fatalf("Tell(%d): wanted `%v`; found `%v`", handle, NotOpenErr, err)
		}
		if _, err := fs.Read(handle, 1); !errors.Is(err, NotOpenErr) {
			t.Fatalf("Read(%d): wanted `%v`; found `%v`", handle, NotOpenErr, err)
		}
		if _, err := fs.Write(handle, []byte("x")); !errors.Is(err, NotOpenErr) {
			t.Fatalf("Write(%d): wanted `%v`; found `%v`", handle, NotOpenErr, err)
		}
	}
}

func TestFileSystem_IndependentCursors(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 4)
	mustCreate(t, fs, "f")
	writer := mustOpen(t, fs, "f")
	mustWrite(t, fs, writer, []byte("abcdef"))

	reader := mustOpen(t, fs, "f")
	if found := mustRead(t, fs, reader, 2); string(found) != "ab" {
		t.Fatalf("Read(): wanted `ab`; found `%s`", found)
	}
	if found, _ := fs.Tell(writer); found != 6 {
		t.Fatalf("Tell(writer): wanted `6`; found `%d`", found)
	}
	if found, _ := fs.Tell(reader); found != 2 {
		t.Fatalf("Tell(reader): wanted `2`; found `%d`", found)
	}

	// closing resets the cursor of the slot
	if err := fs.Close(reader); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
	reader = mustOpen(t, fs, "f")
	if found, _ := fs.Tell(reader); found != 0 {
		t.Fatalf("Tell(reader): wanted `0`; found `%d`", found)
	}
}
