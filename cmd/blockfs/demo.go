package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/weberc2/blockfs/pkg/filesystem"
	. "github.com/weberc2/blockfs/pkg/types"
)

// Demo walks through create, write, read, link, stat, truncate and unlink,
// printing what each step observes to `w`.
func Demo(fs *filesystem.FileSystem, w io.Writer) error {
	p := printer{w: w}

	p.section("create example_file.txt, write, seek to 0, read 13 bytes, close")
	if _, err := fs.Create("example_file.txt"); err != nil {
		return err
	}
	handle, err := fs.Open("example_file.txt")
	if err != nil {
		return err
	}
	if _, err := fs.Write(handle, []byte("Hello, World!")); err != nil {
		return err
	}
	if err := fs.Seek(handle, 0); err != nil {
		return err
	}
	if err := p.read(fs, handle, 13, "example_file.txt"); err != nil {
		return err
	}
	if err := fs.Close(handle); err != nil {
		return err
	}

	p.section("reopen example_file.txt and read 13 bytes")
	if err := p.readFile(fs, "example_file.txt", 13); err != nil {
		return err
	}

	p.section("create file1.txt, link file2.txt to it, list files")
	if _, err := fs.Create("file1.txt"); err != nil {
		return err
	}
	if err := fs.Link("file1.txt", "file2.txt"); err != nil {
		return err
	}
	p.ls(fs)

	p.section("write through file1.txt, stat file2.txt, read through the link")
	if handle, err = fs.Open("file1.txt"); err != nil {
		return err
	}
	if _, err := fs.Write(handle, []byte("Hello, my name is Vlad")); err != nil {
		return err
	}
	if err := fs.Close(handle); err != nil {
		return err
	}
	if err := p.stat(fs, "file2.txt"); err != nil {
		return err
	}
	if err := p.readFile(fs, "file2.txt", 22); err != nil {
		return err
	}

	p.section("truncate file2.txt to 8 bytes, stat it, read both names")
	if handle, err = fs.Open("file2.txt"); err != nil {
		return err
	}
	if err := fs.Truncate("file2.txt", 8); err != nil {
		return err
	}
	if err := p.stat(fs, "file2.txt"); err != nil {
		return err
	}
	if err := fs.Seek(handle, 0); err != nil {
		return err
	}
	if err := p.read(fs, handle, 8, "file2.txt"); err != nil {
		return err
	}
	if err := fs.Close(handle); err != nil {
		return err
	}
	if err := p.readFile(fs, "file1.txt", 22); err != nil {
		return err
	}

	p.section("unlink file2.txt, list files")
	if err := fs.Unlink("file2.txt"); err != nil {
		return err
	}
	p.ls(fs)
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, v ...interface{}) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, v...)
	}
}

func (p *printer) section(title string) {
	p.printf("%s\n%s\n", strings.Repeat("-", 72), title)
}

func (p *printer) read(
	fs *filesystem.FileSystem,
	handle Handle,
	size Byte,
	label string,
) error {
	data, err := fs.Read(handle, size)
	if err != nil {
		return err
	}
	p.printf("%s: %q\n", label, data)
	return nil
}

func (p *printer) readFile(fs *filesystem.FileSystem, name string, size Byte) error {
	handle, err := fs.Open(name)
	if err != nil {
		return err
	}
	if err := p.read(fs, handle, size, name); err != nil {
		return err
	}
	return fs.Close(handle)
}

func (p *printer) stat(fs *filesystem.FileSystem, name string) error {
	stat, err := fs.Stat(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(&stat)
	if err != nil {
		return fmt.Errorf("marshaling stat: %w", err)
	}
	p.printf("stat %s: %s\n", name, data)
	return nil
}

func (p *printer) ls(fs *filesystem.FileSystem) {
	p.printf("files:")
	for _, entry := range fs.Entries() {
		p.printf(" %s=%d", entry.Name, entry.Index)
	}
	p.printf("\n")
}
