package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDemo(t *testing.T) {
	fs := newFileSystem(t)
	var out bytes.Buffer
	if err := Demo(fs, &out); err != nil {
		t.Fatalf("Demo(): unexpected err: %v", err)
	}

	for _, wanted := range []string{
		`example_file.txt: "Hello, World!"`,
		`files: example_file.txt=0 file1.txt=1 file2.txt=1`,
		`file2.txt: "Hello, my name is Vlad"`,
		`"size":22,"linksCount":2`,
		`"size":8,"linksCount":2`,
		`file2.txt: "Hello, m"`,
		`file1.txt: "Hello, m"`,
		`files: example_file.txt=0 file1.txt=1` + "\n",
	} {
		if !strings.Contains(out.String(), wanted) {
			t.Fatalf("Demo(): wanted output containing `%s`; found:\n%s", wanted, out.String())
		}
	}
}
