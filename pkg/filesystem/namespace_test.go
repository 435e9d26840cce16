package filesystem

import (
	"errors"
	"strings"
	"testing"

	. "github.com/weberc2/blockfs/pkg/types"
)

func TestFileSystem_Create(t *testing.T) {
	for _, testCase := range []struct {
		name      string
		existing  []string
		create    string
		wanted    Index
		wantedErr error
	}{
		{
			name:   "first slot",
			create: "a",
			wanted: 0,
		},
		{
			name:     "first fit",
			existing: []string{"a", "b"},
			create:   "c",
			wanted:   2,
		},
		{
			name:      "exists",
			existing:  []string{"a"},
			create:    "a",
			wanted:    IndexNil,
			wantedErr: ExistsErr,
		},
		{
			name:      "empty name",
			create:    "",
			wanted:    IndexNil,
			wantedErr: InvalidNameErr,
		},
		{
			name:      "name too long",
			create:    strings.Repeat("x", DefaultMaxNameLength+1),
			wanted:    IndexNil,
			wantedErr: InvalidNameErr,
		},
		{
			name:   "longest name",
			create: strings.Repeat("x", DefaultMaxNameLength),
			wanted: 0,
		},
		{
			name:   "multibyte name counts characters",
			create: strings.Repeat("é", DefaultMaxNameLength),
			wanted: 0,
		},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			fs, _ := newFileSystem(t, 4, 4)
			for _, name := range testCase.existing {
				mustCreate(t, fs, name)
			}
			found, err := fs.Create(testCase.create)
			if !errors.Is(err, testCase.wantedErr) {
				t.Fatalf(
					"Create(): wanted err `%v`; found `%v`",
					testCase.wantedErr,
					err,
				)
			}
			if found != testCase.wanted {
				t.Fatalf(
					"Create(): wanted `%d`; found `%d`",
					testCase.wanted,
					found,
				)
			}
		})
	}
}

func TestFileSystem_CreateReusesReclaimedSlot(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 4)
	mustCreate(t, fs, "a")
	mustCreate(t, fs, "b")
	if err := fs.Unlink("a"); err != nil {
		t.Fatalf("Unlink(): unexpected err: %v", err)
	}
	if found := mustCreate(t, fs, "c"); found != 0 {
		t.Fatalf("Create(): wanted `0`; found `%d`", found)
	}
}

func TestFileSystem_DescriptorCapacity(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 4)
	if err := fs.Mkfs(3); err != nil {
		t.Fatalf("Mkfs(): unexpected err: %v", err)
	}
	for _, name := range []string{"a", "b", "c"} {
		mustCreate(t, fs, name)
	}
	if _, err := fs.Create("d"); !errors.Is(err, OutOfDescriptorsErr) {
		t.Fatalf("Create(): wanted `%v`; found `%v`", OutOfDescriptorsErr, err)
	}

	// links don't consume descriptors
	if err := fs.Link("a", "d"); err != nil {
		t.Fatalf("Link(): unexpected err: %v", err)
	}
}

func TestFileSystem_LinkAliasing(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 8)
	mustCreate(t, fs, "a")
	if err := fs.Link("a", "b"); err != nil {
		t.Fatalf("Link(): unexpected err: %v", err)
	}

	handle := mustOpen(t, fs, "a")
	mustWrite(t, fs, handle, []byte("shared contents"))

	if found := readFile(t, fs, "b"); string(found) != "shared contents" {
		t.Fatalf("file `b`: wanted `shared contents`; found `%s`", found)
	}
	a, b := mustStat(t, fs, "a"), mustStat(t, fs, "b")
	if a.Size != b.Size || a.Index != b.Index {
		t.Fatalf(
			"Stat(): wanted identical; found `%+v` and `%+v`",
			a,
			b,
		)
	}
	if a.LinksCount != 2 {
		t.Fatalf("Stat().LinksCount: wanted `2`; found `%d`", a.LinksCount)
	}
}

func TestFileSystem_LinkErrors(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 8)
	mustCreate(t, fs, "a")
	mustCreate(t, fs, "b")

	if err := fs.Link("missing", "c"); !errors.Is(err, NotFoundErr) {
		t.Fatalf("Link(): wanted `%v`; found `%v`", NotFoundErr, err)
	}
	if err := fs.Link("a", "b"); !errors.Is(err, ExistsErr) {
		t.Fatalf("Link(): wanted `%v`; found `%v`", ExistsErr, err)
	}
	if err := fs.Link(
		"a",
		strings.Repeat("x", DefaultMaxNameLength+1),
	); !errors.Is(err, InvalidNameErr) {
		t.Fatalf("Link(): wanted `%v`; found `%v`", InvalidNameErr, err)
	}
	if found := mustStat(t, fs, "a").LinksCount; found != 1 {
		t.Fatalf("Stat().LinksCount: wanted `1`; found `%d`", found)
	}
}

func TestFileSystem_ReferenceCounting(t *testing.T) {
	fs, dev := newFileSystem(t, 4, 8)
	mustCreate(t, fs, "x")
	if found := mustStat(t, fs, "x").LinksCount; found != 1 {
		t.Fatalf("Stat().LinksCount: wanted `1`; found `%d`", found)
	}

	handle := mustOpen(t, fs, "x")
	mustWrite(t, fs, handle, []byte("twelve bytes"))
	if err := fs.Close(handle); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
	if found := dev.Stat().FreeBlocks; found != 5 {
		t.Fatalf("Stat().FreeBlocks: wanted `5`; found `%d`", found)
	}

	if err := fs.Link("x", "y"); err != nil {
		t.Fatalf("Link(): unexpected err: %v", err)
	}
	if found := mustStat(t, fs, "y").LinksCount; found != 2 {
		t.Fatalf("Stat().LinksCount: wanted `2`; found `%d`", found)
	}

	if err := fs.Unlink("x"); err != nil {
		t.Fatalf("Unlink(): unexpected err: %v", err)
	}
	if found := mustStat(t, fs, "y").LinksCount; found != 1 {
		t.Fatalf("Stat().LinksCount: wanted `1`; found `%d`", found)
	}
	if found := readFile(t, fs, "y"); string(found) != "twelve bytes" {
		t.Fatalf("file `y`: wanted `twelve bytes`; found `%s`", found)
	}
	if found := dev.Stat().FreeBlocks; found != 5 {
		t.Fatalf("Stat().FreeBlocks: wanted `5`; found `%d`", found)
	}

	if err := fs.Unlink("y"); err != nil {
		t.Fatalf("Unlink(): unexpected err: %v", err)
	}
	if found := dev.Stat().FreeBlocks; found != 8 {
		t.Fatalf("Stat().FreeBlocks: wanted `8`; found `%d`", found)
	}
	if _, err := fs.Stat("y"); !errors.Is(err, NotFoundErr) {
		t.Fatalf("Stat(): wanted `%v`; found `%v`", NotFoundErr, err)
	}
	if found := fs.Statfs().UsedDescriptors; found != 0 {
		t.Fatalf("Statfs().UsedDescriptors: wanted `0`; found `%d`", found)
	}
}

func TestFileSystem_OrphanSurvivesUnlinkWhileOpen(t *testing.T) {
	fs, dev := newFileSystem(t, 4, 8)
	mustCreate(t, fs, "x")
	handle := mustOpen(t, fs, "x")
	mustWrite(t, fs, handle, []byte("still here"))

	// a second, unrelated handle must not mask the reference check
	mustCreate(t, fs, "other")
	mustOpen(t, fs, "other")

	if err := fs.Unlink("x"); err != nil {
		t.Fatalf("Unlink(): unexpected err: %v", err)
	}
	if _, err := fs.Stat("x"); !errors.Is(err, NotFoundErr) {
		t.Fatalf("Stat(): wanted `%v`; found `%v`", NotFoundErr, err)
	}

	mustSeek(t, fs, handle, 0)
	if found := mustRead(t, fs, handle, 10); string(found) != "still here" {
		t.Fatalf("Read(): wanted `still here`; found `%s`", found)
	}
	mustWrite(t, fs, handle, []byte("!"))

	stat := fs.Statfs()
	if stat.OrphanedDescriptors != 1 || stat.UsedDescriptors != 2 {
		t.Fatalf(
			"Statfs(): wanted `1` orphan of `2` used; found `%d` of `%d`",
			stat.OrphanedDescriptors,
			stat.UsedDescriptors,
		)
	}
	if found := dev.Stat().FreeBlocks; found != 5 {
		t.Fatalf("Stat().FreeBlocks: wanted `5`; found `%d`", found)
	}

	// closing does not reclaim
	if err := fs.Close(handle); err != nil {
		t.Fatalf("Close(): unexpected err: %v", err)
	}
	if found := fs.Statfs().OrphanedDescriptors; found != 1 {
		t.Fatalf("Statfs().OrphanedDescriptors: wanted `1`; found `%d`", found)
	}
}

func TestFileSystem_UnlinkNotFound(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 8)
	if err := fs.Unlink("missing"); !errors.Is(err, NotFoundErr) {
		t.Fatalf("Unlink(): wanted `%v`; found `%v`", NotFoundErr, err)
	}
}

func TestFileSystem_LsAndEntries(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 8)
	mustCreate(t, fs, "c")
	mustCreate(t, fs, "a")
	if err := fs.Link("a", "b"); err != nil {
		t.Fatalf("Link(): unexpected err: %v", err)
	}

	ls := fs.Ls()
	wanted := map[string]Index{"c": 0, "a": 1, "b": 1}
	if len(ls) != len(wanted) {
		t.Fatalf("Ls(): wanted `%v`; found `%v`", wanted, ls)
	}
	for name, index := range wanted {
		if ls[name] != index {
			t.Fatalf("Ls()[`%s`]: wanted `%d`; found `%d`", name, index, ls[name])
		}
	}

	// mutating the copy must not affect the namespace
	delete(ls, "a")
	if _, err := fs.Stat("a"); err != nil {
		t.Fatalf("Stat(): unexpected err: %v", err)
	}

	entries := fs.Entries()
	for i, name := range []string{"a", "b", "c"} {
		if entries[i].Name != name || entries[i].Index != wanted[name] {
			t.Fatalf(
				"Entries()[%d]: wanted `%s:%d`; found `%s:%d`",
				i,
				name,
				wanted[name],
				entries[i].Name,
				entries[i].Index,
			)
		}
	}
}

func TestFileSystem_StatIsSnapshot(t *testing.T) {
	fs, _ := newFileSystem(t, 4, 8)
	mustCreate(t, fs, "f")
	handle := mustOpen(t, fs, "f")
	mustWrite(t, fs, handle, []byte("abcdefgh"))

	stat := mustStat(t, fs, "f")
	if stat.FileType != FileTypeRegular {
		t.Fatalf("Stat().FileType: wanted `%s`; found `%s`", FileTypeRegular, stat.FileType)
	}
	if stat.OpenHandles != 1 {
		t.Fatalf("Stat().OpenHandles: wanted `1`; found `%d`", stat.OpenHandles)
	}
	stat.BlockMap[0] = BlockNil
	if found := mustStat(t, fs, "f").BlockMap[0]; found == BlockNil {
		t.Fatal("Stat().BlockMap: wanted a copy; found shared memory")
	}
}
