package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/weberc2/blockfs/pkg/filesystem"
	. "github.com/weberc2/blockfs/pkg/types"
	"gopkg.in/yaml.v2"
)

// Step is one operation of a script. Handles are referred to by the
// variable name given in the `as` field of the `open` step that created
// them.
type Step struct {
	Op       string `yaml:"op"`
	Name     string `yaml:"name,omitempty"`
	To       string `yaml:"to,omitempty"`
	As       string `yaml:"as,omitempty"`
	Handle   string `yaml:"handle,omitempty"`
	Data     string `yaml:"data,omitempty"`
	Offset   Byte   `yaml:"offset,omitempty"`
	Size     Byte   `yaml:"size,omitempty"`
	Capacity int    `yaml:"capacity,omitempty"`

	// Expect, when set on a `read`, fails the script if the bytes read
	// differ.
	Expect *string `yaml:"expect,omitempty"`
}

type Script []Step

func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (Script, error) {
	var script Script
	if err := yaml.UnmarshalStrict(data, &script); err != nil {
		return nil, fmt.Errorf("unmarshaling script: %w", err)
	}
	return script, nil
}

// Run executes each step in order, printing one line per step to `w`, and
// stops at the first failure.
func (script Script) Run(fs *filesystem.FileSystem, w io.Writer) error {
	r := runner{fs: fs, handles: map[string]Handle{}}
	for i := range script {
		result, err := r.step(&script[i])
		if err != nil {
			return fmt.Errorf("step `%d` (%s): %w", i, script[i].Op, err)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", script[i].Op, result); err != nil {
			return fmt.Errorf("step `%d` (%s): %w", i, script[i].Op, err)
		}
	}
	return nil
}

type runner struct {
	fs      *filesystem.FileSystem
	handles map[string]Handle
}

const (
	UnknownOpErr      ConstError = "unknown operation"
	UnknownHandleErr  ConstError = "unknown handle variable"
	UnexpectedReadErr ConstError = "unexpected read result"
)

func (r *runner) step(s *Step) (string, error) {
	switch s.Op {
	case "mkfs":
		return "ok", r.fs.Mkfs(s.Capacity)
	case "create":
		index, err := r.fs.Create(s.Name)
		return fmt.Sprint(index), err
	case "link":
		return "ok", r.fs.Link(s.Name, s.To)
	case "unlink":
		return "ok", r.fs.Unlink(s.Name)
	case "truncate":
		return "ok", r.fs.Truncate(s.Name, s.Size)
	case "stat":
		stat, err := r.fs.Stat(s.Name)
		if err != nil {
			return "", err
		}
		return marshal(&stat)
	case "ls":
		return marshal(r.fs.Entries())
	case "statfs":
		stat := r.fs.Statfs()
		return marshal(&stat)
	case "open":
		handle, err := r.fs.Open(s.Name)
		if err != nil {
			return "", err
		}
		if s.As != "" {
			r.handles[s.As] = handle
		}
		return fmt.Sprint(handle), nil
	case "close":
		handle, err := r.handle(s.Handle)
		if err != nil {
			return "", err
		}
		if err := r.fs.Close(handle); err != nil {
			return "", err
		}
		delete(r.handles, s.Handle)
		return "ok", nil
	case "seek":
		handle, err := r.handle(s.Handle)
		if err != nil {
			return "", err
		}
		return "ok", r.fs.Seek(handle, s.Offset)
	case "tell":
		handle, err := r.handle(s.Handle)
		if err != nil {
			return "", err
		}
		cursor, err := r.fs.Tell(handle)
		return fmt.Sprint(cursor), err
	case "write":
		handle, err := r.handle(s.Handle)
		if err != nil {
			return "", err
		}
		n, err := r.fs.Write(handle, []byte(s.Data))
		return fmt.Sprint(n), err
	case "read":
		handle, err := r.handle(s.Handle)
		if err != nil {
			return "", err
		}
		data, err := r.fs.Read(handle, s.Size)
		if err != nil {
			return "", err
		}
		if s.Expect != nil && *s.Expect != string(data) {
			return "", fmt.Errorf(
				"wanted `%q`; found `%q`: %w",
				*s.Expect,
				data,
				UnexpectedReadErr,
			)
		}
		return fmt.Sprintf("%q", data), nil
	default:
		return "", fmt.Errorf("`%s`: %w", s.Op, UnknownOpErr)
	}
}

func (r *runner) handle(variable string) (Handle, error) {
	handle, ok := r.handles[variable]
	if !ok {
		return HandleNil, fmt.Errorf("`%s`: %w", variable, UnknownHandleErr)
	}
	return handle, nil
}

func marshal(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	return string(data), nil
}
