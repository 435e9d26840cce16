package filesystem

import (
	"sync"

	. "github.com/weberc2/blockfs/pkg/types"
)

// Synchronized serializes every operation on a `FileSystem` behind a single
// lock.
type Synchronized struct {
	lock sync.Mutex
	fs   *FileSystem
}

func NewSynchronized(fs *FileSystem) *Synchronized {
	return &Synchronized{fs: fs}
}

func (s *Synchronized) Mkfs(capacity int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Mkfs(capacity)
}

func (s *Synchronized) Create(name string) (Index, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Create(name)
}

func (s *Synchronized) Stat(name string) (Stat, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Stat(name)
}

func (s *Synchronized) Ls() map[string]Index {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Ls()
}

func (s *Synchronized) Entries() []Entry {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Entries()
}

func (s *Synchronized) Link(existing, name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Link(existing, name)
}

func (s *Synchronized) Unlink(name string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Unlink(name)
}

func (s *Synchronized) Open(name string) (Handle, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Open(name)
}

func (s *Synchronized) Close(handle Handle) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Close(handle)
}

func (s *Synchronized) Seek(handle Handle, offset Byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Seek(handle, offset)
}

func (s *Synchronized) Tell(handle Handle) (Byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Tell(handle)
}

func (s *Synchronized) Read(handle Handle, size Byte) ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Read(handle, size)
}

func (s *Synchronized) Write(handle Handle, data []byte) (Byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Write(handle, data)
}

func (s *Synchronized) Truncate(name string, size Byte) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Truncate(name, size)
}

func (s *Synchronized) Statfs() Statfs {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fs.Statfs()
}
