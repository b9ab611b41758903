// Package vfs provides the read-side filesystem abstraction used by the tools.
//
// Inputs are opened through an FS so that tests can:
// - Use the real OS filesystem
// - Use an in-memory filesystem
// - Inject read failures at a chosen byte offset
package vfs

import (
	"io"
	"io/fs"
	"os"
)

// FS opens files for sequential reading.
type FS interface {
	// Open opens an existing file for reading.
	Open(name string) (SequentialFile, error)

	// Stat returns file info.
	Stat(name string) (os.FileInfo, error)
}

// SequentialFile is a file that can be read sequentially.
type SequentialFile interface {
	io.Reader
	io.Closer
}

// osFS implements FS using the OS filesystem.
type osFS struct{}

// Default returns the default OS filesystem.
func Default() FS {
	return &osFS{}
}

func (*osFS) Open(name string) (SequentialFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (*osFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// memFS serves files from an fs.FS such as testing/fstest.MapFS.
type memFS struct {
	fsys fs.FS
}

// FromFS adapts an io/fs filesystem to FS.
func FromFS(fsys fs.FS) FS {
	return &memFS{fsys: fsys}
}

func (m *memFS) Open(name string) (SequentialFile, error) {
	return m.fsys.Open(name)
}

func (m *memFS) Stat(name string) (os.FileInfo, error) {
	return fs.Stat(m.fsys, name)
}
