package vfs

import (
	"errors"
	"os"
	"sync"
)

// ErrInjectedReadError is returned when a read error is injected.
var ErrInjectedReadError = errors.New("vfs: injected read error")

// FaultInjectionFS wraps an FS and fails reads on chosen files.
type FaultInjectionFS struct {
	base FS

	mu sync.RWMutex

	// readErrors maps a path to the byte offset at which reads start failing.
	// An offset of zero fails Open itself.
	readErrors map[string]int64
}

// NewFaultInjectionFS creates a new fault-injecting filesystem wrapper.
func NewFaultInjectionFS(base FS) *FaultInjectionFS {
	return &FaultInjectionFS{
		base:       base,
		readErrors: make(map[string]int64),
	}
}

// InjectReadError makes reads of path fail once after bytes have been
// delivered. With after == 0 the Open call fails.
func (fs *FaultInjectionFS) InjectReadError(path string, after int64) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.readErrors[path] = after
}

// ClearErrors clears all error injection.
func (fs *FaultInjectionFS) ClearErrors() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	clear(fs.readErrors)
}

// Open opens an existing file for sequential reading.
func (fs *FaultInjectionFS) Open(name string) (SequentialFile, error) {
	fs.mu.RLock()
	after, inject := fs.readErrors[name]
	fs.mu.RUnlock()

	if inject && after <= 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjectedReadError}
	}
	f, err := fs.base.Open(name)
	if err != nil || !inject {
		return f, err
	}
	return &faultSequentialFile{SequentialFile: f, remaining: after}, nil
}

// Stat returns file info.
func (fs *FaultInjectionFS) Stat(name string) (os.FileInfo, error) {
	return fs.base.Stat(name)
}

// faultSequentialFile delivers remaining bytes and then fails every read.
type faultSequentialFile struct {
	SequentialFile
	remaining int64
}

func (f *faultSequentialFile) Read(p []byte) (int, error) {
	if f.remaining <= 0 {
		return 0, ErrInjectedReadError
	}
	if int64(len(p)) > f.remaining {
		p = p[:f.remaining]
	}
	n, err := f.SequentialFile.Read(p)
	f.remaining -= int64(n)
	return n, err
}
