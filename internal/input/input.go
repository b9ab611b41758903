// Package input opens tool inputs, decompressing them by file extension.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aalhour/rollcrc/internal/compression"
	"github.com/aalhour/rollcrc/internal/logging"
	"github.com/aalhour/rollcrc/internal/vfs"
)

// Stdin is the name that selects standard input.
const Stdin = "-"

// Opener opens named inputs.
type Opener struct {
	// FS resolves file names. Nil means the OS filesystem.
	FS vfs.FS

	// Stdin is read for the name "-". Nil means os.Stdin.
	Stdin io.Reader

	// Logger reports the codec chosen for each input at debug level.
	Logger logging.Logger
}

// Open returns a reader of the decoded contents of name.
// Files ending in .sz, .zz, .lz4 or .zst are decompressed on the fly;
// standard input is passed through as is.
func (o *Opener) Open(name string) (io.ReadCloser, error) {
	logger := logging.OrDefault(o.Logger)
	if name == Stdin {
		in := o.Stdin
		if in == nil {
			in = os.Stdin
		}
		return io.NopCloser(in), nil
	}

	fs := o.FS
	if fs == nil {
		fs = vfs.Default()
	}
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}

	t := compression.TypeFromPath(name)
	logger.Debugf(logging.NSInput+"%s: %s", name, t)
	r, err := compression.NewReader(t, f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &decodedFile{ReadCloser: r, file: f}, nil
}

// decodedFile closes the decoder and then the file under it.
type decodedFile struct {
	io.ReadCloser
	file io.Closer
}

func (d *decodedFile) Close() error {
	return errors.Join(d.ReadCloser.Close(), d.file.Close())
}
