// Package chunker splits byte streams into content-defined chunks.
//
// A boundary is placed after a byte whenever the rolling CRC-32 of the
// window ending at that byte has all mask bits set, subject to minimum and
// maximum chunk sizes. Because boundaries depend only on nearby content, an
// insertion or deletion in the stream disturbs only the chunks around it.
package chunker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math/bits"

	"github.com/aalhour/rollcrc"
	"github.com/aalhour/rollcrc/internal/checksum"
	"github.com/aalhour/rollcrc/internal/logging"
)

// ErrInvalidOptions is returned by Validate and New for unusable options.
var ErrInvalidOptions = errors.New("chunker: invalid options")

// Options configures chunk boundaries.
type Options struct {
	// Window is the rolling window size in bytes.
	Window int

	// MinSize is the smallest chunk emitted, except for the final chunk.
	MinSize int

	// AvgSize is the expected distance between content boundaries beyond
	// MinSize. Must be a power of two.
	AvgSize int

	// MaxSize forces a boundary when no content boundary has been found.
	MaxSize int

	// Logger receives per-stream summaries at debug level.
	Logger logging.Logger
}

// DefaultOptions returns options producing chunks of roughly 8 KiB.
func DefaultOptions() Options {
	return Options{
		Window:  64,
		MinSize: 2 << 10,
		AvgSize: 8 << 10,
		MaxSize: 64 << 10,
	}
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	switch {
	case o.Window < 1:
		return fmt.Errorf("%w: window %d must be positive", ErrInvalidOptions, o.Window)
	case o.MinSize < 1:
		return fmt.Errorf("%w: min size %d must be positive", ErrInvalidOptions, o.MinSize)
	case o.AvgSize < 1 || bits.OnesCount(uint(o.AvgSize)) != 1:
		return fmt.Errorf("%w: avg size %d must be a power of two", ErrInvalidOptions, o.AvgSize)
	case uint64(o.AvgSize) > 1<<32:
		return fmt.Errorf("%w: avg size %d exceeds the checksum width", ErrInvalidOptions, o.AvgSize)
	case o.MinSize > o.AvgSize:
		return fmt.Errorf("%w: min size %d above avg size %d", ErrInvalidOptions, o.MinSize, o.AvgSize)
	case o.AvgSize > o.MaxSize:
		return fmt.Errorf("%w: avg size %d above max size %d", ErrInvalidOptions, o.AvgSize, o.MaxSize)
	}
	return nil
}

// Chunk is one piece of a split stream.
type Chunk struct {
	// Offset is the position of the chunk's first byte in the stream.
	Offset int64

	// Data holds the chunk bytes. It is owned by the caller.
	Data []byte

	// Weak is the CRC-32 of Data.
	Weak uint32

	// Strong is the XXH3-128 fingerprint of Data.
	Strong checksum.Fingerprint
}

// Chunker splits streams with fixed options. It is safe for concurrent use.
type Chunker struct {
	ctx    *rollcrc.Context
	opts   Options
	mask   uint32
	logger logging.Logger
}

// New returns a Chunker for opts.
func New(opts Options) (*Chunker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{
		ctx:    rollcrc.SharedContext(opts.Window),
		opts:   opts,
		mask:   uint32(opts.AvgSize - 1),
		logger: logging.OrDefault(opts.Logger),
	}, nil
}

// Options returns the options the Chunker was built with.
func (ch *Chunker) Options() Options { return ch.opts }

// IsBoundary reports whether sum marks a content boundary.
func (ch *Chunker) IsBoundary(sum uint32) bool {
	return sum&ch.mask == ch.mask
}

// Split reads r to the end and yields its chunks in order.
//
// The rolling state runs across chunk boundaries, so a boundary depends only
// on the window before it and the distance from the previous boundary. A read
// error is yielded once with a zero Chunk and ends the sequence; bytes read
// before the error are not emitted.
func (ch *Chunker) Split(r io.Reader) iter.Seq2[Chunk, error] {
	return func(yield func(Chunk, error) bool) {
		br, ok := r.(io.ByteReader)
		if !ok {
			br = bufio.NewReader(r)
		}
		tab := checksum.IEEETable()
		roller := rollcrc.NewRoller(ch.ctx)

		var (
			offset int64
			chunks int
			cur    = make([]byte, 0, ch.opts.AvgSize)
			weak   = uint32(checksum.InitCRC)
		)
		emit := func() bool {
			c := Chunk{
				Offset: offset,
				Data:   cur,
				Weak:   checksum.Finish(weak),
				Strong: checksum.NewFingerprint(cur),
			}
			offset += int64(len(cur))
			chunks++
			cur = make([]byte, 0, ch.opts.AvgSize)
			weak = checksum.InitCRC
			return yield(c, nil)
		}

		for c, err := range rollcrc.Bytes(br) {
			if err != nil {
				ch.logger.Warnf(logging.NSChunk+"read failed after %d bytes: %v", offset+int64(len(cur)), err)
				yield(Chunk{}, err)
				return
			}
			cur = append(cur, c)
			weak = checksum.Update(weak, tab, c)
			sum, full := roller.Push(c)

			n := len(cur)
			if n >= ch.opts.MaxSize || (n >= ch.opts.MinSize && full && ch.IsBoundary(sum)) {
				if !emit() {
					return
				}
			}
		}
		if len(cur) > 0 && !emit() {
			return
		}
		ch.logger.Debugf(logging.NSChunk+"%d chunks, %d bytes", chunks, offset)
	}
}
