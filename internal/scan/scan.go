// Package scan finds every occurrence of a byte string in a stream by
// comparing rolling window checksums against the checksum of the target.
package scan

import (
	"bytes"
	"errors"
	"iter"

	"github.com/aalhour/rollcrc"
	"github.com/aalhour/rollcrc/internal/logging"
)

// ErrEmptyTarget is returned when the search target has no bytes.
var ErrEmptyTarget = errors.New("scan: empty target")

// Options configures a Finder.
type Options struct {
	// Verify compares the window bytes against the target on every checksum
	// hit, so CRC collisions are never reported as matches.
	Verify bool

	// Logger receives collision reports at debug level. Nil means the
	// default logger.
	Logger logging.Logger
}

// DefaultOptions returns Options with verification enabled.
func DefaultOptions() Options {
	return Options{Verify: true}
}

// Finder searches streams for one target. It is immutable and safe for
// concurrent use; each call to Find keeps its own rolling state.
type Finder struct {
	ctx    *rollcrc.Context
	target []byte
	sum    uint32
	opts   Options
	logger logging.Logger
}

// NewFinder returns a Finder for target. The target is copied.
func NewFinder(target []byte, opts Options) (*Finder, error) {
	if len(target) == 0 {
		return nil, ErrEmptyTarget
	}
	ctx := rollcrc.SharedContext(len(target))
	return &Finder{
		ctx:    ctx,
		target: bytes.Clone(target),
		sum:    ctx.Checksum(target),
		opts:   opts,
		logger: logging.OrDefault(opts.Logger),
	}, nil
}

// Target returns the bytes being searched for.
func (f *Finder) Target() []byte { return f.target }

// Checksum returns the CRC-32 of the target.
func (f *Finder) Checksum() uint32 { return f.sum }

// Find yields the zero-based position of every window of src whose checksum
// equals the target's. Matches may overlap.
//
// A source error is yielded as (-1, err) and the search goes on with the
// next byte, so a caller that wants to stop on errors must break.
func (f *Finder) Find(src iter.Seq2[byte, error]) iter.Seq2[int64, error] {
	return func(yield func(int64, error) bool) {
		roller := rollcrc.NewRoller(f.ctx)
		var window []byte
		var collisions int
		defer func() {
			if collisions > 0 {
				f.logger.Debugf(logging.NSScan+"%d checksum collisions rejected", collisions)
			}
		}()

		for s, err := range roller.AllResults(src) {
			if err != nil {
				if !yield(-1, err) {
					return
				}
				continue
			}
			if s.CRC != f.sum {
				continue
			}
			if f.opts.Verify {
				window = roller.Window(window[:0])
				if !bytes.Equal(window, f.target) {
					collisions++
					f.logger.Debugf(logging.NSScan+"collision at %d: crc %08x", s.Pos, s.CRC)
					continue
				}
			}
			if !yield(s.Pos, nil) {
				return
			}
		}
	}
}

// FindAll collects every match position of target in data.
func FindAll(target, data []byte, opts Options) ([]int64, error) {
	f, err := NewFinder(target, opts)
	if err != nil {
		return nil, err
	}
	var out []int64
	for pos, err := range f.Find(rollcrc.Bytes(bytes.NewReader(data))) {
		if err != nil {
			return out, err
		}
		out = append(out, pos)
	}
	return out, nil
}
