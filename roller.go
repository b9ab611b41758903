package rollcrc

import (
	"encoding/binary"
	"hash"

	"github.com/aalhour/rollcrc/internal/checksum"
	"github.com/aalhour/rollcrc/internal/ring"
)

// Roller is the per-stream rolling checksum state.
//
// Push bytes in stream order. Once WindowSize bytes have been pushed, each
// Push reports the CRC-32 of the most recent WindowSize bytes.
//
// Roller implements hash.Hash32 so it can be fed with io.Copy; Sum32 reports
// the checksum of the current window.
type Roller struct {
	ctx    *Context
	count  int64
	window *ring.Buffer

	// open is the unfinalized CRC of the window, valid when full is set.
	open uint32
	full bool
}

var _ hash.Hash32 = (*Roller)(nil)

// NewRoller returns a Roller for ctx with an empty window.
func NewRoller(ctx *Context) *Roller {
	return &Roller{
		ctx:    ctx,
		window: ring.New(ctx.windowSize),
	}
}

// Context returns the Context the Roller was built with.
func (r *Roller) Context() *Context { return r.ctx }

// Count returns the number of bytes pushed since creation or the last Reset.
func (r *Roller) Count() int64 { return r.count }

// Push adds c to the stream.
//
// It returns the checksum of the window ending at c, with ok set, once at
// least WindowSize bytes have been pushed. With a zero window ok is never set.
func (r *Roller) Push(c byte) (sum uint32, ok bool) {
	r.count++
	w := int64(r.ctx.windowSize)
	if w == 0 {
		return 0, false
	}

	old, evicted := r.window.Push(c)
	switch {
	case r.count < w:
		return 0, false
	case r.count == w:
		// The buffer has just filled with its cursor at zero, so the oldest-first
		// copy is the window in order.
		r.open = checksum.Finish(r.ctx.Checksum(r.window.AppendTo(nil)))
		r.full = true
	default:
		if !r.full || !evicted {
			panic("rollcrc: rolling state reached without an open checksum")
		}
		r.open = checksum.Update(r.open, r.ctx.base, c) ^ r.ctx.rolling[old]
	}
	return checksum.Finish(r.open), true
}

// Window appends the current window contents, oldest first, to dst.
// Before the window fills it holds only the bytes seen so far.
func (r *Roller) Window(dst []byte) []byte {
	return r.window.AppendTo(dst)
}

// Clone returns an independent Roller with the same state.
// The clone shares the Context but no mutable state.
func (r *Roller) Clone() *Roller {
	c := *r
	c.window = r.window.Clone()
	return &c
}

// Reset returns the Roller to its initial empty state.
func (r *Roller) Reset() {
	r.count = 0
	r.window.Reset()
	r.open = 0
	r.full = false
}

// Write pushes every byte of p. It never fails.
func (r *Roller) Write(p []byte) (int, error) {
	for _, c := range p {
		r.Push(c)
	}
	return len(p), nil
}

// Sum32 returns the checksum of the current window, or 0 if the window has
// not filled yet.
func (r *Roller) Sum32() uint32 {
	if !r.full {
		return 0
	}
	return checksum.Finish(r.open)
}

// Sum appends the big-endian Sum32 to b.
func (r *Roller) Sum(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, r.Sum32())
}

// Size returns the number of bytes Sum appends.
func (r *Roller) Size() int { return Size }

// BlockSize returns 1; the Roller accepts bytes one at a time.
func (r *Roller) BlockSize() int { return 1 }
