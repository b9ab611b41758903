package rollcrc

import (
	"errors"
	"io"
	"iter"
)

// Sum is a window checksum and the stream position of the window's first byte.
type Sum struct {
	Pos int64
	CRC uint32
}

// All drives r with the bytes of src and yields (position, checksum) for every
// full window. Positions are zero-based offsets of the window's first byte,
// counted from the Roller's first byte.
//
// The sequence is lazy and single-pass: it pulls from src only as the caller
// ranges over it, and advances r as it goes. With a zero window src is drained
// and nothing is yielded.
func (r *Roller) All(src iter.Seq[byte]) iter.Seq2[int64, uint32] {
	return func(yield func(int64, uint32) bool) {
		w := int64(r.ctx.windowSize)
		for c := range src {
			sum, ok := r.Push(c)
			if !ok {
				continue
			}
			if !yield(r.count-w, sum) {
				return
			}
		}
	}
}

// AllResults is All over a source that can fail.
//
// A source error is yielded in place as (Sum{}, err). The byte is not pushed
// and does not count toward positions. Iteration continues after an error
// until the source ends or the caller stops.
func (r *Roller) AllResults(src iter.Seq2[byte, error]) iter.Seq2[Sum, error] {
	return func(yield func(Sum, error) bool) {
		w := int64(r.ctx.windowSize)
		for c, err := range src {
			if err != nil {
				if !yield(Sum{}, err) {
					return
				}
				continue
			}
			sum, ok := r.Push(c)
			if !ok {
				continue
			}
			if !yield(Sum{Pos: r.count - w, CRC: sum}, nil) {
				return
			}
		}
	}
}

// Bytes returns the bytes of br as a sequence for AllResults.
// It stops at io.EOF. Any other read error is yielded once and ends the
// sequence.
func Bytes(br io.ByteReader) iter.Seq2[byte, error] {
	return func(yield func(byte, error) bool) {
		for {
			c, err := br.ReadByte()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(0, err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
	}
}
