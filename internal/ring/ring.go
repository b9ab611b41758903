// Package ring provides a fixed-capacity circular byte buffer.
//
// A Buffer fills in order until it reaches capacity. After that, every Push
// overwrites the oldest byte and returns it. The cursor always names the slot
// of the oldest byte, which is the next one to be evicted.
//
// A Buffer is not safe for concurrent use.
package ring

// Buffer is a circular buffer of at most Cap() bytes.
type Buffer struct {
	buf    []byte
	size   int
	cursor int
}

// New returns an empty Buffer with capacity size. It panics if size < 0.
func New(size int) *Buffer {
	if size < 0 {
		panic("ring: negative capacity")
	}
	return &Buffer{buf: make([]byte, 0, size), size: size}
}

// Cap returns the capacity of the buffer.
func (b *Buffer) Cap() int { return b.size }

// Len returns the number of bytes held, which is at most Cap().
func (b *Buffer) Len() int { return len(b.buf) }

// Full reports whether the buffer holds Cap() bytes.
func (b *Buffer) Full() bool { return len(b.buf) == b.size }

// Cursor returns the slot index of the oldest byte.
// It stays zero while the buffer is filling.
func (b *Buffer) Cursor() int { return b.cursor }

// Push adds c as the newest byte.
// If the buffer was already full, the oldest byte is overwritten and returned
// with evicted set. A zero-capacity buffer evicts c itself.
func (b *Buffer) Push(c byte) (old byte, evicted bool) {
	if b.size == 0 {
		return c, true
	}
	if len(b.buf) < b.size {
		b.buf = append(b.buf, c)
		return 0, false
	}
	old = b.buf[b.cursor]
	b.buf[b.cursor] = c
	b.cursor++
	if b.cursor == b.size {
		b.cursor = 0
	}
	return old, true
}

// Oldest returns the byte that the next Push on a full buffer will evict.
// It panics if the buffer is empty.
func (b *Buffer) Oldest() byte {
	if len(b.buf) == 0 {
		panic("ring: Oldest on empty buffer")
	}
	return b.buf[b.cursor]
}

// At returns the i-th byte counting from the oldest.
// It panics if i is out of range.
func (b *Buffer) At(i int) byte {
	if i < 0 || i >= len(b.buf) {
		panic("ring: index out of range")
	}
	j := b.cursor + i
	if j >= len(b.buf) {
		j -= len(b.buf)
	}
	return b.buf[j]
}

// AppendTo appends the contents, oldest first, to dst and returns the extended slice.
func (b *Buffer) AppendTo(dst []byte) []byte {
	dst = append(dst, b.buf[b.cursor:]...)
	return append(dst, b.buf[:b.cursor]...)
}

// Clone returns an independent copy of b.
func (b *Buffer) Clone() *Buffer {
	buf := make([]byte, len(b.buf), b.size)
	copy(buf, b.buf)
	return &Buffer{buf: buf, size: b.size, cursor: b.cursor}
}

// Reset empties the buffer without releasing its storage.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.cursor = 0
}
