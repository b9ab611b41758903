package ring

import (
	"bytes"
	"testing"
)

func TestBufferFill(t *testing.T) {
	b := New(4)
	if b.Cap() != 4 || b.Len() != 0 || b.Full() {
		t.Fatalf("new buffer: cap=%d len=%d full=%v", b.Cap(), b.Len(), b.Full())
	}

	for i, c := range []byte("abcd") {
		if _, evicted := b.Push(c); evicted {
			t.Fatalf("push %d evicted while filling", i)
		}
		if b.Len() != i+1 {
			t.Errorf("Len() = %d, want %d", b.Len(), i+1)
		}
		if b.Cursor() != 0 {
			t.Errorf("Cursor() = %d while filling, want 0", b.Cursor())
		}
	}
	if !b.Full() {
		t.Fatal("buffer not full after Cap() pushes")
	}
	if got := b.AppendTo(nil); !bytes.Equal(got, []byte("abcd")) {
		t.Errorf("AppendTo = %q, want %q", got, "abcd")
	}
}

func TestBufferEvictsOldest(t *testing.T) {
	b := New(3)
	for _, c := range []byte("abc") {
		b.Push(c)
	}

	tests := []struct {
		in      byte
		evicted byte
		cursor  int
		want    string
	}{
		{'d', 'a', 1, "bcd"},
		{'e', 'b', 2, "cde"},
		{'f', 'c', 0, "def"},
		{'g', 'd', 1, "efg"},
	}
	for _, tt := range tests {
		if b.Oldest() != tt.evicted {
			t.Errorf("Oldest() = %q before pushing %q, want %q", b.Oldest(), tt.in, tt.evicted)
		}
		old, evicted := b.Push(tt.in)
		if !evicted || old != tt.evicted {
			t.Errorf("Push(%q) = (%q, %v), want (%q, true)", tt.in, old, evicted, tt.evicted)
		}
		if b.Cursor() != tt.cursor {
			t.Errorf("after Push(%q): Cursor() = %d, want %d", tt.in, b.Cursor(), tt.cursor)
		}
		if got := string(b.AppendTo(nil)); got != tt.want {
			t.Errorf("after Push(%q): contents %q, want %q", tt.in, got, tt.want)
		}
		for i := range len(tt.want) {
			if b.At(i) != tt.want[i] {
				t.Errorf("At(%d) = %q, want %q", i, b.At(i), tt.want[i])
			}
		}
	}
}

func TestBufferZeroCapacity(t *testing.T) {
	b := New(0)
	for _, c := range []byte("xyz") {
		old, evicted := b.Push(c)
		if !evicted || old != c {
			t.Errorf("Push(%q) = (%q, %v), want the byte itself evicted", c, old, evicted)
		}
	}
	if b.Len() != 0 || !b.Full() {
		t.Errorf("zero buffer: len=%d full=%v", b.Len(), b.Full())
	}
	if got := b.AppendTo(nil); len(got) != 0 {
		t.Errorf("AppendTo = %q, want empty", got)
	}
}

func TestBufferCloneIsIndependent(t *testing.T) {
	a := New(2)
	a.Push('1')
	a.Push('2')
	c := a.Clone()

	a.Push('3')
	if got := string(c.AppendTo(nil)); got != "12" {
		t.Errorf("clone changed with original: %q", got)
	}
	c.Push('x')
	if got := string(a.AppendTo(nil)); got != "23" {
		t.Errorf("original changed with clone: %q", got)
	}
}

func TestBufferReset(t *testing.T) {
	b := New(2)
	for _, c := range []byte("abc") {
		b.Push(c)
	}
	b.Reset()
	if b.Len() != 0 || b.Cursor() != 0 {
		t.Fatalf("after Reset: len=%d cursor=%d", b.Len(), b.Cursor())
	}
	if _, evicted := b.Push('z'); evicted {
		t.Error("push after Reset evicted")
	}
}

func TestBufferPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"negative_capacity", func() { New(-1) }},
		{"oldest_empty", func() { New(2).Oldest() }},
		{"at_out_of_range", func() { New(2).At(0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func BenchmarkPush(b *testing.B) {
	buf := New(64)
	var c byte
	for b.Loop() {
		buf.Push(c)
		c++
	}
}
