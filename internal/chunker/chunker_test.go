package chunker

import (
	"bytes"
	"errors"
	"hash/crc32"
	"testing"
	"testing/iotest"

	"github.com/aalhour/rollcrc/internal/checksum"
	"github.com/aalhour/rollcrc/internal/logging"
)

// testOptions gives small chunks so short inputs produce many boundaries.
func testOptions() Options {
	return Options{Window: 16, MinSize: 64, AvgSize: 256, MaxSize: 1024, Logger: logging.Discard}
}

// pseudoRandom returns n xorshift64 bytes, reproducible across platforms.
func pseudoRandom(n int, seed uint64) []byte {
	out := make([]byte, n)
	x := seed
	for i := range out {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
		out[i] = byte(x >> 32)
	}
	return out
}

func split(t *testing.T, ch *Chunker, data []byte) []Chunk {
	t.Helper()
	var out []Chunk
	for c, err := range ch.Split(bytes.NewReader(data)) {
		if err != nil {
			t.Fatalf("Split: %v", err)
		}
		out = append(out, c)
	}
	return out
}

func mustNew(t *testing.T, opts Options) *Chunker {
	t.Helper()
	ch, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ch
}

func TestValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("DefaultOptions invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero_window", func(o *Options) { o.Window = 0 }},
		{"zero_min", func(o *Options) { o.MinSize = 0 }},
		{"avg_not_power_of_two", func(o *Options) { o.AvgSize = 3000 }},
		{"zero_avg", func(o *Options) { o.AvgSize = 0 }},
		{"min_above_avg", func(o *Options) { o.MinSize = o.AvgSize * 2 }},
		{"avg_above_max", func(o *Options) { o.MaxSize = o.AvgSize / 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			if err := opts.Validate(); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("Validate() = %v, want ErrInvalidOptions", err)
			}
			if _, err := New(opts); !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("New() = %v, want ErrInvalidOptions", err)
			}
		})
	}
}

func TestSplitReassembles(t *testing.T) {
	data := pseudoRandom(64<<10, 0x9E3779B97F4A7C15)
	chunks := split(t, mustNew(t, testOptions()), data)

	var joined []byte
	var offset int64
	for i, c := range chunks {
		if c.Offset != offset {
			t.Fatalf("chunk %d: offset %d, want %d", i, c.Offset, offset)
		}
		offset += int64(len(c.Data))
		joined = append(joined, c.Data...)
	}
	if !bytes.Equal(joined, data) {
		t.Fatal("chunks do not reassemble the input")
	}
}

func TestSplitSizeBounds(t *testing.T) {
	opts := testOptions()
	data := pseudoRandom(64<<10, 0x9E3779B97F4A7C15)
	chunks := split(t, mustNew(t, opts), data)

	for i, c := range chunks {
		n := len(c.Data)
		if n > opts.MaxSize {
			t.Errorf("chunk %d: %d bytes exceeds max %d", i, n, opts.MaxSize)
		}
		if i < len(chunks)-1 && n < opts.MinSize {
			t.Errorf("chunk %d: %d bytes below min %d", i, n, opts.MinSize)
		}
	}
}

func TestSplitHashes(t *testing.T) {
	data := pseudoRandom(16<<10, 1)
	for i, c := range split(t, mustNew(t, testOptions()), data) {
		if want := crc32.ChecksumIEEE(c.Data); c.Weak != want {
			t.Errorf("chunk %d: weak %08x, want %08x", i, c.Weak, want)
		}
		if want := checksum.NewFingerprint(c.Data); c.Strong != want {
			t.Errorf("chunk %d: strong %s, want %s", i, c.Strong, want)
		}
	}
}

// TestGoldenBoundaries pins the boundaries of a fixed input.
func TestGoldenBoundaries(t *testing.T) {
	data := pseudoRandom(64<<10, 0x9E3779B97F4A7C15)
	if got := data[:4]; !bytes.Equal(got, []byte{0xae, 0xb9, 0x91, 0x0c}) {
		t.Fatalf("generator drifted: % x", got)
	}

	chunks := split(t, mustNew(t, testOptions()), data)
	if len(chunks) != 208 {
		t.Errorf("got %d chunks, want 208", len(chunks))
	}
	wantOffsets := []int64{0, 425, 774, 898, 1878, 2425}
	for i, want := range wantOffsets {
		if i >= len(chunks) {
			break
		}
		if chunks[i].Offset != want {
			t.Errorf("chunk %d offset = %d, want %d", i, chunks[i].Offset, want)
		}
	}
	if len(chunks) > 0 && chunks[0].Weak != 0x5f2232ba {
		t.Errorf("first chunk weak = %08x, want 5f2232ba", chunks[0].Weak)
	}
}

func TestSplitResyncsAfterInsert(t *testing.T) {
	ch := mustNew(t, testOptions())
	data := pseudoRandom(64<<10, 0x9E3779B97F4A7C15)
	edited := append(append(bytes.Clone(data[:1000]), "INSERTED"...), data[1000:]...)

	seen := make(map[checksum.Fingerprint]bool)
	for _, c := range split(t, ch, data) {
		seen[c.Strong] = true
	}
	var changed int
	for _, c := range split(t, ch, edited) {
		if !seen[c.Strong] {
			changed++
		}
	}
	if changed != 1 {
		t.Errorf("%d chunks changed after a small insert, want 1", changed)
	}
}

func TestSplitNoBoundaryFallsBackToMax(t *testing.T) {
	chunks := split(t, mustNew(t, testOptions()), make([]byte, 5000))
	want := []int{1024, 1024, 1024, 1024, 904}
	if len(chunks) != len(want) {
		t.Fatalf("got %d chunks, want %d", len(chunks), len(want))
	}
	for i, c := range chunks {
		if len(c.Data) != want[i] {
			t.Errorf("chunk %d: %d bytes, want %d", i, len(c.Data), want[i])
		}
	}
}

func TestSplitEmptyAndShort(t *testing.T) {
	ch := mustNew(t, testOptions())
	if chunks := split(t, ch, nil); len(chunks) != 0 {
		t.Errorf("empty input gave %d chunks", len(chunks))
	}
	chunks := split(t, ch, []byte("tiny"))
	if len(chunks) != 1 || string(chunks[0].Data) != "tiny" {
		t.Errorf("short input gave %+v", chunks)
	}
}

func TestSplitChunksAreIndependent(t *testing.T) {
	chunks := split(t, mustNew(t, testOptions()), pseudoRandom(8<<10, 5))
	if len(chunks) < 2 {
		t.Fatalf("need at least 2 chunks, got %d", len(chunks))
	}
	first := bytes.Clone(chunks[0].Data)
	chunks[1].Data[0] ^= 0xff
	if !bytes.Equal(chunks[0].Data, first) {
		t.Error("chunks share backing storage")
	}
}

func TestSplitReadError(t *testing.T) {
	ch := mustNew(t, testOptions())
	r := iotest.TimeoutReader(bytes.NewReader(pseudoRandom(4096, 9)))

	var gotErr error
	for _, err := range ch.Split(r) {
		if err != nil {
			gotErr = err
		}
	}
	if !errors.Is(gotErr, iotest.ErrTimeout) {
		t.Errorf("error = %v, want ErrTimeout", gotErr)
	}
}

func TestSplitEarlyStop(t *testing.T) {
	ch := mustNew(t, testOptions())
	var n int
	for range ch.Split(bytes.NewReader(pseudoRandom(64<<10, 3))) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("ranged over %d chunks, want 2", n)
	}
}

func BenchmarkSplit(b *testing.B) {
	ch, err := New(DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	data := pseudoRandom(1<<20, 7)
	b.SetBytes(int64(len(data)))

	for b.Loop() {
		for range ch.Split(bytes.NewReader(data)) {
		}
	}
}
