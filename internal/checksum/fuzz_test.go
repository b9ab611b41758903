package checksum

import (
	"hash/crc32"
	"testing"
)

// FuzzValue compares the table fold with hash/crc32.
func FuzzValue(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte("hello world"))
	f.Add(make([]byte, 1024))

	tab := IEEETable()
	f.Fuzz(func(t *testing.T, data []byte) {
		if got, want := Value(tab, data), crc32.ChecksumIEEE(data); got != want {
			t.Errorf("Value = 0x%08x, hash/crc32 = 0x%08x (len=%d)", got, want, len(data))
		}
	})
}

// FuzzExtend checks that extending matches a one-shot computation.
func FuzzExtend(f *testing.F) {
	f.Add([]byte("hello"), []byte("world"))
	f.Add([]byte(""), []byte("test"))

	tab := IEEETable()
	f.Fuzz(func(t *testing.T, part1, part2 []byte) {
		full := Value(tab, append(append([]byte{}, part1...), part2...))
		if got := Extend(tab, Value(tab, part1), part2); got != full {
			t.Errorf("Extend mismatch for parts of len %d and %d", len(part1), len(part2))
		}
	})
}

// FuzzRollingTable rolls a random window across random data and compares with recomputation.
func FuzzRollingTable(f *testing.F) {
	f.Add([]byte("llllollllollll"), uint8(4))
	f.Add([]byte("hello world"), uint8(1))
	f.Add(make([]byte, 64), uint8(17))

	tab := IEEETable()
	f.Fuzz(func(t *testing.T, data []byte, ws uint8) {
		w := int(ws%64) + 1
		if len(data) <= w {
			return
		}
		rt := MakeRollingTable(tab, w)
		open := Finish(Value(tab, data[:w]))
		for i := w; i < len(data); i++ {
			open = Update(open, tab, data[i]) ^ rt[data[i-w]]
			if got, want := Finish(open), Value(tab, data[i-w+1:i+1]); got != want {
				t.Fatalf("w=%d i=%d: rolled 0x%08x, recomputed 0x%08x", w, i, got, want)
			}
		}
	})
}
