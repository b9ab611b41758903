package cache

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLRUGetPut(t *testing.T) {
	c := NewLRU[int, string](10)

	if _, ok := c.Get(1); ok {
		t.Error("Get on empty cache hit")
	}
	c.Put(1, "one", 3)
	if v, ok := c.Get(1); !ok || v != "one" {
		t.Errorf("Get(1) = (%q, %v)", v, ok)
	}
	if c.Len() != 1 || c.Usage() != 3 {
		t.Errorf("Len = %d, Usage = %d", c.Len(), c.Usage())
	}

	c.Put(1, "uno", 5)
	if v, _ := c.Get(1); v != "uno" {
		t.Errorf("replaced value = %q", v)
	}
	if c.Usage() != 5 {
		t.Errorf("Usage after replace = %d, want 5", c.Usage())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRU[int, int](3)
	c.Put(1, 1, 1)
	c.Put(2, 2, 1)
	c.Put(3, 3, 1)

	// Touch 1 so 2 is the oldest.
	c.Get(1)
	c.Put(4, 4, 1)

	if _, ok := c.Get(2); ok {
		t.Error("least recently used entry survived")
	}
	for _, k := range []int{1, 3, 4} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("entry %d evicted", k)
		}
	}
	if c.Usage() > c.Capacity() {
		t.Errorf("Usage %d exceeds Capacity %d", c.Usage(), c.Capacity())
	}
}

func TestLRUOversizedEntry(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Put("small", 1, 2)
	c.Put("huge", 2, 5)

	if _, ok := c.Get("huge"); ok {
		t.Error("entry larger than capacity was kept")
	}
	if _, ok := c.Get("small"); !ok {
		t.Error("oversized insert evicted an existing entry")
	}
}

func TestLRUErase(t *testing.T) {
	c := NewLRU[int, int](10)
	c.Put(1, 1, 4)
	c.Erase(1)
	c.Erase(2)
	if c.Len() != 0 || c.Usage() != 0 {
		t.Errorf("after Erase: Len = %d, Usage = %d", c.Len(), c.Usage())
	}
}

func TestLRUHitRate(t *testing.T) {
	c := NewLRU[int, int](10)
	if c.HitRate() != 0 {
		t.Errorf("HitRate on fresh cache = %v", c.HitRate())
	}
	c.Put(1, 1, 1)
	c.Get(1)
	c.Get(1)
	c.Get(2)
	if c.Hits() != 2 || c.Misses() != 1 {
		t.Errorf("Hits = %d, Misses = %d", c.Hits(), c.Misses())
	}
	if got := c.HitRate(); got < 0.66 || got > 0.67 {
		t.Errorf("HitRate = %v, want 2/3", got)
	}
}

func TestLRUGetOrCreate(t *testing.T) {
	c := NewLRU[int, *int](100)
	var built atomic.Int32
	create := func() (*int, uint64) {
		built.Add(1)
		v := 42
		return &v, 1
	}

	const n = 32
	got := make([]*int, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = c.GetOrCreate(7, create)
		}()
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if got[i] != got[0] {
			t.Fatalf("GetOrCreate returned different values to racing callers")
		}
	}
	if built.Load() < 1 {
		t.Error("create never ran")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func BenchmarkLRUGet(b *testing.B) {
	c := NewLRU[int, int](1024)
	for i := range 1024 {
		c.Put(i, i, 1)
	}
	i := 0
	for b.Loop() {
		c.Get(i & 1023)
		i++
	}
}
