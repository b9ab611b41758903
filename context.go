package rollcrc

import (
	"github.com/aalhour/rollcrc/internal/cache"
	"github.com/aalhour/rollcrc/internal/checksum"
)

// Size of a CRC-32 checksum in bytes.
const Size = 4

// Context holds the lookup tables for one window size.
// It is immutable after NewContext returns.
type Context struct {
	windowSize int
	base       *checksum.Table
	rolling    checksum.Table
}

// NewContext builds a Context for windows of windowSize bytes.
//
// A zero window is allowed; Rollers built on it never report a checksum.
// NewContext panics if windowSize is negative.
func NewContext(windowSize int) *Context {
	if windowSize < 0 {
		panic("rollcrc: negative window size")
	}
	c := &Context{
		windowSize: windowSize,
		base:       checksum.IEEETable(),
	}
	if windowSize > 0 {
		c.rolling = *checksum.MakeRollingTable(c.base, windowSize)
	}
	return c
}

// WindowSize returns the window size in bytes.
func (c *Context) WindowSize() int {
	return c.windowSize
}

// Checksum returns the CRC-32 of p. It does not depend on the window size.
func (c *Context) Checksum(p []byte) uint32 {
	return checksum.Value(c.base, p)
}

// Checksum returns the CRC-32 of p.
func Checksum(p []byte) uint32 {
	return checksum.Value(checksum.IEEETable(), p)
}

// contextCharge is the memory held by one Context's rolling table.
const contextCharge = 256 * 4

// sharedContexts keeps up to 64 recently used Contexts.
var sharedContexts = cache.NewLRU[int, *Context](64 * contextCharge)

// SharedContext returns a process-wide Context for windowSize, building it on
// first use. Contexts for recently used sizes are kept and handed out again;
// the table is never rebuilt while it stays in the cache.
// It panics if windowSize is negative.
func SharedContext(windowSize int) *Context {
	if windowSize < 0 {
		panic("rollcrc: negative window size")
	}
	return sharedContexts.GetOrCreate(windowSize, func() (*Context, uint64) {
		return NewContext(windowSize), contextCharge
	})
}
