package tx

import "sync/atomic"

// IDGenerator mints transaction numbers. A single instance is owned by
// the engine and shared by every Transaction it creates, so numbers
// are never reused within the engine's lifetime.
// Recovery seeds it above every txnum observed in the log before the
// first post-recovery transaction is minted.
type IDGenerator struct {
	counter atomic.Int64
}

// NewIDGenerator returns a generator starting at 0; the first call to
// Next returns 1.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns a fresh, never-before-issued transaction number.
func (g *IDGenerator) Next() int {
	return int(g.counter.Add(1))
}

// SeedAtLeast raises the generator so the next Next() call returns
// something greater than n, if it wouldn't already. Used once, after
// recovery, so that an old log's txnums are never reissued.
func (g *IDGenerator) SeedAtLeast(n int) {
	for {
		cur := g.counter.Load()
		if cur >= int64(n) {
			return
		}
		if g.counter.CompareAndSwap(cur, int64(n)) {
			return
		}
	}
}
