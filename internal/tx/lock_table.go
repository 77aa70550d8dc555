// Package tx implements two-phase locking and undo-only recovery on
// top of the file, log, and buffer packages: the lock table, the
// per-transaction concurrency manager, the typed WAL log records, the
// recovery manager, and the Transaction façade itself.
package tx

import (
	"sync"
	"time"

	"centauri/internal/file"
	"centauri/internal/telemetry"
	"centauri/internal/txerrors"
)

// lockTimeout bounds how long sLock/xLock wait before aborting. This
// is the only blocking point a transaction has on another
// transaction; it is an intentional, coarse deadlock breaker rather
// than a wait-for graph.
const lockTimeout = 10 * time.Second

// LockTable maps BlockID to a lock count: 0 means unlocked, a positive
// N means N shared holders, -1 means one exclusive holder. It is
// shared by every transaction in the process.
type LockTable struct {
	mu    sync.Mutex
	cond  *sync.Cond
	locks map[file.BlockID]int
}

// NewLockTable returns an empty lock table.
func NewLockTable() *LockTable {
	lt := &LockTable{locks: make(map[file.BlockID]int)}
	lt.cond = sync.NewCond(&lt.mu)
	return lt
}

// SLock acquires a shared lock on blk, waiting while an exclusive
// holder exists. Returns txerrors.LockAbort after lockTimeout.
func (lt *LockTable) SLock(blk file.BlockID) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	deadline := time.Now().Add(lockTimeout)
	for lt.valueLocked(blk) < 0 {
		if !lt.waitUntil(deadline) {
			telemetry.For("lock").Warnf("slock timed out on %s", blk)
			return txerrors.NewLockAbort(blk.String())
		}
	}
	lt.locks[blk] = lt.valueLocked(blk) + 1
	return nil
}

// XLock acquires an exclusive lock on blk. Callers must already hold a
// shared lock on blk (the Concurrency Manager guarantees this); XLock
// waits only while another transaction's shared lock is also held.
func (lt *LockTable) XLock(blk file.BlockID) error {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	deadline := time.Now().Add(lockTimeout)
	for lt.valueLocked(blk) > 1 {
		if !lt.waitUntil(deadline) {
			telemetry.For("lock").Warnf("xlock timed out on %s", blk)
			return txerrors.NewLockAbort(blk.String())
		}
	}
	lt.locks[blk] = -1
	return nil
}

// Unlock releases one holder's lock on blk, removing the entry
// entirely once the last holder releases it, and wakes any waiters.
func (lt *LockTable) Unlock(blk file.BlockID) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	val := lt.valueLocked(blk)
	switch {
	case val > 1:
		lt.locks[blk] = val - 1
	case val != 0:
		delete(lt.locks, blk)
	}
	lt.cond.Broadcast()
}

func (lt *LockTable) valueLocked(blk file.BlockID) int {
	return lt.locks[blk]
}

// waitUntil blocks on lt.cond until either a broadcast arrives or
// deadline passes, returning false once the deadline is reached.
// Caller holds lt.mu on entry and exit.
func (lt *LockTable) waitUntil(deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}
	timer := time.AfterFunc(remaining, func() {
		lt.mu.Lock()
		lt.cond.Broadcast()
		lt.mu.Unlock()
	})
	defer timer.Stop()
	lt.cond.Wait()
	return time.Now().Before(deadline)
}
