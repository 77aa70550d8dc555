package tx

import "centauri/internal/file"

type lockMode int

const (
	modeShared lockMode = iota
	modeExclusive
)

// ConcurrencyManager is the per-transaction view of the shared
// LockTable: it caches which mode a transaction already holds on each
// block so repeated get/set against the same block take the table
// lock at most once, and so Release can walk exactly what was taken.
type ConcurrencyManager struct {
	table *LockTable
	held  map[file.BlockID]lockMode
}

// NewConcurrencyManager returns a fresh, lock-free view over the
// shared table. Each Transaction owns exactly one.
func NewConcurrencyManager(table *LockTable) *ConcurrencyManager {
	return &ConcurrencyManager{
		table: table,
		held:  make(map[file.BlockID]lockMode),
	}
}

// SLock acquires a shared lock on blk from the global table the first
// time this transaction touches blk; later calls are no-ops.
func (cm *ConcurrencyManager) SLock(blk file.BlockID) error {
	if _, ok := cm.held[blk]; ok {
		return nil
	}
	if err := cm.table.SLock(blk); err != nil {
		return err
	}
	cm.held[blk] = modeShared
	return nil
}

// XLock acquires an exclusive lock on blk, first taking a shared lock
// if this transaction doesn't already hold one, then promoting it.
// Taking the shared lock first is what lets XLock's wait condition
// read "another shared holder besides me".
func (cm *ConcurrencyManager) XLock(blk file.BlockID) error {
	if cm.held[blk] == modeExclusive {
		return nil
	}
	if _, ok := cm.held[blk]; !ok {
		if err := cm.table.SLock(blk); err != nil {
			return err
		}
		cm.held[blk] = modeShared
	}
	if err := cm.table.XLock(blk); err != nil {
		return err
	}
	cm.held[blk] = modeExclusive
	return nil
}

// Release unlocks every block this transaction holds and clears the
// local view. Called exactly once, at commit or rollback.
func (cm *ConcurrencyManager) Release() {
	for blk := range cm.held {
		cm.table.Unlock(blk)
	}
	cm.held = make(map[file.BlockID]lockMode)
}
