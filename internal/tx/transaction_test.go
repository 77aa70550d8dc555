package tx

import (
	"testing"

	"centauri/internal/buffer"
	"centauri/internal/file"
	"centauri/internal/log"

	"github.com/stretchr/testify/assert"
)

// harness bundles one engine's worth of managers so each test can mint
// as many transactions as it needs against the same database.
type harness struct {
	fm        *file.Manager
	lm        *log.Manager
	bm        *buffer.Manager
	lockTable *LockTable
	gen       *IDGenerator
}

func newHarness(t *testing.T, dir string, numBuffs int) *harness {
	t.Helper()
	fm, err := file.NewManager(dir, 400)
	assert.NoError(t, err)
	lm, err := log.NewManager(fm, "test.log")
	assert.NoError(t, err)
	bm := buffer.NewManager(fm, lm, numBuffs)
	return &harness{fm: fm, lm: lm, bm: bm, lockTable: NewLockTable(), gen: NewIDGenerator()}
}

func (h *harness) newTx(t *testing.T) *Transaction {
	t.Helper()
	tx, err := NewTransaction(h.gen, h.fm, h.lm, h.bm, h.lockTable)
	assert.NoError(t, err)
	return tx
}

// TestCommittedOverwrittenThenRolledBackVisibility checks that a
// committed write is visible to a later transaction, a second commit
// overwrites it, and a rolled-back write never becomes visible.
func TestCommittedOverwrittenThenRolledBackVisibility(t *testing.T) {
	h := newHarness(t, t.TempDir(), 3)
	blk := file.NewBlockID("t.db", 1)

	tx1 := h.newTx(t)
	assert.NoError(t, tx1.Pin(blk))
	assert.NoError(t, tx1.SetInt(blk, 80, 1, true))
	assert.NoError(t, tx1.SetString(blk, 40, "one", true))
	assert.NoError(t, tx1.Commit())

	tx2 := h.newTx(t)
	assert.NoError(t, tx2.Pin(blk))
	i, err := tx2.GetInt(blk, 80)
	assert.NoError(t, err)
	s, err := tx2.GetString(blk, 40)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), i)
	assert.Equal(t, "one", s)

	assert.NoError(t, tx2.SetInt(blk, 80, 2, true))
	assert.NoError(t, tx2.SetString(blk, 40, "one!", true))
	assert.NoError(t, tx2.Commit())

	tx4 := h.newTx(t)
	assert.NoError(t, tx4.Pin(blk))
	i, err = tx4.GetInt(blk, 80)
	assert.NoError(t, err)
	s, err = tx4.GetString(blk, 40)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), i)
	assert.Equal(t, "one!", s)
	// Under strict two-phase locking tx4's shared lock is held until
	// it ends, so it must commit before tx3 can take the exclusive
	// lock S3 needs — otherwise tx3 would block on tx4 for the full
	// lock timeout.
	assert.NoError(t, tx4.Commit())

	tx3 := h.newTx(t)
	assert.NoError(t, tx3.Pin(blk))
	assert.NoError(t, tx3.SetInt(blk, 80, 9999, true))
	assert.NoError(t, tx3.Rollback())

	tx5 := h.newTx(t)
	assert.NoError(t, tx5.Pin(blk))
	i, err = tx5.GetInt(blk, 80)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), i, "rolled-back write must not be visible")
	assert.NoError(t, tx5.Commit())
}

// TestDurabilityOfCommit checks that after commit, killing the
// process and reopening the data directory yields the committed
// values from disk, without even running recovery.
func TestDurabilityOfCommit(t *testing.T) {
	dir := t.TempDir()
	blk := file.NewBlockID("t.db", 0)

	h1 := newHarness(t, dir, 3)
	tx := h1.newTx(t)
	assert.NoError(t, tx.Pin(blk))
	assert.NoError(t, tx.SetInt(blk, 0, 123, true))
	assert.NoError(t, tx.Commit())

	h2 := newHarness(t, dir, 3)
	p := file.NewPage(400)
	assert.NoError(t, h2.fm.Read(blk, p))
	v, err := p.GetInt(0)
	assert.NoError(t, err)
	assert.Equal(t, int32(123), v)
}

// TestUndoOfAbort checks that setInt then rollback leaves disk state
// identical to before the transaction started.
func TestUndoOfAbort(t *testing.T) {
	dir := t.TempDir()
	blk := file.NewBlockID("t.db", 0)

	h1 := newHarness(t, dir, 3)
	seed := h1.newTx(t)
	assert.NoError(t, seed.Pin(blk))
	assert.NoError(t, seed.SetInt(blk, 0, 1, true))
	assert.NoError(t, seed.Commit())

	tx := h1.newTx(t)
	assert.NoError(t, tx.Pin(blk))
	assert.NoError(t, tx.SetInt(blk, 0, 999, true))
	assert.NoError(t, tx.Rollback())

	p := file.NewPage(400)
	assert.NoError(t, h1.fm.Read(blk, p))
	v, err := p.GetInt(0)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), v)
}

// TestRecoveryUndoesUncommittedWrites checks that a write that was
// never committed is undone by a fresh cold-start recovery pass, while an
// earlier committed write survives. Recovery always runs against
// freshly constructed in-memory managers (lm, bm, lockTable) over the
// same on-disk files, the way a real engine restart would — a crashed
// transaction's locks die with the process, they don't carry forward.
func TestRecoveryUndoesUncommittedWrites(t *testing.T) {
	dir := t.TempDir()
	blk := file.NewBlockID("t.db", 0)

	h1 := newHarness(t, dir, 3)
	committed := h1.newTx(t)
	assert.NoError(t, committed.Pin(blk))
	assert.NoError(t, committed.SetInt(blk, 0, 1, true))
	assert.NoError(t, committed.Commit())

	uncommitted := h1.newTx(t)
	assert.NoError(t, uncommitted.Pin(blk))
	assert.NoError(t, uncommitted.SetInt(blk, 0, 999, true))
	// Force its dirty frame (and, by WAL, its log records) to disk, as
	// an eviction would, then crash: no Commit, no Rollback. The 999 is
	// on disk and only recovery can undo it.
	assert.NoError(t, h1.bm.FlushAll(uncommitted.TxNum()))

	h2 := newHarness(t, dir, 3)
	_, err := Recover(h2.fm, h2.lm, h2.bm, h2.lockTable)
	assert.NoError(t, err)

	p := file.NewPage(400)
	assert.NoError(t, h2.fm.Read(blk, p))
	v, err := p.GetInt(0)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), v)
}

// TestRecoveryIdempotence checks that running recover twice in a row
// has the same effect as running it once.
func TestRecoveryIdempotence(t *testing.T) {
	dir := t.TempDir()
	blk := file.NewBlockID("t.db", 0)

	h1 := newHarness(t, dir, 3)
	tx := h1.newTx(t)
	assert.NoError(t, tx.Pin(blk))
	assert.NoError(t, tx.SetInt(blk, 0, 7, true))
	assert.NoError(t, tx.Commit())

	h2 := newHarness(t, dir, 3)
	_, err := Recover(h2.fm, h2.lm, h2.bm, h2.lockTable)
	assert.NoError(t, err)

	h3 := newHarness(t, dir, 3)
	_, err = Recover(h3.fm, h3.lm, h3.bm, h3.lockTable)
	assert.NoError(t, err)

	p := file.NewPage(400)
	assert.NoError(t, h3.fm.Read(blk, p))
	v, err := p.GetInt(0)
	assert.NoError(t, err)
	assert.Equal(t, int32(7), v)
}

// TestIDGeneratorSeededAboveRecoveredTxNums ensures a restarted engine
// never reissues a transaction number already seen in the log.
func TestIDGeneratorSeededAboveRecoveredTxNums(t *testing.T) {
	dir := t.TempDir()
	blk := file.NewBlockID("t.db", 0)

	h1 := newHarness(t, dir, 3)
	var lastTxNum int
	for i := 0; i < 3; i++ {
		tx := h1.newTx(t)
		lastTxNum = tx.TxNum()
		assert.NoError(t, tx.Pin(blk))
		assert.NoError(t, tx.SetInt(blk, 0, int32(i), true))
		assert.NoError(t, tx.Commit())
	}

	h2 := newHarness(t, dir, 3)
	highest, err := Recover(h2.fm, h2.lm, h2.bm, h2.lockTable)
	assert.NoError(t, err)
	assert.Equal(t, lastTxNum, highest)

	gen := NewIDGenerator()
	gen.SeedAtLeast(highest + 1)
	assert.Greater(t, gen.Next(), lastTxNum)
}
