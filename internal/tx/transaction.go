package tx

import (
	"centauri/internal/buffer"
	"centauri/internal/file"
	"centauri/internal/log"
	"centauri/internal/telemetry"
)

// recoveryTxNum is the reserved transaction number used by the single
// dummy transaction that drives cold-start recovery. It is distinct
// from every number IDGenerator can mint (which starts at 1) and from
// a Checkpoint record's sentinel TxNum of -1, and it is non-negative so
// the buffer manager treats the frames it undoes as dirty and flushes
// them.
const recoveryTxNum = 0

// Transaction is the unit-of-work façade: it pins/unpins
// buffers on the caller's behalf, acquires locks lazily through its
// ConcurrencyManager, logs pre-images through its RecoveryManager
// before mutating, and unwinds everything together at Commit or
// Rollback. Callers never touch the buffer, log, or lock packages
// directly.
type Transaction struct {
	fm *file.Manager
	lm *log.Manager
	bm *buffer.Manager

	txnum   int
	cm      *ConcurrencyManager
	buffers *BufferList
	rm      *RecoveryManager // nil only for the cold-start recovery transaction
}

// NewTransaction mints a fresh transaction number from gen, writes its
// Start record, and returns a ready-to-use Transaction.
func NewTransaction(gen *IDGenerator, fm *file.Manager, lm *log.Manager, bm *buffer.Manager, lockTable *LockTable) (*Transaction, error) {
	return newTransaction(gen.Next(), fm, lm, bm, lockTable)
}

func newTransaction(txnum int, fm *file.Manager, lm *log.Manager, bm *buffer.Manager, lockTable *LockTable) (*Transaction, error) {
	tx := &Transaction{
		fm:      fm,
		lm:      lm,
		bm:      bm,
		txnum:   txnum,
		cm:      NewConcurrencyManager(lockTable),
		buffers: newBufferList(bm),
	}
	rm, err := newRecoveryManager(tx, txnum, lm, bm)
	if err != nil {
		return nil, err
	}
	tx.rm = rm
	telemetry.For("tx").Debugf("started tx %d", txnum)
	return tx, nil
}

// newRecoveryTransaction returns the single dummy transaction used to
// drive cold-start recovery. It has no RecoveryManager of
// its own — it never commits or rolls back — and so writes no Start
// record; it exists only so log records' Undo methods have a
// Transaction to pin, mutate, and unpin through.
func newRecoveryTransaction(fm *file.Manager, lm *log.Manager, bm *buffer.Manager, lockTable *LockTable) *Transaction {
	return &Transaction{
		fm:      fm,
		lm:      lm,
		bm:      bm,
		txnum:   recoveryTxNum,
		cm:      NewConcurrencyManager(lockTable),
		buffers: newBufferList(bm),
	}
}

// TxNum returns this transaction's number.
func (tx *Transaction) TxNum() int { return tx.txnum }

// Pin loads blk into the buffer pool and marks it held by this
// transaction, without acquiring any lock.
func (tx *Transaction) Pin(blk file.BlockID) error {
	return tx.buffers.Pin(blk)
}

// Unpin releases this transaction's hold on blk.
func (tx *Transaction) Unpin(blk file.BlockID) {
	tx.buffers.Unpin(blk)
}

// GetInt acquires a shared lock on blk (if not already held) and
// returns the int32 at offset.
func (tx *Transaction) GetInt(blk file.BlockID, offset int) (int32, error) {
	if err := tx.cm.SLock(blk); err != nil {
		return 0, err
	}
	buf, err := tx.buffers.GetBuffer(blk)
	if err != nil {
		return 0, err
	}
	return buf.Contents().GetInt(offset)
}

// GetString acquires a shared lock on blk (if not already held) and
// returns the string at offset.
func (tx *Transaction) GetString(blk file.BlockID, offset int) (string, error) {
	if err := tx.cm.SLock(blk); err != nil {
		return "", err
	}
	buf, err := tx.buffers.GetBuffer(blk)
	if err != nil {
		return "", err
	}
	return buf.Contents().GetString(offset)
}

// SetInt acquires an exclusive lock on blk, optionally logs the
// pre-image, then writes val at offset. Logging before mutating is
// mandatory whenever okToLog is true — a crash
// between the two would otherwise describe the wrong pre-image.
func (tx *Transaction) SetInt(blk file.BlockID, offset int, val int32, okToLog bool) error {
	if err := tx.cm.XLock(blk); err != nil {
		return err
	}
	buf, err := tx.buffers.GetBuffer(blk)
	if err != nil {
		return err
	}
	lsn := -1
	if okToLog {
		oldVal, err := buf.Contents().GetInt(offset)
		if err != nil {
			return err
		}
		lsn, err = tx.rm.SetInt(buf, offset, oldVal)
		if err != nil {
			return err
		}
	}
	if err := buf.Contents().SetInt(offset, val); err != nil {
		return err
	}
	tx.bm.SetModified(buf, tx.txnum, lsn)
	return nil
}

// SetString acquires an exclusive lock on blk, optionally logs the
// pre-image, then writes val at offset. See SetInt for ordering.
func (tx *Transaction) SetString(blk file.BlockID, offset int, val string, okToLog bool) error {
	if err := tx.cm.XLock(blk); err != nil {
		return err
	}
	buf, err := tx.buffers.GetBuffer(blk)
	if err != nil {
		return err
	}
	lsn := -1
	if okToLog {
		oldVal, err := buf.Contents().GetString(offset)
		if err != nil {
			return err
		}
		lsn, err = tx.rm.SetString(buf, offset, oldVal)
		if err != nil {
			return err
		}
	}
	if err := buf.Contents().SetString(offset, val); err != nil {
		return err
	}
	tx.bm.SetModified(buf, tx.txnum, lsn)
	return nil
}

// Size returns the number of blocks in filename, serialized against
// concurrent Append calls (by anyone) via the EOF sentinel block.
func (tx *Transaction) Size(filename string) (int, error) {
	blk := file.EOFBlock(filename)
	if err := tx.cm.SLock(blk); err != nil {
		return 0, err
	}
	return tx.fm.Length(filename)
}

// Append allocates a new block at the end of filename, serialized
// against concurrent Size/Append calls via the EOF sentinel block.
func (tx *Transaction) Append(filename string) (file.BlockID, error) {
	blk := file.EOFBlock(filename)
	if err := tx.cm.XLock(blk); err != nil {
		return file.BlockID{}, err
	}
	return tx.fm.Append(filename)
}

// BlockSize returns the engine's fixed block size.
func (tx *Transaction) BlockSize() int { return tx.fm.BlockSize() }

// AvailableBuffers returns the number of currently unpinned frames in
// the shared pool.
func (tx *Transaction) AvailableBuffers() int { return tx.bm.Available() }

// Commit flushes this transaction's effects to disk, writes its
// Commit record, releases every lock it holds, and unpins every
// buffer it pinned — in that order, so a crash mid-commit still
// leaves the log and disk consistent with each other.
func (tx *Transaction) Commit() error {
	if err := tx.rm.Commit(); err != nil {
		return err
	}
	tx.cm.Release()
	tx.buffers.UnpinAll()
	telemetry.For("tx").Debugf("committed tx %d", tx.txnum)
	return nil
}

// Rollback inverts this transaction's effects, writes its Rollback
// record, releases every lock it holds, and unpins every buffer it
// pinned.
func (tx *Transaction) Rollback() error {
	if err := tx.rm.Rollback(); err != nil {
		return err
	}
	tx.cm.Release()
	tx.buffers.UnpinAll()
	telemetry.For("tx").Debugf("rolled back tx %d", tx.txnum)
	return nil
}
