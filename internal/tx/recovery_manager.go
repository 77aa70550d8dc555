package tx

import (
	"centauri/internal/buffer"
	"centauri/internal/log"
	"centauri/internal/telemetry"
)

// RecoveryManager is a per-transaction object providing undo-only
// recovery operations. Every commit flushes all of the
// transaction's dirty frames before its Commit record is written, so
// committed effects are already on disk — hence no redo pass is ever
// needed, only undo.
type RecoveryManager struct {
	lm    *log.Manager
	bm    *buffer.Manager
	tx    *Transaction
	txnum int
}

// newRecoveryManager emits a Start record for txnum and returns a
// manager bound to tx.
func newRecoveryManager(tx *Transaction, txnum int, lm *log.Manager, bm *buffer.Manager) (*RecoveryManager, error) {
	if _, err := logStart(lm, txnum); err != nil {
		return nil, err
	}
	return &RecoveryManager{lm: lm, bm: bm, tx: tx, txnum: txnum}, nil
}

// Commit flushes every frame this transaction modified, then writes
// and forces a Commit record. After Commit returns, every effect of
// this transaction is durable on disk.
func (rm *RecoveryManager) Commit() error {
	if err := rm.bm.FlushAll(rm.txnum); err != nil {
		return err
	}
	lsn, err := logCommit(rm.lm, rm.txnum)
	if err != nil {
		return err
	}
	telemetry.For("recovery").Infof("tx %d committed at lsn %d", rm.txnum, lsn)
	return rm.lm.FlushWith(lsn)
}

// Rollback inverts every update this transaction logged, flushes the
// inverted frames, then writes and forces a Rollback record.
func (rm *RecoveryManager) Rollback() error {
	if err := rm.undoThisTransaction(); err != nil {
		return err
	}
	if err := rm.bm.FlushAll(rm.txnum); err != nil {
		return err
	}
	lsn, err := logRollback(rm.lm, rm.txnum)
	if err != nil {
		return err
	}
	telemetry.For("recovery").Infof("tx %d rolled back at lsn %d", rm.txnum, lsn)
	return rm.lm.FlushWith(lsn)
}

// SetInt logs the pre-image oldVal found at block+offset before a
// SetInt mutation and returns the LSN of the record just written.
func (rm *RecoveryManager) SetInt(buf *buffer.Buffer, offset int, oldVal int32) (int, error) {
	return logSetInt(rm.lm, rm.txnum, buf.Block(), offset, oldVal)
}

// SetString logs the pre-image oldVal found at block+offset before a
// SetString mutation and returns the LSN of the record just written.
func (rm *RecoveryManager) SetString(buf *buffer.Buffer, offset int, oldVal string) (int, error) {
	return logSetString(rm.lm, rm.txnum, buf.Block(), offset, oldVal)
}

// undoThisTransaction scans the log newest-to-oldest, inverting every
// update belonging to rm.txnum, and stops at this transaction's own
// Start record — everything before it belongs to other transactions.
func (rm *RecoveryManager) undoThisTransaction() error {
	iter, err := rm.lm.Iterator()
	if err != nil {
		return err
	}
	for iter.HasNext() {
		raw, err := iter.Next()
		if err != nil {
			return err
		}
		rec, err := Parse(raw)
		if err != nil {
			return err
		}
		if rec.TxNum() != rm.txnum {
			continue
		}
		if rec.Kind() == KindStart {
			return nil
		}
		if err := rec.Undo(rm.tx); err != nil {
			return err
		}
	}
	return nil
}
