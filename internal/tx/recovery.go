package tx

import (
	"centauri/internal/buffer"
	"centauri/internal/file"
	"centauri/internal/log"
	"centauri/internal/telemetry"
)

// Recover performs cold-start crash recovery: a single
// dummy transaction walks the log newest-to-oldest, inverting every
// update whose transaction has no terminal Commit or Rollback, until
// it passes the first Checkpoint — everything before a checkpoint was
// already known-durable when it was written, so nothing earlier ever
// needs undoing. The dummy's undone frames are then flushed and a
// fresh Checkpoint is written, leaving the log quiescent.
//
// It keeps scanning past the checkpoint (without undoing anything
// further) purely to find the highest transaction number the log has
// ever seen, which it returns so the caller can seed its IDGenerator
// above it — a restarted engine must never reissue an old txnum.
func Recover(fm *file.Manager, lm *log.Manager, bm *buffer.Manager, lockTable *LockTable) (highestTxNum int, err error) {
	dummy := newRecoveryTransaction(fm, lm, bm, lockTable)

	iter, err := lm.Iterator()
	if err != nil {
		return 0, err
	}

	finished := make(map[int]bool)
	pastCheckpoint := false

	for iter.HasNext() {
		raw, err := iter.Next()
		if err != nil {
			return 0, err
		}
		rec, err := Parse(raw)
		if err != nil {
			return 0, err
		}

		if rec.TxNum() > highestTxNum {
			highestTxNum = rec.TxNum()
		}

		if rec.Kind() == KindCheckpoint {
			pastCheckpoint = true
			continue
		}
		if pastCheckpoint {
			continue
		}

		switch rec.Kind() {
		case KindCommit, KindRollback:
			finished[rec.TxNum()] = true
		default:
			if !finished[rec.TxNum()] {
				if err := rec.Undo(dummy); err != nil {
					return 0, err
				}
			}
		}
	}

	if err := bm.FlushAll(dummy.txnum); err != nil {
		return 0, err
	}
	lsn, err := logCheckpoint(lm)
	if err != nil {
		return 0, err
	}
	if err := lm.FlushWith(lsn); err != nil {
		return 0, err
	}

	telemetry.For("recovery").Infof("recovered, highest txnum seen %d", highestTxNum)
	return highestTxNum, nil
}
