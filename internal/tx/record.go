package tx

import (
	"centauri/internal/file"
	"centauri/internal/txerrors"
)

// RecordType discriminates the six WAL record kinds. Values are fixed
// on purpose so the on-disk tag layout stays stable across rebuilds.
type RecordType int32

const (
	KindCheckpoint RecordType = iota
	KindStart
	KindCommit
	KindRollback
	KindSetInt
	KindSetString
)

// Record is the tagged variant every WAL entry implements. Encoders
// are the per-kind log* functions (logStart, logSetInt, ...); Parse is
// the single decoder switching on the discriminator.
type Record interface {
	Kind() RecordType
	TxNum() int
	// Undo reverses the effect this record describes, if any. Start,
	// Commit, Rollback, and Checkpoint records are no-ops; SetInt and
	// SetString restore their stored pre-image.
	Undo(tx *Transaction) error
}

// Parse decodes a raw log record (as returned by a log.Iterator) into
// its typed variant. An unrecognized discriminator is fatal to
// recovery — a corrupt log cannot be safely replayed.
func Parse(bytes []byte) (Record, error) {
	p := file.NewPageFromBytes(bytes)
	tag, err := p.GetInt(0)
	if err != nil {
		return nil, err
	}

	switch RecordType(tag) {
	case KindCheckpoint:
		return parseCheckpointRecord(p)
	case KindStart:
		return parseStartRecord(p)
	case KindCommit:
		return parseCommitRecord(p)
	case KindRollback:
		return parseRollbackRecord(p)
	case KindSetInt:
		return parseSetIntRecord(p)
	case KindSetString:
		return parseSetStringRecord(p)
	default:
		return nil, txerrors.NewCorrupt("unknown log record discriminator")
	}
}
