package tx

import (
	"centauri/internal/file"
	"centauri/internal/log"
)

// RollbackRecord marks that a transaction's updates have been undone
// and the undo effects flushed to disk.
type RollbackRecord struct {
	txnum int
}

func parseRollbackRecord(p *file.Page) (*RollbackRecord, error) {
	txnum, err := p.GetInt(4)
	if err != nil {
		return nil, err
	}
	return &RollbackRecord{txnum: int(txnum)}, nil
}

func (r *RollbackRecord) Kind() RecordType        { return KindRollback }
func (r *RollbackRecord) TxNum() int              { return r.txnum }
func (r *RollbackRecord) Undo(*Transaction) error { return nil }

// logRollback appends a Rollback record for txnum and returns its LSN.
func logRollback(lm *log.Manager, txnum int) (int, error) {
	rec := file.NewPage(8)
	if err := rec.SetInt(0, int32(KindRollback)); err != nil {
		return 0, err
	}
	if err := rec.SetInt(4, int32(txnum)); err != nil {
		return 0, err
	}
	return lm.Append(rec.Contents())
}
