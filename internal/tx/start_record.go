package tx

import (
	"centauri/internal/file"
	"centauri/internal/log"
)

// StartRecord marks the beginning of a transaction in the log.
type StartRecord struct {
	txnum int
}

func parseStartRecord(p *file.Page) (*StartRecord, error) {
	txnum, err := p.GetInt(4)
	if err != nil {
		return nil, err
	}
	return &StartRecord{txnum: int(txnum)}, nil
}

func (r *StartRecord) Kind() RecordType        { return KindStart }
func (r *StartRecord) TxNum() int              { return r.txnum }
func (r *StartRecord) Undo(*Transaction) error { return nil }

// logStart appends a Start record for txnum and returns its LSN.
func logStart(lm *log.Manager, txnum int) (int, error) {
	rec := file.NewPage(8)
	if err := rec.SetInt(0, int32(KindStart)); err != nil {
		return 0, err
	}
	if err := rec.SetInt(4, int32(txnum)); err != nil {
		return 0, err
	}
	return lm.Append(rec.Contents())
}
