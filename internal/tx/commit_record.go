package tx

import (
	"centauri/internal/file"
	"centauri/internal/log"
)

// CommitRecord marks that a transaction's effects are durable: every
// dirty frame it modified was flushed before this record was written.
type CommitRecord struct {
	txnum int
}

func parseCommitRecord(p *file.Page) (*CommitRecord, error) {
	txnum, err := p.GetInt(4)
	if err != nil {
		return nil, err
	}
	return &CommitRecord{txnum: int(txnum)}, nil
}

func (r *CommitRecord) Kind() RecordType        { return KindCommit }
func (r *CommitRecord) TxNum() int              { return r.txnum }
func (r *CommitRecord) Undo(*Transaction) error { return nil }

// logCommit appends a Commit record for txnum and returns its LSN.
func logCommit(lm *log.Manager, txnum int) (int, error) {
	rec := file.NewPage(8)
	if err := rec.SetInt(0, int32(KindCommit)); err != nil {
		return 0, err
	}
	if err := rec.SetInt(4, int32(txnum)); err != nil {
		return 0, err
	}
	return lm.Append(rec.Contents())
}
