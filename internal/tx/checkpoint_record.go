package tx

import (
	"centauri/internal/file"
	"centauri/internal/log"
)

// CheckpointRecord marks that, as of its LSN, no earlier transaction's
// updates need to be undone by a subsequent recover(). Its on-disk
// txnum field is always the sentinel -1.
type CheckpointRecord struct{}

func parseCheckpointRecord(p *file.Page) (*CheckpointRecord, error) {
	if _, err := p.GetInt(4); err != nil {
		return nil, err
	}
	return &CheckpointRecord{}, nil
}

func (r *CheckpointRecord) Kind() RecordType        { return KindCheckpoint }
func (r *CheckpointRecord) TxNum() int              { return -1 }
func (r *CheckpointRecord) Undo(*Transaction) error { return nil }

// logCheckpoint appends a Checkpoint record and returns its LSN.
func logCheckpoint(lm *log.Manager) (int, error) {
	rec := file.NewPage(8)
	if err := rec.SetInt(0, int32(KindCheckpoint)); err != nil {
		return 0, err
	}
	if err := rec.SetInt(4, -1); err != nil {
		return 0, err
	}
	return lm.Append(rec.Contents())
}
