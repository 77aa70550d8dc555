package tx

import (
	"centauri/internal/file"
	"centauri/internal/log"
)

// SetIntRecord captures the pre-image of an integer field before a
// transaction overwrites it, so undo can restore it.
type SetIntRecord struct {
	txnum  int
	block  file.BlockID
	offset int
	oldVal int32
}

func parseSetIntRecord(p *file.Page) (*SetIntRecord, error) {
	txnum, err := p.GetInt(4)
	if err != nil {
		return nil, err
	}
	filename, err := p.GetString(8)
	if err != nil {
		return nil, err
	}
	bPos := 8 + file.MaxLength(len(filename))
	blockNum, err := p.GetInt(bPos)
	if err != nil {
		return nil, err
	}
	oPos := bPos + 4
	offset, err := p.GetInt(oPos)
	if err != nil {
		return nil, err
	}
	vPos := oPos + 4
	oldVal, err := p.GetInt(vPos)
	if err != nil {
		return nil, err
	}

	return &SetIntRecord{
		txnum:  int(txnum),
		block:  file.NewBlockID(filename, int(blockNum)),
		offset: int(offset),
		oldVal: oldVal,
	}, nil
}

func (r *SetIntRecord) Kind() RecordType { return KindSetInt }
func (r *SetIntRecord) TxNum() int       { return r.txnum }

// Undo pins the block, restores the pre-image without logging (to
// avoid an infinite chain of undo records), and unpins.
func (r *SetIntRecord) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetInt(r.block, r.offset, r.oldVal, false)
}

// logSetInt appends a SetInt record capturing oldVal and returns its LSN.
func logSetInt(lm *log.Manager, txnum int, block file.BlockID, offset int, oldVal int32) (int, error) {
	tPos := 4
	fPos := tPos + 4
	bPos := fPos + file.MaxLength(len(block.Filename))
	oPos := bPos + 4
	vPos := oPos + 4

	rec := file.NewPage(vPos + 4)
	if err := rec.SetInt(0, int32(KindSetInt)); err != nil {
		return 0, err
	}
	if err := rec.SetInt(tPos, int32(txnum)); err != nil {
		return 0, err
	}
	if err := rec.SetString(fPos, block.Filename); err != nil {
		return 0, err
	}
	if err := rec.SetInt(bPos, int32(block.Number)); err != nil {
		return 0, err
	}
	if err := rec.SetInt(oPos, int32(offset)); err != nil {
		return 0, err
	}
	if err := rec.SetInt(vPos, oldVal); err != nil {
		return 0, err
	}
	return lm.Append(rec.Contents())
}
