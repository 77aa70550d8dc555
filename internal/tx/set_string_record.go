package tx

import (
	"centauri/internal/file"
	"centauri/internal/log"
)

// SetStringRecord captures the pre-image of a string field before a
// transaction overwrites it, so undo can restore it.
type SetStringRecord struct {
	txnum  int
	block  file.BlockID
	offset int
	oldVal string
}

func parseSetStringRecord(p *file.Page) (*SetStringRecord, error) {
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
	oldVal, err := p.GetString(vPos)
	if err != nil {
		return nil, err
	}

	return &SetStringRecord{
		txnum:  int(txnum),
		block:  file.NewBlockID(filename, int(blockNum)),
		offset: int(offset),
		oldVal: oldVal,
	}, nil
}

func (r *SetStringRecord) Kind() RecordType { return KindSetString }
func (r *SetStringRecord) TxNum() int       { return r.txnum }

// Undo pins the block, restores the pre-image without logging, and unpins.
func (r *SetStringRecord) Undo(tx *Transaction) error {
	if err := tx.Pin(r.block); err != nil {
		return err
	}
	defer tx.Unpin(r.block)
	return tx.SetString(r.block, r.offset, r.oldVal, false)
}

// logSetString appends a SetString record capturing oldVal and returns its LSN.
func logSetString(lm *log.Manager, txnum int, block file.BlockID, offset int, oldVal string) (int, error) {
	tPos := 4
	fPos := tPos + 4
	bPos := fPos + file.MaxLength(len(block.Filename))
	oPos := bPos + 4
	vPos := oPos + 4
	recLen := vPos + file.MaxLength(len(oldVal))

	rec := file.NewPage(recLen)
	if err := rec.SetInt(0, int32(KindSetString)); err != nil {
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
	if err := rec.SetString(vPos, oldVal); err != nil {
		return 0, err
	}
	return lm.Append(rec.Contents())
}
