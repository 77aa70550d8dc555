package record

import (
	"centauri/internal/file"
	"centauri/internal/tx"
)

// Slot flags.
const (
	Empty = 0
	Used  = 1
)

// Page manages the slotted layout of fixed-size records within a
// single block, reading and writing fields through a Transaction so
// every access obeys locking and logging.
type Page struct {
	tx     *tx.Transaction
	block  file.BlockID
	layout *Layout
}

// NewPage pins block and returns a Page over it.
func NewPage(t *tx.Transaction, block file.BlockID, layout *Layout) (*Page, error) {
	if err := t.Pin(block); err != nil {
		return nil, err
	}
	return &Page{tx: t, block: block, layout: layout}, nil
}

func (rp *Page) Block() file.BlockID { return rp.block }

// GetInt returns the integer value of fieldName in slot.
func (rp *Page) GetInt(slot int, fieldName string) (int32, error) {
	pos, err := rp.fieldPos(slot, fieldName)
	if err != nil {
		return 0, err
	}
	return rp.tx.GetInt(rp.block, pos)
}

// GetString returns the string value of fieldName in slot.
func (rp *Page) GetString(slot int, fieldName string) (string, error) {
	pos, err := rp.fieldPos(slot, fieldName)
	if err != nil {
		return "", err
	}
	return rp.tx.GetString(rp.block, pos)
}

// SetInt stores val in fieldName of slot, logged so it can be undone.
func (rp *Page) SetInt(slot int, fieldName string, val int32) error {
	pos, err := rp.fieldPos(slot, fieldName)
	if err != nil {
		return err
	}
	return rp.tx.SetInt(rp.block, pos, val, true)
}

// SetString stores val in fieldName of slot, logged so it can be undone.
func (rp *Page) SetString(slot int, fieldName string, val string) error {
	pos, err := rp.fieldPos(slot, fieldName)
	if err != nil {
		return err
	}
	return rp.tx.SetString(rp.block, pos, val, true)
}

// Format zeroes every slot in the block and marks each Empty. Called
// once, right after the block is allocated; its writes are not logged
// since there is no prior state worth being able to undo back to.
func (rp *Page) Format() error {
	slot := 0
	for rp.isValidSlot(slot) {
		if err := rp.tx.SetInt(rp.block, rp.offset(slot), Empty, false); err != nil {
			return err
		}
		schema := rp.layout.Schema()
		for _, fieldName := range schema.Fields() {
			pos, err := rp.fieldPos(slot, fieldName)
			if err != nil {
				return err
			}
			dataType, err := schema.DataType(fieldName)
			if err != nil {
				return err
			}
			if dataType == Integer {
				if err := rp.tx.SetInt(rp.block, pos, 0, false); err != nil {
					return err
				}
			} else {
				if err := rp.tx.SetString(rp.block, pos, "", false); err != nil {
					return err
				}
			}
		}
		slot++
	}
	return nil
}

// Delete marks slot Empty.
func (rp *Page) Delete(slot int) error {
	return rp.setFlag(slot, Empty)
}

// NextAfter returns the next Used slot after slot, or -1 if none remains.
func (rp *Page) NextAfter(slot int) (int, error) {
	return rp.searchAfter(slot, Used)
}

// InsertAfter finds the next Empty slot after slot, marks it Used, and
// returns it, or -1 if the block is full.
func (rp *Page) InsertAfter(slot int) (int, error) {
	newSlot, err := rp.searchAfter(slot, Empty)
	if err != nil {
		return 0, err
	}
	if newSlot >= 0 {
		if err := rp.setFlag(newSlot, Used); err != nil {
			return 0, err
		}
	}
	return newSlot, nil
}

func (rp *Page) fieldPos(slot int, fieldName string) (int, error) {
	offset, err := rp.layout.Offset(fieldName)
	if err != nil {
		return 0, err
	}
	return rp.offset(slot) + offset, nil
}

func (rp *Page) offset(slot int) int {
	return slot * rp.layout.SlotSize()
}

func (rp *Page) isValidSlot(slot int) bool {
	return rp.offset(slot+1) <= rp.tx.BlockSize()
}

func (rp *Page) setFlag(slot int, flag int32) error {
	return rp.tx.SetInt(rp.block, rp.offset(slot), flag, true)
}

func (rp *Page) searchAfter(slot int, flag int32) (int, error) {
	slot++
	for rp.isValidSlot(slot) {
		val, err := rp.tx.GetInt(rp.block, rp.offset(slot))
		if err != nil {
			return 0, err
		}
		if val == flag {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}
