package log

import (
	"centauri/internal/file"
)

// Iterator walks the log newest-first: it starts at the current block's
// boundary and reads forward to the block's end (increasing offset
// order within a block yields reverse-chronological order because
// records are packed back-to-front), then steps to the previous block.
type Iterator struct {
	fm         *file.Manager
	block      file.BlockID
	page       *file.Page
	currentPos int
	boundary   int
}

func newIterator(fm *file.Manager, blk file.BlockID) (*Iterator, error) {
	it := &Iterator{
		fm:   fm,
		page: file.NewPage(fm.BlockSize()),
	}
	if err := it.moveToBlock(blk); err != nil {
		return nil, err
	}
	return it, nil
}

// HasNext reports whether another record remains: either the current
// block has unread bytes, or an earlier block exists.
func (it *Iterator) HasNext() bool {
	return it.currentPos < it.fm.BlockSize() || it.block.Number > 0
}

// Next returns the next record (newest-first) and advances the cursor,
// stepping to the previous block first if the current one is exhausted.
func (it *Iterator) Next() ([]byte, error) {
	if it.currentPos == it.fm.BlockSize() {
		prev := file.NewBlockID(it.block.Filename, it.block.Number-1)
		if err := it.moveToBlock(prev); err != nil {
			return nil, err
		}
	}

	rec, err := it.page.GetBytes(it.currentPos)
	if err != nil {
		return nil, err
	}
	it.currentPos += 4 + len(rec)
	return rec, nil
}

func (it *Iterator) moveToBlock(blk file.BlockID) error {
	if err := it.fm.Read(blk, it.page); err != nil {
		return err
	}
	it.block = blk
	boundary, err := it.page.GetInt(0)
	if err != nil {
		return err
	}
	it.boundary = int(boundary)
	it.currentPos = it.boundary
	return nil
}
