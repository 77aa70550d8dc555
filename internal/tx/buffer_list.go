package tx

import (
	"fmt"

	"centauri/internal/buffer"
	"centauri/internal/file"
)

// BufferList tracks the frames a single transaction has pinned. Pins
// are reference-counted per block so nested Pin calls against the
// same block only release the underlying frame once every Unpin has
// been observed.
type BufferList struct {
	bm      *buffer.Manager
	buffers map[file.BlockID]*buffer.Buffer
	pins    map[file.BlockID]int
}

func newBufferList(bm *buffer.Manager) *BufferList {
	return &BufferList{
		bm:      bm,
		buffers: make(map[file.BlockID]*buffer.Buffer),
		pins:    make(map[file.BlockID]int),
	}
}

// GetBuffer returns the frame already pinned for blk by this transaction.
func (bl *BufferList) GetBuffer(blk file.BlockID) (*buffer.Buffer, error) {
	buf, ok := bl.buffers[blk]
	if !ok {
		return nil, fmt.Errorf("block %s not pinned by this transaction", blk)
	}
	return buf, nil
}

// Pin pins blk through the buffer manager and records the pin.
func (bl *BufferList) Pin(blk file.BlockID) error {
	buf, err := bl.bm.Pin(blk)
	if err != nil {
		return err
	}
	bl.buffers[blk] = buf
	bl.pins[blk]++
	return nil
}

// Unpin releases one reference to blk, undoing one buffer-manager pin;
// the frame becomes unpinned once the last reference is released.
func (bl *BufferList) Unpin(blk file.BlockID) {
	buf, ok := bl.buffers[blk]
	if !ok {
		return
	}
	bl.bm.Unpin(buf)
	bl.pins[blk]--
	if bl.pins[blk] <= 0 {
		delete(bl.pins, blk)
		delete(bl.buffers, blk)
	}
}

// UnpinAll releases every pin this transaction holds, regardless of
// reference count. Called once at commit/rollback.
func (bl *BufferList) UnpinAll() {
	for blk, buf := range bl.buffers {
		for i := 0; i < bl.pins[blk]; i++ {
			bl.bm.Unpin(buf)
		}
	}
	bl.buffers = make(map[file.BlockID]*buffer.Buffer)
	bl.pins = make(map[file.BlockID]int)
}
