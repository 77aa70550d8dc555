package tx

import (
	"testing"

	"centauri/internal/buffer"
	"centauri/internal/file"
	"centauri/internal/log"

	"github.com/stretchr/testify/assert"
)

func newTestBufferList(t *testing.T, numBuffs int) (*buffer.Manager, *BufferList) {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), 400)
	assert.NoError(t, err)
	lm, err := log.NewManager(fm, "test.log")
	assert.NoError(t, err)
	bm := buffer.NewManager(fm, lm, numBuffs)
	return bm, newBufferList(bm)
}

func TestBufferListPinIsRefCounted(t *testing.T) {
	bm, bl := newTestBufferList(t, 1)
	blk := file.NewBlockID("t.db", 0)

	assert.NoError(t, bl.Pin(blk))
	assert.NoError(t, bl.Pin(blk))
	assert.Equal(t, 0, bm.Available())

	bl.Unpin(blk)
	assert.Equal(t, 0, bm.Available(), "one of two pins released, frame still held")

	bl.Unpin(blk)
	assert.Equal(t, 1, bm.Available())
}

func TestBufferListGetBufferRequiresPin(t *testing.T) {
	_, bl := newTestBufferList(t, 1)
	_, err := bl.GetBuffer(file.NewBlockID("t.db", 0))
	assert.Error(t, err)
}

func TestBufferListUnpinAllReleasesEverything(t *testing.T) {
	bm, bl := newTestBufferList(t, 2)
	blkA := file.NewBlockID("t.db", 0)
	blkB := file.NewBlockID("t.db", 1)

	assert.NoError(t, bl.Pin(blkA))
	assert.NoError(t, bl.Pin(blkB))
	assert.Equal(t, 0, bm.Available())

	bl.UnpinAll()
	assert.Equal(t, 2, bm.Available())

	_, err := bl.GetBuffer(blkA)
	assert.Error(t, err)
}
