package log

import (
	"fmt"
	"testing"

	"centauri/internal/file"

	"github.com/stretchr/testify/assert"
)

func newTestManager(t *testing.T, blockSize int) (*file.Manager, *Manager) {
	t.Helper()
	fm, err := file.NewManager(t.TempDir(), blockSize)
	assert.NoError(t, err)
	lm, err := NewManager(fm, "test.log")
	assert.NoError(t, err)
	return fm, lm
}

func TestLogOrderingIsReverseInsertion(t *testing.T) {
	_, lm := newTestManager(t, 400)

	for i := 0; i < 10; i++ {
		_, err := lm.Append([]byte(fmt.Sprintf("record-%02d", i)))
		assert.NoError(t, err)
	}

	iter, err := lm.Iterator()
	assert.NoError(t, err)

	want := 9
	for iter.HasNext() {
		rec, err := iter.Next()
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("record-%02d", want), string(rec))
		want--
	}
	assert.Equal(t, -1, want)
}

func TestLogAppendReturnsAssignedLSN(t *testing.T) {
	_, lm := newTestManager(t, 400)

	lsn1, err := lm.Append([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, 1, lsn1)

	lsn2, err := lm.Append([]byte("b"))
	assert.NoError(t, err)
	assert.Equal(t, 2, lsn2)
}

func TestLogWrapsAcrossBlocks(t *testing.T) {
	_, lm := newTestManager(t, 64)

	const n = 35
	payload := make([]byte, 40)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}

	for i := 0; i < n; i++ {
		_, err := lm.Append(payload)
		assert.NoError(t, err)
	}

	iter, err := lm.Iterator()
	assert.NoError(t, err)

	count := 0
	for iter.HasNext() {
		rec, err := iter.Next()
		assert.NoError(t, err)
		assert.Equal(t, payload, rec)
		count++
	}
	assert.Equal(t, n, count)
}
