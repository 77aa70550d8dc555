package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockIDEquality(t *testing.T) {
	a := NewBlockID("data.tbl", 3)
	b := NewBlockID("data.tbl", 3)
	c := NewBlockID("data.tbl", 4)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestBlockIDString(t *testing.T) {
	blk := NewBlockID("data.tbl", 3)
	assert.Equal(t, "[file data.tbl, block 3]", blk.String())
}

func TestEOFBlockIsSentinel(t *testing.T) {
	blk := EOFBlock("data.tbl")
	assert.Equal(t, -1, blk.Number)
	assert.NotEqual(t, NewBlockID("data.tbl", -1), NewBlockID("other.tbl", -1))
}
