package tx

import (
	"testing"

	"centauri/internal/file"

	"github.com/stretchr/testify/assert"
)

func TestParseRoundTripsEveryRecordKind(t *testing.T) {
	cases := []struct {
		name  string
		write func() ([]byte, error)
		kind  RecordType
		txnum int
	}{
		{"start", func() ([]byte, error) {
			p := file.NewPage(8)
			assert.NoError(t, p.SetInt(0, int32(KindStart)))
			assert.NoError(t, p.SetInt(4, 5))
			return p.Contents(), nil
		}, KindStart, 5},
		{"commit", func() ([]byte, error) {
			p := file.NewPage(8)
			assert.NoError(t, p.SetInt(0, int32(KindCommit)))
			assert.NoError(t, p.SetInt(4, 6))
			return p.Contents(), nil
		}, KindCommit, 6},
		{"rollback", func() ([]byte, error) {
			p := file.NewPage(8)
			assert.NoError(t, p.SetInt(0, int32(KindRollback)))
			assert.NoError(t, p.SetInt(4, 7))
			return p.Contents(), nil
		}, KindRollback, 7},
		{"checkpoint", func() ([]byte, error) {
			p := file.NewPage(8)
			assert.NoError(t, p.SetInt(0, int32(KindCheckpoint)))
			assert.NoError(t, p.SetInt(4, -1))
			return p.Contents(), nil
		}, KindCheckpoint, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, err := c.write()
			assert.NoError(t, err)
			rec, err := Parse(raw)
			assert.NoError(t, err)
			assert.Equal(t, c.kind, rec.Kind())
			assert.Equal(t, c.txnum, rec.TxNum())
		})
	}
}

func TestParseRejectsUnknownDiscriminator(t *testing.T) {
	p := file.NewPage(4)
	assert.NoError(t, p.SetInt(0, 99))
	_, err := Parse(p.Contents())
	assert.Error(t, err)
}

func TestSetIntRecordRoundTrips(t *testing.T) {
	blk := file.NewBlockID("t.db", 2)
	p := file.NewPage(64)
	tPos := 4
	fPos := tPos + 4
	bPos := fPos + file.MaxLength(len(blk.Filename))
	oPos := bPos + 4
	vPos := oPos + 4

	assert.NoError(t, p.SetInt(0, int32(KindSetInt)))
	assert.NoError(t, p.SetInt(tPos, 11))
	assert.NoError(t, p.SetString(fPos, blk.Filename))
	assert.NoError(t, p.SetInt(bPos, int32(blk.Number)))
	assert.NoError(t, p.SetInt(oPos, 80))
	assert.NoError(t, p.SetInt(vPos, 42))

	rec, err := Parse(p.Contents())
	assert.NoError(t, err)
	assert.Equal(t, KindSetInt, rec.Kind())
	assert.Equal(t, 11, rec.TxNum())

	sir, ok := rec.(*SetIntRecord)
	assert.True(t, ok)
	assert.Equal(t, blk, sir.block)
	assert.Equal(t, 80, sir.offset)
	assert.Equal(t, int32(42), sir.oldVal)
}
