package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageIntRoundTrip(t *testing.T) {
	p := NewPage(64)
	assert.NoError(t, p.SetInt(0, 42))
	v, err := p.GetInt(0)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), v)
}

func TestPageStringRoundTrip(t *testing.T) {
	p := NewPage(64)
	assert.NoError(t, p.SetString(4, "hello, page"))
	s, err := p.GetString(4)
	assert.NoError(t, err)
	assert.Equal(t, "hello, page", s)
}

func TestPageBytesRoundTrip(t *testing.T) {
	p := NewPage(64)
	want := []byte{1, 2, 3, 4, 5}
	assert.NoError(t, p.SetBytes(8, want))
	got, err := p.GetBytes(8)
	assert.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPageOutOfBounds(t *testing.T) {
	p := NewPage(8)
	_, err := p.GetInt(6)
	assert.Error(t, err)

	err = p.SetInt(-1, 1)
	assert.Error(t, err)
}

func TestPageRejectsInvalidUTF8(t *testing.T) {
	p := NewPage(32)
	assert.NoError(t, p.SetBytes(0, []byte{0xff, 0xfe, 0xfd}))
	_, err := p.GetString(0)
	assert.Error(t, err)
}

func TestMaxLength(t *testing.T) {
	assert.Equal(t, 4, MaxLength(0))
	assert.Equal(t, 12, MaxLength(8))
}
