package file

import (
	"encoding/binary"
	"unicode/utf8"

	"centauri/internal/txerrors"
)

// Page is a fixed-capacity byte buffer with typed accessors at
// caller-supplied offsets. Integers are big-endian and 4 bytes wide.
// Byte slices and strings are stored as a 4-byte big-endian length
// followed by the raw bytes.
type Page struct {
	contents []byte
}

// NewPage allocates a zeroed page of the given block size.
func NewPage(blockSize int) *Page {
	return &Page{contents: make([]byte, blockSize)}
}

// NewPageFromBytes wraps an existing byte slice as a page without
// copying. Used to decode a raw log record returned by the log
// iterator.
func NewPageFromBytes(b []byte) *Page {
	return &Page{contents: b}
}

// Contents returns the page's underlying byte slice.
func (p *Page) Contents() []byte {
	return p.contents
}

func (p *Page) checkBounds(offset, length int) error {
	if offset < 0 || length < 0 || offset+length > len(p.contents) {
		return txerrors.NewOutOfBounds(offset, length, len(p.contents))
	}
	return nil
}

// GetInt reads a big-endian 32-bit integer at offset.
func (p *Page) GetInt(offset int) (int32, error) {
	if err := p.checkBounds(offset, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(p.contents[offset : offset+4])), nil
}

// SetInt writes a big-endian 32-bit integer at offset.
func (p *Page) SetInt(offset int, v int32) error {
	if err := p.checkBounds(offset, 4); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(p.contents[offset:offset+4], uint32(v))
	return nil
}

// GetBytes reads a length-prefixed byte slice at offset.
func (p *Page) GetBytes(offset int) ([]byte, error) {
	if err := p.checkBounds(offset, 4); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint32(p.contents[offset : offset+4]))
	if length < 0 {
		return nil, txerrors.NewCorrupt("negative length prefix")
	}
	if err := p.checkBounds(offset+4, length); err != nil {
		return nil, txerrors.NewCorrupt("length prefix exceeds page capacity")
	}
	b := make([]byte, length)
	copy(b, p.contents[offset+4:offset+4+length])
	return b, nil
}

// SetBytes writes a length-prefixed byte slice at offset.
func (p *Page) SetBytes(offset int, b []byte) error {
	if err := p.checkBounds(offset, 4+len(b)); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(p.contents[offset:offset+4], uint32(len(b)))
	copy(p.contents[offset+4:offset+4+len(b)], b)
	return nil
}

// GetString reads a length-prefixed UTF-8 string at offset.
func (p *Page) GetString(offset int) (string, error) {
	b, err := p.GetBytes(offset)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", txerrors.NewCorrupt("invalid UTF-8 in string field")
	}
	return string(b), nil
}

// SetString writes s as a length-prefixed UTF-8 string at offset.
func (p *Page) SetString(offset int, s string) error {
	return p.SetBytes(offset, []byte(s))
}

// MaxLength returns the on-disk size of a string whose UTF-8 byte
// length is n: a 4-byte length prefix plus n bytes.
func MaxLength(n int) int {
	return 4 + n
}
