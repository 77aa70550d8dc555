package record

import "centauri/internal/file"

// intBytes is the on-disk width of an integer field. Page's GetInt and
// SetInt are fixed at 4 bytes (big-endian int32), so a layout built on
// unsafe.Sizeof(int(0)) — as some teaching implementations do — would
// silently depend on the host's native int width. Fixed-width fields
// are a correctness requirement here, not a style choice.
const intBytes = 4

// Layout maps a Schema's fields onto byte offsets within a fixed-size
// slot: a 4-byte in-use flag followed by each field in schema order.
type Layout struct {
	schema   *Schema
	offsets  map[string]int
	slotSize int
}

// NewLayout computes a fresh layout from schema, used when a table is
// first created.
func NewLayout(schema *Schema) (*Layout, error) {
	offsets := make(map[string]int)
	pos := intBytes // in-use flag

	for _, fieldName := range schema.Fields() {
		offsets[fieldName] = pos
		n, err := lengthInBytes(schema, fieldName)
		if err != nil {
			return nil, err
		}
		pos += n
	}

	return &Layout{schema: schema, offsets: offsets, slotSize: pos}, nil
}

// NewLayoutWithOffsets reconstructs a layout from metadata already
// computed and persisted elsewhere (e.g. a catalog).
func NewLayoutWithOffsets(schema *Schema, offsets map[string]int, slotSize int) *Layout {
	return &Layout{schema: schema, offsets: offsets, slotSize: slotSize}
}

func (l *Layout) Schema() *Schema { return l.schema }

// Offset returns fieldName's byte offset within a slot.
func (l *Layout) Offset(fieldName string) (int, error) {
	offset, ok := l.offsets[fieldName]
	if !ok {
		return 0, newUnknownField(fieldName)
	}
	return offset, nil
}

// SlotSize returns the fixed size, in bytes, of one record slot.
func (l *Layout) SlotSize() int { return l.slotSize }

func lengthInBytes(schema *Schema, fieldName string) (int, error) {
	dataType, err := schema.DataType(fieldName)
	if err != nil {
		return 0, err
	}
	if dataType == Integer {
		return intBytes, nil
	}
	length, err := schema.Length(fieldName)
	if err != nil {
		return 0, err
	}
	return file.MaxLength(length), nil
}
