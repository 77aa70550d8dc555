package record

import "fmt"

// RID (record identifier) names a record by the block that holds it
// and its slot within that block.
type RID struct {
	BlockNum int
	Slot     int
}

// NewRID returns the identifier for the record at blockNum, slot.
func NewRID(blockNum, slot int) RID {
	return RID{BlockNum: blockNum, Slot: slot}
}

func (rid RID) String() string {
	return fmt.Sprintf("[block %d, slot %d]", rid.BlockNum, rid.Slot)
}
