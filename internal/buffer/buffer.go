// Package buffer implements the fixed-size pool of page frames that
// mediate every disk access made by a transaction, enforcing the
// write-ahead-log discipline on eviction and on transaction flush.
package buffer

import "centauri/internal/file"

// Buffer is a memory-resident frame: contents plus the bookkeeping a
// replacement policy needs. It holds no reference back to the file or
// log manager — all I/O for a frame is performed by the Manager that
// owns it, so frames stay pure data.
type Buffer struct {
	contents *file.Page
	block    file.BlockID
	bound    bool
	pins     int
	txnum    int // -1 means clean
	lastLSN  int // -1 means no logged change describes this frame's contents
}

func newBuffer(blockSize int) *Buffer {
	return &Buffer{
		contents: file.NewPage(blockSize),
		txnum:    -1,
		lastLSN:  -1,
	}
}

// Contents returns the frame's page. Callers must hold a pin on the
// frame (via Manager.Pin) for the duration of any read or write.
func (b *Buffer) Contents() *file.Page { return b.contents }

// Block returns the block currently bound to this frame. Only
// meaningful while the frame is pinned.
func (b *Buffer) Block() file.BlockID { return b.block }

// IsPinned reports whether the frame's pin count is non-zero.
func (b *Buffer) IsPinned() bool { return b.pins > 0 }

// ModifyingTx returns the txnum that last dirtied this frame, or -1 if
// the frame is clean.
func (b *Buffer) ModifyingTx() int { return b.txnum }

// LastLSN returns the LSN of the most recent log record describing a
// modification to this frame, or -1 if none.
func (b *Buffer) LastLSN() int { return b.lastLSN }
