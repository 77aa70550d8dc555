package buffer

import (
	"sync"
	"time"

	"centauri/internal/file"
	"centauri/internal/log"
	"centauri/internal/telemetry"
	"centauri/internal/txerrors"
)

// maxWait bounds how long Pin will wait for a frame to free up before
// aborting.
const maxWait = 10 * time.Second

// Manager owns a fixed pool of frames and performs all I/O on their
// behalf: loading a block in, flushing a dirty frame out, and
// enforcing that a frame's log record is durable before its page is
// written. Eviction policy is first-unpinned;
// any policy is acceptable as long as pinned frames are never chosen
// and dirty victims obey WAL.
type Manager struct {
	fm *file.Manager
	lm *log.Manager

	mu           sync.Mutex
	cond         *sync.Cond
	pool         []*Buffer
	numAvailable int
}

// NewManager allocates a pool of numBuffs frames, each backed by a page
// of fm's block size.
func NewManager(fm *file.Manager, lm *log.Manager, numBuffs int) *Manager {
	bm := &Manager{
		fm:           fm,
		lm:           lm,
		pool:         make([]*Buffer, numBuffs),
		numAvailable: numBuffs,
	}
	bm.cond = sync.NewCond(&bm.mu)
	for i := range bm.pool {
		bm.pool[i] = newBuffer(fm.BlockSize())
	}
	return bm
}

// Available returns the number of currently unpinned frames.
func (bm *Manager) Available() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.numAvailable
}

// Pin binds blk to a frame — reusing one already bound to blk if
// present, otherwise evicting an unpinned frame — and increments its
// pin count. It waits for a frame to free up, waking on every Unpin,
// and aborts with txerrors.BufferAbort after maxWait with no progress.
func (bm *Manager) Pin(blk file.BlockID) (*Buffer, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	deadline := time.Now().Add(maxWait)

	buf, err := bm.tryToPin(blk)
	if err != nil {
		return nil, err
	}
	for buf == nil {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, txerrors.NewBufferAbort(maxWait.String())
		}
		bm.waitWithTimeout(remaining)

		buf, err = bm.tryToPin(blk)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// waitWithTimeout releases bm.mu, waits for either a broadcast (a
// frame was unpinned) or d to elapse, then reacquires bm.mu. Caller
// holds bm.mu on entry and exit.
func (bm *Manager) waitWithTimeout(d time.Duration) {
	timer := time.AfterFunc(d, func() {
		bm.mu.Lock()
		bm.cond.Broadcast()
		bm.mu.Unlock()
	})
	defer timer.Stop()
	bm.cond.Wait()
}

// Unpin decrements buf's pin count and, if it reaches zero, wakes any
// goroutine blocked in Pin.
func (bm *Manager) Unpin(buf *Buffer) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	buf.pins--
	if !buf.IsPinned() {
		bm.numAvailable++
		bm.cond.Broadcast()
	}
}

// SetModified marks buf dirty for txnum. lsn is the LSN of the log
// record describing this change, or -1 if the caller disabled
// logging; per spec open question, -1 preserves the frame's prior
// lastLSN rather than clearing it.
func (bm *Manager) SetModified(buf *Buffer, txnum, lsn int) {
	buf.txnum = txnum
	if lsn >= 0 {
		buf.lastLSN = lsn
	}
}

// FlushAll forces the log through each frame's lastLSN and writes it
// to disk for every frame currently modified by txnum, then marks them
// clean. Called at commit (after which committed effects are durable)
// and at rollback/recover (after which the undone effects are durable).
func (bm *Manager) FlushAll(txnum int) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	for _, buf := range bm.pool {
		if buf.ModifyingTx() == txnum {
			if err := bm.flush(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

// flush writes buf to disk if dirty, first forcing the log through its
// lastLSN (WAL). Caller holds bm.mu.
func (bm *Manager) flush(buf *Buffer) error {
	if buf.txnum < 0 {
		return nil
	}
	if err := bm.lm.FlushWith(buf.lastLSN); err != nil {
		return err
	}
	if err := bm.fm.Write(buf.block, buf.contents); err != nil {
		return err
	}
	buf.txnum = -1
	return nil
}

// tryToPin looks for a frame already bound to blk; failing that, it
// evicts an unpinned frame and loads blk into it. Returns (nil, nil)
// if no frame is currently available. Caller holds bm.mu.
func (bm *Manager) tryToPin(blk file.BlockID) (*Buffer, error) {
	buf := bm.findExistingBuffer(blk)
	if buf == nil {
		buf = bm.chooseUnpinnedBuffer()
		if buf == nil {
			return nil, nil
		}
		if err := bm.assignToBlock(buf, blk); err != nil {
			return nil, err
		}
	}
	if !buf.IsPinned() {
		bm.numAvailable--
	}
	buf.pins++
	return buf, nil
}

// assignToBlock flushes buf if dirty, then loads blk into it. Caller
// holds bm.mu.
func (bm *Manager) assignToBlock(buf *Buffer, blk file.BlockID) error {
	if err := bm.flush(buf); err != nil {
		return err
	}
	if err := bm.fm.Read(blk, buf.contents); err != nil {
		return err
	}
	buf.block = blk
	buf.bound = true
	buf.pins = 0
	telemetry.For("buffer").Debugf("assigned frame to %s", blk)
	return nil
}

func (bm *Manager) findExistingBuffer(blk file.BlockID) *Buffer {
	for _, buf := range bm.pool {
		if buf.bound && buf.block == blk {
			return buf
		}
	}
	return nil
}

func (bm *Manager) chooseUnpinnedBuffer() *Buffer {
	for _, buf := range bm.pool {
		if !buf.IsPinned() {
			return buf
		}
	}
	return nil
}
