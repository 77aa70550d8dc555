// Package log appends variable-length records into log blocks and
// exposes reverse iteration from newest to oldest. It tracks a
// monotonic log sequence number (LSN) but has no notion of what a
// record means — that is the job of the tx package's log records.
package log

import (
	"sync"

	"centauri/internal/file"
	"centauri/internal/telemetry"
)

// Manager owns the single resident tail page of the log file and
// serializes every append/flush behind one mutex, keeping each
// critical section short.
type Manager struct {
	fm *file.Manager

	mu           sync.Mutex
	logfile      string
	tailPage     *file.Page
	currentBlock file.BlockID
	latestLSN    int
	lastSavedLSN int
}

// NewManager opens (or creates) logfile and positions the tail page at
// its last block, allocating a fresh block if the log is empty.
func NewManager(fm *file.Manager, logfile string) (*Manager, error) {
	lm := &Manager{
		fm:       fm,
		logfile:  logfile,
		tailPage: file.NewPage(fm.BlockSize()),
	}

	size, err := fm.Length(logfile)
	if err != nil {
		return nil, err
	}

	if size == 0 {
		blk, err := lm.appendNewBlock()
		if err != nil {
			return nil, err
		}
		lm.currentBlock = blk
	} else {
		lm.currentBlock = file.NewBlockID(logfile, size-1)
		if err := fm.Read(lm.currentBlock, lm.tailPage); err != nil {
			return nil, err
		}
	}

	return lm, nil
}

// Append serializes rec into the tail block, rolling over to a newly
// allocated block first if rec would not fit in the remaining space.
// It returns the LSN just assigned to rec (spec open question:
// append returns the newly assigned LSN, not the prior one).
func (lm *Manager) Append(rec []byte) (int, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	boundary, err := lm.tailPage.GetInt(0)
	if err != nil {
		return 0, err
	}
	bytesNeeded := len(rec) + 4

	if int(boundary)-bytesNeeded < 4 {
		if err := lm.flushLocked(); err != nil {
			return 0, err
		}
		blk, err := lm.appendNewBlock()
		if err != nil {
			return 0, err
		}
		lm.currentBlock = blk
		boundary, err = lm.tailPage.GetInt(0)
		if err != nil {
			return 0, err
		}
	}

	recPos := int(boundary) - bytesNeeded
	if err := lm.tailPage.SetBytes(recPos, rec); err != nil {
		return 0, err
	}
	if err := lm.tailPage.SetInt(0, int32(recPos)); err != nil {
		return 0, err
	}

	lm.latestLSN++
	telemetry.For("log").Debugf("appended lsn=%d block=%s", lm.latestLSN, lm.currentBlock)
	return lm.latestLSN, nil
}

// appendNewBlock allocates a new log block and initializes its
// boundary to the block size (an empty block). Caller holds lm.mu.
func (lm *Manager) appendNewBlock() (file.BlockID, error) {
	blk, err := lm.fm.Append(lm.logfile)
	if err != nil {
		return file.BlockID{}, err
	}
	if err := lm.tailPage.SetInt(0, int32(lm.fm.BlockSize())); err != nil {
		return file.BlockID{}, err
	}
	if err := lm.fm.Write(blk, lm.tailPage); err != nil {
		return file.BlockID{}, err
	}
	return blk, nil
}

// Flush forces the tail page to disk unconditionally.
func (lm *Manager) Flush() error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.flushLocked()
}

// FlushWith forces the tail page to disk only if lsn has not already
// been saved, implementing the WAL contract: a frame may be written
// only after every log record up to its last_lsn is durable.
func (lm *Manager) FlushWith(lsn int) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if lsn > lm.lastSavedLSN {
		return lm.flushLocked()
	}
	return nil
}

func (lm *Manager) flushLocked() error {
	if err := lm.fm.Write(lm.currentBlock, lm.tailPage); err != nil {
		return err
	}
	lm.lastSavedLSN = lm.latestLSN
	return nil
}

// Iterator forces a flush and returns a reverse iterator (newest to
// oldest) over every record written so far.
func (lm *Manager) Iterator() (*Iterator, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if err := lm.flushLocked(); err != nil {
		return nil, err
	}
	return newIterator(lm.fm, lm.currentBlock)
}
