// Package engine wires the file, log, buffer, and tx packages into a
// single startup/shutdown unit and runs cold-start recovery. It is the
// only façade this module carries — there is no SQL layer, planner, or
// client-facing server above it.
package engine

import (
	"centauri/internal/buffer"
	"centauri/internal/file"
	"centauri/internal/log"
	"centauri/internal/telemetry"
	"centauri/internal/tx"
)

// Engine owns the four managers and the shared transaction
// infrastructure (lock table, ID generator) that every Transaction it
// mints is built from.
type Engine struct {
	cfg Config

	fm        *file.Manager
	lm        *log.Manager
	bm        *buffer.Manager
	lockTable *tx.LockTable
	idGen     *tx.IDGenerator
}

// Open creates or reopens the data directory named by cfg.Directory,
// then runs cold-start recovery if the directory already existed.
func Open(cfg Config) (*Engine, error) {
	fm, err := file.NewManager(cfg.Directory, cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	lm, err := log.NewManager(fm, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	bm := buffer.NewManager(fm, lm, cfg.BufferPoolSize)

	e := &Engine{
		cfg:       cfg,
		fm:        fm,
		lm:        lm,
		bm:        bm,
		lockTable: tx.NewLockTable(),
		idGen:     tx.NewIDGenerator(),
	}

	if fm.IsNew() {
		telemetry.For("engine").Infof("created new database at %s", cfg.Directory)
	} else {
		telemetry.For("engine").Infof("recovering existing database at %s", cfg.Directory)
		highest, err := tx.Recover(fm, lm, bm, e.lockTable)
		if err != nil {
			return nil, err
		}
		e.idGen.SeedAtLeast(highest + 1)
	}

	return e, nil
}

// NewTransaction mints a fresh Transaction bound to this engine's
// managers, lock table, and ID generator.
func (e *Engine) NewTransaction() (*tx.Transaction, error) {
	return tx.NewTransaction(e.idGen, e.fm, e.lm, e.bm, e.lockTable)
}

// FileManager exposes the engine's file manager, for callers that need
// direct block I/O (e.g. tests).
func (e *Engine) FileManager() *file.Manager { return e.fm }

// LogManager exposes the engine's log manager.
func (e *Engine) LogManager() *log.Manager { return e.lm }

// BufferManager exposes the engine's buffer manager.
func (e *Engine) BufferManager() *buffer.Manager { return e.bm }

// Close releases the engine's open file handles.
func (e *Engine) Close() error {
	return e.fm.Close()
}
