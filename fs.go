package cfat

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Filesystem is the top-level handle onto a cfat image: the backing
// store plus the Allocation Table and Block Store views over it. It is
// read-write and serializes mutations with a mutex since every
// operation walks shared allocation-table state.
type Filesystem struct {
	backing backing
	path    string

	mu sync.Mutex

	clock   func() time.Time
	verbose bool
}

// Option configures a Filesystem at Create/Load time.
type Option func(*Filesystem) error

// WithClock overrides the clock used to stamp CreateTime/LastWriteTime,
// primarily so tests can produce deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(fsys *Filesystem) error {
		fsys.clock = now
		return nil
	}
}

// WithVerbose turns on log.Printf tracing of directory and allocation
// operations.
func WithVerbose(v bool) Option {
	return func(fsys *Filesystem) error {
		fsys.verbose = v
		return nil
	}
}

func defaultClock() time.Time { return time.Now() }

func (fsys *Filesystem) logf(format string, args ...any) {
	if fsys.verbose {
		log.Printf(format, args...)
	}
}

// format clears the Allocation Table and lays down an empty root
// directory at rootBlock.
func (fsys *Filesystem) format() error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	zero := make([]byte, allocTableBytes)
	if _, err := fsys.backing.WriteAt(zero, 0); err != nil {
		return fmt.Errorf("cfat: format: %w", ErrIO)
	}
	if err := fsys.setCell(rootBlock, endOfChain); err != nil {
		return err
	}
	if err := fsys.writeBlock(rootBlock, make([]byte, BlockBytes)); err != nil {
		return err
	}
	root := fsys.newDirent("", AttrDirectory, rootBlock)
	if err := fsys.initDirectory(rootBlock, root, root); err != nil {
		return err
	}
	return fsys.backing.Sync()
}

// Close releases the backing store. Further use of fsys is undefined.
func (fsys *Filesystem) Close() error {
	return fsys.backing.Close()
}

// Sync flushes pending writes to the backing store.
func (fsys *Filesystem) Sync() error {
	return fsys.backing.Sync()
}

// StatfsResult reports aggregate capacity, free space, and the root
// directory's link count.
type StatfsResult struct {
	BlockSize   uint32
	TotalBlocks uint64
	FreeBlocks  uint64
	NameMax     uint32

	// RootLinks is the root directory's hard-link count: 2 plus one
	// for each live subdirectory directly under it.
	RootLinks uint32
}

// Statfs reports capacity and free space by scanning the Allocation
// Table for free cells, plus the root directory's link count.
func (fsys *Filesystem) Statfs() (StatfsResult, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	free, err := fsys.countFree()
	if err != nil {
		return StatfsResult{}, err
	}
	subdirs, err := fsys.numSubdirs(rootBlock)
	if err != nil {
		return StatfsResult{}, err
	}
	return StatfsResult{
		BlockSize:   BlockBytes,
		TotalBlocks: TotalBlocks,
		FreeBlocks:  uint64(free),
		NameMax:     11,
		RootLinks:   uint32(2 + subdirs),
	}, nil
}
