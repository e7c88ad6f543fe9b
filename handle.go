package cfat

import "fmt"

// location identifies a single Directory Record's position as a
// (block, slot) pair rather than a long-lived pointer, since mutations
// elsewhere in the chain can relocate records a cached pointer would
// silently go stale against.
type location struct {
	block uint16
	slot  uint8
}

func (l location) String() string {
	return fmt.Sprintf("location(block=%d,slot=%d)", l.block, l.slot)
}

// Entry is a handle to a Directory Record: its decoded fields plus the
// location it was read from and the filesystem it belongs to. dirBlock
// is the first block of the directory chain holding at, used to climb
// toward the root via "..". Entries are re-resolved by path rather than
// retained across mutations that might reallocate the enclosing block
// chain.
type Entry struct {
	fsys     *Filesystem
	at       location
	rec      dirent
	dirBlock uint16
}

// IsDir reports whether the entry is a directory.
func (e *Entry) IsDir() bool {
	return e.rec.Attributes.Has(AttrDirectory)
}

// Name returns the entry's name with its zero padding trimmed.
func (e *Entry) Name() string {
	return e.rec.nameString()
}

// Size returns the entry's recorded size in bytes (0 for directories).
func (e *Entry) Size() int64 {
	return int64(e.rec.Size)
}

// StartBlock returns the first block of the entry's data or directory chain.
func (e *Entry) StartBlock() uint16 {
	return e.rec.FirstClusterLow
}

// Attr returns the entry's raw attribute bitfield.
func (e *Entry) Attr() Attr {
	return e.rec.Attributes
}

// ModTime returns the entry's last-write timestamp decoded to wall-clock time.
func (e *Entry) ModTime() (Timestamp, error) {
	return decodeTimestamp(e.rec.LastWriteDate, e.rec.LastWriteTime)
}

func (e *Entry) deleted() bool {
	return e.rec.deleted()
}

// Nlink returns the entry's hard-link count: 1 for a regular file, or 2
// plus one for each live subdirectory directly inside it for a
// directory (its own "." plus the ".." every child points back with).
func (e *Entry) Nlink() (uint32, error) {
	if !e.IsDir() {
		return 1, nil
	}
	e.fsys.mu.Lock()
	defer e.fsys.mu.Unlock()
	n, err := e.fsys.numSubdirs(e.StartBlock())
	if err != nil {
		return 0, err
	}
	return uint32(2 + n), nil
}
