package cfat

import (
	"fmt"
	"io/fs"
	"time"
)

// Directory Engine: directories are chains of blocks, each holding
// direntsPerBlock packed dirent slots. Every directory's first block
// opens with two mandatory bootstrap records: slot 0 is "." (this
// directory, never flagged last), slot 1 is ".." (the parent
// directory, flagged last until a third entry is appended). Exactly
// one live record in the whole chain carries LastFlag at any time: the
// directory's current terminal entry. The slot-state trichotomy below
// resolves the ambiguity a bare boolean-or-index return would leave
// between "block is empty" and "first slot happens to be the last one."

type slotState int

const (
	slotFound slotState = iota
	slotEmpty
	slotCorrupt
)

// findLastSlot scans block for the last-in-chain slot: the slot flagged
// isLast(). It returns slotEmpty if that slot holds an unused record
// (nothing appended yet), slotFound if it holds a live or deleted record,
// and slotCorrupt if no slot in the block is flagged isLast at all.
func (fsys *Filesystem) findLastSlot(block uint16) (slot uint8, state slotState, err error) {
	buf, err := fsys.readBlock(block)
	if err != nil {
		return 0, slotCorrupt, err
	}
	for s := 0; s < direntsPerBlock; s++ {
		var d dirent
		if err := d.unmarshal(buf[s*direntSize : (s+1)*direntSize]); err != nil {
			return 0, slotCorrupt, err
		}
		if d.isLast() {
			if d.isEmpty() {
				return uint8(s), slotEmpty, nil
			}
			return uint8(s), slotFound, nil
		}
	}
	return 0, slotCorrupt, fmt.Errorf("cfat: block %d has no last-slot sentinel: %w", block, ErrCorrupt)
}

func (fsys *Filesystem) readSlot(at location) (dirent, error) {
	buf, err := fsys.readBlock(at.block)
	if err != nil {
		return dirent{}, err
	}
	var d dirent
	off := int(at.slot) * direntSize
	if err := d.unmarshal(buf[off : off+direntSize]); err != nil {
		return dirent{}, err
	}
	return d, nil
}

func (fsys *Filesystem) writeSlot(at location, d dirent) error {
	buf, err := fsys.readBlock(at.block)
	if err != nil {
		return err
	}
	off := int(at.slot) * direntSize
	copy(buf[off:off+direntSize], d.marshal())
	return fsys.writeBlock(at.block, buf)
}

// initDirectory formats block as a fresh directory: slot 0 holds "."
// (this directory, named self, never last), slot 1 holds ".." (the
// parent directory, named parent, flagged last since no further
// entries exist yet). The root directory is its own parent, so format
// calls this with self and parent equal. Timestamps on each bootstrap
// record are copied from the directory they name.
func (fsys *Filesystem) initDirectory(block uint16, self, parent dirent) error {
	buf := make([]byte, BlockBytes)

	dot := self
	dot.setName(".")
	dot.Attributes = AttrDirectory
	dot.FirstClusterLow = block
	dot.Size = 0
	dot.LastFlag = 0

	dotdot := parent
	dotdot.setName("..")
	dotdot.Attributes = AttrDirectory
	dotdot.Size = 0
	dotdot.LastFlag = lastEntrySentinel

	copy(buf[0:direntSize], dot.marshal())
	copy(buf[direntSize:2*direntSize], dotdot.marshal())
	return fsys.writeBlock(block, buf)
}

// forEachEntry walks every live (non-deleted, non-empty) record in the
// directory chain starting at start, calling fn with its location and
// decoded record. fn returning false stops the walk early.
func (fsys *Filesystem) forEachEntry(start uint16, fn func(at location, d dirent) bool) error {
	blocks, err := fsys.chainBlocks(start)
	if err != nil {
		return err
	}
	for _, block := range blocks {
		buf, err := fsys.readBlock(block)
		if err != nil {
			return err
		}
		for s := 0; s < direntsPerBlock; s++ {
			var d dirent
			if err := d.unmarshal(buf[s*direntSize : (s+1)*direntSize]); err != nil {
				return err
			}
			if d.isEmpty() {
				break
			}
			if !d.deleted() {
				if !fn(location{block: block, slot: uint8(s)}, d) {
					return nil
				}
			}
			if d.isLast() {
				break
			}
		}
	}
	return nil
}

// findEntry looks up name (case-sensitive) among the live entries in
// the directory chain starting at start, including the "." and ".."
// bootstrap records.
func (fsys *Filesystem) findEntry(start uint16, name string) (*Entry, error) {
	var found *Entry
	err := fsys.forEachEntry(start, func(at location, d dirent) bool {
		if d.nameString() == name {
			found = &Entry{fsys: fsys, at: at, rec: d, dirBlock: start}
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrNotFound
	}
	return found, nil
}

// listEntries returns every live entry in the directory chain starting
// at start, in on-disk order, excluding the "." and ".." bootstrap
// records.
func (fsys *Filesystem) listEntries(start uint16) ([]*Entry, error) {
	var out []*Entry
	err := fsys.forEachEntry(start, func(at location, d dirent) bool {
		if name := d.nameString(); name == "." || name == ".." {
			return true
		}
		out = append(out, &Entry{fsys: fsys, at: at, rec: d, dirBlock: start})
		return true
	})
	return out, err
}

// numSubdirs counts the live subdirectory entries directly inside the
// directory chain starting at start, excluding "." and "..".
func (fsys *Filesystem) numSubdirs(start uint16) (int, error) {
	n := 0
	err := fsys.forEachEntry(start, func(at location, d dirent) bool {
		name := d.nameString()
		if name == "." || name == ".." {
			return true
		}
		if d.Attributes.Has(AttrDirectory) {
			n++
		}
		return true
	})
	return n, err
}

// isDirectoryEmpty reports whether the directory chain starting at start
// holds no entries beyond its "." and ".." bootstrap: true iff the ".."
// record, always at slot 1 of the first block, is still the chain's
// terminal record.
func (fsys *Filesystem) isDirectoryEmpty(start uint16) (bool, error) {
	d, err := fsys.readSlot(location{block: start, slot: 1})
	if err != nil {
		return false, err
	}
	return d.isLast(), nil
}

// appendEntry installs a new record just past the directory chain's
// current terminal record, extending the chain with a fresh block if
// the terminal record occupies the last slot of its block. It returns
// the location the record was written to.
func (fsys *Filesystem) appendEntry(start uint16, d dirent) (location, error) {
	blocks, err := fsys.chainBlocks(start)
	if err != nil {
		return location{}, err
	}
	last := blocks[len(blocks)-1]

	slot, state, err := fsys.findLastSlot(last)
	if err != nil {
		return location{}, err
	}
	if state == slotCorrupt {
		return location{}, fmt.Errorf("cfat: block %d has no terminal record: %w", last, ErrCorrupt)
	}

	var at location
	switch {
	case state == slotFound && slot == direntsPerBlock-1:
		// the terminal record occupies the block's last slot; clear
		// it, extend the chain, and install at the new block's first
		// slot.
		prior := location{block: last, slot: slot}
		priorRec, err := fsys.readSlot(prior)
		if err != nil {
			return location{}, err
		}
		priorRec.LastFlag = 0
		if err := fsys.writeSlot(prior, priorRec); err != nil {
			return location{}, err
		}
		next, err := fsys.extendChain(last)
		if err != nil {
			return location{}, err
		}
		at = location{block: next, slot: 0}
	case state == slotEmpty:
		// the sentinel slot has never held a record; install directly.
		at = location{block: last, slot: slot}
	default:
		prior := location{block: last, slot: slot}
		priorRec, err := fsys.readSlot(prior)
		if err != nil {
			return location{}, err
		}
		priorRec.LastFlag = 0
		if err := fsys.writeSlot(prior, priorRec); err != nil {
			return location{}, err
		}
		at = location{block: last, slot: slot + 1}
	}

	d.LastFlag = lastEntrySentinel
	if err := fsys.writeSlot(at, d); err != nil {
		return location{}, err
	}
	return at, nil
}

// markEntryDeleted tombstones the record at at, which lives in the
// directory chain starting at start. If the deleted record was the
// chain's terminal record, the most recently iterated non-deleted
// record before it inherits the last-flag sentinel, so a later append
// lands immediately after it rather than growing the chain.
func (fsys *Filesystem) markEntryDeleted(start uint16, at location) error {
	d, err := fsys.readSlot(at)
	if err != nil {
		return err
	}
	wasLast := d.isLast()
	d.markDeleted()
	if err := fsys.writeSlot(at, d); err != nil {
		return err
	}
	if !wasLast {
		return nil
	}

	var prev *location
	err = fsys.forEachEntry(start, func(loc location, rec dirent) bool {
		l := loc
		prev = &l
		return true
	})
	if err != nil {
		return err
	}
	if prev == nil {
		return fmt.Errorf("cfat: delete left directory %d without a terminal record: %w", start, ErrCorrupt)
	}
	prevRec, err := fsys.readSlot(*prev)
	if err != nil {
		return err
	}
	prevRec.LastFlag = lastEntrySentinel
	return fsys.writeSlot(*prev, prevRec)
}

// dirEntryAdapter adapts an *Entry to fs.DirEntry for use with Go's
// standard directory-listing APIs and the FUSE bridge's readdir.
type dirEntryAdapter struct{ e *Entry }

func (a dirEntryAdapter) Name() string               { return a.e.Name() }
func (a dirEntryAdapter) IsDir() bool                { return a.e.IsDir() }
func (a dirEntryAdapter) Type() fs.FileMode          { return a.e.Attr().Mode() }
func (a dirEntryAdapter) Info() (fs.FileInfo, error) { return entryInfo{a.e}, nil }

type entryInfo struct{ e *Entry }

func (i entryInfo) Name() string      { return i.e.Name() }
func (i entryInfo) Size() int64       { return i.e.Size() }
func (i entryInfo) Mode() fs.FileMode { return i.e.Attr().Mode() }
func (i entryInfo) ModTime() time.Time {
	ts, err := i.e.ModTime()
	if err != nil {
		return time.Time{}
	}
	return ts.Time(time.Local)
}
func (i entryInfo) IsDir() bool { return i.e.IsDir() }
func (i entryInfo) Sys() any    { return i.e }
