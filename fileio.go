package cfat

import "fmt"

// File I/O Engine: files are block chains exactly like directories,
// but their bytes are raw payload rather than packed dirents.

func validateName(name string) error {
	if len(name) == 0 || len(name) > 11 {
		return ErrNameTooLong
	}
	return nil
}

func (fsys *Filesystem) newDirent(name string, attr Attr, startBlock uint16) dirent {
	var d dirent
	d.setName(name)
	d.Attributes = attr
	d.FirstClusterLow = startBlock
	now := fsys.clock()
	date, tm, tenths, _ := encodeTimestamp(now)
	d.CreateDate, d.CreateTime, d.CreateTimeTenths = date, tm, tenths
	d.LastWriteDate, d.LastWriteTime = date, tm
	d.LastAccessDate = date
	return d
}

// CreateFile creates an empty regular file named name inside the
// directory at path dir.
func (fsys *Filesystem) CreateFile(dir, name string) (*Entry, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	dirEntry, err := fsys.lookupDir(dir)
	if err != nil {
		return nil, err
	}
	parentBlock := dirEntry.StartBlock()
	if _, err := fsys.findEntry(parentBlock, name); err == nil {
		return nil, ErrNameExists
	}

	block, err := fsys.allocBlock()
	if err != nil {
		return nil, err
	}
	d := fsys.newDirent(name, 0, block)
	at, err := fsys.appendEntry(parentBlock, d)
	if err != nil {
		fsys.releaseChain(block)
		return nil, err
	}
	return &Entry{fsys: fsys, at: at, rec: d, dirBlock: parentBlock}, nil
}

// Mkdir creates a new, empty subdirectory named name inside the
// directory at path dir.
func (fsys *Filesystem) Mkdir(dir, name string) (*Entry, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	dirEntry, err := fsys.lookupDir(dir)
	if err != nil {
		return nil, err
	}
	parentBlock := dirEntry.StartBlock()
	if _, err := fsys.findEntry(parentBlock, name); err == nil {
		return nil, ErrNameExists
	}

	block, err := fsys.allocBlock()
	if err != nil {
		return nil, err
	}
	d := fsys.newDirent(name, AttrDirectory, block)
	if err := fsys.initDirectory(block, d, dirEntry.rec); err != nil {
		fsys.releaseChain(block)
		return nil, err
	}
	at, err := fsys.appendEntry(parentBlock, d)
	if err != nil {
		fsys.releaseChain(block)
		return nil, err
	}
	return &Entry{fsys: fsys, at: at, rec: d, dirBlock: parentBlock}, nil
}

// lookupDir resolves path to a directory Entry, rejecting non-directory
// targets.
func (fsys *Filesystem) lookupDir(path string) (*Entry, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return fsys.rootEntry(), nil
	}
	e, err := fsys.resolve(rootBlock, parts)
	if err != nil {
		return nil, err
	}
	if !e.IsDir() {
		return nil, ErrNotADirectory
	}
	return e, nil
}

// ReadFile reads up to len(p) bytes starting at offset off from the
// file at path, returning the number of bytes read. It never returns
// more bytes than remain between off and the file's recorded size.
func (fsys *Filesystem) ReadFile(path string, p []byte, off int64) (int, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	e, err := fsys.resolve(rootBlock, splitPath(path))
	if err != nil {
		return 0, err
	}
	if e.IsDir() {
		return 0, ErrIsDirectory
	}
	return fsys.readChainAt(e.StartBlock(), e.Size(), p, off)
}

func (fsys *Filesystem) readChainAt(start uint16, size int64, p []byte, off int64) (int, error) {
	if off >= size {
		return 0, nil
	}
	want := int64(len(p))
	if off+want > size {
		want = size - off
	}

	blocks, err := fsys.chainBlocks(start)
	if err != nil {
		return 0, err
	}

	read := 0
	for read < int(want) {
		abs := off + int64(read)
		blockIdx := int(abs / BlockBytes)
		if blockIdx >= len(blocks) {
			return read, fmt.Errorf("cfat: read past end of chain at block %d: %w", blockIdx, ErrCorrupt)
		}
		inBlock := int(abs % BlockBytes)
		buf, err := fsys.readBlock(blocks[blockIdx])
		if err != nil {
			return read, err
		}
		n := copy(p[read:int(want)], buf[inBlock:])
		read += n
	}
	return read, nil
}

// WriteFile writes len(p) bytes at offset off into the file at path,
// extending its block chain and recorded size as needed. Writes
// starting beyond the current end of file are accepted as no-ops
// returning (0, nil) rather than rejecting the gap.
func (fsys *Filesystem) WriteFile(path string, p []byte, off int64) (int, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	e, err := fsys.resolve(rootBlock, splitPath(path))
	if err != nil {
		return 0, err
	}
	if e.IsDir() {
		return 0, ErrIsDirectory
	}
	if off > e.Size() {
		return 0, nil
	}

	n, newSize, err := fsys.writeChainAt(e.StartBlock(), e.Size(), p, off)
	if err != nil {
		return n, err
	}
	if newSize != e.Size() {
		if err := fsys.setSize(e.at, newSize); err != nil {
			return n, err
		}
	}
	if err := fsys.touchWriteTime(e.at); err != nil {
		return n, err
	}
	return n, nil
}

func (fsys *Filesystem) writeChainAt(start uint16, size int64, p []byte, off int64) (int, int64, error) {
	blocks, err := fsys.chainBlocks(start)
	if err != nil {
		return 0, size, err
	}

	written := 0
	for written < len(p) {
		abs := off + int64(written)
		blockIdx := int(abs / BlockBytes)
		for blockIdx >= len(blocks) {
			last := blocks[len(blocks)-1]
			next, err := fsys.extendChain(last)
			if err != nil {
				return written, size, err
			}
			blocks = append(blocks, next)
		}
		inBlock := int(abs % BlockBytes)
		buf, err := fsys.readBlock(blocks[blockIdx])
		if err != nil {
			return written, size, err
		}
		n := copy(buf[inBlock:], p[written:])
		if err := fsys.writeBlock(blocks[blockIdx], buf); err != nil {
			return written, size, err
		}
		written += n
	}

	newSize := size
	if end := off + int64(written); end > newSize {
		newSize = end
	}
	return written, newSize, nil
}

// Truncate resizes the file at path to size bytes. Growing a file only
// updates its recorded size and never allocates; a read reaching into
// the grown-but-unallocated region is the one documented quirk this
// carries forward from the format it implements. Shrinking to a
// positive size zeros the remainder of the boundary block beyond the
// new size before releasing the chain tail past it; shrinking to zero
// also zeros every released block's payload.
func (fsys *Filesystem) Truncate(path string, size int64) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	e, err := fsys.resolve(rootBlock, splitPath(path))
	if err != nil {
		return err
	}
	if e.IsDir() {
		return ErrIsDirectory
	}

	switch {
	case size >= e.Size():
		// no allocation on grow.
	case size == 0:
		if err := fsys.zeroChain(e.StartBlock()); err != nil {
			return err
		}
		if err := fsys.releaseChain(e.StartBlock()); err != nil {
			return err
		}
		if err := fsys.setCell(e.StartBlock(), endOfChain); err != nil {
			return err
		}
	default:
		if err := fsys.truncateWithinChain(e.StartBlock(), size); err != nil {
			return err
		}
	}

	if err := fsys.setSize(e.at, size); err != nil {
		return err
	}
	return fsys.touchWriteTime(e.at)
}

// truncateWithinChain implements the 0 < newSize < size case: it zeros
// the boundary block's tail beyond newSize and releases the chain past
// that block.
func (fsys *Filesystem) truncateWithinChain(start uint16, newSize int64) error {
	blocks, err := fsys.chainBlocks(start)
	if err != nil {
		return err
	}

	boundary := int((newSize - 1) / BlockBytes)
	keep := int((newSize-1)%BlockBytes) + 1

	buf, err := fsys.readBlock(blocks[boundary])
	if err != nil {
		return err
	}
	for i := keep; i < BlockBytes; i++ {
		buf[i] = 0
	}
	if err := fsys.writeBlock(blocks[boundary], buf); err != nil {
		return err
	}

	if boundary+1 >= len(blocks) {
		return nil
	}
	if err := fsys.setCell(blocks[boundary], endOfChain); err != nil {
		return err
	}
	return fsys.releaseChain(blocks[boundary+1])
}

// zeroChain overwrites every block's payload in the chain starting at
// start with zeros, without releasing any cell.
func (fsys *Filesystem) zeroChain(start uint16) error {
	blocks, err := fsys.chainBlocks(start)
	if err != nil {
		return err
	}
	zero := make([]byte, BlockBytes)
	for _, b := range blocks {
		if err := fsys.writeBlock(b, zero); err != nil {
			return err
		}
	}
	return nil
}

// Rename changes the leaf name of the file or directory at path in
// place, without moving it to a different parent directory (moving
// between directories is unsupported).
func (fsys *Filesystem) Rename(path, newName string) error {
	if err := validateName(newName); err != nil {
		return err
	}
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	parentBlock, name, err := fsys.resolveParent(path)
	if err != nil {
		return err
	}
	e, err := fsys.findEntry(parentBlock, name)
	if err != nil {
		return err
	}
	if _, err := fsys.findEntry(parentBlock, newName); err == nil {
		return ErrNameExists
	}

	d, err := fsys.readSlot(e.at)
	if err != nil {
		return err
	}
	d.setName(newName)
	return fsys.writeSlot(e.at, d)
}

// SetReadOnly sets or clears the read-only attribute on the file or
// directory at path, the one attribute bit a chmod-style caller can
// influence in this format.
func (fsys *Filesystem) SetReadOnly(path string, readOnly bool) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	e, err := fsys.resolve(rootBlock, splitPath(path))
	if err != nil {
		return err
	}
	d, err := fsys.readSlot(e.at)
	if err != nil {
		return err
	}
	if readOnly {
		d.Attributes |= AttrReadOnly
	} else {
		d.Attributes &^= AttrReadOnly
	}
	return fsys.writeSlot(e.at, d)
}

// Remove deletes the file or empty directory at path.
func (fsys *Filesystem) Remove(path string) error {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	parentBlock, name, err := fsys.resolveParent(path)
	if err != nil {
		return err
	}
	e, err := fsys.findEntry(parentBlock, name)
	if err != nil {
		return err
	}
	if e.IsDir() {
		empty, err := fsys.isDirectoryEmpty(e.StartBlock())
		if err != nil {
			return err
		}
		if !empty {
			return ErrNotEmpty
		}
	}
	if err := fsys.releaseChain(e.StartBlock()); err != nil {
		return err
	}
	return fsys.markEntryDeleted(parentBlock, e.at)
}

func (fsys *Filesystem) setSize(at location, size int64) error {
	d, err := fsys.readSlot(at)
	if err != nil {
		return err
	}
	d.Size = uint32(size)
	return fsys.writeSlot(at, d)
}

// Touch updates the last-write timestamp of the file at path to now,
// creating it first if it does not exist.
func (fsys *Filesystem) Touch(path string) error {
	fsys.mu.Lock()
	parentBlock, name, err := fsys.resolveParent(path)
	fsys.mu.Unlock()
	if err != nil {
		return err
	}

	fsys.mu.Lock()
	e, err := fsys.findEntry(parentBlock, name)
	fsys.mu.Unlock()
	if err == ErrNotFound {
		_, err := fsys.CreateFile(parentDirPath(path), name)
		return err
	}
	if err != nil {
		return err
	}

	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.touchWriteTime(e.at)
}

func (fsys *Filesystem) touchWriteTime(at location) error {
	d, err := fsys.readSlot(at)
	if err != nil {
		return err
	}
	date, tm, _, err := encodeTimestamp(fsys.clock())
	if err != nil {
		return err
	}
	d.LastWriteDate, d.LastWriteTime = date, tm
	return fsys.writeSlot(at, d)
}

func parentDirPath(path string) string {
	parts := splitPath(path)
	if len(parts) <= 1 {
		return "/"
	}
	return "/" + joinSlash(parts[:len(parts)-1])
}

func joinSlash(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "/"
		}
		out += p
	}
	return out
}
