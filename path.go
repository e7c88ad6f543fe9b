package cfat

import "strings"

// Path Resolver: splits a slash-separated path into components and
// walks them from a starting directory block, re-walking from the root
// on every lookup rather than caching inodes.

// splitPath breaks p into non-empty components, ignoring leading,
// trailing, and repeated slashes.
func splitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// resolve walks components starting from dirBlock, returning the final
// Entry. An empty components list resolves to nil with no error,
// meaning "the starting directory itself."
func (fsys *Filesystem) resolve(dirBlock uint16, components []string) (*Entry, error) {
	var cur *Entry
	block := dirBlock
	for i, name := range components {
		e, err := fsys.findEntry(block, name)
		if err != nil {
			return nil, err
		}
		cur = e
		if i < len(components)-1 {
			if !e.IsDir() {
				return nil, ErrNotADirectory
			}
			block = e.StartBlock()
		}
	}
	return cur, nil
}

// resolveParent splits path into (parent directory block, final
// component name), walking every component but the last. An empty
// final component (path is "" or "/") is an error: callers that need
// the root itself should special-case it before calling this.
func (fsys *Filesystem) resolveParent(path string) (parentBlock uint16, name string, err error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return 0, "", ErrNotFound
	}
	name = parts[len(parts)-1]
	block := uint16(rootBlock)
	for _, part := range parts[:len(parts)-1] {
		e, err := fsys.findEntry(block, part)
		if err != nil {
			return 0, "", err
		}
		if !e.IsDir() {
			return 0, "", ErrNotADirectory
		}
		block = e.StartBlock()
	}
	return block, name, nil
}

// Resolve looks up an absolute, slash-separated path from the root
// directory. Resolve("/") and Resolve("") both return the root entry.
func (fsys *Filesystem) Resolve(path string) (*Entry, error) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return fsys.rootEntry(), nil
	}
	fsys.mu.Lock()
	defer fsys.mu.Unlock()
	return fsys.resolve(rootBlock, parts)
}

// rootEntry synthesizes an Entry for the root directory, which has no
// backing dirent slot of its own (it is its own parent).
func (fsys *Filesystem) rootEntry() *Entry {
	var d dirent
	d.Attributes = AttrDirectory
	d.FirstClusterLow = rootBlock
	return &Entry{fsys: fsys, at: location{block: rootBlock, slot: 0}, rec: d, dirBlock: rootBlock}
}

// Path reconstructs e's absolute path by climbing toward the root one
// ".." hop at a time: at each directory, its own name is found by
// scanning its parent for the child whose start block matches, since a
// directory's own record carries no back-reference to its name.
func (fsys *Filesystem) Path(e *Entry) (string, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	if e.at.block == rootBlock && e.at.slot == 0 && e.IsDir() && e.rec.isEmpty() {
		return "/", nil
	}

	names := []string{e.Name()}
	dirBlock := e.dirBlock
	for dirBlock != rootBlock {
		parentRec, err := fsys.readSlot(location{block: dirBlock, slot: 1})
		if err != nil {
			return "", err
		}
		parentBlock := parentRec.FirstClusterLow
		name, err := fsys.nameOfChildBlock(parentBlock, dirBlock)
		if err != nil {
			return "", err
		}
		names = append(names, name)
		dirBlock = parentBlock
	}

	var sb strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(names[i])
	}
	return sb.String(), nil
}

// nameOfChildBlock scans the directory chain starting at dirBlock for
// the live subdirectory entry whose own chain starts at target,
// returning its name. "." and ".." are skipped since neither names a
// distinct child.
func (fsys *Filesystem) nameOfChildBlock(dirBlock, target uint16) (string, error) {
	var name string
	found := false
	err := fsys.forEachEntry(dirBlock, func(at location, d dirent) bool {
		n := d.nameString()
		if n == "." || n == ".." {
			return true
		}
		if d.Attributes.Has(AttrDirectory) && d.FirstClusterLow == target {
			name, found = n, true
			return false
		}
		return true
	})
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNotFound
	}
	return name, nil
}

// Path returns e's absolute path within its filesystem.
func (e *Entry) Path() (string, error) {
	return e.fsys.Path(e)
}
