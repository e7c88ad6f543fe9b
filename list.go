package cfat

import "io/fs"

// ReadDir lists the entries of the directory at path in on-disk order.
func (fsys *Filesystem) ReadDir(path string) ([]fs.DirEntry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	dirEntry, err := fsys.lookupDir(path)
	if err != nil {
		return nil, err
	}
	entries, err := fsys.listEntries(dirEntry.StartBlock())
	if err != nil {
		return nil, err
	}
	out := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		out[i] = dirEntryAdapter{e}
	}
	return out, nil
}

// Children returns the live Entry handles of a directory, in on-disk order.
func (fsys *Filesystem) Children(path string) ([]*Entry, error) {
	fsys.mu.Lock()
	defer fsys.mu.Unlock()

	dirEntry, err := fsys.lookupDir(path)
	if err != nil {
		return nil, err
	}
	return fsys.listEntries(dirEntry.StartBlock())
}
