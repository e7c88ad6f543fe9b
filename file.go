package cfat

import (
	"io"
	"io/fs"
)

// File is a convenience wrapper letting a regular-file Entry be used as
// an io/fs.File (and io.ReaderAt).
type File struct {
	fsys *Filesystem
	path string
	e    *Entry
	off  int64
}

// FileDir is the directory counterpart of File, implementing fs.ReadDirFile.
type FileDir struct {
	fsys    *Filesystem
	path    string
	e       *Entry
	entries []fs.DirEntry
}

var _ fs.File = (*File)(nil)
var _ io.ReaderAt = (*File)(nil)
var _ io.Seeker = (*File)(nil)
var _ fs.ReadDirFile = (*FileDir)(nil)

// Open implements fs.FS, returning a FileDir for directories and a File
// for regular files, so a *Filesystem can be driven by anything that
// accepts an io/fs.FS (fs.WalkDir, http.FileServer, fs.ReadFile, ...).
func (fsys *Filesystem) Open(name string) (fs.File, error) {
	e, err := fsys.Resolve(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	if e.IsDir() {
		return &FileDir{fsys: fsys, path: name, e: e}, nil
	}
	return &File{fsys: fsys, path: name, e: e}, nil
}

// Stat implements fs.StatFS.
func (fsys *Filesystem) Stat(name string) (fs.FileInfo, error) {
	e, err := fsys.Resolve(name)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return entryInfo{e}, nil
}

// (File)

func (f *File) Read(p []byte) (int, error) {
	n, err := f.fsys.ReadFile(f.path, p, f.off)
	f.off += int64(n)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.fsys.ReadFile(f.path, p, off)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.off = offset
	case io.SeekCurrent:
		f.off += offset
	case io.SeekEnd:
		f.off = f.e.Size() + offset
	}
	return f.off, nil
}

func (f *File) Stat() (fs.FileInfo, error) {
	return entryInfo{f.e}, nil
}

func (f *File) Close() error { return nil }

// (FileDir)

func (d *FileDir) Read(p []byte) (int, error) {
	return 0, fs.ErrInvalid
}

func (d *FileDir) Stat() (fs.FileInfo, error) {
	return entryInfo{d.e}, nil
}

func (d *FileDir) Close() error {
	d.entries = nil
	return nil
}

func (d *FileDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if d.entries == nil {
		entries, err := d.fsys.ReadDir(d.path)
		if err != nil {
			return nil, err
		}
		d.entries = entries
	}
	if n <= 0 {
		out := d.entries
		d.entries = nil
		return out, nil
	}
	if len(d.entries) == 0 {
		return nil, io.EOF
	}
	if n > len(d.entries) {
		n = len(d.entries)
	}
	out := d.entries[:n]
	d.entries = d.entries[n:]
	return out, nil
}
