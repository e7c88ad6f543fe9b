//go:build unix

package cfat

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapBacking backs a Filesystem with a memory-mapped file: the whole
// image is mapped once and operated on through the returned slice for
// the life of the process.
type mmapBacking struct {
	f   *os.File
	buf []byte
}

func openBacking(f *os.File) (backing, error) {
	buf, err := unix.Mmap(int(f.Fd()), 0, ImageBytes, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: f.Name(), Err: err}
	}
	return &mmapBacking{f: f, buf: buf}, nil
}

func (m *mmapBacking) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(m.buf)) {
		return 0, os.ErrInvalid
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, os.ErrClosed
	}
	return n, nil
}

func (m *mmapBacking) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(m.buf)) {
		return 0, os.ErrInvalid
	}
	return copy(m.buf[off:], p), nil
}

func (m *mmapBacking) Sync() error {
	return unix.Msync(m.buf, unix.MS_SYNC)
}

func (m *mmapBacking) Close() error {
	if err := unix.Munmap(m.buf); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}
