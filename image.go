package cfat

import (
	"fmt"
	"io"
	"os"

	"github.com/google/renameio/v2"
)

// backing is the minimal interface a Filesystem needs from its storage
// medium: random-access read/write plus the ability to give it up. The
// mmap- and os.File-backed implementations live in image_unix.go and
// image_other.go.
type backing interface {
	io.ReaderAt
	io.WriterAt
	Close() error
	Sync() error
}

// Create makes a new zero-filled image file of exactly ImageBytes, formats
// it (allocation table cleared, root directory initialized), and opens it.
// The file is written via renameio so a crash or interrupted write never
// leaves a half-written image at path.
func Create(path string, opts ...Option) (*Filesystem, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("cfat: create %s: %w", path, ErrExists)
	}

	t, err := renameio.TempFile("", path)
	if err != nil {
		return nil, fmt.Errorf("cfat: create %s: %w", path, err)
	}
	defer t.Cleanup()

	if _, err := t.Write(make([]byte, ImageBytes)); err != nil {
		return nil, fmt.Errorf("cfat: create %s: %w", path, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return nil, fmt.Errorf("cfat: create %s: %w", path, err)
	}

	fsys, err := Load(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := fsys.format(); err != nil {
		fsys.Close()
		return nil, err
	}
	return fsys, nil
}

// Load opens an existing image file at path. The on-disk layout has no
// superblock to sniff, so Load trusts the caller that path holds a cfat
// image and only checks its size.
func Load(path string, opts ...Option) (*Filesystem, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("cfat: load %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cfat: load %s: %w", path, err)
	}
	if info.Size() != ImageBytes {
		f.Close()
		return nil, fmt.Errorf("cfat: load %s: size %d, want %d: %w", path, info.Size(), ImageBytes, ErrCorrupt)
	}

	b, err := openBacking(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	fsys := &Filesystem{backing: b, path: path, clock: defaultClock}
	for _, opt := range opts {
		if err := opt(fsys); err != nil {
			fsys.Close()
			return nil, err
		}
	}
	fsys.logf("cfat: loaded %s", path)
	return fsys, nil
}
