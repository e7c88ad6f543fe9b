package cfat

import (
	"fmt"
	"os"
	"path/filepath"
)

// Extract copies the file at srcPath within the image to dstPath on the
// host filesystem. It refuses to overwrite an existing host file.
func (fsys *Filesystem) Extract(srcPath, dstPath string) error {
	if _, err := os.Stat(dstPath); err == nil {
		return fmt.Errorf("cfat: extract %s: %w", dstPath, ErrExternalExists)
	}

	e, err := fsys.Resolve(srcPath)
	if err != nil {
		return err
	}
	if e.IsDir() {
		return ErrIsDirectory
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("cfat: extract %s: %w", dstPath, err)
	}
	defer out.Close()

	buf := make([]byte, BlockBytes)
	var off int64
	size := e.Size()
	for off < size {
		n, err := fsys.ReadFile(srcPath, buf, off)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return fmt.Errorf("cfat: extract %s: %w", dstPath, err)
		}
		off += int64(n)
	}
	return nil
}

// ExtractTree recursively extracts the directory at srcPath and
// everything beneath it into dstDir on the host filesystem.
func (fsys *Filesystem) ExtractTree(srcPath, dstDir string) error {
	entries, err := fsys.Children(srcPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("cfat: extract %s: %w", dstDir, err)
	}
	for _, e := range entries {
		childSrc := srcPath + "/" + e.Name()
		childDst := filepath.Join(dstDir, e.Name())
		if e.IsDir() {
			if err := fsys.ExtractTree(childSrc, childDst); err != nil {
				return err
			}
			continue
		}
		if err := fsys.Extract(childSrc, childDst); err != nil {
			return err
		}
	}
	return nil
}
