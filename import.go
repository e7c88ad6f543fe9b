package cfat

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
)

// ImportTree recursively imports every file and directory under root in
// srcFS into dstDir (an existing directory inside the image), preserving
// the host tree's shape. It is built from CreateFile/Mkdir/WriteFile and
// driven by fs.WalkDir.
func (fsys *Filesystem) ImportTree(srcFS fs.FS, root, dstDir string) error {
	return fs.WalkDir(srcFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := relTo(root, p)
		if err != nil {
			return err
		}
		target := path.Join(dstDir, rel)
		parent := path.Dir(target)
		name := path.Base(target)

		if d.IsDir() {
			if _, err := fsys.Mkdir(parent, name); err != nil {
				return fmt.Errorf("cfat: import %s: %w", p, err)
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			// non-regular host files (symlinks, devices, ...) have no
			// representation in this format; skip rather than fail the walk.
			return nil
		}

		if _, err := fsys.CreateFile(parent, name); err != nil {
			return fmt.Errorf("cfat: import %s: %w", p, err)
		}

		f, err := srcFS.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		buf := make([]byte, BlockBytes)
		var off int64
		for {
			n, rerr := f.Read(buf)
			if n > 0 {
				if _, werr := fsys.WriteFile(target, buf[:n], off); werr != nil {
					return fmt.Errorf("cfat: import %s: %w", p, werr)
				}
				off += int64(n)
			}
			if rerr != nil {
				if errors.Is(rerr, io.EOF) {
					break
				}
				return rerr
			}
			if n == 0 {
				break
			}
		}
		return nil
	})
}

func relTo(root, p string) (string, error) {
	if root == "." {
		return p, nil
	}
	if len(p) < len(root) {
		return "", fmt.Errorf("cfat: path %s not under root %s", p, root)
	}
	return p[len(root)+1:], nil
}
