//go:build fuse

package fuse

import (
	"context"
	"errors"
	"path"
	"syscall"
	"time"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/LordHerdier/cfat"
)

// node is the single InodeEmbedder implementation for both files and
// directories; its behavior is driven entirely by path resolved against
// fsys on every call, the same re-resolve-by-path approach path.go takes
// instead of caching handles across calls.
type node struct {
	fs.Inode

	fsys *cfat.Filesystem
	path string
}

var (
	_ fs.NodeGetattrer  = (*node)(nil)
	_ fs.NodeLookuper   = (*node)(nil)
	_ fs.NodeReaddirer  = (*node)(nil)
	_ fs.NodeOpener     = (*node)(nil)
	_ fs.NodeReader     = (*node)(nil)
	_ fs.NodeWriter     = (*node)(nil)
	_ fs.NodeCreater    = (*node)(nil)
	_ fs.NodeMkdirer    = (*node)(nil)
	_ fs.NodeUnlinker   = (*node)(nil)
	_ fs.NodeRmdirer    = (*node)(nil)
	_ fs.NodeSetattrer  = (*node)(nil)
	_ fs.NodeStatfser   = (*node)(nil)
	_ fs.NodeGetxattrer = (*node)(nil)
	_ fs.NodeSetxattrer = (*node)(nil)
)

func errnoOf(err error) syscall.Errno {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cfat.ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, cfat.ErrNameExists):
		return syscall.EEXIST
	case errors.Is(err, cfat.ErrNameTooLong):
		return syscall.ENAMETOOLONG
	case errors.Is(err, cfat.ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, cfat.ErrIsDirectory):
		return syscall.EISDIR
	case errors.Is(err, cfat.ErrNotEmpty):
		return syscall.ENOTEMPTY
	case errors.Is(err, cfat.ErrNoSpace):
		return syscall.ENOSPC
	case errors.Is(err, cfat.ErrIO), errors.Is(err, cfat.ErrCorrupt):
		return syscall.EIO
	default:
		return syscall.EIO
	}
}

func (n *node) child(name string) string {
	return path.Join(n.path, name)
}

func fillAttr(out *gofuse.Attr, e *cfat.Entry) {
	out.Mode = e.Attr().UnixMode()
	out.Size = uint64(e.Size())
	if ts, err := e.ModTime(); err == nil {
		t := ts.Time(time.Local)
		out.SetTimes(&t, &t, &t)
	}
	out.Nlink = 1
	if nlink, err := e.Nlink(); err == nil {
		out.Nlink = nlink
	}
}

func (n *node) Getattr(ctx context.Context, f fs.FileHandle, out *gofuse.AttrOut) syscall.Errno {
	e, err := n.fsys.Resolve(n.path)
	if err != nil {
		return errnoOf(err)
	}
	fillAttr(&out.Attr, e)
	return 0
}

func (n *node) Lookup(ctx context.Context, name string, out *gofuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := n.child(name)
	e, err := n.fsys.Resolve(childPath)
	if err != nil {
		return nil, errnoOf(err)
	}
	fillAttr(&out.Attr, e)

	mode := uint32(syscall.S_IFREG)
	if e.IsDir() {
		mode = syscall.S_IFDIR
	}
	child := n.NewInode(ctx, &node{fsys: n.fsys, path: childPath}, fs.StableAttr{Mode: mode})
	return child, 0
}

func (n *node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	entries, err := n.fsys.Children(n.path)
	if err != nil {
		return nil, errnoOf(err)
	}
	list := make([]gofuse.DirEntry, len(entries))
	for i, e := range entries {
		mode := uint32(syscall.S_IFREG)
		if e.IsDir() {
			mode = syscall.S_IFDIR
		}
		list[i] = gofuse.DirEntry{Name: e.Name(), Mode: mode}
	}
	return fs.NewListDirStream(list), 0
}

func (n *node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	return nil, gofuse.FOPEN_DIRECT_IO, 0
}

func (n *node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (gofuse.ReadResult, syscall.Errno) {
	nr, err := n.fsys.ReadFile(n.path, dest, off)
	if err != nil {
		return nil, errnoOf(err)
	}
	return gofuse.ReadResultData(dest[:nr]), 0
}

func (n *node) Write(ctx context.Context, f fs.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	nw, err := n.fsys.WriteFile(n.path, data, off)
	if err != nil {
		return 0, errnoOf(err)
	}
	return uint32(nw), 0
}

func (n *node) Create(ctx context.Context, name string, flags uint32, mode uint32, out *gofuse.EntryOut) (*fs.Inode, fs.FileHandle, uint32, syscall.Errno) {
	childPath := n.child(name)
	e, err := n.fsys.CreateFile(n.path, name)
	if err != nil {
		return nil, nil, 0, errnoOf(err)
	}
	fillAttr(&out.Attr, e)
	child := n.NewInode(ctx, &node{fsys: n.fsys, path: childPath}, fs.StableAttr{Mode: syscall.S_IFREG})
	return child, nil, 0, 0
}

func (n *node) Mkdir(ctx context.Context, name string, mode uint32, out *gofuse.EntryOut) (*fs.Inode, syscall.Errno) {
	childPath := n.child(name)
	e, err := n.fsys.Mkdir(n.path, name)
	if err != nil {
		return nil, errnoOf(err)
	}
	fillAttr(&out.Attr, e)
	child := n.NewInode(ctx, &node{fsys: n.fsys, path: childPath}, fs.StableAttr{Mode: syscall.S_IFDIR})
	return child, 0
}

func (n *node) Unlink(ctx context.Context, name string) syscall.Errno {
	return errnoOf(n.fsys.Remove(n.child(name)))
}

func (n *node) Rmdir(ctx context.Context, name string) syscall.Errno {
	return errnoOf(n.fsys.Remove(n.child(name)))
}

func (n *node) Setattr(ctx context.Context, f fs.FileHandle, in *gofuse.SetAttrIn, out *gofuse.AttrOut) syscall.Errno {
	if in.Valid&gofuse.FATTR_SIZE != 0 {
		if err := n.fsys.Truncate(n.path, int64(in.Size)); err != nil {
			return errnoOf(err)
		}
	}
	if in.Valid&(gofuse.FATTR_MTIME|gofuse.FATTR_MTIME_NOW) != 0 {
		if err := n.fsys.Touch(n.path); err != nil {
			return errnoOf(err)
		}
	}
	if in.Valid&gofuse.FATTR_MODE != 0 {
		mode := cfat.UnixToMode(in.Mode)
		readOnly := mode.Perm()&0o200 == 0
		if err := n.fsys.SetReadOnly(n.path, readOnly); err != nil {
			return errnoOf(err)
		}
	}
	e, err := n.fsys.Resolve(n.path)
	if err != nil {
		return errnoOf(err)
	}
	fillAttr(&out.Attr, e)
	return 0
}

func (n *node) Statfs(ctx context.Context, out *gofuse.StatfsOut) syscall.Errno {
	st, err := n.fsys.Statfs()
	if err != nil {
		return errnoOf(err)
	}
	out.Bsize = st.BlockSize
	out.Blocks = st.TotalBlocks
	out.Bfree = st.FreeBlocks
	out.Bavail = st.FreeBlocks
	out.NameLen = st.NameMax
	return 0
}

// userAttrName is the one synthetic extended attribute this bridge
// supports: it reads and writes the leaf's own directory-record name,
// since the on-disk format has no xattr storage of its own.
const userAttrName = "user.attr"

func (n *node) Getxattr(ctx context.Context, attr string, dest []byte) (uint32, syscall.Errno) {
	if attr != userAttrName {
		return 0, syscall.ENODATA
	}
	name := path.Base(n.path)
	if len(dest) < len(name) {
		return uint32(len(name)), syscall.ERANGE
	}
	n2 := copy(dest, name)
	return uint32(n2), 0
}

func (n *node) Setxattr(ctx context.Context, attr string, data []byte, flags uint32) syscall.Errno {
	if attr != userAttrName {
		return syscall.ENOTSUP
	}
	if err := n.fsys.Rename(n.path, string(data)); err != nil {
		return errnoOf(err)
	}
	n.path = path.Join(path.Dir(n.path), string(data))
	return 0
}

func (n *node) Release(ctx context.Context, f fs.FileHandle) syscall.Errno {
	return 0
}
