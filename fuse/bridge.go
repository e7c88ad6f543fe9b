//go:build fuse

// Package fuse bridges a *cfat.Filesystem into the kernel via FUSE,
// implementing getattr, readdir, open, read, write, create, mkdir,
// unlink, rmdir, statfs, getxattr, setxattr, utimens, truncate, and
// release. It is built on go-fuse/v2's fs sub-package (InodeEmbedder),
// the idiomatic high-level entry point for that library, rather than
// driving the lower-level raw fuse.RawFileSystem interface directly.
package fuse

import (
	"log"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"

	"github.com/LordHerdier/cfat"
)

// Options configures Mount.
type Options struct {
	// Debug enables go-fuse's own request tracing.
	Debug bool
	// AllowOther permits other users to access the mount.
	AllowOther bool
}

// Mount attaches fsys to the kernel at mountpoint and serves requests
// until the returned server's Unmount is called or the process exits.
func Mount(fsys *cfat.Filesystem, mountpoint string, opts Options) (*gofuse.Server, error) {
	root := &node{fsys: fsys, path: "/"}

	mountOpts := &fs.Options{
		MountOptions: gofuse.MountOptions{
			Debug:      opts.Debug,
			AllowOther: opts.AllowOther,
			FsName:     "cfat",
			Name:       "cfat",
		},
	}

	server, err := fs.Mount(mountpoint, root, mountOpts)
	if err != nil {
		return nil, err
	}
	log.Printf("cfat: mounted at %s", mountpoint)
	return server, nil
}
