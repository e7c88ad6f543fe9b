//go:build !fuse

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newMountCmd is stubbed out when built without the fuse tag, since
// FUSE support pulls in cgo-adjacent kernel plumbing that isn't
// available on every build target.
func newMountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mount IMAGE MOUNTPOINT",
		Short: "Mount the image at MOUNTPOINT via FUSE (requires -tags fuse)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("cfat: built without FUSE support; rebuild with -tags fuse")
		},
	}
}
