//go:build fuse

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LordHerdier/cfat"
	cfatfuse "github.com/LordHerdier/cfat/fuse"
)

func newMountCmd() *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "mount IMAGE MOUNTPOINT",
		Short: "Mount the image at MOUNTPOINT via FUSE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()

			server, err := cfatfuse.Mount(fsys, args[1], cfatfuse.Options{Debug: debug})
			if err != nil {
				return err
			}

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sig
				server.Unmount()
			}()

			server.Wait()
			return nil
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "trace FUSE requests")
	return cmd
}
