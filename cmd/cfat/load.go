package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LordHerdier/cfat"
)

func newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load IMAGE",
		Short: "Open an image and report its size and free-block count without changing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()

			st, err := fsys.Statfs()
			if err != nil {
				return err
			}
			entries, err := fsys.Children("/")
			if err != nil {
				return err
			}
			fmt.Printf("image: %s\n", args[0])
			fmt.Printf("blocks: %d total, %d free (%d bytes/block)\n", st.TotalBlocks, st.FreeBlocks, st.BlockSize)
			fmt.Printf("root entries: %d\n", len(entries))
			fmt.Printf("root links: %d\n", st.RootLinks)
			return nil
		},
	}
}

func newTouchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "touch IMAGE PATH",
		Short: "Update a file's write timestamp, creating it empty if it doesn't exist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()

			if err := fsys.Touch(args[1]); err != nil {
				return err
			}
			return fsys.Sync()
		},
	}
}
