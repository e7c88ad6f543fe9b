package main

import (
	"github.com/spf13/cobra"

	"github.com/LordHerdier/cfat"
)

func newAddDirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-directory IMAGE IMAGE_DIR NAME",
		Short: "Create a new subdirectory",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()

			if _, err := fsys.Mkdir(args[1], args[2]); err != nil {
				return err
			}
			return fsys.Sync()
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove IMAGE PATH",
		Short: "Remove a file or empty directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()

			if err := fsys.Remove(args[1]); err != nil {
				return err
			}
			return fsys.Sync()
		},
	}
}

func newExtractCmd() *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "extract IMAGE IMAGE_PATH HOST_PATH",
		Short: "Extract a file or directory tree to the host filesystem",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()

			if tree {
				return fsys.ExtractTree(args[1], args[2])
			}
			return fsys.Extract(args[1], args[2])
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "recursively extract a directory")
	return cmd
}
