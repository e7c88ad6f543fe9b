package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/LordHerdier/cfat"
)

func newListCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "list IMAGE [PATH]",
		Short: "List directory contents",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "/"
			if len(args) > 1 {
				dir = args[1]
			}
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()
			return list(fsys, dir, recursive)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	return cmd
}

func list(fsys *cfat.Filesystem, dir string, recursive bool) error {
	entries, err := fsys.Children(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		p := path.Join(dir, e.Name())
		if e.IsDir() {
			fmt.Printf("%s/\n", p)
			if recursive {
				if err := list(fsys, p, true); err != nil {
					return err
				}
			}
		} else {
			fmt.Printf("%s\t%d\n", p, e.Size())
		}
	}
	return nil
}
