package main

import (
	"github.com/spf13/cobra"

	"github.com/LordHerdier/cfat"
)

func openOpts(cmd *cobra.Command) []cfat.Option {
	verbose, _ := cmd.Flags().GetBool("verbose")
	var opts []cfat.Option
	if verbose {
		opts = append(opts, cfat.WithVerbose(true))
	}
	return opts
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create IMAGE",
		Short: "Create a new, empty cfat image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Create(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			return fsys.Close()
		},
	}
}
