// Command cfat creates, inspects, and mounts cfat filesystem images.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cfat",
		Short: "Create, inspect, and mount cfat filesystem images",
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log allocation and directory operations")

	root.AddCommand(
		newCreateCmd(),
		newLoadCmd(),
		newListCmd(),
		newAddFileCmd(),
		newAddDirCmd(),
		newRemoveCmd(),
		newExtractCmd(),
		newMountCmd(),
		newShellCmd(),
		newTouchCmd(),
	)
	return root
}
