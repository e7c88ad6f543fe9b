package main

import (
	"io"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/LordHerdier/cfat"
)

func newAddFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-file IMAGE HOST_FILE IMAGE_DIR",
		Short: "Copy a host file into the image",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()

			name := path.Base(args[1])
			if _, err := fsys.CreateFile(args[2], name); err != nil {
				return err
			}

			src, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer src.Close()

			dst := path.Join(args[2], name)
			buf := make([]byte, cfat.BlockBytes)
			var off int64
			for {
				n, rerr := src.Read(buf)
				if n > 0 {
					if _, werr := fsys.WriteFile(dst, buf[:n], off); werr != nil {
						return werr
					}
					off += int64(n)
				}
				if rerr == io.EOF {
					break
				}
				if rerr != nil {
					return rerr
				}
			}
			return fsys.Sync()
		},
	}
}
