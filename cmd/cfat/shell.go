package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/LordHerdier/cfat"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell IMAGE",
		Short: "Start an interactive shell over the image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys, err := cfat.Load(args[0], openOpts(cmd)...)
			if err != nil {
				return err
			}
			defer fsys.Close()
			return runShell(fsys)
		},
	}
}

// runShell is an interactive REPL supporting: help, exit, ls, cd, cat,
// rm, mkdir, tree, touch, extract.
func runShell(fsys *cfat.Filesystem) error {
	cwd := "/"
	prompt := "cfat> "
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		prompt = ""
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(prompt)
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, rest := fields[0], fields[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			printShellHelp()
		case "ls":
			dir := cwd
			if len(rest) > 0 {
				dir = resolveShellPath(cwd, rest[0])
			}
			if err := list(fsys, dir, false); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "cd":
			if len(rest) == 0 {
				cwd = "/"
				continue
			}
			target := resolveShellPath(cwd, rest[0])
			e, err := fsys.Resolve(target)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if !e.IsDir() {
				fmt.Fprintln(os.Stderr, "cfat: not a directory")
				continue
			}
			cwd = target
		case "cat":
			if len(rest) == 0 {
				fmt.Fprintln(os.Stderr, "usage: cat PATH")
				continue
			}
			catFile(fsys, resolveShellPath(cwd, rest[0]))
		case "rm":
			if len(rest) == 0 {
				fmt.Fprintln(os.Stderr, "usage: rm PATH")
				continue
			}
			if err := fsys.Remove(resolveShellPath(cwd, rest[0])); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "mkdir":
			if len(rest) == 0 {
				fmt.Fprintln(os.Stderr, "usage: mkdir NAME")
				continue
			}
			if _, err := fsys.Mkdir(cwd, rest[0]); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "touch":
			if len(rest) == 0 {
				fmt.Fprintln(os.Stderr, "usage: touch PATH")
				continue
			}
			if err := fsys.Touch(resolveShellPath(cwd, rest[0])); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "tree":
			dir := cwd
			if len(rest) > 0 {
				dir = resolveShellPath(cwd, rest[0])
			}
			if err := list(fsys, dir, true); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case "extract":
			if len(rest) != 2 {
				fmt.Fprintln(os.Stderr, "usage: extract IMAGE_PATH HOST_PATH")
				continue
			}
			if err := fsys.Extract(resolveShellPath(cwd, rest[0]), rest[1]); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		default:
			fmt.Fprintf(os.Stderr, "cfat: unknown command %q (try 'help')\n", cmd)
		}
	}
}

func resolveShellPath(cwd, p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	if cwd == "/" {
		return "/" + p
	}
	return cwd + "/" + p
}

func catFile(fsys *cfat.Filesystem, path string) {
	e, err := fsys.Resolve(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	if e.IsDir() {
		fmt.Fprintln(os.Stderr, "cfat: is a directory")
		return
	}
	buf := make([]byte, cfat.BlockBytes)
	var off int64
	for off < e.Size() {
		n, err := fsys.ReadFile(path, buf, off)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		if n == 0 {
			break
		}
		os.Stdout.Write(buf[:n])
		off += int64(n)
	}
}

func printShellHelp() {
	fmt.Println(`commands: help exit ls cd cat rm mkdir touch tree extract`)
}
