// ABOUTME: gcdump inspects heap dumps written by gc.Heap.Dump
// ABOUTME: Reports garbage, paths to roots and retained sizes

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/prateek/cyclegc"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "gcdump",
		Usage:   "Inspect cyclegc heap dumps",
		Version: cyclegc.Version,
		Commands: []*cli.Command{
			statsCommand,
			garbageCommand,
			pathsCommand,
			retainedCommand,
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
