// ABOUTME: gcdump subcommands over a parsed heap dump
// ABOUTME: Each command loads the dump named by its single argument

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/prateek/cyclegc/graph"
	"github.com/prateek/cyclegc/heapdump"
)

var (
	statsCommand = &cli.Command{
		Name:      "stats",
		Usage:     "Summarises live and unreachable objects",
		ArgsUsage: "dumpfile",
		Action:    stats,
	}
	garbageCommand = &cli.Command{
		Name:      "garbage",
		Usage:     "Lists the objects the next collection would sweep",
		ArgsUsage: "dumpfile",
		Action:    garbage,
	}
	pathsCommand = &cli.Command{
		Name:      "paths",
		Usage:     "Shows reference chains from an object to the roots",
		ArgsUsage: "dumpfile",
		Action:    paths,
		Flags:     []cli.Flag{idFlag, maxPathsFlag},
	}
	retainedCommand = &cli.Command{
		Name:      "retained",
		Usage:     "Lists the objects keeping the most memory alive",
		ArgsUsage: "dumpfile",
		Action:    retained,
		Flags:     []cli.Flag{topFlag},
	}
)

var (
	idFlag = &cli.Uint64Flag{
		Name:     "id",
		Usage:    "Object to trace back to the roots",
		Required: true,
	}
	maxPathsFlag = &cli.IntFlag{
		Name:  "max",
		Usage: "Maximum number of paths to print",
		Value: 5,
	}
	topFlag = &cli.IntFlag{
		Name:  "top",
		Usage: "Number of objects to list",
		Value: 10,
	}
)

var header = color.New(color.FgCyan, color.Bold).SprintFunc()

func loadDump(ctx *cli.Context) (graph.Graph, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("need exactly one dump file argument")
	}
	f, err := os.Open(ctx.Args().First())
	if err != nil {
		return nil, errors.Wrap(err, "opening dump")
	}
	defer f.Close()
	return heapdump.Open(f)
}

func describe(obj *graph.Object) string {
	return fmt.Sprintf("#%d %s (%s)", obj.ID, obj.Type, humanize.Bytes(obj.Size))
}

func stats(ctx *cli.Context) error {
	g, err := loadDump(ctx)
	if err != nil {
		return err
	}
	var total uint64
	g.ForEachObject(func(obj *graph.Object) {
		total += obj.Size
	})
	var garbageBytes uint64
	unreachable := graph.Unreachable(g)
	for _, id := range unreachable {
		garbageBytes += g.GetObject(id).Size
	}

	w := ctx.App.Writer
	fmt.Fprintln(w, header("Heap"))
	fmt.Fprintf(w, "objects:     %d (%s)\n", g.NumObjects(), humanize.Bytes(total))
	fmt.Fprintf(w, "roots:       %d\n", len(g.GetRoots().IDs))
	fmt.Fprintf(w, "reachable:   %d\n", g.NumObjects()-len(unreachable))
	fmt.Fprintf(w, "unreachable: %d (%s)\n", len(unreachable), humanize.Bytes(garbageBytes))
	return nil
}

func garbage(ctx *cli.Context) error {
	g, err := loadDump(ctx)
	if err != nil {
		return err
	}
	unreachable := graph.Unreachable(g)

	w := ctx.App.Writer
	fmt.Fprintln(w, header(fmt.Sprintf("Unreachable objects (%d)", len(unreachable))))
	for _, id := range unreachable {
		fmt.Fprintln(w, describe(g.GetObject(id)))
	}
	return nil
}

func paths(ctx *cli.Context) error {
	g, err := loadDump(ctx)
	if err != nil {
		return err
	}
	id := graph.ObjID(ctx.Uint64(idFlag.Name))
	if g.GetObject(id) == nil {
		return errors.Errorf("object %d not in dump", id)
	}

	found := graph.PathsToRoots(g, id, ctx.Int(maxPathsFlag.Name))
	w := ctx.App.Writer
	fmt.Fprintln(w, header(fmt.Sprintf("Paths from #%d to roots (%d)", id, len(found))))
	if len(found) == 0 {
		fmt.Fprintln(w, "unreachable")
		return nil
	}
	for _, p := range found {
		writePath(w, g, p)
	}
	return nil
}

func writePath(w io.Writer, g graph.Graph, p graph.Path) {
	steps := make([]string, len(p.IDs))
	for i, id := range p.IDs {
		steps[i] = describe(g.GetObject(id))
	}
	fmt.Fprintln(w, strings.Join(steps, " <- "))
}

func retained(ctx *cli.Context) error {
	g, err := loadDump(ctx)
	if err != nil {
		return err
	}
	sizes := graph.RetainedSize(g)
	ids := make([]graph.ObjID, 0, len(sizes))
	for id := range sizes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if sizes[ids[i]] != sizes[ids[j]] {
			return sizes[ids[i]] > sizes[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if top := ctx.Int(topFlag.Name); top >= 0 && len(ids) > top {
		ids = ids[:top]
	}

	w := ctx.App.Writer
	fmt.Fprintln(w, header("Largest retainers"))
	for _, id := range ids {
		fmt.Fprintf(w, "%s retains %s\n", describe(g.GetObject(id)), humanize.Bytes(sizes[id]))
	}
	return nil
}
