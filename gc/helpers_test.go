// ABOUTME: Shared fixtures for heap tests: watched values and graph nodes
// ABOUTME: Watches count every Trace, Root, Unroot and Finalize call

package gc_test

import (
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	"github.com/prateek/cyclegc/gc"
)

type watchFlags struct {
	Trace, Root, Unroot, Drop int
}

func flags(trace, root, unroot, drop int) watchFlags {
	return watchFlags{Trace: trace, Root: root, Unroot: unroot, Drop: drop}
}

// watch is a leaf that records the protocol calls it receives
type watch struct {
	flags *watchFlags
}

func (w watch) Trace(*gc.Tracer) { w.flags.Trace++ }
func (w watch) Root()            { w.flags.Root++ }
func (w watch) Unroot()          { w.flags.Unroot++ }
func (w watch) Finalize()        { w.flags.Drop++ }

// watchCycle is a watched node with one replaceable outgoing edge
type watchCycle struct {
	watch watch
	cycle *gc.Cell[gc.Option[*gc.Gc[*watchCycle]]]
}

func newWatchCycle(f *watchFlags, next gc.Option[*gc.Gc[*watchCycle]]) *watchCycle {
	return &watchCycle{watch: watch{f}, cycle: gc.NewCell(next)}
}

func (n *watchCycle) fields() gc.Fields  { return gc.Fields{n.watch, n.cycle} }
func (n *watchCycle) Trace(t *gc.Tracer) { n.fields().Trace(t) }
func (n *watchCycle) Root()              { n.fields().Root() }
func (n *watchCycle) Unroot()            { n.fields().Unroot() }
func (n *watchCycle) Finalize()          { n.fields().Finalize() }

// node is a named vertex with any number of outgoing edges
type node struct {
	name  string
	edges *gc.Cell[gc.Slice[*gc.Gc[*node]]]
	swept *[]string
}

func (n *node) Trace(t *gc.Tracer) { n.edges.Trace(t) }
func (n *node) Root()              { n.edges.Root() }
func (n *node) Unroot()            { n.edges.Unroot() }
func (n *node) Finalize() {
	if n.swept != nil {
		*n.swept = append(*n.swept, n.name)
	}
}

func newNode(h *gc.Heap, name string, swept *[]string, edges ...*gc.Gc[*node]) *gc.Gc[*node] {
	return gc.New(h, &node{name: name, edges: gc.NewCell(gc.Slice[*gc.Gc[*node]](edges)), swept: swept})
}

// link appends an edge from -> to, handing a fresh root for to to the heap
func link(t *testing.T, from, to *gc.Gc[*node]) {
	t.Helper()
	w, err := from.Get().edges.BorrowMut()
	require.NoError(t, err)
	// The old slice's handles carry over into the new one, so it is not dropped.
	w.Replace(append(w.Get(), to.Clone()))
	w.Release()
}

func newTestHeap() *gc.Heap {
	return gc.NewHeap(gc.DefaultConfig(), log.NewNopLogger(), nil)
}

// requirePanicsWith runs fn and requires it to panic with an error wrapping target
func requirePanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	fn()
}
