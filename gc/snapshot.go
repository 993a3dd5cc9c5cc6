// ABOUTME: Exports the live heap as an object graph for analysis
// ABOUTME: Edges come from tracing each allocation's value one hop deep

package gc

import (
	"io"

	"github.com/pkg/errors"

	"github.com/prateek/cyclegc/graph"
	"github.com/prateek/cyclegc/heapdump"
)

// Snapshot returns the current heap as a graph: one object per allocation,
// with its root count and the allocations its value holds handles to. Roots
// are the allocations with a positive root count, so graph.Unreachable on
// the result is exactly what the next Collect would sweep.
//
// Snapshot calls every value's Trace method once and, like Collect, must not
// run while a cell is mutably borrowed.
func (h *Heap) Snapshot() *graph.MemGraph {
	if h.collecting {
		panic(errors.Wrap(ErrCollectInProgress, "snapshot"))
	}

	g := graph.NewMemGraph()
	var (
		ptrs  []graph.ObjID
		roots []graph.ObjID
	)
	t := &Tracer{heap: h}
	t.visit = func(a *allocation) {
		ptrs = append(ptrs, graph.ObjID(a.id))
	}

	h.each(func(a *allocation) {
		ptrs = []graph.ObjID{}
		a.value.Trace(t)

		id := graph.ObjID(a.id)
		g.AddObject(&graph.Object{
			ID:        id,
			Type:      a.typ,
			Size:      a.size,
			RootCount: a.roots,
			Ptrs:      ptrs,
		})
		if a.roots > 0 {
			roots = append(roots, id)
		}
	})

	if roots == nil {
		roots = []graph.ObjID{}
	}
	g.SetRoots(graph.Roots{IDs: roots})
	return g
}

// Dump writes a snapshot of the heap in the heapdump JSON format
func (h *Heap) Dump(w io.Writer) error {
	return heapdump.Write(w, h.Snapshot())
}
