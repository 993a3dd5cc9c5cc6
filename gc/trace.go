// ABOUTME: The Trace contract every heap-stored value satisfies
// ABOUTME: Tracer carries a reachability walk through nested handles

package gc

import "github.com/pkg/errors"

// Trace is implemented by every value that can live on a Heap or inside a
// value that does.
//
// Trace must call Trace on every handle and Trace field the value holds. It
// only recurses structurally; the collector's mark flag stops cycles.
//
// Root and Unroot recurse exactly as Trace does. A handle reached this way
// adjusts its target's root count by one and stops there: it never descends
// into the target's value.
type Trace interface {
	Trace(t *Tracer)
	Root()
	Unroot()
}

// Finalizer is implemented by values that need cleanup when the sweep phase
// reclaims their allocation. Finalize runs at most once per allocation.
type Finalizer interface {
	Finalize()
}

// Tracer is handed to Trace implementations by the heap. User code only
// passes it along to nested values.
type Tracer struct {
	heap  *Heap
	visit func(a *allocation)
}

// Heap returns the heap being walked
func (t *Tracer) Heap() *Heap {
	return t.heap
}

// reach is called by handles when the walk arrives at them.
func (t *Tracer) reach(h *Heap, r ref) {
	if h != t.heap {
		panic(errors.Wrap(ErrForeignHandle, "trace"))
	}
	a, err := h.resolve(r)
	if err != nil {
		panic(errors.Wrap(err, "trace"))
	}
	t.visit(a)
}
