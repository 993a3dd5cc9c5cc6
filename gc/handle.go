// ABOUTME: Gc handle: shared reference to a heap allocation
// ABOUTME: Each rooted handle owns one unit of its allocation's root count

package gc

import "github.com/pkg/errors"

// Gc is a shared reference to a value stored on a Heap.
//
// A handle is rooted while it is held outside the heap (stack, globals,
// plain Go containers) and counts towards its allocation's root count. Once
// it is stored inside another heap value (passed to New, or written into a
// Cell) it is unrooted and kept alive only by tracing from its parent.
//
// Storing a handle transfers it; keep your own reference with Clone. Copying
// the *Gc pointer aliases the same handle and does not change any count.
type Gc[T Trace] struct {
	heap   *Heap
	ref    ref
	rooted bool
}

// New allocates v on h and returns a rooted handle to it. Handles already
// inside v are unrooted, since they are now reachable through the new
// allocation.
func New[T Trace](h *Heap, v T) *Gc[T] {
	g := &Gc[T]{heap: h, ref: h.register(v), rooted: true}
	v.Unroot()
	return g
}

// Get returns the allocation's value. It panics with ErrStaleHandle if the
// allocation has been reclaimed.
func (g *Gc[T]) Get() T {
	return g.heap.mustResolve(g.ref, "get").value.(T)
}

// TryGet is Get returning ErrStaleHandle instead of panicking
func (g *Gc[T]) TryGet() (T, error) {
	a, err := g.heap.resolve(g.ref)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.value.(T), nil
}

// Clone returns a new rooted handle to the same allocation
func (g *Gc[T]) Clone() *Gc[T] {
	g.heap.mustResolve(g.ref, "clone").roots++
	return &Gc[T]{heap: g.heap, ref: g.ref, rooted: true}
}

// Drop gives up the handle's root. It never finalizes: an allocation that
// becomes unreachable is reclaimed by the next Collect. Dropping an unrooted
// handle, or dropping twice, does nothing.
func (g *Gc[T]) Drop() {
	if g == nil || !g.rooted {
		return
	}
	g.rooted = false
	// A rooted handle outlives its allocation only if a finalizer cloned it.
	if a, err := g.heap.resolve(g.ref); err == nil {
		a.roots--
	}
}

// Same reports whether both handles refer to the same allocation. Two nil
// handles are the same; a nil and a non-nil handle are not.
func (g *Gc[T]) Same(other *Gc[T]) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.heap == other.heap && g.ref == other.ref
}

// ID returns the allocation's serial number, as used in heap snapshots
func (g *Gc[T]) ID() uint64 {
	return g.heap.mustResolve(g.ref, "id").id
}

// RootCount returns the allocation's current root count
func (g *Gc[T]) RootCount() int {
	return g.heap.mustResolve(g.ref, "root count").roots
}

// Rooted reports whether this handle currently holds a root
func (g *Gc[T]) Rooted() bool {
	return g.rooted
}

// Heap returns the heap the handle belongs to
func (g *Gc[T]) Heap() *Heap {
	return g.heap
}

// Trace marks the target allocation. It does not look inside it; the
// collector traces the target's value once it has been marked.
func (g *Gc[T]) Trace(t *Tracer) {
	if g == nil {
		return
	}
	t.reach(g.heap, g.ref)
}

// Root makes the handle an independent root again. The target's value is not
// visited.
func (g *Gc[T]) Root() {
	if g == nil {
		return
	}
	if g.rooted {
		panic(errors.Wrap(ErrRootProtocol, "handle already rooted"))
	}
	g.heap.mustResolve(g.ref, "root").roots++
	g.rooted = true
}

// Unroot gives up the handle's independent root once it is reachable
// through a parent. The target's value is not visited.
func (g *Gc[T]) Unroot() {
	if g == nil {
		return
	}
	if !g.rooted {
		panic(errors.Wrap(ErrRootProtocol, "handle already unrooted"))
	}
	a := g.heap.mustResolve(g.ref, "unroot")
	if a.roots <= 0 {
		panic(errors.Wrapf(ErrRootProtocol, "allocation %d root count would go negative", a.id))
	}
	a.roots--
	g.rooted = false
}
