// ABOUTME: Snapshot fixtures shaped like the collector's heap dumps
// ABOUTME: Roots are the objects with a positive root count, in insertion order

package graph

// heapObj is one allocation in a test snapshot
type heapObj struct {
	id    ObjID
	size  uint64
	roots int
	ptrs  []ObjID
}

func snapshot(objs ...heapObj) *MemGraph {
	g := NewMemGraph()
	roots := []ObjID{}
	for _, o := range objs {
		g.AddObject(&Object{ID: o.id, Type: "node", Size: o.size, RootCount: o.roots, Ptrs: o.ptrs})
		if o.roots > 0 {
			roots = append(roots, o.id)
		}
	}
	g.SetRoots(Roots{IDs: roots})
	return g
}

// interpreterHeap has roots 1 and 2 sharing a closure cycle 3 <-> 5. Root 2
// holds two handles to 3 and reaches 5 again through 4, which points at
// itself. 6 <-> 7 is a garbage cycle.
func interpreterHeap() *MemGraph {
	return snapshot(
		heapObj{id: 1, size: 16, roots: 1, ptrs: []ObjID{3}},
		heapObj{id: 2, size: 16, roots: 2, ptrs: []ObjID{3, 3, 4}},
		heapObj{id: 3, size: 32, ptrs: []ObjID{5}},
		heapObj{id: 4, size: 8, ptrs: []ObjID{5, 4}},
		heapObj{id: 5, size: 64, ptrs: []ObjID{3}},
		heapObj{id: 6, size: 8, ptrs: []ObjID{7}},
		heapObj{id: 7, size: 8, ptrs: []ObjID{6}},
	)
}
