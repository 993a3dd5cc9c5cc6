// ABOUTME: Retained sizes from the dominator tree
// ABOUTME: An object retains everything that would be swept if its last root went away

package graph

// RetainedSize returns, for every reachable object, its own size plus the
// sizes of all objects it dominates: the bytes a collection would free if
// nothing but this object kept them alive.
func RetainedSize(g Graph) map[ObjID]uint64 {
	tree := DominatorTree(Dominators(g))

	// Breadth-first from the super-root; walking it backwards visits children
	// before parents.
	order := []ObjID{0}
	for i := 0; i < len(order); i++ {
		order = append(order, tree[order[i]]...)
	}

	retained := make(map[ObjID]uint64, len(order))
	for i := len(order) - 1; i > 0; i-- {
		id := order[i]
		size := g.GetObject(id).Size
		for _, child := range tree[id] {
			size += retained[child]
		}
		retained[id] = size
	}
	return retained
}

// RetainedSizeOf returns retained sizes for the given objects only. Unknown
// and unreachable IDs are left out.
func RetainedSizeOf(g Graph, ids []ObjID) map[ObjID]uint64 {
	result := make(map[ObjID]uint64)
	if len(ids) == 0 {
		return result
	}
	all := RetainedSize(g)
	for _, id := range ids {
		if size, ok := all[id]; ok {
			result[id] = size
		}
	}
	return result
}
