// ABOUTME: Immediate dominators via the iterative Cooper-Harvey-Kennedy algorithm
// ABOUTME: A super-root (ID 0) points at every root so multi-root heaps form one tree

package graph

import "sort"

// flowGraph is the reachable part of a Graph, indexed densely in DFS
// postorder. Index len-1 is the super-root.
type flowGraph struct {
	ids   []ObjID       // postorder index -> ID
	index map[ObjID]int // ID -> postorder index
	preds [][]int
}

func buildFlowGraph(g Graph) *flowGraph {
	succ := func(id ObjID) []ObjID {
		if id == 0 {
			return g.GetRoots().IDs
		}
		return g.GetObject(id).Ptrs
	}

	fg := &flowGraph{index: make(map[ObjID]int)}
	visited := map[ObjID]bool{0: true}

	type frame struct {
		id   ObjID
		next int
	}
	stack := []frame{{id: 0}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		out := succ(top.id)
		if top.next < len(out) {
			w := out[top.next]
			top.next++
			if !visited[w] && g.GetObject(w) != nil {
				visited[w] = true
				stack = append(stack, frame{id: w})
			}
			continue
		}
		fg.index[top.id] = len(fg.ids)
		fg.ids = append(fg.ids, top.id)
		stack = stack[:len(stack)-1]
	}

	fg.preds = make([][]int, len(fg.ids))
	for i, id := range fg.ids {
		for _, w := range succ(id) {
			if j, ok := fg.index[w]; ok {
				fg.preds[j] = append(fg.preds[j], i)
			}
		}
	}
	return fg
}

// Dominators returns the immediate dominator of every object reachable from
// the roots. Roots, and objects reachable from several roots independently,
// are dominated by the super-root 0. Unreachable objects are absent.
func Dominators(g Graph) map[ObjID]ObjID {
	fg := buildFlowGraph(g)
	n := len(fg.ids)
	start := n - 1

	const undefined = -1
	idom := make([]int, n)
	for i := range idom {
		idom[i] = undefined
	}
	idom[start] = start

	intersect := func(a, b int) int {
		for a != b {
			for a < b {
				a = idom[a]
			}
			for b < a {
				b = idom[b]
			}
		}
		return a
	}

	for changed := true; changed; {
		changed = false
		// Reverse postorder, skipping the super-root.
		for v := start - 1; v >= 0; v-- {
			next := undefined
			for _, p := range fg.preds[v] {
				if idom[p] == undefined {
					continue
				}
				if next == undefined {
					next = p
				} else {
					next = intersect(p, next)
				}
			}
			if idom[v] != next {
				idom[v] = next
				changed = true
			}
		}
	}

	result := make(map[ObjID]ObjID, n-1)
	for v := 0; v < start; v++ {
		result[fg.ids[v]] = fg.ids[idom[v]]
	}
	return result
}

// DominatorTree inverts immediate dominators into a parent -> children map.
// Every node, including the super-root 0, has an entry; children are sorted.
func DominatorTree(idom map[ObjID]ObjID) map[ObjID][]ObjID {
	tree := map[ObjID][]ObjID{0: {}}
	for node, dom := range idom {
		if _, ok := tree[node]; !ok {
			tree[node] = []ObjID{}
		}
		tree[dom] = append(tree[dom], node)
	}
	for _, children := range tree {
		sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	}
	return tree
}
