// ABOUTME: Reachability from the root set and reverse edge construction
// ABOUTME: Mirrors the collector's mark phase on a snapshot

package graph

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Reachable returns every object reachable from the roots, roots included.
// Pointers to objects missing from the graph are ignored.
func Reachable(g Graph) mapset.Set[ObjID] {
	seen := mapset.NewThreadUnsafeSet[ObjID]()
	var work []ObjID
	for _, id := range g.GetRoots().IDs {
		if g.GetObject(id) != nil && seen.Add(id) {
			work = append(work, id)
		}
	}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		for _, p := range g.GetObject(id).Ptrs {
			if g.GetObject(p) != nil && seen.Add(p) {
				work = append(work, p)
			}
		}
	}
	return seen
}

// Unreachable returns the objects no root reaches, in graph order. For a heap
// snapshot this is the set the next collection reclaims.
func Unreachable(g Graph) []ObjID {
	live := Reachable(g)
	garbage := []ObjID{}
	g.ForEachObject(func(obj *Object) {
		if !live.Contains(obj.ID) {
			garbage = append(garbage, obj.ID)
		}
	})
	return garbage
}

// ReverseEdges maps each object to the objects holding handles to it
type ReverseEdges map[ObjID][]ObjID

// BuildReverseEdges collects referrers in graph order. A referrer holding
// several handles to the same target is listed once.
func BuildReverseEdges(g Graph) ReverseEdges {
	reverse := make(ReverseEdges)
	g.ForEachObject(func(obj *Object) {
		for i, target := range obj.Ptrs {
			dup := false
			for _, prev := range obj.Ptrs[:i] {
				if prev == target {
					dup = true
					break
				}
			}
			if !dup {
				reverse[target] = append(reverse[target], obj.ID)
			}
		}
	})
	return reverse
}
