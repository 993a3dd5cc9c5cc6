// ABOUTME: Breadth-first search for the chains of handles keeping an object alive
// ABOUTME: Answers "why was this not collected" on a heap snapshot

package graph

// Path is a chain of objects from a target back to a root
type Path struct {
	IDs []ObjID // target first, root last
}

// step is a BFS frontier entry; prev links back towards the target.
type step struct {
	id   ObjID
	prev *step
}

func (s *step) contains(id ObjID) bool {
	for n := s; n != nil; n = n.prev {
		if n.id == id {
			return true
		}
	}
	return false
}

func (s *step) path() Path {
	var ids []ObjID
	for n := s; n != nil; n = n.prev {
		ids = append(ids, n.id)
	}
	// Collected root-first; the target leads in a Path.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return Path{IDs: ids}
}

// PathsToRoots returns up to maxPaths shortest referrer chains from the object
// to a root. A root yields the single path containing itself; unreachable or
// unknown objects yield none.
func PathsToRoots(g Graph, from ObjID, maxPaths int) []Path {
	if maxPaths <= 0 || g.GetObject(from) == nil {
		return nil
	}

	isRoot := make(map[ObjID]bool)
	for _, id := range g.GetRoots().IDs {
		isRoot[id] = true
	}
	if isRoot[from] {
		return []Path{{IDs: []ObjID{from}}}
	}

	reverse := BuildReverseEdges(g)

	var result []Path
	queue := []*step{{id: from}}
	for len(queue) > 0 && len(result) < maxPaths {
		cur := queue[0]
		queue = queue[1:]

		for _, referrer := range reverse[cur.id] {
			if cur.contains(referrer) {
				continue
			}
			next := &step{id: referrer, prev: cur}
			if !isRoot[referrer] {
				queue = append(queue, next)
				continue
			}
			result = append(result, next.path())
			if len(result) >= maxPaths {
				break
			}
		}
	}
	return result
}
