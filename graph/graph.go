// ABOUTME: Graph interface and in-memory implementation
// ABOUTME: Objects iterate in insertion order so analyses are deterministic

package graph

import "sync"

// Graph is a read-mostly heap snapshot
type Graph interface {
	// AddObject adds or replaces an object
	AddObject(obj *Object)

	// GetObject retrieves an object by ID, nil if absent
	GetObject(id ObjID) *Object

	// NumObjects returns the total number of objects
	NumObjects() int

	// ForEachObject visits objects in insertion order
	ForEachObject(fn func(*Object))

	SetRoots(roots Roots)
	GetRoots() Roots
}

// MemGraph is an in-memory Graph, safe to share between goroutines once built
type MemGraph struct {
	mu      sync.RWMutex
	objects map[ObjID]*Object
	order   []ObjID
	roots   Roots
}

// NewMemGraph creates an empty graph
func NewMemGraph() *MemGraph {
	return &MemGraph{
		objects: make(map[ObjID]*Object),
	}
}

// AddObject adds obj. An object with the same ID is replaced in place.
func (g *MemGraph) AddObject(obj *Object) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.objects[obj.ID]; !ok {
		g.order = append(g.order, obj.ID)
	}
	g.objects[obj.ID] = obj
}

// GetObject retrieves an object by ID
func (g *MemGraph) GetObject(id ObjID) *Object {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.objects[id]
}

// NumObjects returns the total number of objects
func (g *MemGraph) NumObjects() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.objects)
}

// ForEachObject visits objects in insertion order
func (g *MemGraph) ForEachObject(fn func(*Object)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, id := range g.order {
		fn(g.objects[id])
	}
}

// SetRoots sets the root set
func (g *MemGraph) SetRoots(roots Roots) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roots = roots
}

// GetRoots returns the root set
func (g *MemGraph) GetRoots() Roots {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.roots
}
