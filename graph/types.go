// ABOUTME: Core data types for heap snapshot graphs
// ABOUTME: Defines Object, ObjID, and Roots structures

package graph

// ObjID identifies an allocation in a snapshot. 0 is reserved for the
// super-root that points at every root.
type ObjID uint64

// Object is one allocation in a snapshot
type Object struct {
	ID        ObjID   // Allocation serial number
	Type      string  // Go type of the stored value (e.g. "*main.node")
	Size      uint64  // Shallow size in bytes
	RootCount int     // Independent handles held outside the heap
	Ptrs      []ObjID // Allocations this object's value holds handles to
}

// Roots is the set of allocations with a positive root count
type Roots struct {
	IDs []ObjID
}
