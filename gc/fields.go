// ABOUTME: Field-wise composition of the Trace contract for aggregate types
// ABOUTME: Stands in for generated Trace implementations

package gc

// Fields composes Trace, Root, Unroot and Finalize from a list of fields.
// Aggregates forward to it from their own methods:
//
//	func (n *node) fields() gc.Fields     { return gc.Fields{n.next, n.children} }
//	func (n *node) Trace(t *gc.Tracer)    { n.fields().Trace(t) }
//	func (n *node) Root()                 { n.fields().Root() }
//	func (n *node) Unroot()               { n.fields().Unroot() }
//
// nil entries are skipped.
type Fields []Trace

func (f Fields) Trace(t *Tracer) {
	for _, v := range f {
		if v != nil {
			v.Trace(t)
		}
	}
}

func (f Fields) Root() {
	for _, v := range f {
		if v != nil {
			v.Root()
		}
	}
}

func (f Fields) Unroot() {
	for _, v := range f {
		if v != nil {
			v.Unroot()
		}
	}
}

// Finalize runs Finalize on every field that has one, in order
func (f Fields) Finalize() {
	for _, v := range f {
		finalize(v)
	}
}
