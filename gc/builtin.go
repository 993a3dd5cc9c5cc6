// ABOUTME: Built-in leaf and container implementations of the Trace contract
// ABOUTME: Leaves do nothing, containers forward to what they currently hold

package gc

// NoTrace can be embedded in types that hold no handles
type NoTrace struct{}

func (NoTrace) Trace(*Tracer) {}
func (NoTrace) Root()         {}
func (NoTrace) Unroot()       {}

// Leaf wraps a plain Go value so it can be stored on a heap. If the value
// has a Finalize method it runs when the leaf is swept.
type Leaf[T any] struct {
	NoTrace
	Val T
}

// NewLeaf wraps v
func NewLeaf[T any](v T) Leaf[T] {
	return Leaf[T]{Val: v}
}

// Option is an optional traceable value
type Option[T Trace] struct {
	val T
	ok  bool
}

// Some returns an Option holding v
func Some[T Trace](v T) Option[T] {
	return Option[T]{val: v, ok: true}
}

// None returns an empty Option
func None[T Trace]() Option[T] {
	return Option[T]{}
}

// Get returns the held value and whether there is one
func (o Option[T]) Get() (T, bool) {
	return o.val, o.ok
}

// IsSome reports whether the option holds a value
func (o Option[T]) IsSome() bool {
	return o.ok
}

func (o Option[T]) Trace(t *Tracer) {
	if o.ok {
		o.val.Trace(t)
	}
}

func (o Option[T]) Root() {
	if o.ok {
		o.val.Root()
	}
}

func (o Option[T]) Unroot() {
	if o.ok {
		o.val.Unroot()
	}
}

// Slice is an ordered sequence of traceable values
type Slice[T Trace] []T

func (s Slice[T]) Trace(t *Tracer) {
	for _, v := range s {
		v.Trace(t)
	}
}

func (s Slice[T]) Root() {
	for _, v := range s {
		v.Root()
	}
}

func (s Slice[T]) Unroot() {
	for _, v := range s {
		v.Unroot()
	}
}

// Map holds traceable values by key. Only values are traced.
type Map[K comparable, V Trace] map[K]V

func (m Map[K, V]) Trace(t *Tracer) {
	for _, v := range m {
		v.Trace(t)
	}
}

func (m Map[K, V]) Root() {
	for _, v := range m {
		v.Root()
	}
}

func (m Map[K, V]) Unroot() {
	for _, v := range m {
		v.Unroot()
	}
}

// finalize runs v's Finalize if it has one. Containers use it to pass the
// sweep phase's cleanup down to what they hold.
func finalize(v any) {
	if fin, ok := v.(Finalizer); ok {
		fin.Finalize()
	}
}

func (l Leaf[T]) Finalize() {
	finalize(l.Val)
}

func (o Option[T]) Finalize() {
	if o.ok {
		finalize(o.val)
	}
}

func (s Slice[T]) Finalize() {
	for _, v := range s {
		finalize(v)
	}
}

func (m Map[K, V]) Finalize() {
	for _, v := range m {
		finalize(v)
	}
}
