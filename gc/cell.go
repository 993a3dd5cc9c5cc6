// ABOUTME: Interior-mutable cell with dynamically checked borrows
// ABOUTME: Keeps root counts right when the held value is replaced

package gc

import "github.com/pkg/errors"

// Cell holds a value that can be replaced after it has been stored on the
// heap. Borrows follow the single-writer-or-many-readers rule and are checked
// at run time; every borrow must be released before the next Collect.
//
// A cell knows whether it is itself rooted. While a mutable borrow of an
// unrooted cell is held, the contents are rooted so values moved in and out
// carry their own roots; Release unroots whatever is left inside.
type Cell[T Trace] struct {
	value   T
	readers int
	writing bool
	rooted  bool
}

// NewCell returns a rooted cell holding v
func NewCell[T Trace](v T) *Cell[T] {
	return &Cell[T]{value: v, rooted: true}
}

// Ref is a shared borrow of a cell
type Ref[T Trace] struct {
	cell     *Cell[T]
	released bool
}

// Get returns the borrowed value. Handles inside it stay owned by the cell;
// Clone them to keep them past the borrow.
func (r *Ref[T]) Get() T {
	return r.cell.value
}

// Release ends the borrow. Releasing twice does nothing.
func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.readers--
}

// RefMut is an exclusive borrow of a cell
type RefMut[T Trace] struct {
	cell     *Cell[T]
	released bool
}

// Get returns the borrowed value
func (r *RefMut[T]) Get() T {
	return r.cell.value
}

// Set stores v and discards the previous value, giving up any roots it held.
// v is taken over by the cell.
func (r *RefMut[T]) Set(v T) {
	old := r.Replace(v)
	old.Unroot()
}

// Replace stores v and returns the previous value, rooted and owned by the
// caller.
func (r *RefMut[T]) Replace(v T) T {
	if r.released {
		panic(errors.Wrap(ErrBorrowConflict, "write through a released borrow"))
	}
	old := r.cell.value
	r.cell.value = v
	return old
}

// Release ends the borrow. Releasing twice does nothing.
func (r *RefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	if !r.cell.rooted {
		r.cell.value.Unroot()
	}
	r.cell.writing = false
}

// Borrow takes a shared borrow. It fails with ErrBorrowConflict while a
// mutable borrow is outstanding.
func (c *Cell[T]) Borrow() (*Ref[T], error) {
	if c.writing {
		return nil, errors.Wrap(ErrBorrowConflict, "cell is mutably borrowed")
	}
	c.readers++
	return &Ref[T]{cell: c}, nil
}

// BorrowMut takes an exclusive borrow. It fails with ErrBorrowConflict while
// any other borrow is outstanding.
func (c *Cell[T]) BorrowMut() (*RefMut[T], error) {
	if c.writing {
		return nil, errors.Wrap(ErrBorrowConflict, "cell is already mutably borrowed")
	}
	if c.readers > 0 {
		return nil, errors.Wrapf(ErrBorrowConflict, "cell has %d outstanding borrows", c.readers)
	}
	c.writing = true
	if !c.rooted {
		c.value.Root()
	}
	return &RefMut[T]{cell: c}, nil
}

// Get returns the current value under a short shared borrow
func (c *Cell[T]) Get() (T, error) {
	r, err := c.Borrow()
	if err != nil {
		var zero T
		return zero, err
	}
	defer r.Release()
	return r.Get(), nil
}

// Set replaces the value, discarding the previous one
func (c *Cell[T]) Set(v T) error {
	w, err := c.BorrowMut()
	if err != nil {
		return err
	}
	defer w.Release()
	w.Set(v)
	return nil
}

// Replace replaces the value and returns the previous one, rooted
func (c *Cell[T]) Replace(v T) (T, error) {
	w, err := c.BorrowMut()
	if err != nil {
		var zero T
		return zero, err
	}
	defer w.Release()
	return w.Replace(v), nil
}

// Trace forwards to the held value. A mutable borrow held across a
// collection is a fatal error.
func (c *Cell[T]) Trace(t *Tracer) {
	if c == nil {
		return
	}
	if c.writing {
		panic(errors.Wrap(ErrBorrowConflict, "cell mutably borrowed during collection"))
	}
	c.value.Trace(t)
}

func (c *Cell[T]) Root() {
	if c == nil {
		return
	}
	if c.rooted {
		panic(errors.Wrap(ErrRootProtocol, "cell already rooted"))
	}
	c.rooted = true
	// A writer already holds the contents rooted.
	if !c.writing {
		c.value.Root()
	}
}

func (c *Cell[T]) Unroot() {
	if c == nil {
		return
	}
	if !c.rooted {
		panic(errors.Wrap(ErrRootProtocol, "cell already unrooted"))
	}
	c.rooted = false
	if !c.writing {
		c.value.Unroot()
	}
}

// Finalize passes the sweep phase's cleanup to the held value
func (c *Cell[T]) Finalize() {
	if c == nil {
		return
	}
	finalize(c.value)
}
