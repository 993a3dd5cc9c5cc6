// ABOUTME: Error conditions raised by the heap, handles and cells
// ABOUTME: Recoverable ones are returned, protocol violations panic with them

package gc

import "github.com/pkg/errors"

var (
	// ErrBorrowConflict is returned when a cell borrow conflicts with an
	// outstanding borrow. Raised from a collection pass it is fatal.
	ErrBorrowConflict = errors.New("cell borrow conflict")

	// ErrStaleHandle means the handle's allocation has been reclaimed
	ErrStaleHandle = errors.New("handle refers to a reclaimed allocation")

	// ErrForeignHandle means a handle was used with a heap that did not create it
	ErrForeignHandle = errors.New("handle belongs to a different heap")

	// ErrRootProtocol reports a double root, double unroot or a negative root count
	ErrRootProtocol = errors.New("root count protocol violation")

	// ErrCollectInProgress is raised when the heap is re-entered during a collection
	ErrCollectInProgress = errors.New("collection in progress")

	// ErrHeapExhausted is raised when the allocation limit cannot be satisfied
	ErrHeapExhausted = errors.New("heap exhausted")
)
