// ABOUTME: Heap registry: an arena of allocations addressed by generation-checked slots
// ABOUTME: Tracks root counts, mark flags and the automatic collection threshold

package gc

import (
	"reflect"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// allocation is the storage unit behind every handle.
type allocation struct {
	id        uint64 // serial, never reused
	value     Trace
	roots     int
	marked    bool // only meaningful during a collection pass
	finalized bool // set before Finalize runs so it never runs twice
	typ       string
	size      uint64
}

// slot is one arena entry. gen changes every time the slot's allocation is
// reclaimed, invalidating outstanding refs.
type slot struct {
	gen   uint32
	alloc *allocation
}

// ref addresses an allocation. The zero ref is never valid.
type ref struct {
	index uint32
	gen   uint32
}

// Stats is a point-in-time view of heap counters
type Stats struct {
	Live        int    // registered allocations
	Bytes       uint64 // shallow bytes of registered allocations
	Allocations uint64 // allocations ever created
	Collections uint64 // completed collection passes
	Swept       uint64 // allocations ever reclaimed
	Threshold   uint64 // current automatic collection threshold, 0 if disabled
}

// Heap owns every allocation created through it. A heap and its handles
// belong to one goroutine at a time; nothing here is synchronized.
type Heap struct {
	cfg     Config
	logger  log.Logger
	metrics *heapMetrics

	slots []slot
	free  []uint32

	live        int
	bytes       uint64
	nextID      uint64
	threshold   uint64
	collections uint64
	swept       uint64
	collecting  bool
}

// NewHeap creates an empty heap. logger may be nil; reg may be nil to leave
// the heap's metrics unregistered.
func NewHeap(cfg Config, logger log.Logger, reg prometheus.Registerer) *Heap {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if cfg.UsedSpaceRatio <= 0 {
		cfg.UsedSpaceRatio = defaultUsedSpaceRatio
	}
	return &Heap{
		cfg:       cfg,
		logger:    logger,
		metrics:   newHeapMetrics(reg),
		threshold: cfg.Threshold,
	}
}

// Len returns the number of registered allocations
func (h *Heap) Len() int {
	return h.live
}

// Bytes returns the shallow size of all registered allocations
func (h *Heap) Bytes() uint64 {
	return h.bytes
}

// Stats returns the heap counters
func (h *Heap) Stats() Stats {
	return Stats{
		Live:        h.live,
		Bytes:       h.bytes,
		Allocations: h.nextID,
		Collections: h.collections,
		Swept:       h.swept,
		Threshold:   h.threshold,
	}
}

// register stores v in a fresh allocation with a root count of one.
func (h *Heap) register(v Trace) ref {
	typ, size := describe(v)
	h.makeRoom(size)

	h.nextID++
	a := &allocation{
		id:    h.nextID,
		value: v,
		roots: 1,
		typ:   typ,
		size:  size,
	}

	var idx uint32
	if n := len(h.free); n > 0 {
		idx = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		h.slots = append(h.slots, slot{gen: 1})
		idx = uint32(len(h.slots) - 1)
	}
	h.slots[idx].alloc = a

	h.live++
	h.bytes += size
	h.metrics.allocations.Inc()
	h.metrics.liveAllocations.Set(float64(h.live))
	h.metrics.liveBytes.Set(float64(h.bytes))

	return ref{index: idx, gen: h.slots[idx].gen}
}

// makeRoom runs the automatic trigger before an allocation of size bytes and
// enforces the allocation limit.
func (h *Heap) makeRoom(size uint64) {
	if h.collecting {
		return
	}

	full := h.cfg.MaxAllocations > 0 && h.live >= h.cfg.MaxAllocations
	over := h.threshold > 0 && h.bytes+size > h.threshold
	if full || over {
		level.Debug(h.logger).Log("msg", "allocation triggered collection", "live", h.live, "bytes", h.bytes, "threshold", h.threshold)
		h.Collect()

		if h.threshold > 0 && float64(h.bytes+size) > float64(h.threshold)*h.cfg.UsedSpaceRatio {
			h.threshold = uint64(float64(h.bytes+size) / h.cfg.UsedSpaceRatio)
			level.Debug(h.logger).Log("msg", "collection threshold raised", "threshold", h.threshold)
		}
	}

	if h.cfg.MaxAllocations > 0 && h.live >= h.cfg.MaxAllocations {
		panic(errors.Wrapf(ErrHeapExhausted, "%d live allocations, limit %d", h.live, h.cfg.MaxAllocations))
	}
}

func (h *Heap) resolve(r ref) (*allocation, error) {
	if int(r.index) >= len(h.slots) {
		return nil, ErrStaleHandle
	}
	s := &h.slots[r.index]
	if s.gen != r.gen || s.alloc == nil {
		return nil, ErrStaleHandle
	}
	return s.alloc, nil
}

func (h *Heap) mustResolve(r ref, op string) *allocation {
	a, err := h.resolve(r)
	if err != nil {
		panic(errors.Wrap(err, op))
	}
	return a
}

// release reclaims the slot at idx.
func (h *Heap) release(idx uint32) {
	s := &h.slots[idx]
	a := s.alloc
	s.alloc = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	h.free = append(h.free, idx)

	h.live--
	h.bytes -= a.size
	a.value = nil
}

// each calls fn for every registered allocation in slot order.
func (h *Heap) each(fn func(a *allocation)) {
	for i := range h.slots {
		if a := h.slots[i].alloc; a != nil {
			fn(a)
		}
	}
}

// describe returns the type name and shallow size of v. Pointers count the
// pointed-to struct as well.
func describe(v Trace) (string, uint64) {
	t := reflect.TypeOf(v)
	if t == nil {
		return "<nil>", 0
	}
	size := uint64(t.Size())
	if t.Kind() == reflect.Pointer {
		size += uint64(t.Elem().Size())
	}
	return t.String(), size
}
