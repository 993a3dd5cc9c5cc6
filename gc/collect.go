// ABOUTME: Stop-the-world mark-and-sweep collection over the heap registry
// ABOUTME: Reclaims every allocation unreachable from a rooted one, cycles included

package gc

import (
	"time"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// CollectStats summarises one collection pass
type CollectStats struct {
	Marked   int // allocations reached from roots
	Swept    int // allocations finalized and reclaimed
	Live     int // allocations left on the heap
	Duration time.Duration
}

// Collect runs a full collection: it clears every mark flag, marks everything
// reachable from allocations with a positive root count, then finalizes and
// reclaims everything left unmarked. Each reached allocation's value is
// traced exactly once.
//
// No cell may be mutably borrowed while Collect runs. Calling Collect from a
// finalizer panics with ErrCollectInProgress.
func (h *Heap) Collect() CollectStats {
	if h.collecting {
		panic(errors.Wrap(ErrCollectInProgress, "collect"))
	}
	h.collecting = true
	defer func() { h.collecting = false }()

	start := time.Now()

	h.each(func(a *allocation) {
		a.marked = false
	})

	marked := h.mark()
	swept := h.sweep()

	h.collections++
	h.swept += uint64(swept)

	stats := CollectStats{
		Marked:   marked,
		Swept:    swept,
		Live:     h.live,
		Duration: time.Since(start),
	}

	h.metrics.collections.Inc()
	h.metrics.swept.Add(float64(swept))
	h.metrics.liveAllocations.Set(float64(h.live))
	h.metrics.liveBytes.Set(float64(h.bytes))
	h.metrics.collectionDuration.Observe(stats.Duration.Seconds())

	level.Debug(h.logger).Log("msg", "collection finished", "marked", marked, "swept", swept, "live", h.live, "bytes", h.bytes, "duration", stats.Duration)

	return stats
}

// mark walks from every rooted allocation, in slot order, and returns the
// number of allocations reached.
func (h *Heap) mark() int {
	var (
		stack  []*allocation
		marked int
	)
	t := &Tracer{heap: h}
	t.visit = func(a *allocation) {
		if a.marked {
			return
		}
		a.marked = true
		stack = append(stack, a)
	}

	for i := range h.slots {
		a := h.slots[i].alloc
		if a == nil || a.roots == 0 {
			continue
		}
		t.visit(a)
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			marked++
			top.value.Trace(t)
		}
	}
	return marked
}

// sweep finalizes every unmarked allocation while all of them are still
// readable, then reclaims them. Allocations created by finalizers survive
// until the next pass. If a finalizer panics nothing is reclaimed; the next
// pass reclaims the allocations already finalized without finalizing them
// again.
func (h *Heap) sweep() int {
	var doomed []uint32
	for i := range h.slots {
		if a := h.slots[i].alloc; a != nil && !a.marked {
			doomed = append(doomed, uint32(i))
		}
	}

	for _, idx := range doomed {
		a := h.slots[idx].alloc
		if a.finalized {
			continue
		}
		a.finalized = true
		finalize(a.value)
	}
	for _, idx := range doomed {
		h.release(idx)
	}
	return len(doomed)
}
