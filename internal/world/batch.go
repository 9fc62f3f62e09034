package world

import "time"

// batcher coalesces live-mesh recomputes. Writes inside StartBatch/EndBatch
// only mark the mesh stale; outside a batch a write recomputes at once
// unless the previous recompute was less than interval ago, in which case
// Tick picks it up later.
type batcher struct {
	interval time.Duration
	now      func() time.Time
	depth    int
	pending  bool
	last     time.Time
	ran      bool
}

func (b *batcher) due(now time.Time) bool {
	return !b.ran || now.Sub(b.last) >= b.interval
}

func (b *batcher) done(now time.Time) {
	b.pending = false
	b.last = now
	b.ran = true
}

// invalidate marks the live mesh stale and recomputes if allowed.
func (w *World) invalidate() {
	if w.batch.depth > 0 || !w.batch.due(w.batch.now()) {
		w.batch.pending = true
		return
	}
	w.Recompute()
}

// StartBatch defers recomputes until the matching EndBatch. Batches nest.
func (w *World) StartBatch() {
	w.batch.depth++
}

// EndBatch closes a batch. Closing the outermost batch runs one recompute
// if anything changed inside it.
func (w *World) EndBatch() {
	if w.batch.depth == 0 {
		return
	}
	w.batch.depth--
	if w.batch.depth == 0 && w.batch.pending {
		w.Recompute()
	}
}

// InBatch reports whether a batch is open.
func (w *World) InBatch() bool { return w.batch.depth > 0 }

// Pending reports whether the live mesh is stale.
func (w *World) Pending() bool { return w.batch.pending }

// Tick is the throttle timer: call it once per frame. It runs a pending
// recompute once the minimum interval has passed and reports whether it did.
func (w *World) Tick() bool {
	if w.batch.depth > 0 || !w.batch.pending || !w.batch.due(w.batch.now()) {
		return false
	}
	w.Recompute()
	return true
}
