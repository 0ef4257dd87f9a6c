package pool

import "unsafe"

// Worker is a per-goroutine handle onto a Pool's shared slab, caching up
// to blocksPerWorker blocks locally so most Alloc/Free calls never touch
// the shared slab's atomics.
type Worker struct {
	pool   *Pool
	cache  []unsafe.Pointer
	closed bool
}

// Alloc returns a cached block if one is available, otherwise falls
// through to the shared slab. It returns nil if the owning Pool has been
// destroyed or the shared slab is exhausted.
func (w *Worker) Alloc() unsafe.Pointer {
	if w.pool.destroyed.Load() {
		w.pool.logger.Debug("pool: alloc after destroy")
		return nil
	}
	if n := len(w.cache); n > 0 {
		p := w.cache[n-1]
		w.cache = w.cache[:n-1]
		return p
	}
	return w.pool.slab.Alloc()
}

// Free returns ptr to the Worker's local cache if there is room, otherwise
// frees it directly to the shared slab. It returns ErrInvalidArgs if the
// owning Pool has already been destroyed, and ErrInvalidFree when the
// cache is full and the shared slab rejects ptr as bogus or double-freed.
// A pointer placed in the cache is not validated.
func (w *Worker) Free(ptr unsafe.Pointer) error {
	if w.pool.destroyed.Load() {
		w.pool.logger.Debug("pool: free after destroy")
		return ErrInvalidArgs
	}
	if len(w.cache) < cap(w.cache) {
		w.cache = append(w.cache, ptr)
		return nil
	}
	if err := w.pool.slab.Free(ptr); err != nil {
		return ErrInvalidFree
	}
	return nil
}

// Close flushes every cached block back to the shared slab. It is safe to
// call Close more than once; only the first call has any effect.
func (w *Worker) Close() {
	if w.closed {
		return
	}
	w.closed = true
	for _, p := range w.cache {
		_ = w.pool.slab.Free(p)
	}
	w.cache = nil
}
