package arena

import (
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/ErturkCan/mempool-engine/align"
)

// Arena is a bump allocator over a single pre-sized buffer. Alloc never
// blocks and never frees an individual allocation; Reset reclaims the
// entire arena in one step.
type Arena struct {
	capacity  uintptr
	buf       []byte
	offset    atomic.Uintptr
	destroyed atomic.Bool
	logger    *slog.Logger
}

// New builds an Arena with room for capacity bytes, rounded up to the
// cache-line alignment unit.
func New(capacity int, opts ...Option) (*Arena, error) {
	if capacity <= 0 {
		return nil, ErrInvalidArgs
	}
	// Unlike slab, there is no multiplication here: a single int-sized
	// capacity can never round-overflow a uintptr (int and uintptr share
	// a bit width on every Go port, and int's signed range is strictly
	// smaller), so there is no reachable OutOfMemory condition to guard.
	size := align.RoundUpSize(uintptr(capacity))
	buf := align.NewBuffer(size)

	a := &Arena{
		capacity: size,
		buf:      buf,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Alloc advances the arena's offset by size, rounded up to the alignment
// unit, and returns a pointer to the reserved region. It returns nil, with
// no distinct error, on a non-positive size or when the arena has no room
// left — spec's hot-path conflation of InvalidArgs/Exhausted.
func (a *Arena) Alloc(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	aligned := align.RoundUpSize(uintptr(size))

	for {
		cur := a.offset.Load()
		next := cur + aligned
		if next > a.capacity {
			a.logger.Debug("arena: exhausted", "requested", size, "used", cur, "capacity", a.capacity)
			return nil
		}
		if a.offset.CompareAndSwap(cur, next) {
			return unsafe.Pointer(&a.buf[cur])
		}
	}
}

// Reset reclaims the entire arena by rewinding the offset to zero. Bytes
// previously handed out are left unspecified; Reset does not zero them.
// The caller must ensure no goroutine still holds a pointer from before
// the reset.
func (a *Arena) Reset() {
	a.offset.Store(0)
}

// Destroy releases the arena's backing buffer.
func (a *Arena) Destroy() {
	a.destroyed.Store(true)
	a.buf = nil
}

// Stats reports bytes currently in use and total capacity.
func (a *Arena) Stats() (used, capacity int) {
	return int(a.offset.Load()), int(a.capacity)
}
