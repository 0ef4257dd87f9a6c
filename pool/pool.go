package pool

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/ErturkCan/mempool-engine/slab"
)

// Pool is a thread-tiered allocator: a shared slab.Slab fronted by
// per-Worker caches. Workers are explicit handles rather than OS
// thread-local state (goroutines have no exit hook to flush a TLS cache
// against), matching the rest of this module's preference for values the
// host controls directly over hidden runtime magic.
type Pool struct {
	slab            *slab.Slab
	blocksPerWorker int
	destroyed       atomic.Bool
	logger          *slog.Logger
}

// New builds a Pool backed by a slab of totalBlocks blocks of blockSize
// bytes, with each Worker caching up to blocksPerWorker of them locally.
func New(blockSize, blocksPerWorker, totalBlocks int, opts ...Option) (*Pool, error) {
	if blocksPerWorker <= 0 {
		return nil, ErrInvalidArgs
	}
	s, err := slab.New(blockSize, totalBlocks)
	if err != nil {
		if errors.Is(err, slab.ErrOutOfMemory) {
			return nil, ErrOutOfMemory
		}
		return nil, ErrInvalidArgs
	}

	p := &Pool{
		slab:            s,
		blocksPerWorker: blocksPerWorker,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Worker returns a new per-goroutine handle. The caller owns it: it must
// not be used from two goroutines at once, and should be closed (or
// otherwise drained) before the Pool is destroyed.
func (p *Pool) Worker() *Worker {
	return &Worker{
		pool:  p,
		cache: make([]unsafe.Pointer, 0, p.blocksPerWorker),
	}
}

// Destroy releases the pool's shared slab. Workers with blocks still
// cached at the time of Destroy are left holding dangling pointers; the
// host is responsible for closing every Worker first.
func (p *Pool) Destroy() {
	p.destroyed.Store(true)
	p.slab.Destroy()
}

// Stats forwards to the underlying slab, exactly as original_source's
// pool_stats does: blocks sitting in a Worker's local cache still count
// as allocated, since there is no cheap way to account for them without
// a global walk of every live Worker.
func (p *Pool) Stats() (allocated, free int) {
	return p.slab.Stats()
}
