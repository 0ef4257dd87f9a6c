package slab

import (
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/ErturkCan/mempool-engine/align"
	"golang.org/x/sys/cpu"
)

const (
	freeTag  uint32 = 0xF2EE0000
	allocTag uint32 = 0xA1100000

	// emptySlot marks a free-list array cell that currently holds no
	// published entry because a popping Alloc has just drained it (New
	// fills every cell with a real index). Both Alloc and Free treat
	// it as the handoff signal between a pop and the push that reuses
	// the same cell, which is what the original free-index stack's
	// claim-then-read/claim-then-write ordering got wrong under
	// contention.
	emptySlot int32 = -1
)

// blockMeta carries the per-block allocation tag. Each slot is padded to a
// full cache line so that two goroutines touching adjacent blocks' metadata
// never contend over the same line.
type blockMeta struct {
	magic atomic.Uint32
	free  atomic.Uint32
	_     cpu.CacheLinePad
}

// Slab is a fixed-size block allocator over a single pre-sized arena. All
// operations are safe for concurrent use by multiple goroutines; no
// operation blocks.
type Slab struct {
	blockSize uintptr
	numBlocks int

	buf []byte
	// base is the address of buf's first byte, captured once at
	// construction for bounds arithmetic in indexOf. It is only ever
	// compared against, never converted back into an unsafe.Pointer —
	// block pointers are derived fresh from buf itself (see blockPtr).
	base uintptr

	meta []blockMeta

	freeList  []atomic.Int32
	freeTop   atomic.Int64
	freeCount atomic.Int32

	destroyed atomic.Bool
	logger    *slog.Logger
}

// New builds a Slab holding numBlocks blocks of blockSize bytes each,
// rounded up to the cache-line alignment unit. Every block starts free.
func New(blockSize, numBlocks int, opts ...Option) (*Slab, error) {
	if blockSize <= 0 || numBlocks <= 0 {
		return nil, ErrInvalidArgs
	}

	// blockSize alone can never overflow uintptr when rounded up (int
	// and uintptr share a bit width on every Go port, and int's signed
	// range is strictly smaller); the only reachable overflow is the
	// product of an aligned block size with numBlocks.
	aligned := align.RoundUpSize(uintptr(blockSize))

	if align.MulOverflows(aligned, uintptr(numBlocks)) {
		return nil, ErrOutOfMemory
	}
	total := aligned * uintptr(numBlocks)
	if align.Overflows(total) {
		return nil, ErrOutOfMemory
	}

	buf := align.NewBuffer(total)

	s := &Slab{
		blockSize: aligned,
		numBlocks: numBlocks,
		buf:       buf,
		base:      uintptr(unsafe.Pointer(&buf[0])),
		meta:      make([]blockMeta, numBlocks),
		freeList:  make([]atomic.Int32, numBlocks),
		logger:    slog.Default(),
	}

	for i := 0; i < numBlocks; i++ {
		s.meta[i].magic.Store(freeTag)
		s.meta[i].free.Store(1)
		s.freeList[i].Store(int32(i))
	}
	s.freeTop.Store(int64(numBlocks))
	s.freeCount.Store(int32(numBlocks))

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Alloc removes one block from the free-index stack and returns it. It
// returns nil, with no distinct error value, when the slab is exhausted;
// that is the only case in which it returns nil.
func (s *Slab) Alloc() unsafe.Pointer {
	for {
		top := s.freeTop.Load()
		if top <= 0 {
			s.logger.Debug("slab: exhausted", "numBlocks", s.numBlocks)
			return nil
		}
		newTop := top - 1
		if !s.freeTop.CompareAndSwap(top, newTop) {
			continue
		}

		var idx int32
		for {
			idx = s.freeList[newTop].Swap(emptySlot)
			if idx != emptySlot {
				break
			}
		}

		m := &s.meta[idx]
		m.free.Store(0)
		m.magic.Store(allocTag)
		s.freeCount.Add(-1)
		return s.blockPtr(int(idx))
	}
}

// Free returns ptr to the free-index stack. It rejects pointers that do
// not belong to this slab, are not block-aligned, or are not currently
// marked allocated (covers both double frees and bogus pointers).
func (s *Slab) Free(ptr unsafe.Pointer) error {
	idx, err := s.indexOf(ptr)
	if err != nil {
		s.logger.Debug("slab: invalid free", "error", err)
		return err
	}

	m := &s.meta[idx]
	if m.magic.Load() != allocTag || m.free.Load() != 0 {
		s.logger.Debug("slab: invalid free", "index", idx)
		return ErrInvalidFree
	}

	m.free.Store(1)
	m.magic.Store(freeTag)

	for {
		top := s.freeTop.Load()
		if int(top) >= s.numBlocks {
			// Every block is already on the free list; a correctly
			// tagged block claiming to be allocated cannot reach this
			// branch unless metadata has been corrupted.
			return ErrInvalidFree
		}
		if !s.freeTop.CompareAndSwap(top, top+1) {
			continue
		}

		// Claiming freeTop gives this Free the right to publish into
		// cell `top`, but that cell may still hold the entry a
		// concurrent Alloc is in the middle of popping (the same CAS
		// step that grew the valid range back to `top+1` is exactly
		// what shrank it to `top` moments before). Spin until that
		// pop's consuming Swap has drained the cell to emptySlot
		// before writing the new entry, rather than blindly
		// overwriting whatever is there.
		for !s.freeList[top].CompareAndSwap(emptySlot, int32(idx)) {
		}
		s.freeCount.Add(1)
		return nil
	}
}

// Destroy releases the slab's backing buffer. Blocks still outstanding at
// the time of Destroy become dangling; the host is responsible for
// quiescence before calling it.
func (s *Slab) Destroy() {
	s.destroyed.Store(true)
	s.buf = nil
}

// Stats reports the number of currently allocated and currently free
// blocks. used is derived as the block count minus freeCount, so used+free
// always equals the block count. Because freeCount is only incremented
// after a Free's publishing CAS succeeds, a Stats call racing with an
// in-flight Free can still count that block as used; this is intentional
// relaxed-consistency behavior, not a bug.
func (s *Slab) Stats() (used, free int) {
	f := int(s.freeCount.Load())
	return s.numBlocks - f, f
}

// BlockSize returns the aligned per-block size.
func (s *Slab) BlockSize() int { return int(s.blockSize) }

// NumBlocks returns the total block count the slab was constructed with.
func (s *Slab) NumBlocks() int { return s.numBlocks }

func (s *Slab) blockPtr(idx int) unsafe.Pointer {
	return unsafe.Pointer(&s.buf[idx*int(s.blockSize)])
}

func (s *Slab) indexOf(ptr unsafe.Pointer) (int, error) {
	addr := uintptr(ptr)
	end := s.base + uintptr(s.numBlocks)*s.blockSize
	if addr < s.base || addr >= end {
		return 0, ErrInvalidFree
	}
	off := addr - s.base
	if off%s.blockSize != 0 {
		return 0, ErrInvalidFree
	}
	return int(off / s.blockSize), nil
}
