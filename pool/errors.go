package pool

import "errors"

var (
	// ErrInvalidArgs is returned by New for non-positive sizes, and by
	// Worker operations performed after the owning Pool has been
	// destroyed.
	ErrInvalidArgs = errors.New("pool: invalid arguments")

	// ErrOutOfMemory is returned by New when the underlying slab's
	// blockSize*totalBlocks, once rounded to the alignment unit, cannot
	// be represented as a uintptr-sized buffer.
	ErrOutOfMemory = errors.New("pool: out of memory")

	// ErrInvalidFree is returned by Worker.Free when the Worker's cache is
	// full and the underlying slab does not recognize the pointer as
	// currently allocated. Pointers that go into the cache are not checked.
	ErrInvalidFree = errors.New("pool: invalid free")
)
