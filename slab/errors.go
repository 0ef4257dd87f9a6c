package slab

import "errors"

var (
	// ErrInvalidArgs is returned by New when blockSize or numBlocks is
	// zero or negative.
	ErrInvalidArgs = errors.New("slab: invalid arguments")

	// ErrOutOfMemory is returned by New when blockSize*numBlocks, once
	// rounded to the alignment unit, cannot be represented as a
	// uintptr-sized buffer.
	ErrOutOfMemory = errors.New("slab: out of memory")

	// ErrInvalidFree is returned by Free when ptr does not belong to this
	// slab, is not block-aligned, or is not currently allocated (double
	// free, or a pointer whose metadata tag has been corrupted).
	ErrInvalidFree = errors.New("slab: invalid free")
)
