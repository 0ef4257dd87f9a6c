// Package pool implements a thread-tiered allocator over a shared slab.
// Each logical worker (one per goroutine, by convention) keeps a small
// private cache of blocks; cache hits avoid touching the shared slab's
// atomics entirely, and cache misses or overflows fall through to it.
package pool
