// Package slab implements a fixed-size block allocator: a pre-sized arena
// cut into equal blocks, handed out and reclaimed through a lock-free
// free-index stack. It is the lowest tier of the allocation system; arena
// is independent of it, while pool owns a Slab and uses its free-list as
// the shared tier beneath each Worker's cache.
package slab
