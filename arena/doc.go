// Package arena implements a bump allocator: a single pre-sized buffer
// handed out by advancing an atomic offset. Allocations cannot be freed
// individually; the whole arena is reclaimed at once with Reset.
package arena
