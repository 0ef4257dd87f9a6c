// Command-free library module mempool-engine provides three composable
// in-process memory allocators, slab (fixed-size block allocator), arena
// (bump allocator), and pool (thread-tiered cache over a slab), built on
// align (cache-line alignment primitives). Each allocator is usable
// independently; pool is the only one that depends on another (slab).
package mempoolengine
