// Package align provides the cache-line alignment primitives shared by the
// slab, arena, and pool allocators: a single alignment unit and the four
// pure operations (round-up-address, round-up-size, padding, is-aligned)
// every engine rounds its block and buffer sizes against.
package align

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Line is the target cache-line size in bytes for the current architecture:
// 64 on amd64, 128 on arm64, 32 on 32-bit ARM. Derived from the size of
// golang.org/x/sys/cpu's own CacheLinePad rather than a hand-rolled
// GOARCH switch, since it is the same struct the Go runtime pads
// sync.Pool shards with.
const Line = uintptr(unsafe.Sizeof(cpu.CacheLinePad{}))

func init() {
	if Line == 0 || Line&(Line-1) != 0 {
		panic(fmt.Sprintf("align: Line must be a nonzero power of two, got %d", Line))
	}
}

const maxUintptr = ^uintptr(0)

// Overflows reports whether RoundUpSize(n) would wrap around instead of
// producing a larger aligned value. Callers at construction time must
// check this before rounding an untrusted, caller-supplied size.
func Overflows(n uintptr) bool {
	return n > maxUintptr-(Line-1)
}

// MulOverflows reports whether a*b would wrap a uintptr. Used to validate
// block-size-by-count and similar products before they back a buffer
// allocation.
func MulOverflows(a, b uintptr) bool {
	if a == 0 || b == 0 {
		return false
	}
	return a > maxUintptr/b
}

// RoundUpSize returns the smallest multiple of Line that is >= n. A zero
// input rounds to zero; callers that must reject a zero size do so before
// calling RoundUpSize (see slab/arena InvalidArgs handling). Callers must
// have already rejected Overflows(n).
func RoundUpSize(n uintptr) uintptr {
	return (n + Line - 1) &^ (Line - 1)
}

// RoundUpAddr returns the smallest address >= addr that is Line-aligned.
func RoundUpAddr(addr uintptr) uintptr {
	return (addr + Line - 1) &^ (Line - 1)
}

// PaddingFor returns the number of bytes required to advance addr to the
// next Line boundary, or zero if addr is already aligned.
func PaddingFor(addr uintptr) uintptr {
	if m := addr % Line; m != 0 {
		return Line - m
	}
	return 0
}

// IsAligned reports whether addr sits on a Line boundary.
func IsAligned(addr uintptr) bool {
	return addr%Line == 0
}

// NewBuffer allocates a byte slice of at least n bytes whose first byte is
// Line-aligned. Go's allocator does not guarantee any particular
// alignment for []byte, so the buffer is over-allocated by up to Line-1
// bytes and trimmed the way the teacher's createCacheAlignedSlice does.
// Callers must have already rejected Overflows(n); the returned slice,
// not any address derived from it, is the only thing callers should hold
// onto across time — converting a stashed uintptr back into a Pointer
// later is exactly the pattern package unsafe's docs forbid.
func NewBuffer(n uintptr) []byte {
	raw := make([]byte, n+Line-1)
	start := uintptr(unsafe.Pointer(&raw[0]))
	offset := RoundUpAddr(start) - start
	return raw[offset : offset+n : offset+n]
}
