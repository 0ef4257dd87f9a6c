package slab

import (
	"testing"
	"unsafe"

	"golang.org/x/sync/errgroup"
)

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name      string
		blockSize int
		numBlocks int
		wantErr   bool
	}{
		{"valid", 32, 16, false},
		{"zero block size", 0, 16, true},
		{"negative block size", -8, 16, true},
		{"zero blocks", 32, 0, true},
		{"negative blocks", 32, -1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(tc.blockSize, tc.numBlocks)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			used, free := s.Stats()
			if used != 0 || free != tc.numBlocks {
				t.Fatalf("fresh slab stats = (%d, %d), want (0, %d)", used, free, tc.numBlocks)
			}
		})
	}
}

func TestNewRejectsOverflow(t *testing.T) {
	_, err := New(1<<62, 8)
	if err != ErrOutOfMemory {
		t.Fatalf("New(1<<62, 8) = %v, want ErrOutOfMemory", err)
	}
}

func TestAllocFreeRoundTrip(t *testing.T) {
	s, err := New(16, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ptr := s.Alloc()
	if ptr == nil {
		t.Fatal("Alloc returned nil on a fresh slab")
	}
	used, free := s.Stats()
	if used != 1 || free != 3 {
		t.Fatalf("stats after one alloc = (%d, %d), want (1, 3)", used, free)
	}

	if err := s.Free(ptr); err != nil {
		t.Fatalf("Free: %v", err)
	}
	used, free = s.Stats()
	if used != 0 || free != 4 {
		t.Fatalf("stats after free = (%d, %d), want (0, 4)", used, free)
	}
}

// TestExhaustion covers spec scenario S1: allocate every block, confirm the
// next Alloc returns nil, free one block, confirm Alloc succeeds again.
func TestExhaustion(t *testing.T) {
	const n = 8
	s, err := New(8, n)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ptrs := make([]unsafe.Pointer, 0, n)
	for i := 0; i < n; i++ {
		p := s.Alloc()
		if p == nil {
			t.Fatalf("Alloc failed before exhaustion at i=%d", i)
		}
		ptrs = append(ptrs, p)
	}

	if p := s.Alloc(); p != nil {
		t.Fatal("Alloc succeeded past exhaustion")
	}

	if err := s.Free(ptrs[0]); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if p := s.Alloc(); p == nil {
		t.Fatal("Alloc failed to reuse a freed block")
	}
}

// TestDoubleFreeRejected covers spec scenario S3.
func TestDoubleFreeRejected(t *testing.T) {
	s, err := New(16, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := s.Alloc()
	if err := s.Free(p); err != nil {
		t.Fatalf("first Free: %v", err)
	}
	if err := s.Free(p); err != ErrInvalidFree {
		t.Fatalf("second Free = %v, want ErrInvalidFree", err)
	}
}

// TestBogusPointerRejected covers spec scenario S4: pointers outside the
// slab, and pointers inside it but not block-aligned.
func TestBogusPointerRejected(t *testing.T) {
	s, err := New(32, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var stack int
	if err := s.Free(unsafe.Pointer(&stack)); err != ErrInvalidFree {
		t.Fatalf("Free(outside pointer) = %v, want ErrInvalidFree", err)
	}

	p := s.Alloc()
	misaligned := unsafe.Pointer(uintptr(p) + 1)
	if err := s.Free(misaligned); err != ErrInvalidFree {
		t.Fatalf("Free(misaligned pointer) = %v, want ErrInvalidFree", err)
	}

	onePastEnd := unsafe.Pointer(s.base + uintptr(s.numBlocks)*s.blockSize)
	if err := s.Free(onePastEnd); err != ErrInvalidFree {
		t.Fatalf("Free(one past end) = %v, want ErrInvalidFree", err)
	}
}

// TestConcurrentAllocFree covers spec scenario S5: many goroutines
// allocating and freeing concurrently must never hand out the same block
// twice or corrupt the free-index stack.
func TestConcurrentAllocFree(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	const numBlocks = 64
	const workers = 32
	const rounds = 2000

	s, err := New(16, numBlocks)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for r := 0; r < rounds; r++ {
				p := s.Alloc()
				if p == nil {
					continue
				}
				if err := s.Free(p); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent alloc/free: %v", err)
	}

	used, free := s.Stats()
	if used != 0 || free != numBlocks {
		t.Fatalf("final stats = (%d, %d), want (0, %d)", used, free, numBlocks)
	}
}

func TestNoDuplicateAllocation(t *testing.T) {
	const numBlocks = 128
	s, err := New(8, numBlocks)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var mu []unsafe.Pointer
	for i := 0; i < numBlocks; i++ {
		p := s.Alloc()
		if p == nil {
			t.Fatalf("Alloc failed at i=%d", i)
		}
		for _, seen := range mu {
			if seen == p {
				t.Fatalf("Alloc returned duplicate pointer %v", p)
			}
		}
		mu = append(mu, p)
	}
}

func BenchmarkAllocFree(b *testing.B) {
	s, err := New(64, 256)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := s.Alloc()
		_ = s.Free(p)
	}
}

func BenchmarkCompareWithMake(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = make([]byte, 64)
	}
}
