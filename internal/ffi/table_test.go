package ffi

import (
	"bytes"
	"errors"
	"math"
	"sync"
	"testing"

	mandel "github.com/marben/ffi_mandel"
)

// countingAllocator records Alloc and Free calls.
type countingAllocator struct {
	GoAllocator
	allocs, frees int
}

func (a *countingAllocator) Alloc(size int) []byte {
	a.allocs++
	return a.GoAllocator.Alloc(size)
}

func (a *countingAllocator) Free(buf []byte) {
	a.frees++
}

func TestAllocateDeallocate(t *testing.T) {
	a := &countingAllocator{}
	tbl := NewTable(a)

	ptr := tbl.Allocate(16)
	if ptr == 0 {
		t.Fatal("Allocate returned a nil address")
	}
	b, found := tbl.Bytes(ptr)
	if !found || len(b) != 16 {
		t.Fatalf("Bytes = %d bytes, found %v", len(b), found)
	}
	if tbl.Live() != 1 {
		t.Fatalf("Live = %d, want 1", tbl.Live())
	}

	if err := tbl.Deallocate(ptr, 16); err != nil {
		t.Fatalf("Deallocate: %v", err)
	}
	if tbl.Live() != 0 || a.frees != 1 {
		t.Fatalf("after release Live = %d, frees = %d", tbl.Live(), a.frees)
	}
	if _, found := tbl.Bytes(ptr); found {
		t.Error("released buffer still visible")
	}
}

func TestDeallocateRejects(t *testing.T) {
	a := &countingAllocator{}
	tbl := NewTable(a)
	ptr := tbl.Allocate(8)

	if err := tbl.Deallocate(ptr, 9); !errors.Is(err, ErrCapacityMismatch) {
		t.Errorf("wrong capacity: err = %v, want %v", err, ErrCapacityMismatch)
	}
	if tbl.Live() != 1 {
		t.Fatal("rejected release dropped the buffer")
	}

	if err := tbl.Deallocate(ptr, 8); err != nil {
		t.Fatalf("Deallocate: %v", err)
	}
	if err := tbl.Deallocate(ptr, 8); !errors.Is(err, ErrNotOwned) {
		t.Errorf("double free: err = %v, want %v", err, ErrNotOwned)
	}
	if err := tbl.Deallocate(0xdead, 1); !errors.Is(err, ErrNotOwned) {
		t.Errorf("foreign pointer: err = %v, want %v", err, ErrNotOwned)
	}
	if a.frees != 1 {
		t.Errorf("frees = %d, want 1", a.frees)
	}
}

func TestAllocateZeroIsDistinct(t *testing.T) {
	tbl := NewTable(GoAllocator{})
	p1 := tbl.Allocate(0)
	p2 := tbl.Allocate(0)
	if p1 == p2 {
		t.Fatal("two live zero size buffers share an address")
	}
	if err := tbl.Deallocate(p1, 0); err != nil {
		t.Error(err)
	}
	if err := tbl.Deallocate(p2, 0); err != nil {
		t.Error(err)
	}
}

// mustRender renders into tbl and fails the test on error.
func mustRender(t *testing.T, tbl *Table, width, height, maxIter int32) uintptr {
	t.Helper()
	ptr, err := tbl.Render(width, height, maxIter)
	if err != nil {
		t.Fatalf("Render(%d, %d, %d): %v", width, height, maxIter, err)
	}
	return ptr
}

func TestRender(t *testing.T) {
	tbl := NewTable(GoAllocator{})
	ptr := mustRender(t, tbl, 3, 2, 50)

	b, found := tbl.Bytes(ptr)
	if !found {
		t.Fatal("rendered buffer not owned")
	}
	if want := "--*\n-**\n\x00"; string(b) != want {
		t.Fatalf("buffer = %q, want %q", b, want)
	}
	s, _ := tbl.CString(ptr)
	if !bytes.Equal(s, mandel.Render(3, 2, 50)) {
		t.Errorf("CString = %q", s)
	}

	// hosts release with the string length they scanned
	if err := tbl.Deallocate(ptr, len(s)); err != nil {
		t.Fatalf("release by string length: %v", err)
	}
}

func TestRenderReleaseByCapacity(t *testing.T) {
	tbl := NewTable(GoAllocator{})
	ptr := mustRender(t, tbl, 140, 50, 100)
	if err := tbl.Deallocate(ptr, int(mandel.GridSize(140, 50))+1); err != nil {
		t.Fatal(err)
	}
}

func TestRenderEmpty(t *testing.T) {
	tbl := NewTable(GoAllocator{})
	ptr := mustRender(t, tbl, 10, 0, 50)
	b, _ := tbl.Bytes(ptr)
	if string(b) != "\x00" {
		t.Errorf("empty grid buffer = %q, want a lone terminator", b)
	}
}

func TestRenderAllocatesOnce(t *testing.T) {
	a := &countingAllocator{}
	tbl := NewTable(a)
	mustRender(t, tbl, 80, 24, 100)
	if a.allocs != 1 {
		t.Errorf("Render allocated %d times, want 1", a.allocs)
	}
}

func TestRenderTooLarge(t *testing.T) {
	// a 32-bit int cannot address 50000x50000
	old := maxBufferLen
	maxBufferLen = math.MaxInt32
	defer func() { maxBufferLen = old }()

	a := &countingAllocator{}
	tbl := NewTable(a)
	ptr, err := tbl.Render(50000, 50000, 10)
	if !errors.Is(err, mandel.ErrGridTooLarge) || ptr != 0 {
		t.Fatalf("Render(50000, 50000) = %#x, %v, want mandel.ErrGridTooLarge", ptr, err)
	}
	if a.allocs != 0 || tbl.Live() != 0 {
		t.Errorf("refused render allocated %d buffers, %d live", a.allocs, tbl.Live())
	}

	// grids within the limit still render
	if _, err := tbl.Render(3, 2, 50); err != nil {
		t.Errorf("Render(3, 2, 50): %v", err)
	}
}

func TestGreet(t *testing.T) {
	tbl := NewTable(GoAllocator{})

	subject := []byte("Wasmer 🐍")
	in := tbl.Allocate(len(subject) + 1)
	b, _ := tbl.Bytes(in)
	copy(b, subject)
	b[len(subject)] = 0

	out, err := tbl.Greet(in)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := tbl.CString(out)
	if want := "Hello, Wasmer 🐍!"; string(got) != want {
		t.Errorf("greeting = %q, want %q", got, want)
	}

	if err := tbl.Deallocate(in, len(subject)); err != nil {
		t.Error(err)
	}
	if err := tbl.Deallocate(out, len(got)); err != nil {
		t.Error(err)
	}
	if tbl.Live() != 0 {
		t.Errorf("Live = %d after releasing everything", tbl.Live())
	}

	if _, err := tbl.Greet(in); !errors.Is(err, ErrNotOwned) {
		t.Errorf("greet of released buffer: err = %v", err)
	}
}

func TestConcurrentHosts(t *testing.T) {
	tbl := NewTable(GoAllocator{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				ptr, err := tbl.Render(8, 4, 20)
				if err != nil {
					t.Error(err)
					return
				}
				s, _ := tbl.CString(ptr)
				if err := tbl.Deallocate(ptr, len(s)); err != nil {
					t.Error(err)
					return
				}
			}
		})
	}
	wg.Wait()

	if tbl.Live() != 0 {
		t.Errorf("Live = %d", tbl.Live())
	}
}

func TestSum(t *testing.T) {
	if got := Sum(5, 37); got != 42 {
		t.Errorf("Sum(5, 37) = %d", got)
	}
	if got := Sum(2147483647, 1); got != -2147483648 {
		t.Errorf("Sum wraps to %d", got)
	}
}
