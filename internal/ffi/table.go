package ffi

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sync"
	"unsafe"

	mandel "github.com/marben/ffi_mandel"
)

var (
	// ErrNotOwned is returned when releasing an address the table does not
	// hold: a double free, or memory that was never handed out.
	ErrNotOwned = errors.New("buffer not owned by table")

	// ErrCapacityMismatch is returned when a release names a capacity that
	// matches neither the allocation size nor the C string length.
	ErrCapacityMismatch = errors.New("capacity does not match allocation")
)

// maxBufferLen is the largest buffer Render hands to the allocator.
var maxBufferLen int64 = math.MaxInt

// Table tracks buffers whose ownership has been transferred to a host.
// It is safe for concurrent use; hosts may call in from any thread.
type Table struct {
	alloc Allocator

	m    sync.Mutex
	live map[uintptr]entry
}

type entry struct {
	buf  []byte // full backing memory, len == reserved size
	size int    // size the host asked for
}

func NewTable(a Allocator) *Table {
	return &Table{
		alloc: a,
		live:  make(map[uintptr]entry),
	}
}

// Allocate hands out an uninitialized buffer of size bytes and returns its
// address. At least one byte is reserved so that distinct live buffers never
// share an address.
func (t *Table) Allocate(size int) uintptr {
	size = max(size, 0)
	buf := t.alloc.Alloc(max(size, 1))
	return t.own(buf, size)
}

func (t *Table) own(buf []byte, size int) uintptr {
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))

	t.m.Lock()
	defer t.m.Unlock()
	t.live[ptr] = entry{buf: buf, size: size}
	return ptr
}

// Deallocate releases the buffer at ptr. capacity must be the size passed to
// Allocate, or the length of the NUL-terminated string stored in the buffer
// (what hosts naturally have at hand for buffers returned by Render and Greet).
// A rejected release leaves the table unchanged.
func (t *Table) Deallocate(ptr uintptr, capacity int) error {
	t.m.Lock()
	e, found := t.live[ptr]
	if !found {
		t.m.Unlock()
		return fmt.Errorf("deallocate %#x: %w", ptr, ErrNotOwned)
	}
	if capacity != e.size && capacity != cstrlen(e.buf) {
		t.m.Unlock()
		return fmt.Errorf("deallocate %#x with capacity %d, allocated %d: %w", ptr, capacity, e.size, ErrCapacityMismatch)
	}
	delete(t.live, ptr)
	t.m.Unlock()

	t.alloc.Free(e.buf)
	return nil
}

// Render renders a grid straight into a fresh buffer, terminates it with NUL
// and transfers it to the caller. A grid whose size does not fit an int is
// refused with mandel.ErrGridTooLarge before anything is allocated.
func (t *Table) Render(width, height, maxIter int32) (uintptr, error) {
	size := mandel.GridSize(width, height) + 1
	if size > maxBufferLen {
		return 0, fmt.Errorf("render %dx%d needs %d bytes: %w", width, height, size, mandel.ErrGridTooLarge)
	}
	buf := t.alloc.Alloc(int(size))

	grid := mandel.AppendGrid(buf[:0], width, height, maxIter)
	buf[len(grid)] = 0
	return t.own(buf, int(size)), nil
}

// Greet reads the NUL-terminated subject stored in an owned buffer and
// returns a new owned buffer holding "Hello, <subject>!".
func (t *Table) Greet(ptr uintptr) (uintptr, error) {
	subject, found := t.CString(ptr)
	if !found {
		return 0, fmt.Errorf("greet %#x: %w", ptr, ErrNotOwned)
	}
	return t.Copy(Greeting(subject)), nil
}

// Copy transfers a NUL-terminated copy of b to the caller.
func (t *Table) Copy(b []byte) uintptr {
	buf := t.alloc.Alloc(len(b) + 1)
	copy(buf, b)
	buf[len(b)] = 0
	return t.own(buf, len(b)+1)
}

// Bytes returns the requested extent of the owned buffer at ptr.
func (t *Table) Bytes(ptr uintptr) ([]byte, bool) {
	t.m.Lock()
	defer t.m.Unlock()

	e, found := t.live[ptr]
	if !found {
		return nil, false
	}
	return e.buf[:e.size], true
}

// CString returns the contents of the owned buffer at ptr up to the first
// NUL, or the whole buffer if it holds none.
func (t *Table) CString(ptr uintptr) ([]byte, bool) {
	b, found := t.Bytes(ptr)
	if !found {
		return nil, false
	}
	return b[:cstrlen(b)], true
}

// Live returns the number of buffers not yet released.
func (t *Table) Live() int {
	t.m.Lock()
	defer t.m.Unlock()
	return len(t.live)
}

func cstrlen(b []byte) int {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return i
	}
	return len(b)
}
