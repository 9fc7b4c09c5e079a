package ffi

// Allocator supplies the backing memory for buffers crossing the boundary.
type Allocator interface {
	Alloc(size int) []byte
	Free(buf []byte)
}

// GoAllocator backs buffers with Go memory. Free is a no-op: a buffer is
// reclaimed by the garbage collector once the Table forgets it.
type GoAllocator struct{}

func (GoAllocator) Alloc(size int) []byte {
	return make([]byte, size)
}

func (GoAllocator) Free([]byte) {}

var _ Allocator = GoAllocator{}
