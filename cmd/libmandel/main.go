//go:build cgo

// libmandel is the native shared library exposing the Mandelbrot renderer to
// foreign hosts.
//
//	go build -buildmode=c-shared -o libmandel.so ./cmd/libmandel
//
// Every pointer returned by render, mandel, greet and allocate is owned by the
// host and must be passed back to deallocate exactly once.
package main

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"log"
	"unsafe"

	"github.com/marben/ffi_mandel/internal/ffi"
)

// cAllocator backs buffers with the C heap so hosts may keep them after the
// exported call returns.
type cAllocator struct{}

func (cAllocator) Alloc(size int) []byte {
	p := C.malloc(C.size_t(size))
	if p == nil {
		log.Fatalf("malloc(%d) failed", size)
	}
	return unsafe.Slice((*byte)(p), size)
}

func (cAllocator) Free(buf []byte) {
	C.free(unsafe.Pointer(unsafe.SliceData(buf)))
}

var table = ffi.NewTable(cAllocator{})

// render returns NULL for a grid too large to address.
//
//export render
func render(width, height, maxIter C.int) *C.char {
	p, err := table.Render(int32(width), int32(height), int32(maxIter))
	if err != nil {
		log.Printf("libmandel: %v", err)
		return nil
	}
	return (*C.char)(ptr(p))
}

// mandel is the name the existing hosts look up.
//
//export mandel
func mandel(width, height, maxIter C.int) *C.char {
	return render(width, height, maxIter)
}

//export allocate
func allocate(size C.size_t) unsafe.Pointer {
	return ptr(table.Allocate(int(size)))
}

//export deallocate
func deallocate(pointer unsafe.Pointer, capacity C.size_t) {
	if err := table.Deallocate(uintptr(pointer), int(capacity)); err != nil {
		log.Printf("libmandel: %v", err)
	}
}

//export sum
func sum(x, y C.int) C.int {
	return C.int(ffi.Sum(int32(x), int32(y)))
}

//export greet
func greet(subject *C.char) *C.char {
	if subject == nil {
		return nil
	}
	// subjects need not come from allocate; read them as plain C strings
	text := C.GoBytes(unsafe.Pointer(subject), C.int(C.strlen(subject)))
	return (*C.char)(ptr(table.Copy(ffi.Greeting(text))))
}

// ptr turns a table address back into a pointer. Table memory is C heap
// memory, never moved or collected by Go.
func ptr(addr uintptr) unsafe.Pointer {
	return unsafe.Pointer(addr)
}

func main() {}
