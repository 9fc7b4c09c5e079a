//go:build wasip1

// wasmmandel is the WebAssembly build of the renderer, for hosts that embed a
// wasm runtime.
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o mandelbrot.wasm ./cmd/wasmmandel
//
// Addresses are offsets into the module's exported linear memory. A buffer
// stays reachable in the table, and so in place, until the host passes it to
// deallocate.
package main

import (
	"log"

	"github.com/marben/ffi_mandel/internal/ffi"
)

var table = ffi.NewTable(ffi.GoAllocator{})

//go:wasmexport render
func render(width, height, maxIter int32) uint32 {
	p, err := table.Render(width, height, maxIter)
	if err != nil {
		log.Printf("wasmmandel: %v", err)
		return 0
	}
	return uint32(p)
}

//go:wasmexport mandel
func mandel(width, height, maxIter int32) uint32 {
	return render(width, height, maxIter)
}

//go:wasmexport allocate
func allocate(size uint32) uint32 {
	return uint32(table.Allocate(int(size)))
}

//go:wasmexport deallocate
func deallocate(pointer, capacity uint32) {
	if err := table.Deallocate(uintptr(pointer), int(capacity)); err != nil {
		log.Printf("wasmmandel: %v", err)
	}
}

//go:wasmexport sum
func sum(x, y int32) int32 {
	return ffi.Sum(x, y)
}

// greet only accepts subjects written into memory obtained from allocate;
// anything else is not addressable from Go.
//
//go:wasmexport greet
func greet(subject uint32) uint32 {
	out, err := table.Greet(uintptr(subject))
	if err != nil {
		log.Printf("wasmmandel: %v", err)
		return 0
	}
	return uint32(out)
}

func main() {}
