// Package ffi implements the buffer ownership model behind the exported
// function table (render, allocate, deallocate, sum, greet).
//
// Every buffer handed to a host is recorded in a Table under its address
// until the host returns it with Deallocate. The Table never touches a buffer
// after handing it out except to release it, and rejects releases of buffers
// it does not own instead of corrupting memory.
//
// The package is free of cgo. Backing memory comes from an Allocator: the
// native library supplies a C heap allocator, the WebAssembly module and the
// tests use GoAllocator.
package ffi
