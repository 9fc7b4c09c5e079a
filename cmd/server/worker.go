package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"

	mandel "github.com/marben/ffi_mandel"
	"github.com/marben/irpc"
)

var errTooLarge = errors.New("request exceeds pixel limit")

// pixelLimit rejects grids larger than max pixels before they reach the
// wrapped renderer. A max of zero or less disables the check.
type pixelLimit struct {
	renderer mandel.Renderer
	max      int64
}

func (pl pixelLimit) RenderGrid(width, height, maxIter int32) ([]byte, error) {
	if px := int64(width) * int64(height); pl.max > 0 && px > pl.max {
		return nil, fmt.Errorf("%dx%d is %d pixels, limit %d: %w", width, height, px, pl.max, errTooLarge)
	}
	return pl.renderer.RenderGrid(width, height, maxIter)
}

// renderServer publishes a Renderer as an irpc service on any number of
// listeners and keeps count of the connected endpoints.
type renderServer struct {
	renderer mandel.Renderer
	irpc     *irpc.Server

	conns int
	m     sync.Mutex
}

func newRenderServer(r mandel.Renderer, maxPixels int64) *renderServer {
	rs := &renderServer{
		renderer: pixelLimit{renderer: r, max: maxPixels},
	}
	rs.irpc = irpc.NewServer(irpc.WithOnConnect(rs.onConnect))

	// every endpoint gets the same pixel-limited renderer
	rs.irpc.AddService(mandel.NewRendererIrpcService(rs.renderer))
	return rs
}

func (rs *renderServer) onConnect(ep *irpc.Endpoint) {
	log.Printf("got connection from: %s", ep.RemoteAddr())
	rs.incConns()
	context.AfterFunc(ep.Context(), rs.decConns)
}

// Serve accepts connections on l until l or the server is closed.
func (rs *renderServer) Serve(l net.Listener) error {
	return rs.irpc.Serve(l)
}

// Close closes every listener passed to Serve and every open endpoint.
func (rs *renderServer) Close() error {
	return rs.irpc.Close()
}

func (rs *renderServer) incConns() {
	rs.m.Lock()
	rs.conns++
	c := rs.conns
	rs.m.Unlock()

	log.Printf("connections: %d", c)
}

func (rs *renderServer) decConns() {
	rs.m.Lock()
	rs.conns--
	c := rs.conns
	rs.m.Unlock()

	log.Printf("connections: %d", c)
}

func (rs *renderServer) activeConns() int {
	rs.m.Lock()
	defer rs.m.Unlock()
	return rs.conns
}
