package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	mandel "github.com/marben/ffi_mandel"
	"github.com/marben/irpc"
)

// main is the entry point for the render server.
// It serves the Renderer irpc service over plain tcp and websocket, and the
// grid over http as text or bmp.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	tcpAddr := flag.String("tcp", ":8081", "tcp listen address")
	httpPort := flag.Int("http", 8080, "http port serving /ws, /render.txt, /render.bmp and /status")
	maxPixels := flag.Int64("max-pixels", 1<<22, "largest width*height accepted per request, 0 for no limit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer := mandel.GridRenderer{OnRender: func(w, h, maxIter int32) {
		log.Printf("rendering %dx%d, max %d iterations", w, h, maxIter)
	}}
	rs := newRenderServer(renderer, *maxPixels)

	// TCP
	log.Printf("tcp listening on: %s", *tcpAddr)
	tcpListener, err := net.Listen("tcp", *tcpAddr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	// WEBSOCKET
	websocketListener, httpServer := webServer(ctx, *httpPort, rs)

	errs := make(chan error, 3)
	go func() {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("httpServer: %w", err)
		}
	}()

	// irpc server serves both listeners with the same renderer service
	go func() {
		if err := rs.Serve(tcpListener); !errors.Is(err, irpc.ErrServerClosed) {
			errs <- fmt.Errorf("server.Serve tcp: %w", err)
		}
	}()
	go func() {
		if err := rs.Serve(websocketListener); !errors.Is(err, irpc.ErrServerClosed) {
			errs <- fmt.Errorf("server.Serve ws: %w", err)
		}
	}()

	log.Printf("render server waiting for tcp and websocket connections")
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	if err := rs.Close(); err != nil {
		log.Printf("close render server: %v", err)
	}
	return httpServer.Shutdown(context.Background())
}
