// cliclient renders the Mandelbrot grid and prints it with the time it took.
// By default it asks the render server over tcp; -ws uses the websocket
// endpoint instead and -local renders in process.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	mandel "github.com/marben/ffi_mandel"
)

type options struct {
	addr    string
	wsURL   string
	local   bool
	width   int
	height  int
	maxIter int
}

// main is the entry point for the CLI client.
// It runs the client logic and logs any fatal errors.
func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", ":8081", "render server tcp address")
	flag.StringVar(&opts.wsURL, "ws", "", "render server websocket url, e.g. ws://localhost:8080/ws")
	flag.BoolVar(&opts.local, "local", false, "render in process instead of asking a server")
	flag.IntVar(&opts.width, "w", 140, "grid width")
	flag.IntVar(&opts.height, "h", 50, "grid height")
	flag.IntVar(&opts.maxIter, "max", 100000, "iteration cap")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	width, err := int32Flag("w", opts.width)
	if err != nil {
		return err
	}
	height, err := int32Flag("h", opts.height)
	if err != nil {
		return err
	}
	maxIter, err := int32Flag("max", opts.maxIter)
	if err != nil {
		return err
	}

	renderer, closeRenderer, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	defer closeRenderer()

	start := time.Now()
	grid, err := renderer.RenderGrid(width, height, maxIter)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	elapsed := time.Since(start)

	if _, err := out.Write(grid); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "--- %s ---\n", elapsed)
	return err
}

// int32Flag rejects a flag value the render call cannot carry.
func int32Flag(name string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("-%s %d: out of int32 range", name, v)
	}
	return int32(v), nil
}

// connect picks the renderer the options ask for.
func connect(ctx context.Context, opts options) (mandel.Renderer, func() error, error) {
	switch {
	case opts.local:
		return mandel.GridRenderer{}, func() error { return nil }, nil
	case opts.wsURL != "":
		log.Printf("connecting to %s", opts.wsURL)
		rr, err := dialWebsocket(ctx, opts.wsURL)
		if err != nil {
			return nil, nil, err
		}
		return rr, rr.Close, nil
	default:
		log.Printf("connecting to %s", opts.addr)
		rr, err := dialTCP(opts.addr)
		if err != nil {
			return nil, nil, fmt.Errorf("dial %s: %w", opts.addr, err)
		}
		return rr, rr.Close, nil
	}
}
