package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"golang.org/x/image/bmp"

	mandel "github.com/marben/ffi_mandel"
)

// webServer creates the http server with the websocket endpoint and the plain
// http render endpoints, and returns the net.Listener accepting websocket
// connections
func webServer(ctx context.Context, port int, rs *renderServer) (*WebsocketListener, *http.Server) {
	l := NewWSListener(ctx, fmt.Sprintf(":%d/ws", port))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newMux(l, rs),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost:%d", port)
	return l, srv
}

func newMux(l *WebsocketListener, rs *renderServer) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(l))
	mux.HandleFunc("GET /render.txt", renderTextHandler(rs))
	mux.HandleFunc("GET /render.bmp", renderBMPHandler(rs))
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "connections: %d\n", rs.activeConns())
	})
	return mux
}

// websocketHandler handles the http ws endpoint
// if websocket is succesfully initialized it is passed to WebsocketListener so it can be accepted
func websocketHandler(l *WebsocketListener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: restrict once the server sits behind a known origin
		})
		if err != nil {
			log.Println(err)
			return
		}

		select {
		case l.ch <- c:
		case <-l.ctx.Done():
			c.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

func renderTextHandler(rs *renderServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, grid, ok := renderQuery(w, r, rs)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
		if _, err := w.Write(grid); err != nil {
			log.Printf("write %s: %v", req, err)
		}
	}
}

func renderBMPHandler(rs *renderServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, grid, ok := renderQuery(w, r, rs)
		if !ok {
			return
		}
		img, err := mandel.GridImage(grid, int(req.width), int(req.height))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/bmp")
		if err := bmp.Encode(w, img); err != nil {
			log.Printf("encode %s: %v", req, err)
		}
	}
}

// gridQuery is a render request taken from the http query string.
type gridQuery struct {
	width, height, maxIter int32
}

func (q gridQuery) String() string {
	return fmt.Sprintf("%dx%d max %d", q.width, q.height, q.maxIter)
}

// renderQuery parses w, h and max from the query and renders the grid.
// It writes the error response itself and reports whether the caller should
// continue.
func renderQuery(w http.ResponseWriter, r *http.Request, rs *renderServer) (gridQuery, []byte, bool) {
	var q gridQuery
	var err error
	for _, p := range []struct {
		name string
		dst  *int32
	}{
		{"w", &q.width},
		{"h", &q.height},
		{"max", &q.maxIter},
	} {
		if *p.dst, err = queryInt32(r, p.name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return q, nil, false
		}
	}

	grid, err := rs.renderer.RenderGrid(q.width, q.height, q.maxIter)
	switch {
	case errors.Is(err, errTooLarge):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return q, nil, false
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return q, nil, false
	}
	return q, grid, true
}

func queryInt32(r *http.Request, name string) (int32, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, fmt.Errorf("missing query parameter %q", name)
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q: %w", name, err)
	}
	return int32(v), nil
}

// WebsocketListener implements net.Listener
// it's a wrapper around websocket.Conn
type WebsocketListener struct {
	ch     chan *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

func NewWSListener(ctx context.Context, addr string) *WebsocketListener {
	ctx, cancel := context.WithCancel(ctx)
	return &WebsocketListener{
		ch:     make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr{addr: addr},
	}
}

func (l *WebsocketListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		if errors.Is(context.Cause(l.ctx), context.Canceled) {
			return nil, net.ErrClosed
		}
		return nil, context.Cause(l.ctx)
	}
}

func (l *WebsocketListener) Addr() net.Addr {
	return l.addr
}

func (l *WebsocketListener) Close() error {
	l.cancel()
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}
