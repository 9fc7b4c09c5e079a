package main

import (
	"context"
	"fmt"
	"net"

	"github.com/coder/websocket"

	mandel "github.com/marben/ffi_mandel"
	"github.com/marben/irpc"
)

// maxGridMessage bounds one websocket message; a grid arrives as one message.
const maxGridMessage = 1 << 30

// remoteRenderer is the Renderer irpc client of a render server, together
// with the endpoint it talks through.
type remoteRenderer struct {
	*mandel.RendererIrpcClient
	ep *irpc.Endpoint
}

var _ mandel.Renderer = remoteRenderer{}

func newRemoteRenderer(conn net.Conn) (remoteRenderer, error) {
	ep := irpc.NewEndpoint(conn)
	client, err := mandel.NewRendererIrpcClient(ep)
	if err != nil {
		ep.Close()
		return remoteRenderer{}, err
	}
	return remoteRenderer{RendererIrpcClient: client, ep: ep}, nil
}

// dialTCP connects to a render server's tcp listener.
func dialTCP(addr string) (remoteRenderer, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return remoteRenderer{}, err
	}
	return newRemoteRenderer(conn)
}

// dialWebsocket connects to a render server's /ws endpoint.
// The connection lives until ctx is done or Close is called.
func dialWebsocket(ctx context.Context, url string) (remoteRenderer, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return remoteRenderer{}, fmt.Errorf("websocket.Dial %s: %w", url, err)
	}
	c.SetReadLimit(maxGridMessage)
	return newRemoteRenderer(websocket.NetConn(ctx, c, websocket.MessageBinary))
}

// Close shuts the endpoint and its connection down.
func (rr remoteRenderer) Close() error {
	return rr.ep.Close()
}
