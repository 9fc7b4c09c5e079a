package mandel

//go:generate go run github.com/marben/irpc/cmd/irpc api.go

// Renderer produces escape-time grids.
// Transports depend on this rather than on Render directly.
type Renderer interface {
	RenderGrid(width, height, maxIter int32) ([]byte, error)
}

// GridRenderer renders in the calling goroutine.
type GridRenderer struct {
	// OnRender, when set, is called before each grid is computed.
	OnRender func(width, height, maxIter int32)
}

// RenderGrid implements Renderer. It fails only with ErrGridTooLarge.
func (gr GridRenderer) RenderGrid(width, height, maxIter int32) ([]byte, error) {
	n, err := GridLen(width, height)
	if err != nil {
		return nil, err
	}
	if gr.OnRender != nil {
		gr.OnRender(width, height, maxIter)
	}
	return AppendGrid(make([]byte, 0, n), width, height, maxIter), nil
}

var _ Renderer = GridRenderer{}
