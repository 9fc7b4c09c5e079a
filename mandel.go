package mandel

// Region within the complex plane
type Region struct {
	Xmin, Xmax float32
	Ymin, Ymax float32
}

// Bounds of the framing every grid is rendered in.
// It shows the whole classic silhouette: real axis [-2, 1], imaginary axis [-1, 1].
const (
	viewXmin float32 = -2.0
	viewXmax float32 = 1.0
	viewYmin float32 = -1.0
	viewYmax float32 = 1.0
)

// Viewport returns the fixed region every grid is rendered over.
// The result is a copy; changing it does not move the framing.
func Viewport() Region {
	return Region{
		Xmin: viewXmin,
		Xmax: viewXmax,
		Ymin: viewYmin,
		Ymax: viewYmax,
	}
}

// Width of the region along the real axis
func (r Region) Width() float32 {
	return r.Xmax - r.Xmin
}

// Height of the region along the imaginary axis
func (r Region) Height() float32 {
	return r.Ymax - r.Ymin
}

// Symbols written into a rendered grid
const (
	Escaped byte = '-' // orbit left the escape radius before the cap
	Inside  byte = '*' // orbit stayed bounded for the full cap
	RowEnd  byte = '\n'
)
