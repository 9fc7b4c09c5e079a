package mandel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrGridTooLarge is returned when a grid cannot be addressed by a Go slice.
var ErrGridTooLarge = errors.New("grid too large")

// maxGridLen is the largest grid GridLen accepts. One byte is kept free so a
// NUL terminator can always follow the grid.
var maxGridLen int64 = math.MaxInt - 1

// GridSize returns the number of bytes a width × height grid occupies:
// one symbol per pixel plus a newline per row.
// Non-positive dimensions count as zero. The product of two int32 values
// always fits an int64.
func GridSize(width, height int32) int64 {
	if height <= 0 {
		return 0
	}
	return int64(height) * (int64(max(width, 0)) + 1)
}

// GridLen is GridSize as a slice length. It fails with ErrGridTooLarge
// where int cannot hold the size plus a terminator, as on 32-bit targets.
func GridLen(width, height int32) (int, error) {
	n := GridSize(width, height)
	if n > maxGridLen {
		return 0, fmt.Errorf("%dx%d needs %d bytes: %w", width, height, n, ErrGridTooLarge)
	}
	return int(n), nil
}

// Render evaluates every pixel of a width × height grid over the viewport and
// returns the symbols row-major, each row terminated by a newline.
// It panics with ErrGridTooLarge if the grid does not fit in a slice.
func Render(width, height, maxIter int32) []byte {
	n, err := GridLen(width, height)
	if err != nil {
		panic(err)
	}
	return AppendGrid(make([]byte, 0, n), width, height, maxIter)
}

// AppendGrid appends the rendered grid to dst and returns the extended slice.
// If cap(dst) has room for GridSize more bytes, dst's backing array is written
// in place.
func AppendGrid(dst []byte, width, height, maxIter int32) []byte {
	// division by zero yields +Inf, but then the axis has no pixels to map
	stepX := (viewXmax - viewXmin) / float32(width)
	stepY := (viewYmax - viewYmin) / float32(height)

	for row := int32(0); row < height; row++ {
		y := viewYmin + float32(float32(row)*stepY)
		for col := int32(0); col < width; col++ {
			x := viewXmin + float32(float32(col)*stepX)
			if Escape(x, y, maxIter) > 0 {
				dst = append(dst, Escaped)
			} else {
				dst = append(dst, Inside)
			}
		}
		dst = append(dst, RowEnd)
	}
	return dst
}

// GridImage converts a rendered grid into a two level grayscale image:
// Inside pixels are black, Escaped pixels white.
func GridImage(grid []byte, width, height int) (*image.Gray, error) {
	width, height = max(width, 0), max(height, 0)
	if len(grid) < height*(width+1) {
		return nil, fmt.Errorf("grid of %d bytes is too short for %dx%d", len(grid), width, height)
	}

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := range height {
		line := grid[y*(width+1) : y*(width+1)+width]
		for x, sym := range line {
			if sym == Escaped {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img, nil
}
