package mandel

// Bounded is returned by Escape for points whose orbit never left the escape
// radius within the iteration cap.
const Bounded int32 = -1

// escapeRadius2 is the squared escape radius.
const escapeRadius2 = 4.0

// Escape runs the quadratic escape-time recurrence for c = cx + cy·i.
//
// The orbit is seeded at c itself (z₁ = c, not z₀ = 0) and the counter starts
// at 1, so the returned count includes the seeding step. The result is the
// counter value after the step that carried |z|² to 4 or beyond, or Bounded if
// the counter reached maxIter first. A maxIter of 1 or less never iterates and
// always yields Bounded.
//
// Output must stay bit-compatible with existing consumers of the grid, so the
// arithmetic is float32 and every product is rounded before it is added.
func Escape(cx, cy float32, maxIter int32) int32 {
	zx, zy := cx, cy
	i := int32(1)

	x2 := float32(zx * zx)
	y2 := float32(zy * zy)
	for i < maxIter && x2+y2 < escapeRadius2 {
		// explicit conversions stop the compiler from fusing multiply-add
		zy = float32(zx*zy*2) + cy
		zx = float32(x2-y2) + cx
		i++
		x2 = float32(zx * zx)
		y2 = float32(zy * zy)
	}

	if i >= maxIter {
		return Bounded
	}
	return i
}
