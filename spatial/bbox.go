package spatial

import "math"

// EMUBox is an absolute bounding box [left, top, width, height] in EMUs.
type EMUBox [4]int

// RelBox is a bounding box [x, y, w, h] expressed as fractions of the
// slide canvas, each rounded to six decimal digits.
type RelBox [4]float64

// relPrecision guards against degenerate unions in IoU.
const unionEpsilon = 1e-9

// round6 rounds to six decimal digits, the precision stored in mappings.
func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

// RelBBox converts an absolute EMU box to canvas-relative fractions. A zero
// canvas dimension yields 0.0 for the fractions along that axis instead of
// dividing by zero.
func RelBBox(left, top, width, height, canvasW, canvasH int) RelBox {
	r := func(v, denom int) float64 {
		if denom == 0 {
			return 0.0
		}
		return round6(float64(v) / float64(denom))
	}
	return RelBox{r(left, canvasW), r(top, canvasH), r(width, canvasW), r(height, canvasH)}
}

// Area returns the fractional area of the box.
func (b RelBox) Area() float64 {
	return b[2] * b[3]
}

// IoU computes intersection-over-union of two relative boxes treated as
// axis-aligned rectangles. The union is floored to a small epsilon so two
// degenerate boxes never divide by zero.
func IoU(a, b RelBox) float64 {
	ax1, ay1, ax2, ay2 := a[0], a[1], a[0]+a[2], a[1]+a[3]
	bx1, by1, bx2, by2 := b[0], b[1], b[0]+b[2], b[1]+b[3]

	ix1, iy1 := math.Max(ax1, bx1), math.Max(ay1, by1)
	ix2, iy2 := math.Min(ax2, bx2), math.Min(ay2, by2)

	iw := math.Max(0, ix2-ix1)
	ih := math.Max(0, iy2-iy1)
	inter := iw * ih

	union := a.Area() + b.Area() - inter
	if union <= 0 {
		union = unionEpsilon
	}
	return inter / union
}
