package geom

import "math"

// MinW is the smallest clip-space w accepted before the perspective divide.
// Anything below it sits behind or on the camera plane.
const MinW = 1e-3

// Vec3 is a world-space position as stored by the game (3 x float32).
type Vec3 struct {
	X, Y, Z float32
}

// Matrix4x4 is a view-projection matrix, 16 floats in row-major order.
type Matrix4x4 [16]float32

// Identity returns the identity matrix.
func Identity() Matrix4x4 {
	return Matrix4x4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Row returns row i (0..3) of the matrix.
func (m Matrix4x4) Row(i int) [4]float32 {
	return [4]float32{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]}
}

// ScreenPoint is a pixel coordinate with the origin at the top-left corner.
type ScreenPoint struct {
	X, Y float64
}

// Add retorna p deslocado por (dx, dy)
func (p ScreenPoint) Add(dx, dy float64) ScreenPoint {
	return ScreenPoint{X: p.X + dx, Y: p.Y + dy}
}

// Transform multiplies m by the homogeneous point (x, y, z, 1).
func Transform(m Matrix4x4, pos Vec3) (x, y, z, w float64) {
	px, py, pz := float64(pos.X), float64(pos.Y), float64(pos.Z)
	dot := func(r int) float64 {
		return float64(m[r*4])*px + float64(m[r*4+1])*py + float64(m[r*4+2])*pz + float64(m[r*4+3])
	}
	return dot(0), dot(1), dot(2), dot(3)
}

// Project converts a world position into pixel space of a width x height
// viewport. It reports false when the point cannot be shown: w below MinW
// (including NaN) or a non-finite result.
func Project(pos Vec3, m Matrix4x4, width, height float64) (ScreenPoint, bool) {
	x, y, _, w := Transform(m, pos)
	if !(w >= MinW) {
		return ScreenPoint{}, false
	}

	ndcX := x / w
	ndcY := y / w

	p := ScreenPoint{
		X: (ndcX + 1) * 0.5 * width,
		Y: (1 - ndcY) * 0.5 * height,
	}
	if !finite(p.X) || !finite(p.Y) {
		return ScreenPoint{}, false
	}
	return p, true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
