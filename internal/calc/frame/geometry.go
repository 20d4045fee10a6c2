package frame

import "math"

// beamGeometry returns the length and orientation angle of the member
// running from n1 to n2. The angle is atan2 of the endpoint delta, so the
// local x axis always points from start to end.
func beamGeometry(n1, n2 *Node) (length, angle float64) {
	dx := n2.X - n1.X
	dy := n2.Y - n1.Y
	return math.Hypot(dx, dy), math.Atan2(dy, dx)
}

// transformLocalToGlobal rotates a 6-component local end-force vector
// [Fx1, Fy1, M1, Fx2, Fy2, M2] into global axes (T' f).
func transformLocalToGlobal(f [6]float64, angle float64) [6]float64 {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return [6]float64{
		c*f[0] - s*f[1],
		s*f[0] + c*f[1],
		f[2],
		c*f[3] - s*f[4],
		s*f[3] + c*f[4],
		f[5],
	}
}
