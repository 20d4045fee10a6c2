package frame

import "math"

// NumStations is the default diagram resolution, endpoints included.
const NumStations = 21

// diagramFloor keeps per-quantity maxima away from zero so the frontend
// never divides by a zero scale.
const diagramFloor = 1e-10

// interpolateStations evaluates N(x), V(x), M(x) at num evenly spaced
// stations from 0 to l, given the corrected start forces and the member's
// local uniform load over [startT*l, endT*l]. The three branches are the
// closed-form equilibrium solution before, inside, and after the loaded
// region; they meet continuously at both boundaries.
func interpolateStations(n1, v1, m1, l, qx, qy, startT, endT float64, num int) (stations, normal, shear, moment []float64) {
	if num < 2 {
		num = NumStations
	}
	a := startT * l
	b := endT * l

	stations = make([]float64, num)
	normal = make([]float64, num)
	shear = make([]float64, num)
	moment = make([]float64, num)

	for i := 0; i < num; i++ {
		x := float64(i) / float64(num-1) * l
		stations[i] = x

		switch {
		case x < a:
			normal[i] = n1
			shear[i] = v1
			moment[i] = m1 + v1*x
		case x <= b:
			xi := x - a
			normal[i] = n1 + qx*xi
			shear[i] = v1 + qy*xi
			moment[i] = m1 + v1*x + qy*xi*xi/2
		default:
			span := b - a
			normal[i] = n1 + qx*span
			shear[i] = v1 + qy*span
			moment[i] = m1 + v1*x + qy*span*(x-a-span/2)
		}
	}
	return stations, normal, shear, moment
}

// maxAbs returns the largest absolute value in vs, floored at the
// diagram epsilon.
func maxAbs(vs []float64) float64 {
	m := diagramFloor
	for _, v := range vs {
		if av := math.Abs(v); av > m {
			m = av
		}
	}
	return m
}
