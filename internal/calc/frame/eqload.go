package frame

// hermiteIntegrals evaluates the antiderivatives of the four cubic
// Hermite shape functions at the absolute positions la and lb along a
// member of length l, and returns their differences. These are the exact
// integrals needed to turn a uniform sub-span load into work-equivalent
// end forces.
func hermiteIntegrals(la, lb, l float64) (n1, n2, n3, n4 float64) {
	l2 := l * l
	l3 := l2 * l

	in1 := func(x float64) float64 {
		return x - x*x*x/l2 + x*x*x*x/(2*l3)
	}
	in2 := func(x float64) float64 {
		return x*x/2 - 2*x*x*x/(3*l) + x*x*x*x/(4*l2)
	}
	in3 := func(x float64) float64 {
		return x*x*x/l2 - x*x*x*x/(2*l3)
	}
	in4 := func(x float64) float64 {
		return -(x * x * x) / (3 * l) + x*x*x*x/(4*l2)
	}

	return in1(lb) - in1(la), in2(lb) - in2(la), in3(lb) - in3(la), in4(lb) - in4(la)
}

// partialEquivalentForces returns the 6-component local end-force vector
// [Fx1, Fy1, M1, Fx2, Fy2, M2] statically equivalent to a uniform load
// (qx, qy, local frame) acting from startT*L to endT*L. Transverse and
// rotational components come from the Hermite integrals, axial from the
// closed-form linear shape-function integrals over the same sub-span.
func partialEquivalentForces(l, qx, qy, startT, endT float64) [6]float64 {
	a := startT
	b := endT
	span := (b - a) * l
	la := a * l
	lb := b * l

	n1, n2, n3, n4 := hermiteIntegrals(la, lb, l)

	// axial: linear shape functions
	l1 := span * (1 - (a+b)/2)
	l2 := span * (a + b) / 2

	return [6]float64{
		qx * l1, // Fx1
		qy * n1, // Fy1
		qy * n2, // M1
		qx * l2, // Fx2
		qy * n3, // Fy2
		qy * n4, // M2
	}
}
