package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHermiteIntegralsFullSpan(t *testing.T) {
	l := 4.0
	n1, n2, n3, n4 := hermiteIntegrals(0, l, l)

	assert.InDelta(t, l/2, n1, 1e-12)
	assert.InDelta(t, l*l/12, n2, 1e-12)
	assert.InDelta(t, l/2, n3, 1e-12)
	assert.InDelta(t, -l*l/12, n4, 1e-12)
}

func TestHermiteIntegralsPreserveTotal(t *testing.T) {
	// the two transverse shape functions partition unity, so the end
	// forces of any sub-span must sum to the load resultant
	cases := []struct{ la, lb, l float64 }{
		{0, 6, 6},
		{1.5, 4.5, 6},
		{0, 2.7, 9},
		{3.1, 8.9, 10},
	}
	for _, c := range cases {
		n1, _, n3, _ := hermiteIntegrals(c.la, c.lb, c.l)
		assert.InDelta(t, c.lb-c.la, n1+n3, 1e-9)
	}
}

func TestPartialEquivalentForcesFullSpan(t *testing.T) {
	l, qy := 4.0, -5000.0
	f := partialEquivalentForces(l, 0, qy, 0, 1)

	require.InDelta(t, 0, f[0], 1e-9)
	require.InDelta(t, qy*l/2, f[1], 1e-6)
	require.InDelta(t, qy*l*l/12, f[2], 1e-6)
	require.InDelta(t, 0, f[3], 1e-9)
	require.InDelta(t, qy*l/2, f[4], 1e-6)
	require.InDelta(t, -qy*l*l/12, f[5], 1e-6)
}

func TestPartialEquivalentForcesSymmetric(t *testing.T) {
	l, qy := 6.0, -1000.0
	f := partialEquivalentForces(l, 0, qy, 0.25, 0.75)

	assert.InDelta(t, f[1], f[4], 1e-9, "symmetric load, equal shears")
	assert.InDelta(t, qy*0.5*l, f[1]+f[4], 1e-9, "resultant preserved")
	assert.InDelta(t, -f[5], f[2], 1e-9, "antisymmetric end moments")
}

func TestPartialEquivalentForcesAxial(t *testing.T) {
	l, qx := 10.0, 2000.0
	f := partialEquivalentForces(l, qx, 0, 0, 0.5)

	// linear shape functions over the first half: 3/4 to the near end
	assert.InDelta(t, 7500, f[0], 1e-9)
	assert.InDelta(t, 2500, f[3], 1e-9)
	assert.InDelta(t, 0, f[1], 1e-12)
	assert.InDelta(t, 0, f[2], 1e-12)
}
