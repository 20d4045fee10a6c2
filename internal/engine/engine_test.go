package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testA = 28.5e-4
	testE = 210e9
	testI = 1940e-8
)

func buildCantilever(t *testing.T, ses *Session, l, tipLoad float64) {
	t.Helper()
	ses.Wipe()
	require.NoError(t, ses.Node(1, 0, 0))
	require.NoError(t, ses.Node(2, l, 0))
	require.NoError(t, ses.Fix(1, true, true, true))
	require.NoError(t, ses.GeomTransf(1, TransfLinear))
	require.NoError(t, ses.ElasticBeamColumn(1, 1, 2, testA, testE, testI, 1))
	require.NoError(t, ses.Load(2, 0, tipLoad, 0))
}

func TestAnalyzeCantileverTipLoad(t *testing.T) {
	ses := NewSession()
	buildCantilever(t, ses, 3, -5000)
	require.NoError(t, ses.SetAlgorithm(AlgorithmLinear))
	require.NoError(t, ses.SetIntegrator(1.0))
	require.Equal(t, 0, ses.Analyze(1))

	d, err := ses.NodeDisp(2)
	require.NoError(t, err)
	ei := testE * testI
	assert.InEpsilon(t, -5000*27/(3*ei), d[1], 1e-9, "F*L^3/3EI")
	assert.InEpsilon(t, -5000*9/(2*ei), d[2], 1e-9, "F*L^2/2EI")

	require.NoError(t, ses.ComputeReactions())
	r, err := ses.NodeReaction(1)
	require.NoError(t, err)
	assert.InDelta(t, 0, r[0], 1e-6)
	assert.InDelta(t, 5000, r[1], 1e-6)
	assert.InDelta(t, 15000, r[2], 1e-5)

	f, err := ses.EleForce(1)
	require.NoError(t, err)
	assert.InDelta(t, 5000, f[1], 1e-6, "start shear")
	assert.InDelta(t, 15000, f[2], 1e-5, "start moment")
	assert.InDelta(t, -5000, f[4], 1e-6, "end shear balances")
	assert.InDelta(t, 0, f[5], 1e-5, "free end moment")
}

func TestAnalyzeVerticalMemberAxialLoad(t *testing.T) {
	// column under compression: rotation-invariance of the transformation
	ses := NewSession()
	ses.Wipe()
	require.NoError(t, ses.Node(1, 0, 0))
	require.NoError(t, ses.Node(2, 0, 3))
	require.NoError(t, ses.Fix(1, true, true, true))
	require.NoError(t, ses.GeomTransf(1, TransfLinear))
	require.NoError(t, ses.ElasticBeamColumn(1, 1, 2, testA, testE, testI, 1))
	require.NoError(t, ses.Load(2, 0, -100000, 0))
	require.Equal(t, 0, ses.Analyze(1))

	d, err := ses.NodeDisp(2)
	require.NoError(t, err)
	assert.InEpsilon(t, -100000*3/(testE*testA), d[1], 1e-9, "N*L/EA shortening")
	assert.InDelta(t, 0, d[0], 1e-12)

	f, err := ses.EleForce(1)
	require.NoError(t, err)
	assert.InDelta(t, 100000, f[0], 1e-4, "axial at the base, local frame")
}

func TestBeamUniformMatchesFixedEndForces(t *testing.T) {
	// both ends clamped: the solution is pure fixed-end state
	ses := NewSession()
	ses.Wipe()
	require.NoError(t, ses.Node(1, 0, 0))
	require.NoError(t, ses.Node(2, 4, 0))
	require.NoError(t, ses.Fix(1, true, true, true))
	require.NoError(t, ses.Fix(2, false, true, true))
	require.NoError(t, ses.GeomTransf(1, TransfLinear))
	require.NoError(t, ses.ElasticBeamColumn(1, 1, 2, testA, testE, testI, 1))
	require.NoError(t, ses.BeamUniform(1, -5000, 0))
	require.Equal(t, 0, ses.Analyze(1))

	f, err := ses.EleForce(1)
	require.NoError(t, err)
	assert.InDelta(t, 10000, f[1], 1e-5, "w*L/2")
	assert.InDelta(t, 5000*16/12.0, f[2], 1e-5, "w*L^2/12")
	assert.InDelta(t, 10000, f[4], 1e-5)
	assert.InDelta(t, -5000*16/12.0, f[5], 1e-5)

	require.NoError(t, ses.ComputeReactions())
	r1, err := ses.NodeReaction(1)
	require.NoError(t, err)
	r2, err := ses.NodeReaction(2)
	require.NoError(t, err)
	assert.InDelta(t, 20000, r1[1]+r2[1], 1e-5, "reactions carry the whole load")
}

func TestEqualDOFSharesTranslations(t *testing.T) {
	// two coincident nodes tied in translation, rotation independent:
	// a hinge between two cantilevered halves
	ses := NewSession()
	ses.Wipe()
	require.NoError(t, ses.Node(1, 0, 0))
	require.NoError(t, ses.Node(2, 3, 0))
	require.NoError(t, ses.Node(3, 3, 0))
	require.NoError(t, ses.Node(4, 6, 0))
	require.NoError(t, ses.Fix(1, true, true, true))
	require.NoError(t, ses.Fix(4, false, true, false))
	require.NoError(t, ses.EqualDOF(2, 3, 1, 2))
	require.NoError(t, ses.GeomTransf(1, TransfLinear))
	require.NoError(t, ses.ElasticBeamColumn(1, 1, 2, testA, testE, testI, 1))
	require.NoError(t, ses.ElasticBeamColumn(2, 3, 4, testA, testE, testI, 1))
	require.NoError(t, ses.Load(2, 0, -5000, 0))
	require.Equal(t, 0, ses.Analyze(1))

	d2, err := ses.NodeDisp(2)
	require.NoError(t, err)
	d3, err := ses.NodeDisp(3)
	require.NoError(t, err)
	assert.Equal(t, d2[0], d3[0], "tied ux")
	assert.Equal(t, d2[1], d3[1], "tied uy")

	f2, err := ses.EleForce(2)
	require.NoError(t, err)
	assert.InDelta(t, 0, f2[2], 1e-6, "hinge passes no moment")
}

func TestZeroLengthSpring(t *testing.T) {
	ses := NewSession()
	ses.Wipe()
	require.NoError(t, ses.Node(1, 0, 0))
	require.NoError(t, ses.Node(2, 0, 0))
	require.NoError(t, ses.Fix(1, true, true, true))
	require.NoError(t, ses.Fix(2, true, false, true))
	require.NoError(t, ses.UniaxialElastic(1, 1e6))
	require.NoError(t, ses.UniaxialElastic(2, 2e6))
	require.NoError(t, ses.UniaxialElastic(3, 3e6))
	require.NoError(t, ses.ZeroLength(1, 1, 2, [3]int{1, 2, 3}))
	require.NoError(t, ses.Load(2, 0, -4000, 0))
	require.Equal(t, 0, ses.Analyze(1))

	d, err := ses.NodeDisp(2)
	require.NoError(t, err)
	assert.InEpsilon(t, -4000/2e6, d[1], 1e-9, "F/k on the sprung axis")

	require.NoError(t, ses.ComputeReactions())
	r, err := ses.NodeReaction(1)
	require.NoError(t, err)
	assert.InDelta(t, 4000, r[1], 1e-6, "ground side carries the spring force")
}

func TestAnalyzeNewtonMatchesLinearWithoutAxialForce(t *testing.T) {
	ses := NewSession()
	buildCantilever(t, ses, 3, -5000)
	require.NoError(t, ses.SetAlgorithm(AlgorithmLinear))
	require.NoError(t, ses.SetIntegrator(1.0))
	require.Equal(t, 0, ses.Analyze(1))
	dLin, err := ses.NodeDisp(2)
	require.NoError(t, err)

	buildCantilever(t, ses, 3, -5000)
	require.NoError(t, ses.SetAlgorithm(AlgorithmNewton))
	require.NoError(t, ses.SetTest(1e-8, 50))
	require.NoError(t, ses.SetIntegrator(0.1))
	require.Equal(t, 0, ses.Analyze(10))
	dNl, err := ses.NodeDisp(2)
	require.NoError(t, err)

	assert.InDelta(t, dLin[1], dNl[1], 1e-12)
	assert.InDelta(t, dLin[2], dNl[2], 1e-12)
}

func TestAnalyzeFailureCodes(t *testing.T) {
	ses := NewSession()

	t.Run("no model", func(t *testing.T) {
		current = nil
		assert.Equal(t, -10, ses.Analyze(1))
	})

	t.Run("no free DOFs", func(t *testing.T) {
		ses.Wipe()
		require.NoError(t, ses.Node(1, 0, 0))
		require.NoError(t, ses.Fix(1, true, true, true))
		assert.Equal(t, -10, ses.Analyze(1))
	})

	t.Run("singular system", func(t *testing.T) {
		// a free node with nothing attached has no stiffness
		ses.Wipe()
		require.NoError(t, ses.Node(1, 0, 0))
		require.NoError(t, ses.Node(2, 1, 0))
		require.NoError(t, ses.Fix(1, true, true, true))
		assert.Equal(t, -3, ses.Analyze(1))
	})
}

func TestSessionValidation(t *testing.T) {
	ses := NewSession()
	ses.Wipe()
	require.NoError(t, ses.Node(1, 0, 0))

	assert.Error(t, ses.Node(1, 1, 1), "duplicate tag")
	assert.Error(t, ses.Fix(9, true, true, true))
	assert.Error(t, ses.EqualDOF(1, 9, 1))
	assert.Error(t, ses.EqualDOF(1, 1, 4), "dof out of range")
	assert.Error(t, ses.Load(9, 0, 0, 0))
	assert.Error(t, ses.BeamUniform(9, 0, 0))
	assert.Error(t, ses.ElasticBeamColumn(1, 1, 9, testA, testE, testI, 1))

	require.NoError(t, ses.Node(2, 0, 0))
	require.NoError(t, ses.GeomTransf(1, TransfLinear))
	assert.Error(t, ses.ElasticBeamColumn(1, 1, 2, testA, testE, testI, 1), "zero length member")

	_, err := ses.NodeDisp(1)
	assert.Error(t, err, "not analyzed yet")
	_, err = ses.NodeReaction(1)
	assert.Error(t, err, "reactions not computed")
}
