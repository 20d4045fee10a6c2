package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeamGeometry(t *testing.T) {
	n1 := &Node{ID: 1, X: 0, Y: 0}
	n2 := &Node{ID: 2, X: 3, Y: 4}

	length, angle := beamGeometry(n1, n2)
	assert.InDelta(t, 5, length, 1e-12)
	assert.InDelta(t, math.Atan2(4, 3), angle, 1e-12)

	// reversed direction flips the local x axis
	length, angle = beamGeometry(n2, n1)
	assert.InDelta(t, 5, length, 1e-12)
	assert.InDelta(t, math.Atan2(-4, -3), angle, 1e-12)
}

func TestTransformLocalToGlobal(t *testing.T) {
	// vertical member: local axial becomes global y, moments untouched
	f := transformLocalToGlobal([6]float64{1000, 0, 300, -1000, 0, -300}, math.Pi/2)

	assert.InDelta(t, 0, f[0], 1e-9)
	assert.InDelta(t, 1000, f[1], 1e-9)
	assert.InDelta(t, 300, f[2], 1e-12)
	assert.InDelta(t, 0, f[3], 1e-9)
	assert.InDelta(t, -1000, f[4], 1e-9)
	assert.InDelta(t, -300, f[5], 1e-12)
}

func TestLocalIntensitiesGlobalRotation(t *testing.T) {
	// gravity load on a vertical member becomes pure local axial
	dl := &DistributedLoad{Qx: 0, Qy: -2000, CoordSystem: "global"}
	qx, qy := dl.localIntensities(math.Cos(math.Pi/2), math.Sin(math.Pi/2))
	assert.InDelta(t, -2000, qx, 1e-9)
	assert.InDelta(t, 0, qy, 1e-9)

	// local loads pass through untouched regardless of orientation
	dl = &DistributedLoad{Qx: 100, Qy: -200}
	qx, qy = dl.localIntensities(0.6, 0.8)
	assert.Equal(t, 100.0, qx)
	assert.Equal(t, -200.0, qy)

	var nilLoad *DistributedLoad
	qx, qy = nilLoad.localIntensities(1, 0)
	assert.Zero(t, qx)
	assert.Zero(t, qy)
}
