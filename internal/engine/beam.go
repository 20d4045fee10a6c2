package engine

import (
	"fmt"
	"math"
)

// beamElement is a 2D prismatic Euler-Bernoulli beam. Local DOF order is
// [u1, v1, r1, u2, v2, r2] with the local x axis running from n1 to n2.
type beamElement struct {
	tag    int
	n1, n2 *node
	a, e, i float64
	pdelta bool

	length float64
	cos    float64
	sin    float64

	// uniform member load in the local frame
	wx, wy float64

	// local end actions after recovery, [N1 V1 M1 N2 V2 M2]
	endForces [6]float64
}

func newBeamElement(tag int, n1, n2 *node, a, e, i float64, pdelta bool) (*beamElement, error) {
	dx := n2.x - n1.x
	dy := n2.y - n1.y
	l := math.Hypot(dx, dy)
	if l <= 0 {
		return nil, fmt.Errorf("engine: element %d has zero length", tag)
	}
	return &beamElement{
		tag: tag, n1: n1, n2: n2,
		a: a, e: e, i: i,
		pdelta: pdelta,
		length: l,
		cos:    dx / l,
		sin:    dy / l,
	}, nil
}

// localStiffness returns the 6x6 elastic stiffness in local coordinates.
func (b *beamElement) localStiffness() [6][6]float64 {
	l := b.length
	ea := b.e * b.a / l
	ei := b.e * b.i
	k12 := 12 * ei / (l * l * l)
	k6 := 6 * ei / (l * l)
	k4 := 4 * ei / l
	k2 := 2 * ei / l

	var k [6][6]float64
	k[0][0], k[0][3] = ea, -ea
	k[3][0], k[3][3] = -ea, ea

	k[1][1], k[1][2], k[1][4], k[1][5] = k12, k6, -k12, k6
	k[2][1], k[2][2], k[2][4], k[2][5] = k6, k4, -k6, k2
	k[4][1], k[4][2], k[4][4], k[4][5] = -k12, -k6, k12, -k6
	k[5][1], k[5][2], k[5][4], k[5][5] = k6, k2, -k6, k4
	return k
}

// geometricStiffness returns the 6x6 geometric stiffness for axial force
// n (tension positive). Used only under the P-Delta transformation.
func (b *beamElement) geometricStiffness(n float64) [6][6]float64 {
	var kg [6][6]float64
	if n == 0 {
		return kg
	}
	l := b.length
	c := n / (30 * l)
	g := [4][4]float64{
		{36, 3 * l, -36, 3 * l},
		{3 * l, 4 * l * l, -3 * l, -l * l},
		{-36, -3 * l, 36, -3 * l},
		{3 * l, -l * l, -3 * l, 4 * l * l},
	}
	idx := [4]int{1, 2, 4, 5}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			kg[idx[i]][idx[j]] = c * g[i][j]
		}
	}
	return kg
}

// tangentStiffness is the local stiffness used for assembly: elastic, plus
// the geometric part when P-Delta is active, evaluated at the element's
// current axial force.
func (b *beamElement) tangentStiffness(ul [6]float64) [6][6]float64 {
	k := b.localStiffness()
	if !b.pdelta {
		return k
	}
	n := b.e * b.a / b.length * (ul[3] - ul[0])
	kg := b.geometricStiffness(n)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			k[i][j] += kg[i][j]
		}
	}
	return k
}

// equivalentLoad returns the local equivalent nodal load vector of the
// uniform member load (work-equivalent, the negated fixed-end reactions).
func (b *beamElement) equivalentLoad() [6]float64 {
	l := b.length
	return [6]float64{
		b.wx * l / 2,
		b.wy * l / 2,
		b.wy * l * l / 12,
		b.wx * l / 2,
		b.wy * l / 2,
		-b.wy * l * l / 12,
	}
}

// toLocal rotates a global 6-vector into the element frame.
func (b *beamElement) toLocal(g [6]float64) [6]float64 {
	c, s := b.cos, b.sin
	return [6]float64{
		c*g[0] + s*g[1],
		-s*g[0] + c*g[1],
		g[2],
		c*g[3] + s*g[4],
		-s*g[3] + c*g[4],
		g[5],
	}
}

// toGlobal rotates a local 6-vector into the global frame.
func (b *beamElement) toGlobal(l [6]float64) [6]float64 {
	c, s := b.cos, b.sin
	return [6]float64{
		c*l[0] - s*l[1],
		s*l[0] + c*l[1],
		l[2],
		c*l[3] - s*l[4],
		s*l[3] + c*l[4],
		l[5],
	}
}

// globalStiffness transforms a local stiffness matrix to global axes,
// K = T' k T.
func (b *beamElement) globalStiffness(kl [6][6]float64) [6][6]float64 {
	var kt [6][6]float64 // k T
	for i := 0; i < 6; i++ {
		row := kl[i]
		t := b.rotateRow(row)
		kt[i] = t
	}
	var k [6][6]float64 // T' (k T)
	for j := 0; j < 6; j++ {
		var col [6]float64
		for i := 0; i < 6; i++ {
			col[i] = kt[i][j]
		}
		tc := b.rotateRow(col)
		for i := 0; i < 6; i++ {
			k[i][j] = tc[i]
		}
	}
	return k
}

// rotateRow applies T' from the left to a row vector, i.e. computes
// row * T for the block-diagonal rotation.
func (b *beamElement) rotateRow(row [6]float64) [6]float64 {
	c, s := b.cos, b.sin
	return [6]float64{
		c*row[0] - s*row[1],
		s*row[0] + c*row[1],
		row[2],
		c*row[3] - s*row[4],
		s*row[3] + c*row[4],
		row[5],
	}
}

// recoverForces computes and stores the local end actions for the solved
// global end displacements: f = k u_local - f_eq.
func (b *beamElement) recoverForces(ug [6]float64, lambda float64) {
	ul := b.toLocal(ug)
	k := b.tangentStiffness(ul)
	feq := b.equivalentLoad()
	var f [6]float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			f[i] += k[i][j] * ul[j]
		}
		f[i] -= lambda * feq[i]
	}
	b.endForces = f
}
