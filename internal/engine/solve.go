package engine

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// zeroLengthElement couples two coincident nodes with independent
// per-axis stiffnesses in global coordinates (x, y, rz).
type zeroLengthElement struct {
	tag    int
	n1, n2 *node
	k      [3]float64
}

// number assigns one global equation per free DOF. Fixed DOFs get -1 and
// tied slave DOFs inherit the master's equation, so an equalDOF pair is a
// genuinely shared unknown rather than a penalty.
func (m *model) number() (int, error) {
	type ref struct{ node, dof int }
	tied := make(map[ref]ref)
	for _, t := range m.ties {
		for _, d := range t.dofs {
			tied[ref{t.slave, d - 1}] = ref{t.master, d - 1}
		}
	}

	neq := 0
	for _, tag := range m.nodeOrder {
		n := m.nodes[tag]
		for d := 0; d < 3; d++ {
			if n.fixed[d] {
				n.eq[d] = -1
				continue
			}
			if _, isSlave := tied[ref{tag, d}]; isSlave {
				n.eq[d] = -2 // resolved below
				continue
			}
			n.eq[d] = neq
			neq++
		}
	}
	for slave, master := range tied {
		// follow chains in case a slave's master is itself tied
		seen := 0
		for {
			next, ok := tied[master]
			if !ok {
				break
			}
			master = next
			seen++
			if seen > len(tied) {
				return 0, fmt.Errorf("engine: cyclic equalDOF constraint at node %d", slave.node)
			}
		}
		m.nodes[slave.node].eq[slave.dof] = m.nodes[master.node].eq[master.dof]
	}
	return neq, nil
}

func (n *node) dofEqs() [3]int {
	return n.eq
}

// scatter adds a 6x6 element matrix into the global symmetric matrix.
func scatter(k *mat.SymDense, eqs [6]int, ke [6][6]float64) {
	for i := 0; i < 6; i++ {
		if eqs[i] < 0 {
			continue
		}
		for j := i; j < 6; j++ {
			if eqs[j] < 0 {
				continue
			}
			r, c := eqs[i], eqs[j]
			if r > c {
				r, c = c, r
			}
			k.SetSym(r, c, k.At(r, c)+ke[i][j])
		}
	}
}

func (b *beamElement) eqs() [6]int {
	e1 := b.n1.dofEqs()
	e2 := b.n2.dofEqs()
	return [6]int{e1[0], e1[1], e1[2], e2[0], e2[1], e2[2]}
}

// gather pulls the element's global end displacements out of the solution.
func (b *beamElement) gather(u *mat.VecDense) [6]float64 {
	var ug [6]float64
	for i, eq := range b.eqs() {
		if eq >= 0 {
			ug[i] = u.AtVec(eq)
		}
	}
	return ug
}

// assemble builds the tangent stiffness and the reference load vector for
// the current displacement state.
func (m *model) assemble(neq int, u *mat.VecDense) (*mat.SymDense, *mat.VecDense) {
	k := mat.NewSymDense(neq, nil)
	f := mat.NewVecDense(neq, nil)

	for _, b := range m.beams {
		ul := b.toLocal(b.gather(u))
		kg := b.globalStiffness(b.tangentStiffness(ul))
		scatter(k, b.eqs(), kg)

		feq := b.toGlobal(b.equivalentLoad())
		for i, eq := range b.eqs() {
			if eq >= 0 {
				f.SetVec(eq, f.AtVec(eq)+feq[i])
			}
		}
	}

	for _, z := range m.zeros {
		e1 := z.n1.dofEqs()
		e2 := z.n2.dofEqs()
		for d := 0; d < 3; d++ {
			kd := z.k[d]
			if kd == 0 {
				continue
			}
			var ke [6][6]float64
			ke[d][d] = kd
			ke[d][d+3] = -kd
			ke[d+3][d] = -kd
			ke[d+3][d+3] = kd
			scatter(k, [6]int{e1[0], e1[1], e1[2], e2[0], e2[1], e2[2]}, ke)
		}
	}

	for _, l := range m.loads {
		n := m.nodes[l.node]
		for d := 0; d < 3; d++ {
			if eq := n.eq[d]; eq >= 0 {
				f.SetVec(eq, f.AtVec(eq)+l.f[d])
			}
		}
	}
	return k, f
}

// internalForces evaluates the assembled resisting force vector k(u)*u
// for the displacement state u. Member loads live on the external side
// of the residual, so they do not appear here.
func (m *model) internalForces(neq int, u *mat.VecDense) *mat.VecDense {
	fi := mat.NewVecDense(neq, nil)
	for _, b := range m.beams {
		ug := b.gather(u)
		ul := b.toLocal(ug)
		k := b.tangentStiffness(ul)
		var fl [6]float64
		for i := 0; i < 6; i++ {
			for j := 0; j < 6; j++ {
				fl[i] += k[i][j] * ul[j]
			}
		}
		fg := b.toGlobal(fl)
		for i, eq := range b.eqs() {
			if eq >= 0 {
				fi.SetVec(eq, fi.AtVec(eq)+fg[i])
			}
		}
	}
	for _, z := range m.zeros {
		e1 := z.n1.dofEqs()
		e2 := z.n2.dofEqs()
		for d := 0; d < 3; d++ {
			if z.k[d] == 0 {
				continue
			}
			var u1, u2 float64
			if e1[d] >= 0 {
				u1 = u.AtVec(e1[d])
			}
			if e2[d] >= 0 {
				u2 = u.AtVec(e2[d])
			}
			fz := z.k[d] * (u1 - u2)
			if e1[d] >= 0 {
				fi.SetVec(e1[d], fi.AtVec(e1[d])+fz)
			}
			if e2[d] >= 0 {
				fi.SetVec(e2[d], fi.AtVec(e2[d])-fz)
			}
		}
	}
	return fi
}

// Analyze runs the configured static analysis for the given number of
// steps. It returns 0 on convergence, negative on failure, matching the
// status convention of the native solver.
func (s *Session) Analyze(steps int) int {
	m, err := s.model()
	if err != nil {
		return -10
	}
	neq, err := m.number()
	if err != nil {
		return -10
	}
	if neq == 0 {
		return -10
	}

	u := mat.NewVecDense(neq, nil)

	switch m.algorithm {
	case AlgorithmLinear:
		k, f := m.assemble(neq, u)
		f.ScaleVec(m.loadStep*float64(steps), f)
		var ch mat.Cholesky
		if ok := ch.Factorize(k); !ok {
			return -3
		}
		if err := ch.SolveVecTo(u, f); err != nil {
			return -3
		}
	case AlgorithmNewton:
		lambda := 0.0
		for step := 0; step < steps; step++ {
			lambda += m.loadStep
			converged := false
			for it := 0; it < m.maxIter; it++ {
				k, fext := m.assemble(neq, u)
				fint := m.internalForces(neq, u)
				r := mat.NewVecDense(neq, nil)
				r.AddScaledVec(r, lambda, fext)
				r.SubVec(r, fint)

				var ch mat.Cholesky
				if ok := ch.Factorize(k); !ok {
					return -3
				}
				du := mat.NewVecDense(neq, nil)
				if err := ch.SolveVecTo(du, r); err != nil {
					return -3
				}
				u.AddVec(u, du)
				if mat.Norm(du, 2) < m.tolerance {
					converged = true
					break
				}
			}
			if !converged {
				return -1
			}
		}
	}

	m.storeSolution(u)
	return 0
}

func (m *model) storeSolution(u *mat.VecDense) {
	m.disp = make(map[int][3]float64, len(m.nodes))
	for tag, n := range m.nodes {
		var d [3]float64
		for i := 0; i < 3; i++ {
			if n.eq[i] >= 0 {
				d[i] = u.AtVec(n.eq[i])
			}
		}
		m.disp[tag] = d
	}
	for _, b := range m.beams {
		b.recoverForces(b.gather(u), 1.0)
	}
	m.solved = true
}

// ComputeReactions sums element resisting forces into each node and
// subtracts the applied nodal loads. Free DOFs come out at solver
// precision around zero; constrained DOFs carry the support reaction.
func (s *Session) ComputeReactions() error {
	m, err := s.model()
	if err != nil {
		return err
	}
	if !m.solved {
		return fmt.Errorf("engine: reactions requested before analysis")
	}
	reac := make(map[int][3]float64, len(m.nodes))
	add := func(tag, dof int, v float64) {
		r := reac[tag]
		r[dof] += v
		reac[tag] = r
	}

	for _, b := range m.beams {
		fg := b.toGlobal(b.endForces)
		for d := 0; d < 3; d++ {
			add(b.n1.tag, d, fg[d])
			add(b.n2.tag, d, fg[d+3])
		}
	}
	for _, z := range m.zeros {
		d1 := m.disp[z.n1.tag]
		d2 := m.disp[z.n2.tag]
		for d := 0; d < 3; d++ {
			fz := z.k[d] * (d1[d] - d2[d])
			add(z.n1.tag, d, fz)
			add(z.n2.tag, d, -fz)
		}
	}
	for _, l := range m.loads {
		for d := 0; d < 3; d++ {
			add(l.node, d, -l.f[d])
		}
	}
	// nodes with nothing attached still answer queries
	for tag := range m.nodes {
		if _, ok := reac[tag]; !ok {
			reac[tag] = [3]float64{}
		}
	}
	m.reactions = reac
	return nil
}
