// Package engine is the finite-element solving core behind the frame
// calculator. It mimics the procedural solver bindings it replaces: the
// current model is process-wide state, and a Session is the explicit
// handle callers must go through. Access is not synchronised here; the
// caller owns the exclusive lock around a build/solve/extract sequence.
package engine

import (
	"fmt"
)

// Algorithm selects how Analyze advances the solution.
type Algorithm int

const (
	AlgorithmLinear Algorithm = iota
	AlgorithmNewton
)

// TransfKind selects the element coordinate transformation.
type TransfKind int

const (
	TransfLinear TransfKind = iota
	TransfPDelta
)

type node struct {
	tag   int
	x, y  float64
	fixed [3]bool
	eq    [3]int
}

type dofTie struct {
	master, slave int
	dofs          []int // 1-based, like the fix/equalDOF convention
}

type nodalLoad struct {
	node int
	f    [3]float64
}

type model struct {
	nodes     map[int]*node
	nodeOrder []int
	ties      []dofTie
	materials map[int]float64 // uniaxial elastic stiffness by tag
	transfs   map[int]TransfKind
	beams     []*beamElement
	beamByTag map[int]*beamElement
	zeros     []*zeroLengthElement
	loads     []nodalLoad

	algorithm Algorithm
	tolerance float64
	maxIter   int
	loadStep  float64

	solved    bool
	disp      map[int][3]float64
	reactions map[int][3]float64
}

// The engine keeps exactly one model alive, like the solver binding it
// stands in for. Session methods all operate on this.
var current *model

func newModel() *model {
	return &model{
		nodes:     make(map[int]*node),
		materials: make(map[int]float64),
		transfs:   make(map[int]TransfKind),
		beamByTag: make(map[int]*beamElement),
		tolerance: 1e-8,
		maxIter:   25,
		loadStep:  1.0,
	}
}

// Session is the explicit handle over the engine's implicit current model.
type Session struct{}

func NewSession() *Session {
	return &Session{}
}

// Wipe discards the current model and starts a fresh 2D frame model
// (three DOFs per node: ux, uy, rz).
func (s *Session) Wipe() {
	current = newModel()
}

func (s *Session) model() (*model, error) {
	if current == nil {
		return nil, fmt.Errorf("engine: no current model, call Wipe first")
	}
	return current, nil
}

// Node registers a node at the given coordinates.
func (s *Session) Node(tag int, x, y float64) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	if _, ok := m.nodes[tag]; ok {
		return fmt.Errorf("engine: duplicate node tag %d", tag)
	}
	m.nodes[tag] = &node{tag: tag, x: x, y: y}
	m.nodeOrder = append(m.nodeOrder, tag)
	return nil
}

// Fix constrains the node's DOFs (ux, uy, rz).
func (s *Session) Fix(tag int, fx, fy, fr bool) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	n, ok := m.nodes[tag]
	if !ok {
		return fmt.Errorf("engine: fix on unknown node %d", tag)
	}
	n.fixed = [3]bool{fx, fy, fr}
	return nil
}

// EqualDOF ties the listed DOFs (1-based: 1=ux, 2=uy, 3=rz) of the slave
// node to the master node. Tied DOFs share one global equation.
func (s *Session) EqualDOF(master, slave int, dofs ...int) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	if _, ok := m.nodes[master]; !ok {
		return fmt.Errorf("engine: equalDOF master node %d not found", master)
	}
	if _, ok := m.nodes[slave]; !ok {
		return fmt.Errorf("engine: equalDOF slave node %d not found", slave)
	}
	for _, d := range dofs {
		if d < 1 || d > 3 {
			return fmt.Errorf("engine: equalDOF dof %d out of range", d)
		}
	}
	m.ties = append(m.ties, dofTie{master: master, slave: slave, dofs: dofs})
	return nil
}

// UniaxialElastic registers an elastic material with stiffness k, for use
// in zero-length elements.
func (s *Session) UniaxialElastic(tag int, k float64) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	m.materials[tag] = k
	return nil
}

// ZeroLength creates a connector between two coincident nodes whose
// per-axis stiffness comes from the three materials (global x, y, rz).
func (s *Session) ZeroLength(tag, n1, n2 int, matTags [3]int) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	nd1, ok := m.nodes[n1]
	if !ok {
		return fmt.Errorf("engine: zeroLength node %d not found", n1)
	}
	nd2, ok := m.nodes[n2]
	if !ok {
		return fmt.Errorf("engine: zeroLength node %d not found", n2)
	}
	var k [3]float64
	for i, mt := range matTags {
		kv, ok := m.materials[mt]
		if !ok {
			return fmt.Errorf("engine: zeroLength material %d not found", mt)
		}
		k[i] = kv
	}
	m.zeros = append(m.zeros, &zeroLengthElement{tag: tag, n1: nd1, n2: nd2, k: k})
	return nil
}

// GeomTransf declares a coordinate transformation for beam elements.
func (s *Session) GeomTransf(tag int, kind TransfKind) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	m.transfs[tag] = kind
	return nil
}

// ElasticBeamColumn creates a 2D Euler-Bernoulli beam element.
func (s *Session) ElasticBeamColumn(tag, n1, n2 int, a, e, i float64, transfTag int) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	nd1, ok := m.nodes[n1]
	if !ok {
		return fmt.Errorf("engine: element %d references unknown node %d", tag, n1)
	}
	nd2, ok := m.nodes[n2]
	if !ok {
		return fmt.Errorf("engine: element %d references unknown node %d", tag, n2)
	}
	kind, ok := m.transfs[transfTag]
	if !ok {
		return fmt.Errorf("engine: element %d references unknown transformation %d", tag, transfTag)
	}
	if _, ok := m.beamByTag[tag]; ok {
		return fmt.Errorf("engine: duplicate element tag %d", tag)
	}
	b, err := newBeamElement(tag, nd1, nd2, a, e, i, kind == TransfPDelta)
	if err != nil {
		return err
	}
	m.beams = append(m.beams, b)
	m.beamByTag[tag] = b
	return nil
}

// Load applies a nodal load (fx, fy, mz) in global coordinates to the
// current load pattern.
func (s *Session) Load(nodeTag int, fx, fy, mz float64) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	if _, ok := m.nodes[nodeTag]; !ok {
		return fmt.Errorf("engine: load on unknown node %d", nodeTag)
	}
	m.loads = append(m.loads, nodalLoad{node: nodeTag, f: [3]float64{fx, fy, mz}})
	return nil
}

// BeamUniform applies a full-span uniform member load in the element's
// local frame. Argument order follows the native primitive: transverse
// intensity first, axial second.
func (s *Session) BeamUniform(eleTag int, wy, wx float64) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	b, ok := m.beamByTag[eleTag]
	if !ok {
		return fmt.Errorf("engine: member load on unknown element %d", eleTag)
	}
	b.wy += wy
	b.wx += wx
	return nil
}

// SetAlgorithm selects the solution algorithm for Analyze.
func (s *Session) SetAlgorithm(a Algorithm) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	m.algorithm = a
	return nil
}

// SetTest configures the normed-displacement-increment convergence test
// used by the Newton algorithm.
func (s *Session) SetTest(tolerance float64, maxIter int) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	m.tolerance = tolerance
	m.maxIter = maxIter
	return nil
}

// SetIntegrator sets the load-control increment per analysis step.
func (s *Session) SetIntegrator(loadStep float64) error {
	m, err := s.model()
	if err != nil {
		return err
	}
	m.loadStep = loadStep
	return nil
}

// NodeDisp returns the solved displacement triple (ux, uy, rz) of a node.
func (s *Session) NodeDisp(tag int) ([3]float64, error) {
	m, err := s.model()
	if err != nil {
		return [3]float64{}, err
	}
	if !m.solved {
		return [3]float64{}, fmt.Errorf("engine: model not analyzed")
	}
	d, ok := m.disp[tag]
	if !ok {
		return [3]float64{}, fmt.Errorf("engine: displacement query for unknown node %d", tag)
	}
	return d, nil
}

// NodeReaction returns the reaction triple (Rx, Ry, Rm) of a node.
// ComputeReactions must have been called after Analyze.
func (s *Session) NodeReaction(tag int) ([3]float64, error) {
	m, err := s.model()
	if err != nil {
		return [3]float64{}, err
	}
	if m.reactions == nil {
		return [3]float64{}, fmt.Errorf("engine: reactions not computed")
	}
	r, ok := m.reactions[tag]
	if !ok {
		return [3]float64{}, fmt.Errorf("engine: reaction query for unknown node %d", tag)
	}
	return r, nil
}

// EleForce returns the element end actions [N1, V1, M1, N2, V2, M2] in
// local coordinates: the forces exerted on the element by its end nodes.
func (s *Session) EleForce(tag int) ([6]float64, error) {
	m, err := s.model()
	if err != nil {
		return [6]float64{}, err
	}
	if !m.solved {
		return [6]float64{}, fmt.Errorf("engine: model not analyzed")
	}
	b, ok := m.beamByTag[tag]
	if !ok {
		return [6]float64{}, fmt.Errorf("engine: force query for unknown element %d", tag)
	}
	return b.endForces, nil
}
