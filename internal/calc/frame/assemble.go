package frame

import (
	"fmt"
	"math"

	"Statica/internal/engine"
)

// RigidSpringStiffness substitutes for a zero-valued spring axis so that
// every axis of a spring support stays spring-represented: zero means
// "rigid on this axis", not "no spring". Large enough to read as rigid
// next to realistic structural stiffnesses, small enough not to wreck the
// conditioning of the solve.
const RigidSpringStiffness = 1e20

const transfTag = 1

// idCounter hands out identifiers for assembler-internal entities from a
// range disjoint from anything the caller can reference.
type idCounter struct {
	val int
}

func (c *idCounter) next() int {
	c.val++
	return c.val
}

// releaseNodes records the duplicate node allocated for a released beam
// end. Zero means the end was not released.
type releaseNodes struct {
	Start int
	End   int
}

// ModelMap is the identifier-mapping record the assembler hands to the
// extractor: caller node order, beam-to-element tags, and which beams got
// auxiliary release nodes.
type ModelMap struct {
	NodeIDOrder  []int
	BeamIDToTag  map[int]int
	ReleaseNodes map[int]releaseNodes

	nodesByID     map[int]*Node
	materialsByID map[int]*Material
	beams         []*Beam
}

// validate checks every cross-reference before anything is emitted to
// the engine, so a bad payload can never leave a half-built model behind.
func validate(req *Request) (map[int]*Node, map[int]*Material, error) {
	if len(req.Nodes) == 0 {
		return nil, nil, fmt.Errorf("model has no nodes")
	}
	nodesByID := make(map[int]*Node, len(req.Nodes))
	for i := range req.Nodes {
		n := &req.Nodes[i]
		if _, dup := nodesByID[n.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate node id %d", n.ID)
		}
		nodesByID[n.ID] = n
	}
	materialsByID := make(map[int]*Material, len(req.Materials))
	for i := range req.Materials {
		m := &req.Materials[i]
		if m.E <= 0 {
			return nil, nil, fmt.Errorf("material %d has non-positive E", m.ID)
		}
		materialsByID[m.ID] = m
	}
	for i := range req.Beams {
		b := &req.Beams[i]
		if b.NodeIDs[0] == b.NodeIDs[1] {
			return nil, nil, fmt.Errorf("beam %d connects node %d to itself", b.ID, b.NodeIDs[0])
		}
		for _, nid := range b.NodeIDs {
			if _, ok := nodesByID[nid]; !ok {
				return nil, nil, fmt.Errorf("beam %d references missing node %d", b.ID, nid)
			}
		}
		if _, ok := materialsByID[b.MaterialID]; !ok {
			return nil, nil, fmt.Errorf("beam %d references missing material %d", b.ID, b.MaterialID)
		}
		if b.Section.A <= 0 || b.Section.I <= 0 {
			return nil, nil, fmt.Errorf("beam %d has non-positive section properties", b.ID)
		}
		if dl := b.DistributedLoad; dl != nil {
			if dl.StartT < 0 || dl.EndT > 1 || dl.StartT > dl.EndT {
				return nil, nil, fmt.Errorf("beam %d has invalid load span [%g, %g]", b.ID, dl.StartT, dl.EndT)
			}
		}
	}
	return nodesByID, materialsByID, nil
}

// BuildModel wipes the engine and emits the caller's schema as primitive
// entities: nodes, constraints, spring supports as zero-length elements
// against fixed ground nodes, moment releases as coincident duplicate
// nodes tied in translation, one element per beam, and one load pattern.
// The returned ModelMap is what the extractor needs afterwards.
func BuildModel(ses *engine.Session, req *Request) (*ModelMap, error) {
	nodesByID, materialsByID, err := validate(req)
	if err != nil {
		return nil, err
	}

	ses.Wipe()

	maxNodeID := 0
	for id := range nodesByID {
		if id > maxNodeID {
			maxNodeID = id
		}
	}
	// auxiliary node/element tags live far above every caller id
	counter := idCounter{val: maxNodeID * 100}
	springMats := idCounter{val: 8000}

	mm := &ModelMap{
		NodeIDOrder:   make([]int, 0, len(req.Nodes)),
		BeamIDToTag:   make(map[int]int, len(req.Beams)),
		ReleaseNodes:  make(map[int]releaseNodes),
		nodesByID:     nodesByID,
		materialsByID: materialsByID,
	}

	// 1. nodes
	for i := range req.Nodes {
		n := &req.Nodes[i]
		mm.NodeIDOrder = append(mm.NodeIDOrder, n.ID)
		if err := ses.Node(n.ID, n.X, n.Y); err != nil {
			return nil, err
		}
	}

	// 2. boundary conditions
	for i := range req.Nodes {
		n := &req.Nodes[i]
		c := n.Constraints
		if c.X || c.Y || c.Rotation {
			if err := ses.Fix(n.ID, c.X, c.Y, c.Rotation); err != nil {
				return nil, err
			}
		}
	}

	// 3. spring supports: a fixed ground node plus a zero-length element
	// whose per-axis stiffness is the spring value, with the rigid
	// substitute on axes given as zero
	for i := range req.Nodes {
		n := &req.Nodes[i]
		sp := n.Springs
		if sp == nil || (sp.Kx <= 0 && sp.Ky <= 0 && sp.Kr <= 0) {
			continue
		}
		gnd := counter.next()
		if err := ses.Node(gnd, n.X, n.Y); err != nil {
			return nil, err
		}
		if err := ses.Fix(gnd, true, true, true); err != nil {
			return nil, err
		}
		var matTags [3]int
		for axis, k := range [3]float64{sp.Kx, sp.Ky, sp.Kr} {
			mt := springMats.next()
			if k <= 0 {
				k = RigidSpringStiffness
			}
			if err := ses.UniaxialElastic(mt, k); err != nil {
				return nil, err
			}
			matTags[axis] = mt
		}
		if err := ses.ZeroLength(counter.next(), gnd, n.ID, matTags); err != nil {
			return nil, err
		}
	}

	// 4. one transformation policy for every beam
	kind := engine.TransfLinear
	if req.GeometricNonlinear {
		kind = engine.TransfPDelta
	}
	if err := ses.GeomTransf(transfTag, kind); err != nil {
		return nil, err
	}

	// 5 + 6. beam elements, splitting released ends onto duplicate nodes
	for i := range req.Beams {
		b := &req.Beams[i]
		mm.beams = append(mm.beams, b)

		end1 := b.NodeIDs[0]
		end2 := b.NodeIDs[1]
		var rel releaseNodes

		if r := b.EndReleases; r != nil {
			if r.StartMoment {
				dup := counter.next()
				orig := nodesByID[end1]
				if err := ses.Node(dup, orig.X, orig.Y); err != nil {
					return nil, err
				}
				// translations shared, rotation left free: a hinge
				if err := ses.EqualDOF(end1, dup, 1, 2); err != nil {
					return nil, err
				}
				end1 = dup
				rel.Start = dup
			}
			if r.EndMoment {
				dup := counter.next()
				orig := nodesByID[end2]
				if err := ses.Node(dup, orig.X, orig.Y); err != nil {
					return nil, err
				}
				if err := ses.EqualDOF(end2, dup, 1, 2); err != nil {
					return nil, err
				}
				end2 = dup
				rel.End = dup
			}
		}
		if rel.Start != 0 || rel.End != 0 {
			mm.ReleaseNodes[b.ID] = rel
		}

		mat := materialsByID[b.MaterialID]
		tag := b.ID
		if err := ses.ElasticBeamColumn(tag, end1, end2, b.Section.A, mat.E, b.Section.I, transfTag); err != nil {
			return nil, err
		}
		mm.BeamIDToTag[b.ID] = tag
	}

	// 7. load pattern: nodal loads plus distributed loads
	for i := range req.Nodes {
		n := &req.Nodes[i]
		l := n.Loads
		if l == nil || (l.Fx == 0 && l.Fy == 0 && l.Moment == 0) {
			continue
		}
		if err := ses.Load(n.ID, l.Fx, l.Fy, l.Moment); err != nil {
			return nil, err
		}
	}

	for i := range req.Beams {
		b := &req.Beams[i]
		dl := b.DistributedLoad
		if dl == nil || (dl.Qx == 0 && dl.Qy == 0) {
			continue
		}

		n1 := nodesByID[b.NodeIDs[0]]
		n2 := nodesByID[b.NodeIDs[1]]
		length, angle := beamGeometry(n1, n2)
		qx, qy := dl.localIntensities(math.Cos(angle), math.Sin(angle))

		if dl.StartT <= 0 && dl.EndT >= 1 {
			// full span: the engine's native member-load primitive,
			// transverse intensity first
			if err := ses.BeamUniform(mm.BeamIDToTag[b.ID], qy, qx); err != nil {
				return nil, err
			}
			continue
		}

		// partial span: exact equivalent end forces, emitted as two
		// point loads on the original nodes in global coordinates
		local := partialEquivalentForces(length, qx, qy, dl.StartT, dl.EndT)
		global := transformLocalToGlobal(local, angle)
		if err := ses.Load(b.NodeIDs[0], global[0], global[1], global[2]); err != nil {
			return nil, err
		}
		if err := ses.Load(b.NodeIDs[1], global[3], global[4], global[5]); err != nil {
			return nil, err
		}
	}

	return mm, nil
}
