// Package frame prepares a 2D frame model for the finite-element engine
// and converts the solved state back into continuous internal-force
// diagrams. The request and response shapes match the editor frontend.
package frame

// Constraints marks each nodal DOF as fixed (true) or free.
type Constraints struct {
	X        bool `json:"x"`
	Y        bool `json:"y"`
	Rotation bool `json:"rotation"`
}

// Springs holds discrete support stiffnesses per axis. A value of zero
// means the axis is not sprung; see BuildModel for how that is realised.
type Springs struct {
	Kx float64 `json:"kx"`
	Ky float64 `json:"ky"`
	Kr float64 `json:"kr"`
}

// NodalLoad is a point load applied directly to a node, global frame.
type NodalLoad struct {
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Moment float64 `json:"moment"`
}

type Node struct {
	ID          int         `json:"id"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Constraints Constraints `json:"constraints"`
	Springs     *Springs    `json:"springs,omitempty"`
	Loads       *NodalLoad  `json:"loads,omitempty"`
}

type Material struct {
	ID int     `json:"id"`
	E  float64 `json:"E"`
	Nu float64 `json:"nu,omitempty"`
}

type Section struct {
	A float64 `json:"A"`
	I float64 `json:"I"`
	H float64 `json:"h,omitempty"`
}

// EndReleases frees the rotational DOF at a beam end, making a hinge.
type EndReleases struct {
	StartMoment bool `json:"startMoment"`
	EndMoment   bool `json:"endMoment"`
}

// DistributedLoad is a uniform load over a fraction of the member,
// StartT and EndT in [0, 1]. CoordSystem is "local" (default) or "global".
type DistributedLoad struct {
	Qx          float64 `json:"qx"`
	Qy          float64 `json:"qy"`
	StartT      float64 `json:"startT"`
	EndT        float64 `json:"endT"`
	CoordSystem string  `json:"coordSystem,omitempty"`
}

type Beam struct {
	ID              int              `json:"id"`
	NodeIDs         [2]int           `json:"nodeIds"`
	MaterialID      int              `json:"materialId"`
	Section         Section          `json:"section"`
	EndReleases     *EndReleases     `json:"endReleases,omitempty"`
	DistributedLoad *DistributedLoad `json:"distributedLoad,omitempty"`
}

// Request is the solve payload from the frontend.
type Request struct {
	Nodes              []Node     `json:"nodes"`
	Beams              []Beam     `json:"beams"`
	Materials          []Material `json:"materials"`
	AnalysisType       string     `json:"analysisType"`
	GeometricNonlinear bool       `json:"geometricNonlinear"`
}

// BeamForces carries the corrected end forces and the interpolated
// diagrams for one member.
type BeamForces struct {
	ElementID     int       `json:"elementId"`
	N1            float64   `json:"N1"`
	V1            float64   `json:"V1"`
	M1            float64   `json:"M1"`
	N2            float64   `json:"N2"`
	V2            float64   `json:"V2"`
	M2            float64   `json:"M2"`
	Stations      []float64 `json:"stations"`
	NormalForce   []float64 `json:"normalForce"`
	ShearForce    []float64 `json:"shearForce"`
	BendingMoment []float64 `json:"bendingMoment"`
	MaxN          float64   `json:"maxN"`
	MaxV          float64   `json:"maxV"`
	MaxM          float64   `json:"maxM"`
}

// Response is the solve result. Displacements and Reactions are flat
// triples in NodeIDOrder. On failure only Success and Error are set.
type Response struct {
	Success       bool                  `json:"success"`
	Displacements []float64             `json:"displacements,omitempty"`
	Reactions     []float64             `json:"reactions,omitempty"`
	BeamForces    map[string]BeamForces `json:"beamForces,omitempty"`
	NodeIDOrder   []int                 `json:"nodeIdOrder,omitempty"`
	Error         string                `json:"error,omitempty"`
}

// localIntensities returns the load intensities rotated into the member's
// local frame when the load was given in global coordinates.
func (dl *DistributedLoad) localIntensities(cos, sin float64) (qx, qy float64) {
	if dl == nil {
		return 0, 0
	}
	if dl.CoordSystem == "global" {
		return dl.Qx*cos + dl.Qy*sin, -dl.Qx*sin + dl.Qy*cos
	}
	return dl.Qx, dl.Qy
}
