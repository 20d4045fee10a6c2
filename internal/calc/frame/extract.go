package frame

import (
	"math"
	"strconv"

	"Statica/internal/engine"
)

// ExtractResults reads the solved engine state back out in caller order
// and applies the sign-convention correction.
//
// The engine reports element end actions [N1, V1, M1, N2, V2, M2] in
// local coordinates as forces exerted on the element by its end nodes.
// The frontend wants internal forces as seen looking into the member, so
// M1, N2 and V2 flip sign while N1, V1 and M2 pass through. Changing this
// mapping inverts every diagram downstream.
func ExtractResults(ses *engine.Session, mm *ModelMap) (*Response, error) {
	displacements := make([]float64, 0, 3*len(mm.NodeIDOrder))
	reactions := make([]float64, 0, 3*len(mm.NodeIDOrder))

	for _, nid := range mm.NodeIDOrder {
		d, err := ses.NodeDisp(nid)
		if err != nil {
			return nil, err
		}
		displacements = append(displacements, d[0], d[1], d[2])
	}
	for _, nid := range mm.NodeIDOrder {
		r, err := ses.NodeReaction(nid)
		if err != nil {
			return nil, err
		}
		reactions = append(reactions, r[0], r[1], r[2])
	}

	beamForces := make(map[string]BeamForces, len(mm.beams))
	for _, b := range mm.beams {
		raw, err := ses.EleForce(mm.BeamIDToTag[b.ID])
		if err != nil {
			return nil, err
		}

		n1 := raw[0]
		v1 := raw[1]
		m1 := -raw[2]
		n2 := -raw[3]
		v2 := -raw[4]
		m2 := raw[5]

		nd1 := mm.nodesByID[b.NodeIDs[0]]
		nd2 := mm.nodesByID[b.NodeIDs[1]]
		length, angle := beamGeometry(nd1, nd2)

		var qx, qy, startT, endT float64
		endT = 1
		if dl := b.DistributedLoad; dl != nil {
			qx, qy = dl.localIntensities(math.Cos(angle), math.Sin(angle))
			startT = dl.StartT
			endT = dl.EndT
		}

		stations, normal, shear, moment := interpolateStations(
			n1, v1, m1, length, qx, qy, startT, endT, NumStations)

		beamForces[strconv.Itoa(b.ID)] = BeamForces{
			ElementID:     b.ID,
			N1:            n1,
			V1:            v1,
			M1:            m1,
			N2:            n2,
			V2:            v2,
			M2:            m2,
			Stations:      stations,
			NormalForce:   normal,
			ShearForce:    shear,
			BendingMoment: moment,
			MaxN:          maxAbs(normal),
			MaxV:          maxAbs(shear),
			MaxM:          maxAbs(moment),
		}
	}

	return &Response{
		Success:       true,
		Displacements: displacements,
		Reactions:     reactions,
		BeamForces:    beamForces,
		NodeIDOrder:   mm.NodeIDOrder,
	}, nil
}
