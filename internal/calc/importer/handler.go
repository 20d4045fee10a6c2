package importer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	frame "Statica/internal/calc/frame"

	"github.com/xuri/excelize/v2"
)

// Handler imports a model from a spreadsheet and runs it through the
// solver. Expected sheets: "Nodes" with columns
// id, x, y, fix_x, fix_y, fix_r, fx, fy, moment and "Beams" with columns
// id, node1, node2, E, A, I, qx, qy, startT, endT. First row is headers.
type Handler struct {
	Solver *frame.Solver
}

func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer f.Close()

	req, err := parseWorkbook(f)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := h.Solver.Solve(req)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func parseWorkbook(f *excelize.File) (*frame.Request, error) {
	nodeRows, err := f.GetRows("Nodes")
	if err != nil || len(nodeRows) < 2 {
		return nil, fmt.Errorf("sheet Nodes missing or empty")
	}
	beamRows, err := f.GetRows("Beams")
	if err != nil || len(beamRows) < 2 {
		return nil, fmt.Errorf("sheet Beams missing or empty")
	}

	req := &frame.Request{AnalysisType: "frame"}

	for i := 1; i < len(nodeRows); i++ {
		n, err := parseNodeRow(nodeRows[i])
		if err != nil {
			continue
		}
		req.Nodes = append(req.Nodes, n)
	}

	// one material per distinct modulus
	matByE := make(map[float64]int)
	for i := 1; i < len(beamRows); i++ {
		b, e, err := parseBeamRow(beamRows[i])
		if err != nil {
			continue
		}
		matID, ok := matByE[e]
		if !ok {
			matID = len(matByE) + 1
			matByE[e] = matID
			req.Materials = append(req.Materials, frame.Material{ID: matID, E: e})
		}
		b.MaterialID = matID
		req.Beams = append(req.Beams, b)
	}

	if len(req.Nodes) == 0 || len(req.Beams) == 0 {
		return nil, fmt.Errorf("no usable rows")
	}
	return req, nil
}

func parseNodeRow(row []string) (frame.Node, error) {
	if len(row) < 3 {
		return frame.Node{}, fmt.Errorf("bad row")
	}
	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return frame.Node{}, err
	}
	x, err := cell(row, 1)
	if err != nil {
		return frame.Node{}, err
	}
	y, err := cell(row, 2)
	if err != nil {
		return frame.Node{}, err
	}

	n := frame.Node{ID: id, X: x, Y: y}
	n.Constraints.X = flag(row, 3)
	n.Constraints.Y = flag(row, 4)
	n.Constraints.Rotation = flag(row, 5)

	fx, _ := cell(row, 6)
	fy, _ := cell(row, 7)
	mz, _ := cell(row, 8)
	if fx != 0 || fy != 0 || mz != 0 {
		n.Loads = &frame.NodalLoad{Fx: fx, Fy: fy, Moment: mz}
	}
	return n, nil
}

func parseBeamRow(row []string) (frame.Beam, float64, error) {
	if len(row) < 6 {
		return frame.Beam{}, 0, fmt.Errorf("bad row")
	}
	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return frame.Beam{}, 0, err
	}
	n1, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil {
		return frame.Beam{}, 0, err
	}
	n2, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return frame.Beam{}, 0, err
	}
	e, err := cell(row, 3)
	if err != nil {
		return frame.Beam{}, 0, err
	}
	a, err := cell(row, 4)
	if err != nil {
		return frame.Beam{}, 0, err
	}
	inertia, err := cell(row, 5)
	if err != nil {
		return frame.Beam{}, 0, err
	}

	b := frame.Beam{
		ID:      id,
		NodeIDs: [2]int{n1, n2},
		Section: frame.Section{A: a, I: inertia},
	}

	qx, _ := cell(row, 6)
	qy, _ := cell(row, 7)
	if qx != 0 || qy != 0 {
		startT := 0.0
		endT := 1.0
		if v, err := cell(row, 8); err == nil && len(row) > 8 && row[8] != "" {
			startT = v
		}
		if v, err := cell(row, 9); err == nil && len(row) > 9 && row[9] != "" {
			endT = v
		}
		b.DistributedLoad = &frame.DistributedLoad{Qx: qx, Qy: qy, StartT: startT, EndT: endT}
	}
	return b, e, nil
}

func cell(row []string, i int) (float64, error) {
	if i >= len(row) || strings.TrimSpace(row[i]) == "" {
		return 0, fmt.Errorf("empty cell")
	}
	return strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
}

func flag(row []string, i int) bool {
	if i >= len(row) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(row[i])) {
	case "1", "true", "yes", "x":
		return true
	}
	return false
}
