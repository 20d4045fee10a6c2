package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	frame "Statica/internal/calc/frame"

	"github.com/phpdave11/gofpdf"
)

type Input struct {
	Project string          `json:"project"`
	Author  string          `json:"author"`
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Result  *frame.Response `json:"result,omitempty"`
}

type Handler struct{}

// Generate renders an analysis report as PDF: header, optional notes,
// then the reaction table and per-member force maxima when a solved
// result is attached.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.Title == "" {
		input.Title = "Frame Analysis Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	if input.Notes != "" {
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
		pdf.Ln(4)
	}

	if res := input.Result; res != nil && res.Success {
		writeReactions(pdf, res)
		writeBeamMaxima(pdf, res)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}

func writeReactions(pdf *gofpdf.Fpdf, res *frame.Response) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Support reactions")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	for _, head := range []string{"Node", "Rx [N]", "Ry [N]", "Rm [Nm]"} {
		pdf.CellFormat(40, 6, head, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, nid := range res.NodeIDOrder {
		if 3*i+2 >= len(res.Reactions) {
			break
		}
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", nid), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", res.Reactions[3*i]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", res.Reactions[3*i+1]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", res.Reactions[3*i+2]), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func writeBeamMaxima(pdf *gofpdf.Fpdf, res *frame.Response) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Member force maxima")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	for _, head := range []string{"Beam", "max |N| [N]", "max |V| [N]", "max |M| [Nm]"} {
		pdf.CellFormat(40, 6, head, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	ids := make([]int, 0, len(res.BeamForces))
	byID := make(map[int]frame.BeamForces, len(res.BeamForces))
	for _, bf := range res.BeamForces {
		ids = append(ids, bf.ElementID)
		byID[bf.ElementID] = bf
	}
	sort.Ints(ids)

	pdf.SetFont("Helvetica", "", 10)
	for _, id := range ids {
		bf := byID[id]
		pdf.CellFormat(40, 6, fmt.Sprintf("%d", id), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", bf.MaxN), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", bf.MaxV), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f", bf.MaxM), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
}
