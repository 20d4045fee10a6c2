package frame

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	Solver *Solver
}

// Calc runs a structural analysis. The response always carries the
// success flag; solver failures are reported inside the envelope, not as
// HTTP errors.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	resp := h.Solver.Solve(&req)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
