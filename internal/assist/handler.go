package assist

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	Runner *Runner
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message required", http.StatusBadRequest)
		return
	}
	resp := h.Runner.Chat(r.Context(), &req)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
