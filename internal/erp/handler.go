package erp

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	Client *Client
}

type listResponse struct {
	Data  []map[string]any `json:"data"`
	Error string           `json:"error,omitempty"`
}

type detailResponse struct {
	Data  map[string]any `json:"data"`
	Error string         `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) Projects(w http.ResponseWriter, r *http.Request) {
	if !h.Client.Configured() {
		writeJSON(w, listResponse{Data: []map[string]any{}, Error: "ERPNext not configured"})
		return
	}
	data, err := h.Client.SearchProjects(r.URL.Query().Get("search"))
	if err != nil {
		writeJSON(w, listResponse{Data: []map[string]any{}, Error: err.Error()})
		return
	}
	if data == nil {
		data = []map[string]any{}
	}
	writeJSON(w, listResponse{Data: data})
}

func (h *Handler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	if !h.Client.Configured() {
		writeJSON(w, detailResponse{Error: "ERPNext not configured"})
		return
	}
	data, err := h.Client.GetProject(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, detailResponse{Error: err.Error()})
		return
	}
	writeJSON(w, detailResponse{Data: data})
}
