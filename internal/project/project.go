// Package project stores and retrieves a user's structural models.
package project

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"Statica/internal/auth"
	"Statica/internal/repo"

	"github.com/gorilla/mux"
)

type Handler struct {
	Repo repo.Repository
}

type saveRequest struct {
	Name  string          `json:"name"`
	Model json.RawMessage `json:"model"`
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.Name == "" || len(req.Model) == 0 {
		http.Error(w, "Name and model required", http.StatusBadRequest)
		return
	}
	if !json.Valid(req.Model) {
		http.Error(w, "Model must be valid JSON", http.StatusBadRequest)
		return
	}

	id, err := h.Repo.SaveProject(r.Context(), userID, req.Name, req.Model)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"id": id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	projects, err := h.Repo.ListProjects(r.Context(), userID)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []repo.ProjectMeta{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projects)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project id", http.StatusBadRequest)
		return
	}

	model, err := h.Repo.GetProject(r.Context(), userID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(model)
}
