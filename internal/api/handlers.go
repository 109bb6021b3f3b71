package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sunghokim128/littlelemon/internal/menu"
	"github.com/sunghokim128/littlelemon/internal/models"
	"github.com/sunghokim128/littlelemon/internal/session"
	"github.com/sunghokim128/littlelemon/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the typed failure taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, menu.ErrNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, menu.ErrBootstrapFailed):
		status = http.StatusBadGateway
	case errors.Is(err, session.ErrInvalidProfile):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrStorageUnavailable),
		errors.Is(err, storage.ErrStorageWriteFailed):
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"menu":   s.controller.State().String(),
	})
}

type menuResponse struct {
	Sections []models.Section `json:"sections"`
}

// handleMenu answers GET /api/menu?category=&q=. A non-blank q searches
// name and description; otherwise the category filter applies, defaulting
// to every category.
func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = storage.CategoryAll
	}
	searchText := r.URL.Query().Get("q")

	sections, err := s.controller.Query(r.Context(), category, searchText)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, menuResponse{Sections: s.resolveImages(sections)})
}

// handleRefresh re-triggers activation. Against a populated store this is a
// no-op; after a failed bootstrap it retries the fetch.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Activate(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": s.controller.State().String()})
}

type onboardRequest struct {
	FirstName string `json:"firstName"`
	Email     string `json:"email"`
}

type onboardResponse struct {
	Profile   models.Profile `json:"profile"`
	InstallID string         `json:"installId"`
}

func (s *Server) handleOnboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	profile, err := s.session.Onboard(r.Context(), req.FirstName, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	installID, err := s.session.InstallID(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, onboardResponse{Profile: profile, InstallID: installID})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.session.Profile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := s.session.SaveProfile(r.Context(), profile); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
