package api

import (
	"net/http"

	"github.com/anchorhq/anchor/internal/domain"
)

type createStreakRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleCreateStreak(w http.ResponseWriter, r *http.Request) {
	var req createStreakRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	streak := &domain.Streak{
		UserID:      userID(r),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.services.Streaks.Create(r.Context(), streak); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStreakResponse(streak))
}

func (s *Server) handleListStreaks(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	streaks, err := s.services.Streaks.List(r.Context(), userID(r), includeInactive)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreakResponses(streaks))
}

func (s *Server) handleGetStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.services.Streaks.GetByID(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toStreakResponse(streak))
}

func (s *Server) handleDeleteStreak(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Streaks.Deactivate(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deactivated": true})
}
