package api

import (
	"net/http"

	"github.com/anchorhq/anchor/internal/domain"
)

type createHabitRequest struct {
	StreakID         string `json:"streak_id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	DifficultyLevel  int    `json:"difficulty_level"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	habit := &domain.Habit{
		UserID:           userID(r),
		StreakID:         req.StreakID,
		Title:            req.Title,
		Description:      req.Description,
		DifficultyLevel:  req.DifficultyLevel,
		EstimatedMinutes: req.EstimatedMinutes,
	}
	if err := s.services.Habits.Create(r.Context(), habit); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHabitResponse(habit))
}

func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	habits, err := s.services.Habits.List(r.Context(), userID(r), includeInactive)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toHabitResponses(habits))
}

type completeHabitRequest struct {
	DifficultyCompleted int    `json:"difficulty_completed"`
	Notes               string `json:"notes"`
}

func (s *Server) handleCompleteHabit(w http.ResponseWriter, r *http.Request) {
	var req completeHabitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	completion, err := s.services.Habits.Complete(r.Context(), userID(r), r.PathValue("id"), req.DifficultyCompleted, req.Notes)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompletionResponse(completion))
}

func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Habits.Deactivate(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deactivated": true})
}
