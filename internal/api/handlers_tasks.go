package api

import (
	"net/http"
	"time"

	"github.com/anchorhq/anchor/internal/domain"
)

type createTaskRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	HabitID         string `json:"habit_id"`
	EstimatedEffort int    `json:"estimated_effort"`
	DueDate         string `json:"due_date"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	task := &domain.Task{
		UserID:          userID(r),
		HabitID:         req.HabitID,
		Title:           req.Title,
		Description:     req.Description,
		EstimatedEffort: req.EstimatedEffort,
	}
	if req.DueDate != "" {
		due, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
			return
		}
		task.DueDate = &due
	}

	if err := s.services.Tasks.Create(r.Context(), task); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	includeCompleted := r.URL.Query().Get("include_completed") == "true"

	tasks, err := s.services.Tasks.List(r.Context(), userID(r), includeCompleted)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.services.Tasks.Complete(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Tasks.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
