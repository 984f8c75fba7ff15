package api

import (
	"net/http"
	"strconv"

	"github.com/anchorhq/anchor/internal/domain"
)

type checkinRequest struct {
	Emotion string `json:"emotion"`
	Notes   string `json:"notes"`
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	checkin, err := s.services.Emotions.CheckIn(r.Context(), userID(r), domain.EmotionState(req.Emotion), req.Notes)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCheckinResponse(checkin))
}

func (s *Server) handleListEmotions(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	checkins, err := s.services.Emotions.ListRecent(r.Context(), userID(r), days)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	out := make([]checkinResponse, 0, len(checkins))
	for _, c := range checkins {
		out = append(out, toCheckinResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}
