package api

import (
	"net/http"
	"strconv"

	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/service"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data, err := s.services.Dashboard.GetDashboard(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(data))
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	report, err := s.services.Analytics.Report(r.Context(), userID(r), days)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	u, err := s.services.Users.GetSettings(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

type updateSettingsRequest struct {
	FullName           *string                          `json:"full_name"`
	Timezone           *string                          `json:"timezone"`
	DefaultCheckinTime *string                          `json:"default_checkin_time"`
	Notifications      *domain.NotificationPreferences `json:"notification_preferences"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	u, err := s.services.Users.UpdateSettings(r.Context(), userID(r), service.SettingsUpdate{
		FullName:           req.FullName,
		Timezone:           req.Timezone,
		DefaultCheckinTime: req.DefaultCheckinTime,
		Notifications:      req.Notifications,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
