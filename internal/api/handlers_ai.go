package api

import (
	"net/http"
	"strconv"
)

func (s *Server) handleProcessDecision(w http.ResponseWriter, r *http.Request) {
	result, err := s.services.Decisions.ProcessUserDecision(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, processDecisionResponse{
		Action:        string(result.Decision.Action),
		Reasoning:     result.Decision.Reasoning,
		Confidence:    result.Decision.Confidence,
		Executed:      result.Executed,
		DecisionLogID: result.DecisionLogID,
	})
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	decisionType := r.URL.Query().Get("type")

	logs, err := s.services.Decisions.ListDecisions(r.Context(), userID(r), limit, decisionType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toDecisionLogResponses(logs))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	report, err := s.services.Insights.Insights(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInsightsResponse(report))
}
