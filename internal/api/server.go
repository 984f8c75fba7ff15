package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anchorhq/anchor/internal/decision"
	"github.com/anchorhq/anchor/internal/domain"
	"github.com/anchorhq/anchor/internal/repository"
	"github.com/anchorhq/anchor/internal/service"
)

// DecisionProcessor is the slice of the decision service the API needs.
type DecisionProcessor interface {
	ProcessUserDecision(ctx context.Context, userID string) (*decision.ProcessResult, error)
	ListDecisions(ctx context.Context, userID string, limit int, decisionType string) ([]*domain.DecisionLog, error)
}

// Services carries everything the HTTP surface dispatches into.
type Services struct {
	Auth      service.AuthService
	Users     service.UserService
	Emotions  service.EmotionService
	Streaks   service.StreakService
	Habits    service.HabitService
	Tasks     service.TaskService
	Analytics service.AnalyticsService
	Insights  service.InsightsService
	Dashboard service.DashboardService
	Decisions DecisionProcessor
	Tokens    repository.TokenRepo
}

type Server struct {
	services Services
	log      *slog.Logger
	handler  http.Handler
	server   *http.Server
}

func NewServer(services Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{services: services, log: logger}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	authed := func(h http.HandlerFunc) http.Handler { return s.requireAuth(h) }

	mux.Handle("POST /api/auth/logout", authed(s.handleLogout))

	mux.Handle("POST /api/ai/decision", authed(s.handleProcessDecision))
	mux.Handle("GET /api/ai/decisions", authed(s.handleListDecisions))
	mux.Handle("GET /api/ai/insights", authed(s.handleInsights))

	mux.Handle("POST /api/emotions", authed(s.handleCheckIn))
	mux.Handle("GET /api/emotions", authed(s.handleListEmotions))

	mux.Handle("POST /api/streaks", authed(s.handleCreateStreak))
	mux.Handle("GET /api/streaks", authed(s.handleListStreaks))
	mux.Handle("GET /api/streaks/{id}", authed(s.handleGetStreak))
	mux.Handle("DELETE /api/streaks/{id}", authed(s.handleDeleteStreak))

	mux.Handle("POST /api/habits", authed(s.handleCreateHabit))
	mux.Handle("GET /api/habits", authed(s.handleListHabits))
	mux.Handle("POST /api/habits/{id}/complete", authed(s.handleCompleteHabit))
	mux.Handle("DELETE /api/habits/{id}", authed(s.handleDeleteHabit))

	mux.Handle("POST /api/tasks", authed(s.handleCreateTask))
	mux.Handle("GET /api/tasks", authed(s.handleListTasks))
	mux.Handle("POST /api/tasks/{id}/complete", authed(s.handleCompleteTask))
	mux.Handle("DELETE /api/tasks/{id}", authed(s.handleDeleteTask))

	mux.Handle("GET /api/dashboard", authed(s.handleDashboard))
	mux.Handle("GET /api/analytics", authed(s.handleAnalytics))

	mux.Handle("GET /api/settings", authed(s.handleGetSettings))
	mux.Handle("PUT /api/settings", authed(s.handleUpdateSettings))

	return s.recoverer(s.requestLogger(mux))
}

// Handler exposes the fully wired route tree.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info("http server listening", "addr", addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
