package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hackboard-live/hackboard/internal/observability/attr"
)

// Server is the HTTP API for judges, voters, and organizers.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// Handlers bundles the per-module HTTP handlers.
type Handlers struct {
	Registry    *RegistryHandler
	Scoring     *ScoringHandler
	Voting      *VotingHandler
	Leaderboard *LeaderboardHandler
}

// NewServer builds the router and the HTTP server.
func NewServer(
	addr string,
	logger *slog.Logger,
	auth *Auth,
	handlers Handlers,
	prometheusRegistry *prometheus.Registry,
) *Server {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if prometheusRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(prometheusRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads.
		r.Get("/tracks", handlers.Registry.ListTracks)
		r.Get("/tracks/{trackID}/rooms", handlers.Registry.ListRooms)
		r.Get("/tracks/{trackID}/teams", handlers.Registry.ListTeams)
		r.Get("/tracks/{trackID}/criteria", handlers.Registry.ListCriteria)
		r.Get("/tracks/{trackID}/leaderboard", handlers.Leaderboard.GetLeaderboard)
		r.Get("/teams/{teamID}", handlers.Registry.GetTeam)
		r.Get("/teams/{teamID}/breakdown", handlers.Leaderboard.GetTeamBreakdown)

		// Public votes, keyed by anonymous session.
		r.Post("/teams/{teamID}/votes", handlers.Voting.CastVote)

		// Judge routes.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireJudge)
			r.Put("/teams/{teamID}/scores", handlers.Scoring.SubmitScores)
			r.Get("/teams/{teamID}/scores", handlers.Scoring.GetTeamScores)
		})

		// Organizer routes.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/tracks", handlers.Registry.CreateTrack)
			r.Post("/tracks/{trackID}/rooms", handlers.Registry.CreateRoom)
			r.Post("/tracks/{trackID}/teams", handlers.Registry.CreateTeam)
			r.Post("/tracks/{trackID}/criteria", handlers.Registry.CreateCriterion)
			r.Post("/tracks/{trackID}/finalize", handlers.Leaderboard.FinalizeTrack)
			r.Post("/tracks/{trackID}/finalize/schedule", handlers.Leaderboard.ScheduleFinalize)
			r.Delete("/tracks/{trackID}/finalize/schedule", handlers.Leaderboard.CancelScheduledFinalize)
			r.Get("/tracks/{trackID}/finalize/schedule", handlers.Leaderboard.ListScheduledFinalize)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP API server", attr.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "HTTP request",
				attr.String("method", r.Method),
				attr.String("path", r.URL.Path),
				attr.Int("status", ww.Status()),
				attr.Duration("duration", time.Since(start)),
			)
		})
	}
}
