package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Amanouazh/Pishoo-Ai/internal/domain/ports/repository"
	"github.com/Amanouazh/Pishoo-Ai/internal/infra/metrics"
	"github.com/Amanouazh/Pishoo-Ai/internal/usecase"
)

// Server exposes the whole application surface over a local HTTP API.
// The browser UI is a plain client of these routes.
type Server struct {
	sessions repository.SessionRepository
	settings repository.SettingsRepository
	chatUC   usecase.ChatUseCase
	transfer usecase.TransferUseCase
	log      *zerolog.Logger
}

func NewServer(
	sessions repository.SessionRepository,
	settings repository.SettingsRepository,
	chatUC usecase.ChatUseCase,
	transfer usecase.TransferUseCase,
	logger *zerolog.Logger,
) *Server {
	metrics.MustRegister()
	return &Server{
		sessions: sessions,
		settings: settings,
		chatUC:   chatUC,
		transfer: transfer,
		log:      logger,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sessions", s.listSessions)
		r.Post("/sessions", s.createSession)
		r.Post("/sessions/import", s.importChat)
		r.Get("/sessions/current", s.currentSession)
		r.Put("/sessions/current", s.selectSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Patch("/", s.updateSession)
			r.Delete("/", s.deleteSession)
			r.Get("/export", s.exportChat)
		})

		r.Post("/chat", s.sendMessage)
		r.Get("/models", s.listModels)

		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.updateSettings)
		r.Get("/settings/export", s.exportSettings)
		r.Post("/settings/import", s.importSettings)

		r.Delete("/data", s.clearAll)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http")
	})
}
