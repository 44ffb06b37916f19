package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/velocityautos/concierge-ai/internal/auth"
	"github.com/velocityautos/concierge-ai/internal/webchat"
	"github.com/velocityautos/concierge-ai/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Webchat            *webchat.Handler
	MetricsHandler     http.Handler
	OperatorAuthSecret string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	r.Use(middleware.Timeout(timeout))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Webchat != nil {
		r.Route("/api/chat", func(chat chi.Router) {
			chat.Post("/message", cfg.Webchat.HandleMessage)
			chat.Get("/messages", cfg.Webchat.HandlePoll)
			chat.Get("/ws", cfg.Webchat.HandleWS)
		})

		r.Route("/api/operator", func(op chi.Router) {
			op.Use(auth.OperatorJWT(cfg.OperatorAuthSecret))
			op.Post("/manual-mode", cfg.Webchat.HandleManualMode)
			op.Post("/reply", cfg.Webchat.HandleReply)
			op.Post("/complete", cfg.Webchat.HandleComplete)
		})
	}

	return r
}
