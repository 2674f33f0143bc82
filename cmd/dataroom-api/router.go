package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MilanLasica/DrugsDataroom/cmd/dataroom-api/handlers"
	"github.com/MilanLasica/DrugsDataroom/cmd/dataroom-api/middleware"
	"github.com/MilanLasica/DrugsDataroom/internal/app"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(a *app.App) http.Handler {
	cfg := a.Config
	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(a.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(chimiddleware.Timeout(timeout))

	health := handlers.NewHealthHandler(a)
	documents := handlers.NewDocumentHandler(a.Logger, a.Pipeline, a.Gateway, a, cfg.Ingestion.MaxUploadSize)
	chat := handlers.NewChatHandler(a.Logger, a.Assistant)
	search := handlers.NewSearchHandler(a.Gateway)

	r.Get("/", health.Root)
	r.Get("/health", health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", documents.Upload)
		r.Get("/documents", documents.List)
		r.Get("/documents/{documentId}", documents.Get)
		r.Post("/chat", chat.Chat)
		r.Get("/search", search.Search)
	})

	return r
}
