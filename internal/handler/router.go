package handler

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	audiohandler "github.com/Fathima1123/mom-realtime/internal/handler/audio"
	minuteshandler "github.com/Fathima1123/mom-realtime/internal/handler/minutes"
	"github.com/Fathima1123/mom-realtime/internal/service/session"
)

// Options carries the route-level knobs the router needs beyond its
// services.
type Options struct {
	StaticDir   string
	IdleTimeout time.Duration
}

// NewRouter wires HTTP routes to core services.
func NewRouter(engine *session.Engine, generator minuteshandler.Generator, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Hosted client page plus its assets.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFile(w, req, filepath.Join(opts.StaticDir, "index.html"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/",
		http.FileServer(http.Dir(opts.StaticDir))))

	audiohandler.New(engine, opts.IdleTimeout).RegisterRoutes(r)
	minuteshandler.New(generator).RegisterRoutes(r)

	return r
}
