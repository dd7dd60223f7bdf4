// Package server exposes the upload, viewing, and editing workflow over
// HTTP: a small HTML frontend plus a JSON API for reading and editing
// spatial maps.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tsawler/slidemap/config"
	"github.com/tsawler/slidemap/convert"
	"github.com/tsawler/slidemap/render"
	"github.com/tsawler/slidemap/spatial"
	"github.com/tsawler/slidemap/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server wires storage, processing, and the HTTP frontend together.
type Server struct {
	cfg      config.Config
	store    *store.Store
	mapper   *spatial.Mapper
	exporter *convert.Exporter
	renderer *render.Renderer
	tmpl     *template.Template
	log      *slog.Logger
}

// New builds a Server around an open store.
func New(cfg config.Config, st *store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Server{
		cfg:   cfg,
		store: st,
		mapper: spatial.NewMapper(spatial.Config{
			DisableSuppression: cfg.DisableSuppression,
			Logger:             logger,
		}),
		exporter: convert.New(convert.Config{
			Timeout: cfg.ConvertTimeout.Std(),
			DPI:     cfg.ConvertDPI,
			Logger:  logger,
		}),
		renderer: render.New(render.Config{Width: cfg.PreviewWidth}),
		tmpl:     tmpl,
		log:      logger,
	}, nil
}

// Routes returns the HTTP handler for the whole application.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)

	r.Route("/job/{jobID}", func(r chi.Router) {
		r.Get("/", s.handleJob)
		r.Get("/edit/{slide}", s.handleEdit)
		r.Get("/json", s.handleDownloadJSON)
		r.Get("/image/{slide}", s.handleSlideImage)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Route("/job/{jobID}/slide/{slide}", func(r chi.Router) {
			r.Get("/", s.handleGetSlide)
			r.Route("/component/{componentID}", func(r chi.Router) {
				r.Post("/", s.handleUpdateComponent)
				r.Delete("/", s.handleDeleteComponent)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  time.Minute,
	}
	s.log.Info("listening", "addr", s.cfg.Addr)
	return srv.ListenAndServe()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
