package server

import (
	"context"
	"net/http"
	"time"

	"spring/internal/config"
	"spring/internal/middleware"
	"spring/internal/model"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-faster/errors"
)

type PhotoGetter interface {
	GetPhoto(ctx context.Context, key, value string) (model.Photo, error)
}

var (
	errNotFound        = errors.New("Not found")
	errTooManyRequests = errors.New("Too many requests")
)

func New(cfg config.Config, photos PhotoGetter) Server {
	s := Server{photos: photos, cacheControl: cfg.CacheControl()}

	r := chi.NewRouter()
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimw.Recoverer)
	r.Use(CORSHeaders)
	if cfg.RateLimit > 0 {
		r.Use(httprate.Limit(cfg.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, r, errTooManyRequests)
			}),
		))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Options("/", s.PreflightHandler)
	r.With(WrapResponseWriter(cfg.CacheControl())).Get("/", s.GetPhotoHandler)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, model.MethodNotAllowed("Invalid method"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound)
	})

	s.Handler = r
	return s
}

type Server struct {
	http.Handler
	photos       PhotoGetter
	cacheControl string
}

// PreflightHandler answers CORS preflight without touching the upstream.
func (s *Server) PreflightHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", s.cacheControl)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) GetPhotoHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := s.photos.GetPhoto(r.Context(), q.Get("key"), q.Get("value"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writePhoto(w, p)
}

// CORSHeaders sets the fixed header set every response carries.
func CORSHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "cache-control")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		next.ServeHTTP(w, r)
	})
}
