// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okian/warung/internal/domain/model"
	"github.com/okian/warung/internal/domain/request"
	"github.com/okian/warung/pkg/logger"
)

// Client-facing messages.
const (
	MsgCreated       = "Menu berhasil ditambahkan"
	MsgUpdated       = "Menu berhasil diperbarui"
	MsgDeleted       = "Menu berhasil dihapus"
	MsgRouteNotFound = "Endpoint tidak ditemukan"
	MsgInternal      = "Terjadi kesalahan pada server"
	MsgBadRequest    = "Permintaan tidak valid"
	MsgForbidden     = "Akses ditolak"
	MsgNotFound      = "Data tidak ditemukan"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	List(ctx context.Context) []model.MenuItem
	Get(ctx context.Context, id string) (model.MenuItem, error)
	Create(ctx context.Context, body request.MenuBody) (model.MenuItem, error)
	Update(ctx context.Context, id string, body request.MenuBody) (model.MenuItem, error)
	Delete(ctx context.Context, id string, caller *string) (model.MenuItem, error)

	// UploadImage stores r and returns its public URL. requestBase is the
	// scheme://host the request arrived on.
	UploadImage(ctx context.Context, filename string, r io.Reader, requestBase string) (string, error)
	// ImagePath resolves a stored image name to a file on disk.
	ImagePath(name string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	menuHandler   *MenuHandler
	uploadHandler *UploadHandler
	logger        logger.Logger
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	maxUploadBytes int64
	logger         logger.Logger
}

// WithMaxUploadBytes caps the size of a single image accepted by POST /api/upload.
func WithMaxUploadBytes(n int64) Option {
	return func(o *serverOptions) {
		if n > 0 {
			o.maxUploadBytes = n
		}
	}
}

// WithLogger sets the logger used for request and panic logs.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := serverOptions{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Named("http")
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		menuHandler:   NewMenuHandler(deps),
		uploadHandler: NewUploadHandler(deps, o.maxUploadBytes),
		logger:        o.logger,
	}
}

// Router returns a chi router with middleware and every API route installed.
// Callers may add further routes to it.
func (s *Server) Router(ctx context.Context) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Recovery(s.logger), CORS, RequestLogger(s.logger), MetricsMiddleware)
	s.Register(ctx, r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleNotFound)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/api", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", s.menuHandler.HandleList)
			r.Post("/", s.menuHandler.HandleCreate)
			r.Get("/{id}", s.menuHandler.HandleGet)
			r.Put("/{id}", s.menuHandler.HandleUpdate)
			r.Delete("/{id}", s.menuHandler.HandleDelete)
		})
		r.Post("/upload", s.uploadHandler.HandleUpload)
	})
	r.Get("/uploads/{file}", s.uploadHandler.HandleServe)
}

// envelope is the uniform response body.
type envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

// writeError maps err to a status code and writes the failure envelope.
// Internal failures never expose their cause.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := model.Message(err)
	if status == http.StatusInternalServerError || msg == "" {
		msg = defaultMessage(status)
	}
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return MsgBadRequest
	case http.StatusForbidden:
		return MsgForbidden
	case http.StatusNotFound:
		return MsgNotFound
	default:
		return MsgInternal
	}
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{Success: false, Error: MsgRouteNotFound})
}
