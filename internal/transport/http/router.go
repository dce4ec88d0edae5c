// Package httptransport exposes the wizard over JSON HTTP routes.
package httptransport

import (
	"context"
	"net/http"
	"time"

	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/wizard"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const apiPrefix = "/api/v1"

// Pinger reports whether the session store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterOptions struct {
	Wizard       *wizard.Service
	Health       Pinger
	Logger       logger.Logger
	Cookie       CookieOptions
	RequestLimit time.Duration
}

// Handler is the thin HTTP layer over the wizard service.
type Handler struct {
	wizard *wizard.Service
	health Pinger
	logger logger.Logger
	errors *errors.ErrorHandler
}

func NewHandler(opts RouterOptions) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{
		wizard: opts.Wizard,
		health: opts.Health,
		logger: log,
		errors: errors.NewErrorHandler(log),
	}
}

// NewRouter wires every wizard route plus health and metrics.
func NewRouter(opts RouterOptions) http.Handler {
	h := NewHandler(opts)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	if opts.RequestLimit > 0 {
		r.Use(middleware.Timeout(opts.RequestLimit))
	}

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(apiPrefix, func(api chi.Router) {
		api.Use(SessionCookie(opts.Cookie))

		api.Get("/wizard", h.handleState)
		api.Post("/wizard/restart", h.handleRestart)
		api.Post("/identity", h.handleVerify)
		api.Get("/categories", h.handleCategories)
		api.Post("/category", h.handleChooseCategory)
		api.Get("/visitor-types", h.handleVisitorTypes)
		api.Post("/visitor-type", h.handleChooseVisitorType)
		api.Get("/form", h.handleForm)
		api.Patch("/form", h.handleUpdateFields)
		api.Post("/form/visitors", h.handleAddVisitor)
		api.Put("/form/visitors/{index}", h.handleUpdateVisitor)
		api.Delete("/form/visitors/{index}", h.handleRemoveVisitor)
		api.Post("/form/document", h.handleAttachDocument)
		api.Post("/submit", h.handleSubmit)
		api.Get("/pass", h.handlePass)
	})

	return r
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("Request served", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"durationMs": time.Since(start).Milliseconds(),
				"requestId":  middleware.GetReqID(r.Context()),
			})
		})
	}
}
