// Package router assembles the HTTP middleware stack and the huma API.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/glowbook-server/internal/api/http/handler"
	"github.com/dtroode/glowbook-server/internal/api/http/middleware"
	"github.com/dtroode/glowbook-server/internal/config"
	"github.com/dtroode/glowbook-server/internal/logger"
	"github.com/dtroode/glowbook-server/internal/obs"
)

const (
	docsPath     = "/docs"
	healthPath   = "/healthz"
	metricsPath  = "/metrics"
	checkTimeout = 2 * time.Second
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Router builds the HTTP handler of the onboarding API.
type Router struct {
	cfg           config.HTTP
	rateLimit     config.RateLimit
	handler       *handler.Handler
	authenticator middleware.Authenticator
	checks        map[string]HealthCheck
	version       string
	logger        *logger.Logger
}

func New(
	cfg config.HTTP,
	rateLimit config.RateLimit,
	h *handler.Handler,
	authenticator middleware.Authenticator,
	checks map[string]HealthCheck,
	version string,
	logger *logger.Logger,
) *Router {
	return &Router{
		cfg:           cfg,
		rateLimit:     rateLimit,
		handler:       h,
		authenticator: authenticator,
		checks:        checks,
		version:       version,
		logger:        logger,
	}
}

// Register returns the root handler with every route and middleware installed.
func (r *Router) Register() http.Handler {
	obs.Init()

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		chimiddleware.Recoverer,
		obs.Instrument,
		middleware.NewLogging(r.logger).Handler,
		middleware.SecurityHeaders(docsPath, "/openapi"),
		middleware.CORS(r.cfg.AllowedOrigins),
	)

	router.Get(healthPath, r.health)
	router.Handle(metricsPath, obs.Handler())

	router.Group(func(api chi.Router) {
		api.Use(
			middleware.NewRateLimiter(r.rateLimit.PerSecond, r.rateLimit.Burst).Handler,
			chimiddleware.RequestSize(r.cfg.MaxBodyBytes),
		)
		r.registerAPI(api)
	})

	return router
}

func (r *Router) registerAPI(router chi.Router) {
	cfg := huma.DefaultConfig("Glowbook Onboarding API", r.version)
	cfg.DocsPath = docsPath
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		middleware.BearerScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	api := humachi.New(router, cfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBOR)
	api.UseMiddleware(middleware.NewAuth(api, r.authenticator, r.logger))

	r.handler.Register(api)
}

// addCBOR documents CBOR next to every JSON body.
func addCBOR(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if content, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = content
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if content, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = content
		}
	}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), checkTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok"}
	code := http.StatusOK
	if len(r.checks) > 0 {
		resp.Checks = make(map[string]string, len(r.checks))
	}
	for name, check := range r.checks {
		if err := check(ctx); err != nil {
			r.logger.Warn("HTTP router: health check failed",
				"check", name,
				"error", err.Error())
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
