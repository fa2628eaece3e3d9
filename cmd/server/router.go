package main

import (
	"context"
	"net/http"

	"github.com/benvon/goaltracker/internal/config"
	"github.com/benvon/goaltracker/internal/events"
	"github.com/benvon/goaltracker/internal/handlers"
	"github.com/benvon/goaltracker/internal/metrics"
	"github.com/benvon/goaltracker/internal/middleware"
	"github.com/benvon/goaltracker/internal/telemetry"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

type routerDeps struct {
	cfg         *config.Config
	logger      *zap.Logger
	store       handlers.GoalService
	publisher   events.Publisher
	redisClient *redis.Client
	metrics     *metrics.Metrics
	tracing     bool
	version     string
}

// newRouter wires middleware and routes. gorilla/mux runs middleware in registration
// order, so the first r.Use is the outermost wrapper.
func newRouter(deps routerDeps) (*mux.Router, error) {
	cfg, zapLogger := deps.cfg, deps.logger

	limiterStore, err := middleware.NewLimiterStore(deps.redisClient)
	if err != nil {
		return nil, err
	}
	rateLimitMW, err := middleware.RateLimit(limiterStore, cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	if deps.tracing {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
		zapLogger.Info("otel_middleware_enabled")
	}
	if deps.metrics != nil {
		r.Use(deps.metrics.Middleware)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(zapLogger))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORS(cfg.AllowedOrigins(), zapLogger))
	r.Use(middleware.MaxRequestSize(int64(cfg.MaxRequestBytes)))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(cfg.Timeout()))

	// mux only runs middleware on matched routes, so preflights need a route of their own.
	// It is registered first so subrouter 405 handlers never see OPTIONS.
	r.MatcherFunc(func(req *http.Request, _ *mux.RouteMatch) bool {
		return req.Method == http.MethodOptions
	}).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public routes (no rate limiting for health checks)
	healthChecker := handlers.NewHealthChecker()
	if deps.publisher != nil {
		healthChecker.AddCheck("events", deps.publisher.HealthCheck)
	}
	if deps.redisClient != nil {
		client := deps.redisClient
		healthChecker.AddCheck("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", handlers.VersionInfo(deps.version)).Methods("GET")
	if deps.metrics != nil {
		r.Handle("/metrics", deps.metrics.Handler()).Methods("GET")
	}

	handlers.NewOpenAPIHandler(cfg.OpenAPIPath).RegisterRoutes(r)

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	handlers.RegisterCatalogRoutes(apiRouter)

	goalsRouter := apiRouter.PathPrefix("/goals").Subrouter()
	handlers.NewGoalHandler(deps.store, zapLogger.Named("handlers")).RegisterRoutes(goalsRouter)

	notFound := fallbackHandler(cfg, zapLogger, handlers.NotFound)
	methodNotAllowed := fallbackHandler(cfg, zapLogger, handlers.MethodNotAllowed)
	for _, router := range []*mux.Router{r, apiRouter, goalsRouter} {
		router.NotFoundHandler = notFound
		router.MethodNotAllowedHandler = methodNotAllowed
	}

	return r, nil
}

// fallbackHandler wraps the 404/405 handlers in the middleware mux skips for unmatched requests.
func fallbackHandler(cfg *config.Config, logger *zap.Logger, h http.HandlerFunc) http.Handler {
	var handler http.Handler = h
	handler = middleware.CORS(cfg.AllowedOrigins(), logger)(handler)
	handler = middleware.SecurityHeaders(cfg.EnableHSTS)(handler)
	handler = middleware.Logging(logger)(handler)
	return middleware.RequestID(handler)
}
