package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/goaltracker/internal/config"
	"github.com/benvon/goaltracker/internal/events"
	"github.com/benvon/goaltracker/internal/goals"
	"github.com/benvon/goaltracker/internal/logger"
	"github.com/benvon/goaltracker/internal/metrics"
	"github.com/benvon/goaltracker/internal/middleware"
	"github.com/benvon/goaltracker/internal/store"
	"github.com/benvon/goaltracker/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.New(cfg.LogFormat, debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger) // stderr sync errors are expected on some platforms
	}()

	zapLogger.Info("starting_server",
		zap.String("version", version),
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.Strings("allowed_origins", cfg.AllowedOrigins()),
		zap.String("event_sink", cfg.EventSink),
		zap.String("streak_timezone", cfg.Location().String()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
	)

	tracingEnabled := false
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), telemetry.ServiceName, version, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracingEnabled = true
				zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Redis backs both the shared rate limiter and the redis event sink
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = connectWithRetry(zapLogger, "redis", defaultRetryPolicy, func() (*redis.Client, error) {
			return middleware.NewRedisClient(cfg.RedisURL)
		})
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis_after_retries", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		zapLogger.Info("connected_to_redis")
	}

	publisher, err := newPublisher(cfg, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_create_event_publisher", zap.Error(err))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zapLogger.Warn("failed_to_close_event_publisher", zap.Error(err))
		}
	}()

	storeOpts := []store.Option{
		store.WithPublisher(publisher),
		store.WithLogger(zapLogger.Named("store")),
	}
	var serviceMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		serviceMetrics = metrics.New()
		storeOpts = append(storeOpts, store.WithRecorder(serviceMetrics))
	}

	engine := goals.NewEngine(goals.WithLocation(cfg.Location()))
	goalStore := store.New(engine, storeOpts...)

	r, err := newRouter(routerDeps{
		cfg:         cfg,
		logger:      zapLogger,
		store:       goalStore,
		publisher:   publisher,
		redisClient: redisClient,
		metrics:     serviceMetrics,
		tracing:     tracingEnabled,
		version:     version,
	})
	if err != nil {
		zapLogger.Fatal("failed_to_build_router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.Timeout() + 5*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	go func() {
		zapLogger.Info("server_starting", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down", zap.Int("goals", goalStore.Count()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

// newPublisher builds the configured event sink. Broker sinks are paired with the log sink
// so every achievement is also visible in the service log.
func newPublisher(cfg *config.Config, redisClient *redis.Client, zapLogger *zap.Logger) (events.Publisher, error) {
	logSink := events.NewLogPublisher(zapLogger.Named("events"))

	switch cfg.EventSink {
	case config.EventSinkRabbitMQ:
		mq, err := connectWithRetry(zapLogger, "rabbitmq", defaultRetryPolicy, func() (*events.RabbitMQPublisher, error) {
			return events.NewRabbitMQPublisher(cfg.RabbitMQURL)
		})
		if err != nil {
			return nil, err
		}
		zapLogger.Info("connected_to_rabbitmq", zap.String("exchange", events.DefaultExchangeName))
		return events.NewFanout(logSink, mq), nil
	case config.EventSinkNATS:
		nc, err := connectWithRetry(zapLogger, "nats", defaultRetryPolicy, func() (*events.NATSPublisher, error) {
			return events.NewNATSPublisher(cfg.NATSURL, cfg.EventChannel)
		})
		if err != nil {
			return nil, err
		}
		zapLogger.Info("connected_to_nats")
		return events.NewFanout(logSink, nc), nil
	case config.EventSinkRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis event sink requires REDIS_URL")
		}
		return events.NewFanout(logSink, events.NewRedisPublisherWithClient(redisClient, cfg.EventChannel)), nil
	default:
		return logSink, nil
	}
}
