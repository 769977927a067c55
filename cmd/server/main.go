package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/seu-repo/voice-profile-skill/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/voice-profile-skill/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/voice-profile-skill/internal/adapter/profile"
	"github.com/seu-repo/voice-profile-skill/internal/adapter/queue"
	"github.com/seu-repo/voice-profile-skill/internal/domain"
	"github.com/seu-repo/voice-profile-skill/internal/observability/telemetry"
	"github.com/seu-repo/voice-profile-skill/internal/service/health"
	"github.com/seu-repo/voice-profile-skill/internal/service/skill"
	"github.com/seu-repo/voice-profile-skill/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting voice profile skill",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Skill settings are fixed for the lifetime of the process
	settings, err := domain.NewSkillSettings(cfg.Skill.Mode)
	if err != nil {
		logger.Fatal("Invalid skill mode", zap.Error(err))
	}
	logger.Info("Skill mode selected",
		zap.String("mode", string(settings.Mode())),
		zap.Strings("permissions", settings.Permissions()),
	)

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry, cfg.App.Version)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Customer Profile API client
	profileClient := profile.NewClient(cfg.ProfileAPI, nil, logger)

	// 6. Initialize Message Queue (NATS) for interaction events
	healthCfg := &health.Config{
		Version:    cfg.App.Version,
		Mode:       string(settings.Mode()),
		ProfileAPI: profileClient,
	}
	var messageQueue queue.MessageQueue = queue.NoopQueue{}
	if cfg.Events.Enabled {
		natsQueue, err := queue.NewNATSQueue(cfg.NATS, cfg.App.Name, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		messageQueue = natsQueue
		healthCfg.Events = natsQueue
	}
	defer messageQueue.Close()

	// 7. Router and interceptors
	router := skill.NewRouter(settings, profileClient, logger)
	router.AddRequestInterceptors(skill.NewLogRequestInterceptor(logger))
	router.AddResponseInterceptors(skill.NewLogResponseInterceptor(logger))
	if cfg.Events.Enabled {
		router.AddResponseInterceptors(skill.NewEventInterceptor(messageQueue, cfg.Events.Subject, logger))
	}

	// 8. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	// Health Check Endpoints
	healthService := health.NewService(healthCfg, logger)
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// Skill webhook
	skillHandler := handlers.NewSkillHandler(router, logger)
	app.Post(cfg.HTTP.SkillPath,
		middleware.RateLimit(cfg.RateLimiting),
		middleware.CircuitBreaker(cfg.CircuitBreaker, logger),
		middleware.VerifyApplicationID(cfg.Skill.ApplicationIDs),
		skillHandler.Handle,
	)

	// 9. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server",
			zap.Int("port", cfg.HTTP.Port),
			zap.String("skill_path", cfg.HTTP.SkillPath),
		)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 10. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
