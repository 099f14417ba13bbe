package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-interview-scheduler/config"
	_ "go-interview-scheduler/docs" // Important for Swagger
	v1 "go-interview-scheduler/internal/delivery/http/v1"
	"go-interview-scheduler/internal/outbox"
	"go-interview-scheduler/internal/repository/postgres"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/audit"
	"go-interview-scheduler/pkg/auth"
	"go-interview-scheduler/pkg/database"
	"go-interview-scheduler/pkg/logger"
	"go-interview-scheduler/pkg/otelx"
	"go-interview-scheduler/pkg/redis"
	"go-interview-scheduler/pkg/roomprovider"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// @title           Interview Scheduling API
// @version         1.0
// @description     Availability publishing, slot discovery and interview booking.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers and tracing
	logger.Init(cfg.LogLevel, "service", "scheduling-api", "env", cfg.Environment)
	auditLog := audit.Init("scheduling-api", cfg.Environment)
	defer auditLog.Sync()
	logger.Log.Info("Starting scheduling api", "port", cfg.Port)

	ctx := context.Background()
	shutdownTracing, err := otelx.Setup(ctx, otelx.Config{
		Enabled:      cfg.OtelEnabled,
		ServiceName:  "scheduling-api",
		OTLPEndpoint: cfg.OtelEndpoint,
		SampleRatio:  cfg.OtelSampleRatio,
	})
	if err != nil {
		logger.Log.Error("Failed to set up tracing", "error", err)
		os.Exit(1)
	}

	// 3. Setup Database and Redis
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolConfig{})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := redis.Initialize(redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
	}
	defer redis.Close()

	// 4. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	profileRepo := postgres.NewAvailabilityRepository(dbPool)
	windowRepo := postgres.NewTimeWindowRepository(dbPool)
	eventRepo := postgres.NewEventRepository(dbPool)
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	invitationRepo := postgres.NewInvitationRepository(dbPool)

	// 5. Setup collaborators
	publisher := outbox.NewPublisher(dbPool, outbox.NewRepository())

	var recordings roomprovider.RecordingStore
	if cfg.RecordingsS3Bucket != "" {
		store, err := roomprovider.NewS3Recordings(ctx, roomprovider.S3Config{
			Region:          cfg.RecordingsS3Region,
			Bucket:          cfg.RecordingsS3Bucket,
			AccessKeyID:     cfg.RecordingsS3AccessKey,
			SecretAccessKey: cfg.RecordingsS3SecretKey,
			Endpoint:        cfg.RecordingsS3Endpoint,
			URLTTL:          cfg.RecordingsURLTTL,
		})
		if err != nil {
			logger.Log.Warn("Recording storage unavailable", "error", err)
		} else {
			recordings = store
		}
	}
	rooms := roomprovider.New(roomprovider.Config{
		BaseURL:   cfg.RoomProviderBaseURL,
		AccessKey: cfg.RoomProviderAccessKey,
		Secret:    cfg.RoomProviderSecret,
		Timeout:   cfg.RoomProviderTimeout,
		TokenTTL:  cfg.RoomTokenTTL,
	}, &http.Client{
		Timeout:   cfg.RoomProviderTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}, recordings)

	// 6. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo)
	availabilityUC := usecase.NewAvailabilityUsecase(profileRepo, windowRepo, eventRepo, userRepo, cfg.DefaultTimezone)
	eventUC := usecase.NewEventUsecase(eventRepo)
	schedulingUC := usecase.NewSchedulingUsecase(profileRepo, interviewRepo, eventRepo, userRepo, rooms, publisher, cfg.DefaultTimezone)
	invitationUC := usecase.NewInvitationUsecase(invitationRepo, eventRepo, userRepo, publisher)
	healthUC := usecase.NewHealthUsecase(
		usecase.HealthCheck{Name: "database", Probe: dbPool.Ping},
		usecase.HealthCheck{Name: "redis", Optional: true, Probe: redis.HealthCheck},
	)

	// 7. Setup Auth (JWKS + shared secret)
	var jwksProvider *auth.Provider
	if cfg.SupabaseUrl != "" {
		jwksProvider = auth.NewProvider(cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json")
	}
	verifier := auth.NewVerifier(jwksProvider, cfg.SupabaseJWTSecret)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:         authUC,
		AvailabilityUC: availabilityUC,
		EventUC:        eventUC,
		SchedulingUC:   schedulingUC,
		InvitationUC:   invitationUC,
		HealthUC:       healthUC,
		Verifier:       verifier,
		Config:         cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(router, "scheduling-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Log.Warn("Tracer shutdown failed", "error", err)
	}

	logger.Log.Info("Server exiting")
}
