// Command worker runs the outbox relay and the event consumers.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go-interview-scheduler/config"
	"go-interview-scheduler/internal/calendarsync"
	"go-interview-scheduler/internal/consumer"
	"go-interview-scheduler/internal/notifier"
	"go-interview-scheduler/internal/outbox"
	"go-interview-scheduler/pkg/database"
	"go-interview-scheduler/pkg/email"
	"go-interview-scheduler/pkg/kafkax"
	"go-interview-scheduler/pkg/logger"
	"go-interview-scheduler/pkg/otelx"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel, "service", "scheduling-worker", "env", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otelx.Setup(ctx, otelx.Config{
		Enabled:      cfg.OtelEnabled,
		ServiceName:  "scheduling-worker",
		OTLPEndpoint: cfg.OtelEndpoint,
		SampleRatio:  cfg.OtelSampleRatio,
	})
	if err != nil {
		logger.Log.Error("Failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolConfig{MaxConns: 5})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.KafkaBrokers == "" {
		logger.Log.Error("KAFKA_BROKERS is required for the worker")
		os.Exit(1)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := kafkax.Ping(pingCtx, cfg.KafkaBrokers); err != nil {
		logger.Log.Warn("Kafka not reachable yet, components will retry", "error", err)
	}
	cancel()

	inbox := consumer.NewPostgresInbox(pool)
	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Log.Info("component started", "component", name)
			fn(ctx)
			logger.Log.Info("component stopped", "component", name)
		}()
	}

	// Outbox relay
	relay := outbox.NewRelay(pool, outbox.NewRepository(), outbox.RelayConfig{
		Brokers:   cfg.KafkaBrokers,
		PollEvery: cfg.OutboxPollInterval,
		BatchSize: cfg.OutboxBatchSize,
	})
	run("outbox-relay", relay.Run)

	// Notifier
	mailer := email.NewEmailService(email.Config{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
	})
	if mailer.IsConfigured() {
		notify := notifier.New(mailer, cfg.FrontendURL)
		notifierConsumer := consumer.New(consumer.Config{
			Name:    "notifier",
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.NotifierGroupID,
			Topics:  notifier.Topics,
		}, inbox, notify.Handle)
		run("notifier", notifierConsumer.Run)
	} else {
		logger.Log.Warn("SMTP not configured, notifier disabled")
	}

	// Calendar sync
	googleCfg := calendarsync.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
		CalendarID:   cfg.GoogleCalendarID,
	}
	if googleCfg.Enabled() {
		gcal, err := calendarsync.NewGoogleCalendar(ctx, googleCfg)
		if err != nil {
			logger.Log.Error("Failed to create calendar client", "error", err)
			os.Exit(1)
		}
		syncer := calendarsync.New(gcal, calendarsync.NewPostgresLinks(pool))
		calendarConsumer := consumer.New(consumer.Config{
			Name:    "calendar-sync",
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.CalendarSyncGroupID,
			Topics:  calendarsync.Topics,
		}, inbox, syncer.Handle)
		run("calendar-sync", calendarConsumer.Run)
	} else {
		logger.Log.Warn("Google calendar credentials missing, calendar sync disabled")
	}

	<-ctx.Done()
	logger.Log.Info("Shutting down worker...")
	wg.Wait()
	logger.Log.Info("Worker exiting")
}
