package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/society/internal/amqp"
	"github.com/dukerupert/society/internal/config"
	"github.com/dukerupert/society/internal/database"
	"github.com/dukerupert/society/internal/events"
	"github.com/dukerupert/society/internal/logging"
	"github.com/dukerupert/society/internal/server"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sinks []events.Broadcaster
	if cfg.AMQPURL != "" {
		publisher, err := amqp.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger.With("component", "amqp"))
		if err != nil {
			logger.Error("failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		go publisher.Run(ctx)
		sinks = append(sinks, publisher)
		logger.Info("publishing change messages", "exchange", cfg.AMQPExchange)
	}

	srv := server.New(db, cfg, logger, sinks...)
	if rl := srv.RateLimiter(); rl != nil {
		go rl.RunCleanup(ctx, 5*time.Minute)
	}
	if b := srv.Backups(); b.Enabled() {
		go b.Run(ctx)
		logger.Info("database backups enabled", "bucket", cfg.BackupS3Bucket, "interval_hours", cfg.BackupIntervalHours)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("society API listening", "addr", httpServer.Addr, "db", cfg.DBPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
