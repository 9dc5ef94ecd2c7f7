package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"prospector/internal/aggregator"
	"prospector/internal/config"
	"prospector/internal/publisher"
	"prospector/internal/scheduler"
	"prospector/internal/service"
	"prospector/internal/source/algolia"
	"prospector/internal/source/feed"
	"prospector/internal/source/github"
	"prospector/internal/source/reddit"
	"prospector/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize RabbitMQ publisher
	rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	// Initialize run state store
	runStateStore := postgres.NewRunStateStore(db)

	timeout := cfg.Prospect.ConnectorTimeout

	// Connector declaration order is the dedup tie-break precedence.
	connectors := []aggregator.Connector{
		github.New(github.Config{
			Query:   cfg.Sources.GitHub.Query,
			Limit:   cfg.Sources.GitHub.Limit,
			Token:   cfg.Sources.GitHub.Token,
			Timeout: timeout,
		}, logger),
		reddit.New(reddit.Config{
			Subreddit: cfg.Sources.Reddit.Subreddit,
			Limit:     cfg.Sources.Reddit.Limit,
			Timeout:   timeout,
		}, logger),
		algolia.New(algolia.Config{
			Query:   cfg.Sources.HackerNews.Query,
			Limit:   cfg.Sources.HackerNews.Limit,
			Timeout: timeout,
		}, logger),
		feed.New(feed.Config{
			URL:     cfg.Sources.Feed.URL,
			Timeout: timeout,
		}, logger),
	}

	for _, c := range connectors {
		logger.Info("configured connector", "id", c.ID(), "name", c.Name())
	}

	agg := aggregator.New(connectors, timeout, logger)

	prospectService := service.NewProspectService(
		agg,
		runStateStore,
		rabbitMQ,
		logger,
	)

	sched := scheduler.NewScheduler(prospectService, cfg.Prospect.Interval, cfg.Prospect.RunTimeout, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting prospector",
		"connectors", len(connectors),
		"interval", cfg.Prospect.Interval,
		"connector_timeout", timeout,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
