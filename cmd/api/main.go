package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/api"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/inbox"
	"portfolio/internal/logging"
	"portfolio/internal/mail"
	"portfolio/internal/seed"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

func main() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}

	cfg := config.MustLoad()
	logger, closeLog := logging.New(cfg.Log)
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("api bootstrapped",
		slog.String("db_driver", cfg.Database.Driver),
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		fatal(logger, "init database", err)
	}
	if err := database.Migrate(db); err != nil {
		fatal(logger, "auto migrate", err)
	}
	logger.Info("database migrated")

	sqlDB, err := db.DB()
	if err != nil {
		fatal(logger, "obtain sql.DB", err)
	}

	var (
		redisClient *redis.Client
		locker      seed.Locker
		publisher   inbox.Publisher = inbox.NopPublisher{}
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		defer redisClient.Close()
		locker = seed.NewRedisLocker(redisClient)
		publisher = inbox.NewRedisPublisher(redisClient)
		logger.Info("redis configured", slog.String("addr", cfg.Redis.Addr()))
	}

	if cfg.API.SeedOnStartup {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		report, err := seed.New(db, locker, logger).Run(ctx)
		cancel()
		if err != nil {
			fatal(logger, "seed database", err)
		}
		logger.Info("seed finished",
			slog.Any("seeded", report.Seeded),
			slog.Any("marked", report.Marked),
			slog.Any("skipped", report.Skipped),
		)
	}

	var signer api.URLSigner
	if cfg.MinIO.Enabled() {
		storageClient, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			fatal(logger, "init minio", err)
		}
		signer = storageClient
		logger.Info("object storage ready", slog.String("bucket", cfg.MinIO.Bucket))
	}

	var sender mail.Sender
	if cfg.Mail.Enabled() {
		sender = mail.NewSMTPSender(cfg.Mail)
	} else {
		logger.Warn("smtp not configured, contact notifications disabled")
	}
	notifier := mail.NewNotifier(cfg.Mail, sender, logger)

	if cfg.API.AdminSecret == "" {
		logger.Warn("ADMIN_SECRET is empty, admin endpoints will reject requests")
	}

	router := api.NewRouter(logger, sqlDB)
	api.RegisterRoutes(router, cfg.API.BasePath, api.Dependencies{
		Store:          store.New(db),
		Media:          api.NewMediaResolver(signer, cfg.API.MediaBaseURL),
		Notifier:       notifier,
		Publisher:      publisher,
		RedisClient:    redisClient,
		AdminSecret:    cfg.API.AdminSecret,
		AllowedOrigins: cfg.API.CORSOrigins(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           api.WithCORS(router, cfg.API.CORSOrigins()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "start api server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down api")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
	_ = sqlDB.Close()
}

func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}
