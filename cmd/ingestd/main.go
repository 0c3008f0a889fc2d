package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/talentwire/ingest/internal/api"
	"github.com/talentwire/ingest/internal/classify"
	"github.com/talentwire/ingest/internal/config"
	"github.com/talentwire/ingest/internal/extract"
	"github.com/talentwire/ingest/internal/pipeline"
	"github.com/talentwire/ingest/internal/queue"
	"github.com/talentwire/ingest/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, cancel, cfg, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cancel context.CancelFunc, cfg config.Config, log *slog.Logger) error {
	// Backing services.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	files := store.NewFileRepository(db)
	if err := files.Migrate(); err != nil {
		return err
	}

	blobs, err := store.NewBlobSource(store.BlobConfig{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		return err
	}

	classifier, err := classify.NewClassifier(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		return err
	}

	// Extraction: docx is always local; the non-docx path uses the layout
	// service when configured, local PDF extraction otherwise.
	var layout extract.Extractor
	if cfg.LayoutEndpoint != "" {
		client := extract.NewLayoutClient(cfg.LayoutEndpoint, cfg.LayoutKey, cfg.LayoutPollInterval)
		layout = extract.NewLayoutExtractor(client, cfg.LayoutDeadline, log)
	} else {
		log.Warn("no layout endpoint configured, using local PDF extraction")
		layout = extract.NewLocalPDFExtractor()
	}
	router := extract.NewRouter(extract.NewDocxExtractor(), layout)

	forwarder := pipeline.NewMatchingForwarder(
		queue.NewPublisher(rdb), cfg.MatchingStream, cfg.ConsumerGroup, log)

	orch := pipeline.NewOrchestrator(blobs, router, classifier, files, forwarder, log)

	hostname, _ := os.Hostname()
	consumer := queue.NewConsumer(rdb, queue.ConsumerConfig{
		Stream:         cfg.ProcessingStream,
		Group:          cfg.ConsumerGroup,
		ConsumerName:   fmt.Sprintf("ingestd-%s-%d", hostname, os.Getpid()),
		ReclaimMinIdle: cfg.ReclaimMinIdle,
	}, orch.HandleMessage, log)
	if err := consumer.Start(ctx, cfg.WorkerCount); err != nil {
		return err
	}

	// Ops surface.
	srv := api.NewServer(log, map[string]api.Pinger{
		"redis": api.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
		"database": api.PingerFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		"storage": api.PingerFunc(blobs.Ping),
	})
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting ingestd",
		"port", cfg.Port,
		"stream", cfg.ProcessingStream,
		"workers", cfg.WorkerCount,
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	consumer.Wait()
	return nil
}
