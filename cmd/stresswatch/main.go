package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stresswatch/internal/config"
	"stresswatch/internal/database"
	"stresswatch/internal/events"
	httpapi "stresswatch/internal/http"
	"stresswatch/internal/inference"
	logpkg "stresswatch/internal/logger"
	"stresswatch/internal/repository"
	"stresswatch/internal/service"
	"stresswatch/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logpkg.New(cfg.Log.Level, cfg.Log.Format, "stresswatch")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting stresswatch service")

	// Repositories: Postgres when available, in-memory fallback otherwise so
	// the service stays runnable with plain `go run` in dev.
	var (
		subjectsRepo   repository.SubjectsRepo
		detectionsRepo repository.DetectionsRepo
	)
	if cfg.DBEnabled {
		db, err := database.NewPostgresDB(&cfg.Database)
		if err != nil {
			log.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		} else {
			defer db.Close()
			subjectsRepo = repository.NewPostgresSubjectsRepo(db)
			detectionsRepo = repository.NewPostgresDetectionsRepo(db)
			log.Info("DB enabled for stresswatch")
		}
	}
	if subjectsRepo == nil {
		memSubjects := repository.NewMemorySubjectsRepo()
		memDetections := repository.NewMemoryDetectionsRepo()
		memSubjects.SetCascade(memDetections)
		subjectsRepo = memSubjects
		detectionsRepo = memDetections
	}

	// Redis backs the label cache and the detection event stream; both are
	// optional and the pipeline runs without them.
	var (
		labelCache store.KV
		publisher  events.Publisher
	)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis unavailable, label cache and event stream disabled", zap.Error(err))
		} else {
			labelCache = store.NewRedisKV(redisClient)
			publisher = events.NewStreamPublisher(redisClient, cfg.Events.Stream)
			defer redisClient.Close()
		}
		cancel()
	}

	oracle := inference.NewClient(cfg.Inference.URL, cfg.Inference.Timeout, log)
	assistant := service.NewAssistantClient(cfg.Assistant.URL, cfg.Assistant.Timeout, log)

	detectionSvc := service.NewDetectionService(detectionsRepo, subjectsRepo, oracle, labelCache, publisher, log)

	router := httpapi.NewRouter(log)
	router.RegisterAPIRoutes(
		httpapi.NewSubjectHandler(subjectsRepo, detectionSvc, log),
		httpapi.NewAssistantHandler(assistant, log),
	)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("HTTP server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping server", zap.Error(err))
	}

	log.Info("Service stopped")
}
