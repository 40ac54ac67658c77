package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/meetingdash/meeting-reconciler/pkg/validator"

	"github.com/meetingdash/meeting-reconciler/internal/adapter/handler"
	"github.com/meetingdash/meeting-reconciler/internal/adapter/repository"
	"github.com/meetingdash/meeting-reconciler/internal/domain/repositories"
	"github.com/meetingdash/meeting-reconciler/internal/infrastructure/cache"
	"github.com/meetingdash/meeting-reconciler/internal/infrastructure/database"
	"github.com/meetingdash/meeting-reconciler/internal/infrastructure/external/sourceapi"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/reconcile"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/status"
	"github.com/meetingdash/meeting-reconciler/internal/usecase/trigger"
	"github.com/meetingdash/meeting-reconciler/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	log.Println("🔧 Initializing dependencies...")

	// Database is optional: without it the engine still reconciles and
	// triggers, it just cannot persist action items and analysis records.
	var actionItemRepo repositories.ActionItemRepository
	var analysisRepo repositories.AnalysisRepository

	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Printf("⚠️  Database unavailable, persistence disabled: %v", err)
	} else {
		applied, err := database.RunMigrations(db, "migrations")
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Printf("🔄 Applied %d migration(s)", applied)

		actionItemRepo = repository.NewActionItemRepository(db)
		analysisRepo = repository.NewAnalysisRepository(db)
	}

	// Redis is optional: without it there is no warm-start snapshot.
	log.Println("📦 Connecting to Redis...")
	var snapshot reconcile.Snapshotter
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable, snapshot cache disabled: %v", err)
	} else {
		defer redisClient.Close()
		snapshot = cache.NewSnapshotCache(redisClient, cfg.Reconciler.SnapshotTTL)
	}

	log.Println("🌐 Initializing source API client...")
	sourceClient := sourceapi.NewClient(&cfg.SourceAPI)

	log.Println("⚙️  Initializing reconciliation engine...")
	store := reconcile.NewMeetingStore()
	normalizer := status.NewNormalizer(nil)

	triggerService := trigger.NewService(
		sourceClient,
		store,
		actionItemRepo,
		analysisRepo,
		trigger.Config{
			Workers:         cfg.Reconciler.TriggerWorkers,
			MaxRetries:      cfg.Reconciler.TranscriptMaxRetries,
			RecordingMinAge: cfg.Reconciler.RecordingMinAge,
		},
		logger,
	)

	poller := reconcile.NewService(
		store,
		normalizer,
		sourceClient,
		triggerService,
		snapshot,
		cfg.Reconciler.PollInterval,
		logger,
	)

	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()

	if err := poller.Start(pollerCtx); err != nil {
		log.Fatalf("Failed to start reconciliation loop: %v", err)
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeetingHandler(store, poller, actionItemRepo, analysisRepo, logger)

	var actionItemHandler *handler.ActionItem
	if actionItemRepo != nil {
		actionItemHandler = handler.NewActionItemHandler(actionItemRepo, store, logger)
	}

	router := handler.NewRouter(cfg, meetingHandler, actionItemHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Env)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	if err := poller.Stop(); err != nil {
		log.Printf("⚠️  Failed to stop reconciliation loop: %v", err)
	}
	triggerService.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
