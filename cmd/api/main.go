package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/johnquangdev/lasto/docs"
	pkgvalidator "github.com/johnquangdev/lasto/pkg/validator"

	"github.com/johnquangdev/lasto/internal/adapter/handler"
	"github.com/johnquangdev/lasto/internal/adapter/repository"
	"github.com/johnquangdev/lasto/internal/domain/entities"
	"github.com/johnquangdev/lasto/internal/infrastructure/cache"
	"github.com/johnquangdev/lasto/internal/infrastructure/cloudkv"
	"github.com/johnquangdev/lasto/internal/infrastructure/database"
	httpmw "github.com/johnquangdev/lasto/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/lasto/internal/usecase/cloudsync"
	"github.com/johnquangdev/lasto/internal/usecase/editor"
	"github.com/johnquangdev/lasto/internal/usecase/settings"
	"github.com/johnquangdev/lasto/internal/usecase/transcript"
	"github.com/johnquangdev/lasto/internal/usecase/transcription"
	pkgai "github.com/johnquangdev/lasto/pkg/ai"
	"github.com/johnquangdev/lasto/pkg/config"
)

// @title           Lasto API
// @version         1.0
// @description     Transcript editor backend: archive, speaker editing, AssemblyAI transcription and cloud backup.

// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var logger *zap.Logger
	if cfg.Server.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.RequestID())
	e.Use(httpmw.RequestLogger(logger))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	log.Println("🔧 Initializing dependencies...")

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		log.Println("🔄 Applying sql-migrate migrations...")
		n, err := database.Migrate(db, cfg.Database.Driver)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Printf("✅ Applied %d migration(s)", n)
	} else {
		log.Println("🔄 Skipping migrations; run cmd/migrate to manage the schema")
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	transcriptRepo := repository.NewTranscriptRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Editor and transcript store
	log.Println("📝 Initializing editor...")
	ed := editor.New(cfg.LocaleTag())
	edits := cache.NewMemoryStore()
	defer edits.Close()
	transcriptService := transcript.NewService(transcriptRepo, ed, edits, nil, cfg.Editor, logger)

	settingsService := settings.NewService(settingsRepo, entities.KeyBackup{
		AssemblyAIKey: cfg.Assembly.APIKey,
		PantryID:      cfg.Sync.PantryID,
	}, logger)

	// Cloud backup
	log.Printf("☁️  Initializing cloud sync (%s)...", cfg.Sync.Backend)
	backend, closeBackend, err := newBackend(cfg, settingsService)
	if err != nil {
		log.Fatalf("Failed to initialize cloud backend: %v", err)
	}
	defer closeBackend()
	syncer := cloudsync.NewSyncer(backend, transcriptRepo, transcriptService, cfg.Sync, logger)
	transcriptService.SetPusher(syncer)
	settingsService.SetPusher(syncer)

	// Transcription
	log.Println("🤖 Initializing AssemblyAI transcription...")
	transcriptionService := transcription.NewService(
		transcriptRepo,
		ed,
		transcription.NewCleaner(cfg.Editor.FillerWords),
		func(apiKey string) transcription.Client {
			return pkgai.NewAssemblyAIClient(apiKey, &cfg.Assembly)
		},
		settingsService,
		syncer,
		cfg.Poll,
		logger,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if n, err := transcriptionService.Resume(ctx); err != nil {
		logger.Warn("⚠️ Failed to resume pending transcriptions", zap.Error(err))
	} else if n > 0 {
		logger.Info("🔁 Resumed pending transcriptions", zap.Int("count", n))
	}

	go syncer.Run(ctx)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg,
		handler.NewTranscriptHandler(transcriptService, logger),
		handler.NewSpeakerHandler(transcriptService, logger),
		handler.NewJobHandler(transcriptionService, logger),
		handler.NewSyncHandler(syncer, logger),
		handler.NewSettingsHandler(settingsService, logger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
	}

	// Drafts still waiting for their debounce timer are saved now
	if err := transcriptService.FlushAll(shutdownCtx); err != nil {
		logger.Error("❌ Failed to save pending drafts", zap.Error(err))
	}
	transcriptionService.Shutdown()
	stop()

	log.Println("✅ Server stopped gracefully")
}

// newBackend builds the configured cloud store. A nil backend disables sync.
func newBackend(cfg *config.Config, ids cloudkv.IDSource) (cloudsync.Backend, func(), error) {
	noop := func() {}
	switch cfg.Sync.Backend {
	case "pantry":
		return cloudkv.NewPantryClient(&cfg.Sync, ids), noop, nil
	case "redis":
		client, err := cache.NewRedisClient(cfg)
		if err != nil {
			return nil, noop, err
		}
		return cloudkv.NewRedisStore(client, cfg.Sync.Basket, ids), func() { client.Close() }, nil
	case "minio":
		store, err := cloudkv.NewMinIOStore(&cfg.Storage, cfg.Sync.Basket, ids)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	}
	return nil, noop, nil
}
