// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/application/container"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	tables "github.com/AtRiskMedia/pagetree-go/internal/infrastructure/database"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/document"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/starters"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/http/server"
	"github.com/AtRiskMedia/pagetree-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives
func Initialize() error {
	setupGinMode()
	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Logging
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig(), logger.Perf())
	logger.Startup().Info("Starting page tree editor", "port", config.Port, "logLevel", config.LogLevel)

	// Step 2: Database
	phaseStart := time.Now()
	db, err := openDatabase(logger)
	if err != nil {
		logger.LogStartupPhase("database", time.Since(phaseStart), false, map[string]any{"error": err.Error()})
		return err
	}
	defer db.Close()
	logger.LogStartupPhase("database", time.Since(phaseStart), true, map[string]any{"driver": db.Driver})

	// Step 3: Container
	phaseStart = time.Now()
	appContainer, err := container.NewContainer(db, logger, perfTracker)
	if err != nil {
		logger.LogStartupPhase("container", time.Since(phaseStart), false, map[string]any{"error": err.Error()})
		return err
	}
	logger.LogStartupPhase("container", time.Since(phaseStart), true, map[string]any{"starters": appContainer.Starters.Names()})

	// Step 4: Seed content
	phaseStart = time.Now()
	seeded, err := seedStarter(db, appContainer.Starters, config.SeedStarter)
	if err != nil {
		logger.Startup().Warn("Seeding skipped", "starter", config.SeedStarter, "error", err.Error())
	}
	logger.LogStartupPhase("seed", time.Since(phaseStart), err == nil, map[string]any{"seeded": seeded, "starter": config.SeedStarter})

	// Step 5: Background cleanup worker
	go appContainer.CleanupWorker.Start(ctx)

	// Step 6: HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete", "totalDuration", time.Since(start), "port", config.Port)

	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			return err
		}
	}

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	for _, id := range appContainer.Sessions.IDs() {
		appContainer.Broadcaster.CloseSession(id)
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart),
		"openSessions", appContainer.Sessions.Len())
	return nil
}

func setupGinMode() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
}

func newLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.JSONFormat = config.LogJSON
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	level, err := logging.ParseLevel(config.LogLevel)
	if err != nil {
		log.Printf("Ignoring LOG_LEVEL: %v", err)
	} else {
		cfg.DefaultLevel = level
	}
	return logging.NewChanneledLogger(cfg)
}

func openDatabase(logger *logging.ChanneledLogger) (*database.DB, error) {
	if config.DBDriver != database.DriverLibSQL && config.TursoDatabaseURL == "" {
		if err := os.MkdirAll(filepath.Dir(config.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	driver := config.DBDriver
	if config.TursoDatabaseURL != "" {
		driver = database.DriverLibSQL
	}
	db, err := database.Open(driver, config.DBPath, config.TursoDatabaseURL, config.TursoAuthToken, database.Options{
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: config.DBConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}
	if err := tables.NewTableCreator().CreateSchema(db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// seedStarter stores the named starter as the first document of an empty
// store
func seedStarter(db *database.DB, provider *starters.Provider, name string) (bool, error) {
	if name == "" {
		return false, nil
	}
	starter, err := provider.Load(name)
	if err != nil {
		return false, err
	}
	state := pagetree.NewPageTreeState()
	state.RootNodeID = starter.RootNodeID
	for _, n := range starter.Nodes {
		state.Nodes[n.ID] = n
	}
	doc, err := document.FromState(state, time.Now().UTC())
	if err != nil {
		return false, err
	}
	body, err := doc.Encode()
	if err != nil {
		return false, err
	}
	return tables.NewTableCreator().SeedInitialContent(db.DB, tables.SeedDocument{
		Slug:    starter.Name,
		Title:   starter.Title,
		Version: doc.Version,
		Body:    body,
	})
}
