// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/AtRiskMedia/pagetree-go/internal/application/services"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/tailwind"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/content"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/starters"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/templates"
	"github.com/AtRiskMedia/pagetree-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services
	EditorService   *services.EditorService
	DocumentService *services.DocumentService
	AuthService     *services.AuthService

	// Domain and rendering
	Compiler *tailwind.Compiler
	Renderer *templates.Renderer
	Starters *starters.Provider

	// Infrastructure Dependencies
	DB            *database.DB
	DocumentCache *stores.DocumentStore
	Sessions      *stores.SessionStore
	Broadcaster   *messaging.TreeBroadcaster
	CleanupWorker *cleanup.Worker
	Logger        *logging.ChanneledLogger
	PerfTracker   *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) (*Container, error) {
	starterProvider, err := starters.NewProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to load starter templates: %w", err)
	}

	compiler := tailwind.NewCompiler(tailwind.Variants{Tablet: config.TabletVariant, Mobile: config.MobileVariant})
	renderer := templates.NewRenderer(compiler, logger)

	documentCache := stores.NewDocumentStore(config.DocumentCacheTTL, logger)
	sessions := stores.NewSessionStore(config.MaxSessions, logger)
	broadcaster := messaging.NewTreeBroadcaster(logger, config.SocketPingInterval, config.SocketWriteTimeout)
	documentRepo := content.NewDocumentRepository(db.DB, documentCache, logger)
	images := media.NewImageProcessor(config.ImageMaxWidth, config.WebPQuality, config.MaxUploadBytes, logger)

	authService, err := services.NewAuthService(services.AuthConfig{
		Username:     config.EditorUser,
		PasswordHash: config.EditorPasswordHash,
		JWTSecret:    config.JWTSecret,
		TokenTTL:     config.TokenTTL,
	}, logger, perfTracker)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	editorService := services.NewEditorService(
		sessions,
		documentRepo,
		starterProvider,
		compiler,
		renderer,
		images,
		broadcaster,
		config.HistoryLimit,
		logger,
		perfTracker,
	)

	return &Container{
		EditorService:   editorService,
		DocumentService: services.NewDocumentService(documentRepo, renderer, logger),
		AuthService:     authService,

		Compiler: compiler,
		Renderer: renderer,
		Starters: starterProvider,

		DB:            db,
		DocumentCache: documentCache,
		Sessions:      sessions,
		Broadcaster:   broadcaster,
		CleanupWorker: cleanup.NewWorker(sessions, documentCache, cleanup.NewConfig(), logger, broadcaster.CloseSession),
		Logger:        logger,
		PerfTracker:   perfTracker,
	}, nil
}
