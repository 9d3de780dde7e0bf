// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/pagetree-go/internal/application/container"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/pagetree-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.AccessLogMiddleware(container.Logger))
	r.Use(middleware.CORSMiddleware(config.CORSOrigins))

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker)
	editorHandlers := handlers.NewEditorHandlers(container.EditorService, container.Starters, container.Logger, container.PerfTracker)
	documentHandlers := handlers.NewDocumentHandlers(container.DocumentService, container.Logger, container.PerfTracker)
	socketHandlers := handlers.NewSocketHandlers(container.EditorService, container.Broadcaster, config.CORSOrigins, container.Logger)
	systemHandlers := handlers.NewSystemHandlers(container.Sessions, container.Logger, container.PerfTracker)

	requireEditor := middleware.EditorAuthMiddleware(container.AuthService, container.Logger)

	// Published pages
	r.GET("/pages/:slug", documentHandlers.GetPublishedPage)

	api := r.Group("/api/v1")
	{
		api.GET("/health", systemHandlers.GetHealth)
		api.GET("/starters", editorHandlers.GetStarters)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.GET("/me", requireEditor, authHandlers.GetMe)
		}

		editor := api.Group("/editor", requireEditor)
		{
			editor.POST("/sessions", editorHandlers.PostSession)

			session := editor.Group("/sessions/:id")
			{
				session.GET("", editorHandlers.GetSession)
				session.DELETE("", editorHandlers.DeleteSession)
				session.GET("/ws", socketHandlers.GetSocket)
				session.POST("/select", editorHandlers.PostSelect)
				session.POST("/hover", editorHandlers.PostHover)
				session.POST("/undo", editorHandlers.PostUndo)
				session.POST("/redo", editorHandlers.PostRedo)
				session.POST("/save", editorHandlers.PostSave)
				session.GET("/render", editorHandlers.GetRender)

				session.POST("/nodes", editorHandlers.PostNode)
				nodes := session.Group("/nodes/:nodeId")
				{
					nodes.DELETE("", editorHandlers.DeleteNode)
					nodes.PATCH("/styles", editorHandlers.PatchStyles)
					nodes.DELETE("/styles", editorHandlers.DeleteStyles)
					nodes.PATCH("/meta", editorHandlers.PatchMeta)
					nodes.PATCH("/props", editorHandlers.PatchProps)
					nodes.PUT("/lock", editorHandlers.PutLock)
					nodes.POST("/move", editorHandlers.PostMove)
					nodes.POST("/duplicate", editorHandlers.PostDuplicate)
					nodes.GET("/resolve", editorHandlers.GetResolve)
					nodes.GET("/classes", editorHandlers.GetClasses)
					nodes.POST("/image", maxBody(int64(config.MaxUploadBytes)+1<<20), editorHandlers.PostImage)
				}
			}
		}

		documents := api.Group("/documents", requireEditor)
		{
			documents.GET("", documentHandlers.GetAllDocuments)
			documents.GET("/:id", documentHandlers.GetDocument)
			documents.DELETE("/:id", documentHandlers.DeleteDocument)
		}

		system := api.Group("/system", requireEditor)
		{
			system.GET("/log-levels", systemHandlers.GetLogLevels)
			system.POST("/log-levels", systemHandlers.SetLogLevel)
			system.GET("/performance", systemHandlers.GetPerformance)
		}
	}

	return r
}
