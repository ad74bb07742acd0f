package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/lasto/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg         *config.Config
	transcripts *Transcript
	speakers    *Speaker
	jobs        *Job
	sync        *Sync
	settings    *Settings
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, transcripts *Transcript, speakers *Speaker, jobs *Job, sync *Sync, settings *Settings) *Router {
	return &Router{
		cfg:         cfg,
		transcripts: transcripts,
		speakers:    speakers,
		jobs:        jobs,
		sync:        sync,
		settings:    settings,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupTranscriptRoutes(v1)
	rt.setupJobRoutes(v1)
	rt.setupSyncRoutes(v1)
	rt.setupSettingsRoutes(v1)
}

// setupTranscriptRoutes configures archive, editor and speaker routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	tg := g.Group("/transcripts")

	tg.GET("", rt.transcripts.List)
	tg.POST("", rt.transcripts.Create)
	tg.DELETE("", rt.transcripts.DeleteAll)
	tg.GET("/:id", rt.transcripts.Get)
	tg.DELETE("/:id", rt.transcripts.Delete)
	tg.GET("/:id/text", rt.transcripts.Text)
	tg.PATCH("/:id/title", rt.transcripts.RenameTitle)
	tg.POST("/:id/title-edit", rt.transcripts.BeginTitleEdit)
	tg.DELETE("/:id/title-edit", rt.transcripts.EndTitleEdit)
	tg.PUT("/:id/content", rt.transcripts.EditContent)
	tg.POST("/:id/flush", rt.transcripts.Flush)

	tg.GET("/:id/speakers", rt.speakers.List)
	tg.POST("/:id/speakers", rt.speakers.Add)
	tg.POST("/:id/speakers/merge", rt.speakers.Merge)
	tg.PUT("/:id/speakers/:speakerId", rt.speakers.Rename)
	tg.DELETE("/:id/speakers/:speakerId", rt.speakers.Delete)
	tg.POST("/:id/labels", rt.speakers.InsertLabel)
	tg.POST("/:id/speaker-mode", rt.speakers.SpeakerMode)
	tg.POST("/:id/speaker-mode/keys", rt.speakers.Key)
}

// setupJobRoutes configures transcription job routes
func (rt *Router) setupJobRoutes(g *echo.Group) {
	jg := g.Group("/jobs")

	jg.GET("", rt.jobs.List)
	jg.POST("/upload", rt.jobs.Upload)
	jg.POST("/url", rt.jobs.SubmitURL)
	jg.GET("/:id", rt.jobs.Get)
}

// setupSyncRoutes configures cloud backup routes
func (rt *Router) setupSyncRoutes(g *echo.Group) {
	sg := g.Group("/sync")

	sg.POST("/push", rt.sync.Push)
	sg.POST("/pull", rt.sync.Pull)
	sg.GET("/status", rt.sync.Status)
}

// setupSettingsRoutes configures key backup routes
func (rt *Router) setupSettingsRoutes(g *echo.Group) {
	g.GET("/settings/keys", rt.settings.ExportKeys)
	g.POST("/settings/keys", rt.settings.ImportKeys)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
