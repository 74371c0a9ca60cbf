package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"kothaboli/internal/ai"
	"kothaboli/internal/config"
	"kothaboli/internal/handler"
	storyHandler "kothaboli/internal/handler/story"
	"kothaboli/internal/kvstore"
	"kothaboli/internal/pkg/ark"
	"kothaboli/internal/server/middleware"
	"kothaboli/internal/service"
	"kothaboli/internal/store"
)

// Server HTTP server for the editor
type Server struct {
	cfg         *config.Config
	engine      *gin.Engine
	kv          kvstore.Store
	manuscripts *store.Manuscripts
	settings    *store.Settings
}

// New creates the server: record store, stores, collaborators, routes.
// The generative collaborators are optional; missing credentials disable
// them with a warning and the editor runs without those features.
func New(cfg *config.Config) (*Server, error) {
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	kv, err := kvstore.New(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	ctx := context.Background()

	settings := store.NewSettings(kv)
	settings.Load(ctx)

	interval := time.Duration(settings.Get().AutoSaveIntervalMs) * time.Millisecond
	manuscripts := store.NewManuscripts(kv, interval)
	manuscripts.Load(ctx)

	var generator service.Generator
	if cfg.AI.APIKey != "" {
		client, err := ai.NewClient(ctx, &cfg.AI)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize AI client, continuing without generation")
		} else {
			generator = client
			log.Info().Str("provider", cfg.AI.Provider).Str("model", cfg.AI.Model).Msg("AI client ready")
		}
	} else {
		log.Warn().Msg("AI API key not configured, generation endpoints disabled")
	}

	var illustrator service.Illustrator
	if cfg.Image.APIKey != "" {
		client, err := ark.NewImageClient(&cfg.Image)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize image client, continuing without illustrations")
		} else {
			illustrator = client
			log.Info().Str("model", cfg.Image.Model).Msg("image client ready")
		}
	}

	var speech service.SpeechSynthesizer
	if cfg.TTS.AccessToken != "" {
		client, err := ark.NewTTSClient(&cfg.TTS)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize TTS client, continuing without narration")
		} else {
			speech = client
			log.Info().Str("voice", cfg.TTS.Voice).Int("sample_rate", cfg.TTS.SampleRate).Msg("TTS client ready")
		}
	}

	storySvc := service.NewStoryService(manuscripts, settings, generator, illustrator, speech, cfg.TTS.MaxRunes)

	srv := &Server{
		cfg:         cfg,
		engine:      engine,
		kv:          kv,
		manuscripts: manuscripts,
		settings:    settings,
	}
	srv.setupRoutes(storySvc)

	return srv, nil
}

// setupRoutes registers middleware and the HTTP surface
func (s *Server) setupRoutes(storySvc *service.StoryService) {
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	healthHdl := handler.NewHealthHandler()
	s.engine.GET("/health", healthHdl.Health)
	s.engine.GET("/ready", healthHdl.Ready)

	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	storyHdl := storyHandler.NewHandler(s.manuscripts, storySvc)
	settingsHdl := handler.NewSettingsHandler(s.settings, s.manuscripts)
	statusHdl := handler.NewStatusHandler(s.manuscripts)

	v1 := s.engine.Group("/api/v1")
	{
		v1.GET("/stories", storyHdl.ListStories)
		v1.POST("/stories", storyHdl.CreateStory)
		v1.GET("/stories/:story_id", storyHdl.GetStory)
		v1.PATCH("/stories/:story_id", storyHdl.UpdateStory)
		v1.DELETE("/stories/:story_id", storyHdl.DeleteStory)
		v1.PUT("/stories/:story_id/active", storyHdl.SetActiveStory)

		v1.POST("/stories/:story_id/format-dialogue", storyHdl.FormatDialogue)
		v1.POST("/stories/:story_id/generate", storyHdl.Generate)
		v1.POST("/stories/:story_id/storyboard", storyHdl.GenerateStoryboard)
		v1.POST("/stories/:story_id/storyboard/:scene_id/image", storyHdl.GenerateSceneImage)
		v1.POST("/stories/:story_id/cover", storyHdl.GenerateCover)
		v1.POST("/stories/:story_id/speech", storyHdl.GenerateSpeech)
		v1.GET("/stories/:story_id/export/:format", storyHdl.ExportStory)

		v1.GET("/settings", settingsHdl.GetSettings)
		v1.PUT("/settings", settingsHdl.UpdateSettings)

		v1.GET("/status", statusHdl.GetStatus)
	}
}

// Run serves until ctx is cancelled, then flushes pending edits and shuts down
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// unsaved edits must not outlive the process
		if err := s.manuscripts.Flush(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to flush manuscripts on shutdown")
		}
		if err := s.kv.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close record store")
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine returns the gin engine (used by tests)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
