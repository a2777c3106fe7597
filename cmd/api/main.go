package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/pageza/feedback-desk/backend/config"
	"github.com/pageza/feedback-desk/backend/internal/api"
	"github.com/pageza/feedback-desk/backend/internal/database"
	"github.com/pageza/feedback-desk/backend/internal/middleware"
	"github.com/pageza/feedback-desk/backend/internal/router"
	"github.com/pageza/feedback-desk/backend/internal/server"
	"github.com/pageza/feedback-desk/backend/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := pflag.String("env-file", ".env", "optional file with KEY=VALUE settings")
	formFile := pflag.String("form", "", "YAML form definition (overrides FORM_FILE)")
	port := pflag.String("port", "", "listen port (overrides SERVER_PORT)")
	pflag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "feedback-desk").Logger()

	// Initialize configuration
	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if *formFile != "" {
		cfg.FormFile = *formFile
	}
	if *port != "" {
		cfg.ServerPort = *port
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level)
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	handler, err := newFeedbackHandler(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize feedback pipeline")
	}

	limiter := newRateLimiter(cfg, logger)

	engine, err := router.SetupRouter(cfg, handler, limiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to set up routes")
	}

	srv := server.New(cfg, engine, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("received signal")
	}

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server stopped")
}

func newFeedbackHandler(cfg *config.Config, logger zerolog.Logger) (*api.FeedbackHandler, error) {
	// A missing shipped form falls back to the built-in one.
	definition, err := service.LoadFormDefinitionOrDefault(cfg.FormFile, cfg.FormFile == config.DefaultFormFile)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("form", definition.Title).Int("fields", len(definition.Fields)).Msg("form loaded")
	form, err := service.NewFormService(definition)
	if err != nil {
		return nil, err
	}

	// A nil summarizer files the raw feedback text.
	var summarizer service.ISummarizer
	if cfg.SummaryEnabled {
		generator, err := newTextGenerator(cfg)
		if err != nil {
			return nil, err
		}
		summarizer = service.NewSummarizer(generator, cfg.SummaryOnFailure, logger).WithTimeout(cfg.RequestTimeout)
		logger.Info().Str("provider", generator.Name()).Msg("summarization enabled")
	} else {
		logger.Info().Msg("summarization disabled")
	}

	tickets := service.NewJiraService(cfg, nil, logger)
	feedback := service.NewFeedbackService(cfg, summarizer, tickets, logger)

	return api.NewFeedbackHandler(form, feedback, logger), nil
}

func newTextGenerator(cfg *config.Config) (service.TextGenerator, error) {
	client := &http.Client{Timeout: cfg.RequestTimeout}
	switch cfg.SummarizerProvider {
	case config.ProviderGemini:
		return service.NewGeminiGenerator(context.Background(), cfg.GoogleAPIKey, cfg.GeminiModel, "", client)
	case config.ProviderDeepSeek:
		return service.NewChatCompletionGenerator(cfg.DeepSeekAPIKey, cfg.DeepSeekAPIURL, cfg.DeepSeekModel, client)
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.SummarizerProvider)
	}
}

// newRateLimiter prefers Redis so replicas share one budget, and falls back
// to process memory when Redis is not configured or unreachable.
func newRateLimiter(cfg *config.Config, logger zerolog.Logger) *middleware.RateLimiter {
	rlCfg := middleware.RateLimitConfig{
		Window:    cfg.RateLimitWindow,
		Limit:     cfg.RateLimit,
		KeyPrefix: middleware.DefaultKeyPrefix,
	}
	if rlCfg.Limit <= 0 {
		logger.Info().Msg("submission rate limiting disabled")
		return nil
	}

	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg, logger)
		if err == nil {
			return middleware.NewRateLimiter(middleware.NewRedisStore(client), rlCfg, logger)
		}
		logger.Warn().Err(err).Msg("Redis unavailable, rate limiting in memory")
	}
	return middleware.NewRateLimiter(middleware.NewMemoryStore(rlCfg.Window), rlCfg, logger)
}
