package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/feedback-desk/backend/config"
	"github.com/pageza/feedback-desk/backend/internal/api"
	"github.com/pageza/feedback-desk/backend/internal/middleware"
)

// SetupRouter configures the application routes. limiter may be nil,
// which disables submission rate limiting.
func SetupRouter(cfg *config.Config, handler *api.FeedbackHandler, limiter *middleware.RateLimiter, logger zerolog.Logger) (*gin.Engine, error) {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(cfg.CORSAllowed))

	if err := api.LoadTemplates(router); err != nil {
		return nil, err
	}

	router.GET("/healthz", api.HealthCheck)
	router.GET("/", handler.ShowForm)
	router.GET("/api/v1/form", handler.GetForm)

	// Submissions are the only rate limited routes
	router.POST("/feedback", limiter.RateLimitMiddleware(handler.RateLimited), handler.SubmitForm)
	router.POST("/api/v1/feedback", limiter.RateLimitMiddleware(), handler.CreateFeedback)

	return router, nil
}
