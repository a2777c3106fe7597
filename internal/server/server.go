package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pageza/feedback-desk/backend/config"
)

const readHeaderTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger zerolog.Logger
}

// New creates a new server instance serving router on the configured address
func New(cfg *config.Config, router *gin.Engine, logger zerolog.Logger) *Server {
	// Summarization plus ticket creation each get the request timeout.
	writeTimeout := 2*cfg.RequestTimeout + readHeaderTimeout

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
		},
		logger: logger,
	}
}

// Addr returns the address the server listens on
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start blocks serving requests until the server is shut down
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.http.Addr).Msg("starting server")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
