// Package dashboard serves the Backlot JSON API over the record services.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB     *gorm.DB
	Port   int
	Out    io.Writer
	Logger zerolog.Logger
}

// Start launches the API HTTP server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("dashboard: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	router := NewRouter(opts.DB, opts.Logger)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			opts.Logger.Error().Err(err).Msg("shutdown")
		}
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "API running at http://localhost:%d\n", opts.Port)
	}
	opts.Logger.Info().Int("port", opts.Port).Msg("api listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	opts.Logger.Info().Msg("api stopped")
	return nil
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(db *gorm.DB, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	registerRoutes(router, db)
	return router
}
