package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cursos-uc/cursos-app/internal/api"
	"github.com/cursos-uc/cursos-app/internal/api/handler"
)

// @title        Cursos UC local API
// @version      1.0
// @description  Local API over the Cursos UC catalog, comments, lists, session and chat stores.
// @host         localhost:8080
// @BasePath     /

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local JSON API",
	Long: `Start an HTTP server exposing the course stores as JSON.

Probes live at /health and /health/ready, Prometheus metrics at /metrics
and the OpenAPI browser at /swagger/index.html.

Examples:
  cursosuc serve
  cursosuc serve --fake-backend
  PORT=9090 cursosuc serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "grace period for in-flight requests on shutdown")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	grace, _ := cmd.Flags().GetDuration("shutdown-timeout")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	// Warm the home view; a failure leaves it empty with its error set.
	if err := a.catalog.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial catalog load failed")
	}
	if err := a.chat.LoadHistory(ctx); err != nil {
		log.Warn().Err(err).Msg("chat history not loaded")
	}

	router := api.NewRouter(api.Handlers{
		Session:   handler.NewSessionHandler(a.session),
		Courses:   handler.NewCourseHandler(a.catalog, a.search),
		Details:   handler.NewDetailHandler(a.details),
		Lists:     handler.NewListHandler(a.lists),
		Chat:      handler.NewChatHandler(a.chat),
		Readiness: handler.NewReadinessHandler(a.checks),
	}, a.session, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Chat.ReplyTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		a.close(context.Background())
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	a.close(shutdownCtx)
	if err != nil {
		return err
	}
	log.Info().Msg("server shut down gracefully")
	return nil
}
