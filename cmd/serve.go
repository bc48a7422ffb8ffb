package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/tubeseo/tubeseo/internal/credentials"
	"github.com/tubeseo/tubeseo/internal/handlers"
	"github.com/tubeseo/tubeseo/internal/pipeline"
	"github.com/tubeseo/tubeseo/internal/storage"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the tubeseo HTTP API on the specified port.

The API holds a single pipeline session for the process. The browser UI
submits a topic or reference image, picks a title and asks for SEO details,
thumbnails and scripts through it.`,
		Example: `  # Start server on the configured port (8888 by default)
  tubeseo serve

  # Start server on custom port
  tubeseo serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cfg.APIKey == "" {
				slog.Warn("No API key configured, every generation will fail until GEMINI_API_KEY is set")
			}

			keys := credentials.NewStore(cfg.APIKey)
			session := pipeline.NewSession(newGateway(cfg, keys), nil, sessionSettings(cfg))
			handler := handlers.New(session, storage.New(cfg.Server.ImageTTL), cfg.Server.UploadLimit)

			// Set up routes
			mux := http.NewServeMux()
			handler.Register(mux)

			addr := ":" + cfg.Server.Port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				slog.Info("tubeseo API available", "addr", addr, "url", "http://localhost"+addr, "image_model", cfg.ImageModel)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				// Wait for Ctrl+C or a listener failure
				<-ctx.Done()
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on (overrides config)")

	return cmd
}
