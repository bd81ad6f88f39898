package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/siherrmann/provenance/server"
	"github.com/spf13/cobra"
)

var (
	flagAddr    string
	flagOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the suggest, answer and source endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		p, err := openProvenance(logger)
		if err != nil {
			return err
		}
		defer p.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Queries answer 503 until the model is loaded.
		go func() {
			if err := p.UseDefaultEmbedder(flagModelDir); err != nil {
				logger.Error("Error loading embedding model", slog.String("error", err.Error()))
			}
		}()

		srv := &http.Server{
			Addr:              flagAddr,
			Handler:           server.NewServer(p, flagOrigins, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Listening", slog.String("addr", flagAddr))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", ":8000", "listen address")
	serveCmd.Flags().StringSliceVar(&flagOrigins, "origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"}, "origins allowed by CORS")
	rootCmd.AddCommand(serveCmd)
}
