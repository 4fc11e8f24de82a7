package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"finitefield.org/hanko-storefront/internal/config"
	"finitefield.org/hanko-storefront/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCommand() *cobra.Command {
	v := config.NewViper()
	cmd := &cobra.Command{
		Use:          "web",
		Short:        "Serves the Hanko Field storefront pages",
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCommand(v))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			zap.ReplaceGlobals(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	config.Bind(cmd.Flags(), v)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	s, err := newServer(cfg, logger)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web listening",
			zap.String("addr", cfg.Addr),
			zap.Bool("use_fallback_menu", cfg.UseFallbackMenu),
			zap.Bool("static_storefront", cfg.StorefrontEndpoint == ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("web shutting down")
	return srv.Shutdown(shutdownCtx)
}
