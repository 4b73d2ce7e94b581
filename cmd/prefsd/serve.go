package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/horockey/rxprefs"
	"github.com/horockey/rxprefs/internal/controller/http_controller"
	"github.com/horockey/rxprefs/settings"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Open app namespaces and serve the admin api",
	Long: `Open app namespaces and serve the admin api.

Examples:
  prefsd serve --dir ./prefs --listen 127.0.0.1:7070 --api-key secret`,
	RunE: func(cmd *cobra.Command, args []string) (resErr error) {
		dir, _ := cmd.Flags().GetString("dir")
		listen, _ := cmd.Flags().GetString("listen")
		apiKey, _ := cmd.Flags().GetString("api-key")
		syncWrites, _ := cmd.Flags().GetBool("sync-writes")

		if apiKey == "" {
			return errors.New("--api-key is required")
		}

		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := rxprefs.NewRegistry(
			rxprefs.WithRootDir(dir),
			rxprefs.WithSyncWrites(syncWrites),
			rxprefs.WithLogger(logger),
		)
		defer func() {
			if err := reg.Close(); err != nil {
				resErr = errors.Join(resErr, fmt.Errorf("closing registry: %w", err))
			}
		}()

		if _, err := settings.OpenAll(reg); err != nil {
			return fmt.Errorf("opening settings: %w", err)
		}

		promReg := prometheus.NewRegistry()
		ctrl := http_controller.New(
			listen,
			apiKey,
			reg,
			promReg,
			logger.With().Str("subscope", "http_controller").Logger(),
		)

		promReg.MustRegister(collectors.NewGoCollector())
		promReg.MustRegister(reg.Metrics()...)
		promReg.MustRegister(ctrl.Metrics()...)

		if err := ctrl.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("running http controller: %w", err)
		}

		logger.Info().Msg("shutting down")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("dir", "./prefs", "root dir of namespace storage")
	serveCmd.Flags().String("listen", "127.0.0.1:7070", "admin api listen address")
	serveCmd.Flags().Bool("sync-writes", true, "fsync every commit")
}
