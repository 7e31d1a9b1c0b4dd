package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpx "github.com/Spok95/obraz-stock/internal/infra/http"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTP API склада, /health и /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			srv := httpx.New(addr, httpx.NewRouter(store, a.log), a.cfg.Metrics.Enabled)
			return runServer(cmd.Context(), srv, a, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: http.addr from config)")
	return cmd
}

type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// runServer держит сервер до отмены ctx (SIGINT/SIGTERM), затем мягко останавливает.
func runServer(ctx context.Context, srv server, a *app, addr string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.log.Info("HTTP server started", "addr", addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		a.log.Info("graceful shutdown complete")
		return nil
	})

	return g.Wait()
}
