package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"traffic-dashboard-backend/internal/app"
	"traffic-dashboard-backend/internal/store"
)

const sessionSweepEvery = 10 * time.Minute

func newServeCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := store.New(ctx, cfg.DB.Dialect, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			a, err := app.New(ctx, cfg, st, log, Version)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           a.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("server listening",
					zap.String("addr", cfg.Server.Addr),
					zap.String("db", cfg.DB.Dialect),
					zap.String("assistant", cfg.Assistant.Provider),
				)
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error { return a.Hub.Run(gctx) })
			g.Go(func() error { return a.Auth.SweepExpired(gctx, sessionSweepEvery) })
			g.Go(func() error {
				<-gctx.Done()
				log.Info("shutting down")
				sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				return srv.Shutdown(sctx)
			})

			err = g.Wait()
			a.Notifier.Wait()
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
