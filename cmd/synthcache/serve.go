package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/synthcache/internal/api"
	"github.com/nikbrunner/synthcache/internal/dispatch"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local HTTP command server and event dispatcher",
	Long: `Run the local HTTP command server.

Page-loaded and bookmark-created events are queued and analyzed one at a
time. Set apiToken in the config (or SYNTHCACHE_TOKEN) to require a bearer
token on every request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = e.cfg.ServerAddr
			}

			d := dispatch.NewDispatcher(e.svc, 0, e.logger)
			srv := &http.Server{
				Addr: addr,
				Handler: api.NewAppHandler(api.AppDeps{
					Service:    e.svc,
					Dispatcher: d,
					Token:      e.cfg.APIToken,
				}),
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(_ net.Listener) context.Context {
					return ctx
				},
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				err := d.Run(gctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
			g.Go(func() error {
				printStep("synthcache %s listening on %s", version, addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				printStep("shutting down...")
				d.Close()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			err := g.Wait()

			// Background bulk runs share ctx; let them wind down before the
			// stores close.
			waitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if werr := e.svc.Wait(waitCtx); werr != nil {
				printWarning("bulk run still active at exit")
			}
			return err
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
}
