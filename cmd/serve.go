package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/oakwood-commons/uideck/internal/httpapi"
	"github.com/oakwood-commons/uideck/internal/mcpserver"
	"github.com/oakwood-commons/uideck/internal/metrics"
	"github.com/oakwood-commons/uideck/internal/ui"
)

const (
	defaultAddr     = ":8080"
	shutdownTimeout = 5 * time.Second
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the data API, the displayComponent tool and MCP over HTTP",
	Example: `  uideck serve --addr :8080
  curl -s localhost:8080/api/v1/data/products
  curl -s -XPOST localhost:8080/api/v1/tools/display-component -d '{"componentType":"list","dataType":"users"}'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		collector := metrics.NewCollector("")
		a, err := newApp(ctx, appOptions{recorder: collector})
		if err != nil {
			return err
		}
		snap := ui.DisplaySnapshotter(renderWidth, renderHeight, true, 0)
		api := httpapi.New(httpapi.Options{
			Source:      a.source,
			Dispatcher:  a.dispatcher,
			Evaluator:   a.eval,
			Snapshotter: snap,
			MCP: mcpserver.NewServer(a.dispatcher,
				mcpserver.WithSnapshotter(snap),
				mcpserver.WithLogger(a.log.WithName("mcp"))),
			Recorder:    collector,
			Metrics:     collector.Handler(),
			MetricsPath: a.cfg.Server.MetricsPath,
			Logger:      a.log.WithName("http"),
		})

		addr := serveAddr
		if addr == "" {
			addr = a.cfg.Server.Addr
		}
		if addr == "" {
			addr = defaultAddr
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           api.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return serve(ctx, srv, a)
	},
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, a *app) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.log.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func init() { //nolint:gochecknoinits
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, else "+defaultAddr+")")
}
