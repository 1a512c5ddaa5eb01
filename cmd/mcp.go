package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/uideck/internal/mcpserver"
	"github.com/oakwood-commons/uideck/internal/ui"
)

var (
	renderWidth  int
	renderHeight int
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the displayComponent tool over MCP on stdio",
	Long: `Run an MCP server on stdin/stdout. AI clients can call displayComponent
and receive the JSON result plus a plain-text rendering of the component.
Logs go to stderr because stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, appOptions{})
		if err != nil {
			return err
		}
		srv := mcpserver.NewServer(a.dispatcher,
			mcpserver.WithSnapshotter(ui.DisplaySnapshotter(renderWidth, renderHeight, true, 0)),
			mcpserver.WithLogger(a.log.WithName("mcp")),
		)
		a.log.Info("serving MCP on stdio", "version", mcpserver.Version)
		return srv.ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() { //nolint:gochecknoinits
	for _, c := range []*cobra.Command{mcpCmd, serveCmd} {
		c.Flags().IntVar(&renderWidth, "width", ui.DefaultSnapshotWidth, "width of rendered component snapshots")
		c.Flags().IntVar(&renderHeight, "height", ui.DefaultSnapshotHeight, "height of rendered component snapshots")
	}
}
