// Package cmd implements the uideck command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/ui"
	"github.com/oakwood-commons/uideck/pkg/logger"
	"github.com/oakwood-commons/uideck/pkg/settings"
)

var (
	configFile     string
	themeName      string
	noColor        bool
	logLevel       string
	logFile        string
	latency        time.Duration
	seedFile       string
	noChat         bool
	prompts        []string
	renderSnapshot bool
	snapshotWidth  int
	snapshotHeight int
	startKeys      []string
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Chat with an assistant that shows your data as lists, items and forms",
	Long: `uideck pairs a chat assistant with configuration-driven data components.
Ask for a domain (products, users, employees, orders) and the assistant calls
its displayComponent tool to show a list, an item or a form for it.

The same tool is served to other AI clients over MCP ("uideck mcp") and over
HTTP ("uideck serve").`,
	Example: `  uideck
  uideck --prompt "Show me products"
  uideck --snapshot --no-color --width 100 --height 30 --prompt "Show order #1001"
  uideck show --component list --data users --layout grid
  uideck data list products --filter '_.price < 100.0' -o json`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runUI(cmd, nil)
	},
}

// surfaceOf maps a command to the surface it drives.
func surfaceOf(cmd *cobra.Command) settings.Surface {
	switch cmd.Name() {
	case "mcp":
		return settings.SurfaceMCP
	case "serve":
		return settings.SurfaceHTTP
	case settings.CliBinaryName, "show":
		return settings.SurfaceTUI
	}
	return settings.SurfaceCLI
}

// setupRun initializes the logger and stores the run settings in the
// command context.
func setupRun(cmd *cobra.Command, _ []string) error {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	run := settings.NewCliParams()
	run.MinLogLevel = int8(level)
	run.LogFile = logFile
	run.Surface = surfaceOf(cmd)
	run.NoColor = noColor
	if f := cmd.Flags().Lookup("latency"); f != nil && f.Changed {
		d := latency
		run.Latency = &d
	}

	w, err := logWriter(run)
	if err != nil {
		return err
	}
	lgr := logger.Init(run.MinLogLevel, w)
	lgr = logger.WithValues(lgr,
		logger.RootCommandKey, settings.CliBinaryName,
		logger.SubCommandKey, cmd.Name(),
		logger.SurfaceKey, string(run.Surface))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	cmd.SetContext(settings.IntoContext(ctx, run))
	return nil
}

// logWriter picks the log destination. The interactive UI owns the
// terminal, so it only logs to --log-file.
func logWriter(run *settings.Run) (io.Writer, error) {
	if run.LogFile != "" {
		f, err := os.OpenFile(run.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	}
	if run.Surface == settings.SurfaceTUI && !renderSnapshot {
		return io.Discard, nil
	}
	return os.Stderr, nil
}

// runUI starts the interactive UI, or prints one snapshot with --snapshot.
// show is dispatched first when set.
func runUI(cmd *cobra.Command, show *dispatch.ToolArgs) error {
	a, err := newApp(cmd.Context(), appOptions{snapshot: renderSnapshot})
	if err != nil {
		return err
	}
	m := a.model(!noChat)
	script := ui.Script{Show: show, Prompts: prompts, Keys: startKeys}

	if renderSnapshot {
		w, h := resolveSnapshotSize(snapshotWidth, snapshotHeight)
		out, err := ui.Snapshot(m, ui.SnapshotConfig{
			Script:  script,
			Width:   w,
			Height:  h,
			NoColor: noColor,
		})
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
		return err
	}

	if !script.Empty() {
		if err := m.Play(script, ui.DefaultSnapshotTimeout); err != nil {
			return err
		}
	}
	return ui.Run(m, snapshotWidth, snapshotHeight)
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML config file merged over the defaults")
	pf.StringVar(&themeName, "theme", "", "theme name (default from config)")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug|info|warn|error")
	pf.StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	pf.DurationVar(&latency, "latency", 0, "simulated data latency (default from config)")
	pf.StringVar(&seedFile, "seed", "", "JSON, YAML or TOML file replacing the built-in mock tables")

	for _, c := range []*cobra.Command{rootCmd, showCmd} {
		f := c.Flags()
		f.BoolVar(&noChat, "no-chat", false, "hide the chat panel")
		f.StringArrayVar(&prompts, "prompt", nil, "send a chat message on startup (repeatable)")
		f.BoolVar(&renderSnapshot, "snapshot", false, "render a single snapshot and exit; honors --width/--height")
		f.IntVar(&snapshotWidth, "width", 0, "screen width in columns (default: terminal width)")
		f.IntVar(&snapshotHeight, "height", 0, "screen height in rows (default: terminal height)")
		f.StringArrayVar(&startKeys, "keys", nil, "simulate keys on startup, e.g. \"<Tab>\", \"<C-s>\", \"<Enter>\" or literal text (repeatable)")
	}

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(showCmd, dataCmd, mcpCmd, serveCmd, configCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
