package cmd

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/term"

	"github.com/oakwood-commons/uideck/internal/config"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui"
	"github.com/oakwood-commons/uideck/pkg/settings"
)

// selectStyles resolves the theme named on the command line, or the
// configured default.
func selectStyles(cfg config.Config, name string, noColor bool) (theme.Styles, error) {
	th, err := theme.Select(cfg, name)
	if err != nil {
		return theme.Styles{}, fmt.Errorf("--theme: %w", err)
	}
	return theme.New(th, noColor), nil
}

// resolveSnapshotSize prefers the flags, then the terminal, then the
// snapshot defaults.
func resolveSnapshotSize(flagWidth, flagHeight int) (int, int) {
	w, h := flagWidth, flagHeight
	if w <= 0 || h <= 0 {
		dw, dh := detectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	if w <= 0 {
		w = ui.DefaultSnapshotWidth
	}
	if h <= 0 {
		h = ui.DefaultSnapshotHeight
	}
	return w, h
}

func detectTerminalSize() (int, int) {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()} {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return 0, 0
}

// cliVersionString builds the version line for "version" and --version.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}
