package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/config"
	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/ui"
	"github.com/oakwood-commons/uideck/pkg/settings"
)

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "uideck "+settings.VersionInformation.BuildVersion), out)
}

func TestConfigDefaults(t *testing.T) {
	out, err := execute(t, "config", "--defaults")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultConfigYAML()), out)
}

func TestConfigMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  title: My Deck\n"), 0o600))

	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "title: My Deck")
	assert.Contains(t, out, "defaultListLayout: table")

	require.NoError(t, os.WriteFile(path, []byte("app:\n  defaultListLayout: mosaic\n"), 0o600))
	_, err = execute(t, "config", "--config", path)
	assert.ErrorContains(t, err, "mosaic")
}

func TestResolveConfigPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Empty(t, resolveConfigPath(""))

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uideck"), 0o700))
	path := filepath.Join(dir, "uideck", "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	assert.Equal(t, path, resolveConfigPath(""))
	assert.Equal(t, "explicit.yaml", resolveConfigPath("explicit.yaml"))
}

func TestDataList(t *testing.T) {
	out, err := execute(t, "data", "list", "products", "-o", "json", "--latency", "0s")
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	assert.Len(t, recs, 5)

	out, err = execute(t, "data", "list", "products", "-o", "json", "--latency", "0s", "--filter", "_.price < 50.0")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	assert.Len(t, recs, 2)

	out, err = execute(t, "data", "list", "products", "--no-color", "--latency", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "Wireless Mouse")
	assert.Contains(t, out, "5 products")

	out, err = execute(t, "data", "list", "users", "-o", "json", "--latency", "0s", "--tail", "1")
	require.NoError(t, err)
	recs = nil
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Alice", recs[0]["firstName"])

	out, err = execute(t, "data", "list", "users", "-o", "toml", "--latency", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "[[users]]")
}

func TestDataListErrors(t *testing.T) {
	_, err := execute(t, "data", "list", "pets", "--latency", "0s")
	assert.ErrorIs(t, err, domain.ErrUnknownDomain)

	_, err = execute(t, "data", "list", "products", "-o", "csv", "--latency", "0s")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = execute(t, "data", "list", "products", "--latency", "0s", "--limit", "2", "--tail", "1")
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = execute(t, "data", "list", "products", "--latency", "0s", "--filter", "_.price <")
	assert.ErrorContains(t, err, "--filter")
}

func TestDataListFromSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	seed := "[[products]]\nid = 9\nname = \"Desk Lamp\"\nprice = 19.5\n"
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	out, err := execute(t, "data", "list", "products", "-o", "json", "--latency", "0s", "--seed", path)
	require.NoError(t, err)
	var recs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Desk Lamp", recs[0]["name"])

	_, err = execute(t, "data", "list", "products", "--seed", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorContains(t, err, "--seed")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "seed.yaml"), expandHome("~/seed.yaml"))
	assert.Equal(t, "/tmp/seed.yaml", expandHome("/tmp/seed.yaml"))
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
}

func TestDataGet(t *testing.T) {
	out, err := execute(t, "data", "get", "orders", "1001", "-o", "yaml", "--latency", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "customer: Acme Corp")

	out, err = execute(t, "data", "get", "products", "2", "--no-color", "--latency", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "Wireless Mouse")

	_, err = execute(t, "data", "get", "orders", "42", "--latency", "0s")
	assert.ErrorContains(t, err, mockdata.NotFoundMessage)
}

func TestShowSnapshot(t *testing.T) {
	out, err := execute(t, "show", "--component", "item", "--data", "orders", "--item", "1001",
		"--snapshot", "--no-color", "--width", "120", "--height", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Current: item - orders")
	assert.Contains(t, out, "Acme Corp")
	assert.NotContains(t, out, "\x1b[")
	assert.Len(t, strings.Split(out, "\n"), 31)

	_, err = execute(t, "show", "--component", "item", "--data", "orders", "--snapshot", "--no-color")
	assert.EqualError(t, err, dispatch.ErrItemIDRequired)
}

func TestRootSnapshotWithPrompt(t *testing.T) {
	out, err := execute(t, "--snapshot", "--no-color", "--width", "160", "--height", "32",
		"--prompt", "Show me products")
	require.NoError(t, err)
	assert.Contains(t, out, "Current: list - products")
	assert.Contains(t, out, "Show me products")
	assert.Contains(t, out, "Laptop Pro")
}

func TestRootSnapshotWithoutChat(t *testing.T) {
	out, err := execute(t, "--snapshot", "--no-color", "--no-chat", "--width", "100", "--height", "24")
	require.NoError(t, err)
	assert.Contains(t, out, "Current: demo - products")
	assert.NotContains(t, out, "AI Assistant")
}

func TestUnknownTheme(t *testing.T) {
	_, err := execute(t, "--snapshot", "--theme", "nope")
	assert.ErrorContains(t, err, "--theme")
}

func TestResolveSnapshotSize(t *testing.T) {
	w, h := resolveSnapshotSize(90, 20)
	assert.Equal(t, 90, w)
	assert.Equal(t, 20, h)

	w, h = resolveSnapshotSize(0, 0)
	assert.Positive(t, w)
	assert.Positive(t, h)
	if _, dh := detectTerminalSize(); dh == 0 {
		assert.Equal(t, ui.DefaultSnapshotHeight, h)
	}
}

func TestSurfaceOf(t *testing.T) {
	assert.Equal(t, settings.SurfaceTUI, surfaceOf(rootCmd))
	assert.Equal(t, settings.SurfaceTUI, surfaceOf(showCmd))
	assert.Equal(t, settings.SurfaceMCP, surfaceOf(mcpCmd))
	assert.Equal(t, settings.SurfaceHTTP, surfaceOf(serveCmd))
	assert.Equal(t, settings.SurfaceCLI, surfaceOf(dataListCmd))
}
