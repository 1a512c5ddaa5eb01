// Package settings holds build metadata and the per-run options shared by
// the uideck commands.
package settings

import "time"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "uideck"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-dev",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Surface identifies which entry point is driving the process.
type Surface string

const (
	SurfaceTUI  Surface = "tui"
	SurfaceCLI  Surface = "cli"
	SurfaceMCP  Surface = "mcp"
	SurfaceHTTP Surface = "http"
)

// Run holds configuration settings for a single execution of the application.
type Run struct {
	MinLogLevel int8
	LogFile     string
	Surface     Surface
	NoColor     bool
	// Latency overrides the simulated data latency when non-nil.
	Latency     *time.Duration
	ExitOnError bool
}

// NewCliParams returns the defaults used by the interactive command.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Surface:     SurfaceTUI,
		ExitOnError: true,
	}
}

// EffectiveLatency returns the override when set, otherwise fallback.
func (r *Run) EffectiveLatency(fallback time.Duration) time.Duration {
	if r == nil || r.Latency == nil {
		return fallback
	}
	return *r.Latency
}
