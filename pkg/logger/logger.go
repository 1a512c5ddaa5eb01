// Package logger wires a zap JSON core behind a logr.Logger and carries it
// through context.Context.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oakwood-commons/uideck/pkg/settings"
)

type loggerContextKey struct{}

const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	SurfaceKey     = "surface"
	CommitKey      = "commit"
	VersionKey     = "version"
	BuildTimeKey   = "build_time"
	GoVersionKey   = "go_version"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
)

var (
	once sync.Once

	globalZapLogger  *zap.Logger
	globalLogrLogger *logr.Logger

	defaultNoopLogger = logr.Discard()
)

// Get initializes the global logger writing JSON to stderr. Only the first
// call to Get or Init has any effect.
func Get(logLevel int8) *logr.Logger {
	return Init(logLevel, os.Stderr)
}

// Init initializes the global logger writing JSON to w. The interactive UI
// passes a log file or io.Discard so the terminal is not corrupted.
func Init(logLevel int8, w io.Writer) *logr.Logger {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.TimeKey = TimeStampKey
		encoderCfg.MessageKey = MessageKey

		goVersion := ""
		if buildInfo, ok := debug.ReadBuildInfo(); ok {
			goVersion = buildInfo.GoVersion
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.Lock(zapcore.AddSync(w)),
			zap.NewAtomicLevelAt(zapcore.Level(logLevel)),
		).With([]zapcore.Field{
			zap.String(CommitKey, settings.VersionInformation.Commit),
			zap.String(VersionKey, settings.VersionInformation.BuildVersion),
			zap.String(BuildTimeKey, settings.VersionInformation.BuildTime),
			zap.String(GoVersionKey, goVersion),
		})

		globalZapLogger = zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
			zap.WithFatalHook(zapcore.WriteThenPanic),
		)
		gl := zapr.NewLogger(globalZapLogger)
		globalLogrLogger = &gl
	})
	if globalLogrLogger == nil {
		return &defaultNoopLogger
	}
	return globalLogrLogger
}

// WithLogger returns a context carrying log. The original context is
// returned when it already carries the same logger.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the context logger, then the global logger, then a
// no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
			return log
		}
	}
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// Sync flushes buffered log entries. Call it before the process exits.
func Sync() {
	if globalZapLogger == nil {
		return
	}
	if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
	}
}

// isIgnorableSyncError reports the errors Sync returns for pipes and TTYs.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetNoopLogger returns a logger that discards everything.
func GetNoopLogger() *logr.Logger {
	return &defaultNoopLogger
}

// WithValues returns a copy of lgr with the key/value pairs attached.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nlgr := lgr.WithValues(keysAndValues...)
	return &nlgr
}
