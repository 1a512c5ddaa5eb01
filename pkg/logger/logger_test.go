package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockLogLevel int8 = 0

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	l1 := Get(mockLogLevel)
	l2 := Get(mockLogLevel)
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}

func TestInitAfterGetIsNoop(t *testing.T) {
	l1 := Get(mockLogLevel)
	l2 := Init(-1, os.Stdout)
	assert.Same(t, l1, l2)
}

func TestGetReturnsNoopLoggerIfGlobalLoggerNil(t *testing.T) {
	Get(mockLogLevel)
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	got := Get(mockLogLevel)
	require.NotNil(t, got)
	assert.Equal(t, "*logr.Logger", fmt.Sprintf("%T", got))
}

func TestWithLoggerAndFromContext(t *testing.T) {
	ctx := context.Background()
	lgr := logr.Discard()

	newCtx := WithLogger(ctx, &lgr)
	assert.Same(t, &lgr, FromContext(newCtx))
	assert.Equal(t, newCtx, WithLogger(newCtx, &lgr), "same logger keeps the context")
}

func TestFromContextFallsBackToNoop(t *testing.T) {
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	got := FromContext(context.Background())
	assert.Same(t, GetNoopLogger(), got)
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	base := logr.Discard()
	got := WithValues(&base, SurfaceKey, "tui")
	require.NotNil(t, got)
	assert.NotSame(t, &base, got)
}

func TestIsIgnorableSyncError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"enotty", &os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.ENOTTY}, true},
		{"einval", syscall.EINVAL, true},
		{"windows_handle", errors.New("sync /dev/stderr: The handle is invalid."), true},
		{"other", errors.New("disk full"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isIgnorableSyncError(tt.err))
		})
	}
}
