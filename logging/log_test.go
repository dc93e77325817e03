package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestFromContext(t *testing.T) {
	t.Parallel()
	require.NotNil(t, FromContext(context.Background()))

	logger := zaptest.NewLogger(t)
	ctx := NewContext(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}

func TestNew_WritesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "poe.log")
	logger := New(zap.InfoLevel, Options{FileName: path, MaxSize: 1, MaxBackups: 2, JSON: true})
	logger.Debug("debug goes to the file only")
	_ = logger.Sync() // syncing stdout fails on some platforms

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "debug goes to the file only")
}
