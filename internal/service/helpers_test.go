package service

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tinkbyte-api/internal/cache"
	"tinkbyte-api/internal/config"
	"tinkbyte-api/internal/metrics"
	"tinkbyte-api/internal/response"
)

func testPolicy() config.ModerationConfig {
	return config.Default().Moderation
}

func testMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func testCache(t *testing.T) *cache.MemoryProfileCache {
	t.Helper()
	c, err := cache.NewMemoryProfileCache(100, cache.DefaultTTL)
	require.NoError(t, err)
	return c
}

// requireAppError asserts err is an AppError with the given code
func requireAppError(t *testing.T, err error, code string) *response.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, appErr.Code, appErr.Error())
	return appErr
}
