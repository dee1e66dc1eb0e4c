package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tinkbyte-api/internal/metrics"
)

func TestAuthClient_ValidateToken(t *testing.T) {
	userID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		switch r.Header.Get("Authorization") {
		case "Bearer good":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": userID.String(), "email": "a@b.c"})
		case "Bearer garbled":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "not-a-uuid"})
		case "Bearer broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	c := NewAuthClient(server.URL+"/", "anon-key", time.Second, zap.NewNop(), m)
	ctx := context.Background()

	got, err := c.ValidateToken(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = c.ValidateToken(ctx, "expired")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = c.ValidateToken(ctx, "garbled")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse user ID")

	_, err = c.ValidateToken(ctx, "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestAuthClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewAuthClient(server.URL, "", time.Second, zap.NewNop(), nil)

	_, err := c.ValidateToken(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}
