//go:build viacep

package viacep

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/cep-lookup/internal/domain"
	"github.com/couchcryptid/cep-lookup/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real ViaCEP API.
// Run with: go test -tags=viacep ./internal/adapter/viacep/ -v -count=1

func smokeClient() *Client {
	return NewClient(DefaultBaseURL, 10*time.Second, observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Lookup(t *testing.T) {
	c := smokeClient()

	addr, err := c.Lookup(context.Background(), "01310930")
	require.NoError(t, err)

	assert.Contains(t, addr.Street, "Paulista")
	assert.Equal(t, "São Paulo", addr.City)
	assert.Equal(t, "SP", addr.State)
}

func TestSmoke_LookupNotFound(t *testing.T) {
	c := smokeClient()

	_, err := c.Lookup(context.Background(), "00000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
