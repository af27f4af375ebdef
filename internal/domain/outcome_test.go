package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyLookup_Success(t *testing.T) {
	addr := Address{Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"}

	out := ClassifyLookup(addr, nil)

	assert.Equal(t, OutcomeSuccess, out.Kind)
	require.NotNil(t, out.Address)
	assert.Equal(t, addr, *out.Address)
	assert.Empty(t, out.Message)
	assert.False(t, out.Failed())
}

func TestClassifyLookup_NotFound(t *testing.T) {
	out := ClassifyLookup(Address{}, fmt.Errorf("viacep: %w", ErrNotFound))

	assert.Equal(t, OutcomeNotFound, out.Kind)
	assert.Equal(t, MsgNotFound, out.Message)
	assert.Nil(t, out.Address)
	assert.True(t, out.Failed())
}

func TestClassifyLookup_TransportKeepsDescription(t *testing.T) {
	out := ClassifyLookup(Address{}, errors.New("dial tcp 127.0.0.1:1: connect: connection refused"))

	assert.Equal(t, OutcomeTransportError, out.Kind)
	assert.Equal(t, "dial tcp 127.0.0.1:1: connect: connection refused", out.Message)
	assert.Nil(t, out.Address)
}

func TestFormatErrorOutcome(t *testing.T) {
	out := FormatErrorOutcome()
	assert.Equal(t, OutcomeFormatError, out.Kind)
	assert.Equal(t, MsgInvalidFormat, out.Message)
}

func TestOutcomeKind_String(t *testing.T) {
	assert.Equal(t, "format_error", OutcomeFormatError.String())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
	assert.Equal(t, "transport_error", OutcomeTransportError.String())
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "unknown", OutcomeKind(42).String())
}
