package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/cep-lookup/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	event := domain.LookupEvent{
		ID:          "evt-1",
		Input:       "01310-930",
		CEP:         "01310930",
		Outcome:     "success",
		Address:     &domain.Address{Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"},
		RequestedAt: now,
		Duration:    150 * time.Millisecond,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("01310930"), msg.Key)
	assert.Contains(t, string(msg.Value), `"outcome":"success"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "outcome", msg.Headers[0].Key)
	assert.Equal(t, []byte("success"), msg.Headers[0].Value)
	assert.Equal(t, "requested_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded domain.LookupEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "São Paulo", decoded.Address.City)
	assert.Equal(t, 150*time.Millisecond, decoded.Duration)
}

func TestSerializeToMessage_FormatErrorKeyedByID(t *testing.T) {
	msg, err := serializeToMessage(domain.LookupEvent{
		ID:      "evt-2",
		Input:   "abc",
		Outcome: "format_error",
		Message: domain.MsgInvalidFormat,
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("evt-2"), msg.Key)
	assert.NotContains(t, string(msg.Value), `"address"`)
	assert.NotContains(t, string(msg.Value), `"cep"`)
}
