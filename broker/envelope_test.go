package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	raw, err := encodeEnvelope("proc-a", map[string]any{"orderId": 7})
	assert.NoError(t, err)

	// another instance sees the payload
	data, ok, err := decodeEnvelope("proc-b", raw)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"orderId":7}`, string(data))
}

func TestEnvelopeDropsOwnMessages(t *testing.T) {
	raw, err := encodeEnvelope("proc-a", map[string]any{"orderId": 7})
	assert.NoError(t, err)

	// the publisher already delivered locally; its own message is skipped
	_, ok, err := decodeEnvelope("proc-a", raw)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEnvelopeRejectsGarbage(t *testing.T) {
	_, _, err := decodeEnvelope("proc-a", []byte("not json"))
	assert.Error(t, err)
}
