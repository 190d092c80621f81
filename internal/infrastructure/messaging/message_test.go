package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{
		Initial:    time.Second,
		Max:        30 * time.Second,
		Multiplier: 2,
	}

	tests := []struct {
		retryCount int
		want       time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{10, 30 * time.Second}, // capped at max
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.CalculateBackoff(tt.retryCount), "retry %d", tt.retryCount)
	}
}

func TestMessagePayloadRoundTrip(t *testing.T) {
	job := &PostGenJobMessage{
		JobID:   "job-1",
		OwnerID: "owner-1",
		Brief:   "write about coffee",
		Kind:    "blog",
		TopK:    5,
	}

	msg, err := NewMessage(job.JobID, "post_gen", job.OwnerID, job)
	require.NoError(t, err)
	assert.Equal(t, "post_gen", msg.Type)
	assert.Equal(t, "owner-1", msg.OwnerID)

	var decoded PostGenJobMessage
	require.NoError(t, msg.UnmarshalPayload(&decoded))
	assert.Equal(t, job.Brief, decoded.Brief)
	assert.Equal(t, job.TopK, decoded.TopK)
}

func TestMessageMetadata(t *testing.T) {
	msg := &Message{}
	assert.Empty(t, msg.GetMetadata("request_id"))

	msg.SetMetadata("request_id", "req-1")
	assert.Equal(t, "req-1", msg.GetMetadata("request_id"))
}

func TestDLQStream(t *testing.T) {
	assert.Equal(t, "dlq:stream:post:gen", StreamPostGen.DLQStream())
}
