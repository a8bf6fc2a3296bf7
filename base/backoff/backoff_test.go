package backoff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialSchedule(t *testing.T) {
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	ctx := context.Background()

	assert.Equal(t, time.Millisecond, b.NextDuration)
	assert.NoError(t, b.Backoff(ctx))
	assert.Equal(t, 2*time.Millisecond, b.NextDuration)
	assert.NoError(t, b.Backoff(ctx))
	assert.Equal(t, 4*time.Millisecond, b.NextDuration)

	// capped at the limit from here on
	assert.NoError(t, b.Backoff(ctx))
	assert.Equal(t, 4*time.Millisecond, b.NextDuration)

	b.Reset()
	assert.Equal(t, time.Millisecond, b.NextDuration)
}

func TestBackoffHonorsCancellation(t *testing.T) {
	b := NewExponential(time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, context.Canceled, b.Backoff(ctx))
}
