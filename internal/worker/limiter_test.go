package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiter_New(t *testing.T) {
	assert.Equal(t, 3, NewLimiter(time.Second, 3).burst)
	assert.Equal(t, 1, NewLimiter(time.Second, -1).burst)
}

func TestLimiter_Throttles(t *testing.T) {
	limiter := NewLimiter(time.Hour, 1)

	assert.True(t, limiter.Allow("docx"))
	assert.False(t, limiter.Allow("docx"), "token spent")
	assert.True(t, limiter.Allow("pdf"), "keys are independent")
}

func TestLimiter_NoInterval(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow("docx"))
	}
}

func TestLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewLimiter(time.Hour, 1)
	require.NoError(t, limiter.Wait(context.Background(), "docx"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, "docx"))
}

func TestLimiter_SetInterval(t *testing.T) {
	limiter := NewLimiter(0, 1)
	limiter.SetInterval("pdf", time.Hour, 1)

	assert.True(t, limiter.Allow("pdf"))
	assert.False(t, limiter.Allow("pdf"))
	assert.True(t, limiter.Allow("docx"))
	assert.True(t, limiter.Allow("docx"))
}
