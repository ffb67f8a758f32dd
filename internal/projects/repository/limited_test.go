package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/project-sync/internal/projects/domain"
)

type slowStore struct {
	Store
	calls int
	delay time.Duration
}

func (s *slowStore) NextSerialNumber(ctx context.Context, _ domain.ClassificationTag) (int, error) {
	s.calls++
	select {
	case <-time.After(s.delay):
		return s.calls, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func TestLimited_TimeoutBoundsCall(t *testing.T) {
	inner := &slowStore{delay: time.Second}
	l := NewLimited(inner, LimitConfig{Timeout: 20 * time.Millisecond})

	_, err := l.NextSerialNumber(context.Background(), domain.TagAI)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimited_RateLimitRejectsWhenContextTooShort(t *testing.T) {
	inner := &slowStore{}
	l := NewLimited(inner, LimitConfig{RateLimit: rate.Every(time.Hour), BurstSize: 1})

	n, err := l.NextSerialNumber(context.Background(), domain.TagAI)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.NextSerialNumber(ctx, domain.TagAI)
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
