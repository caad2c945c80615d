package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T) (*Limiter, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	return NewLimiter(newTestDB(t), 5, 15*time.Minute).WithClock(clock.Now), clock
}

func TestLimiter_CountsDownThenLocks(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		st, err := l.Fail(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, st.Locked)
		assert.Equal(t, i, st.Attempts)
		assert.Equal(t, 5-i, st.Remaining)
	}

	st, err := l.Fail(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, st.Locked)
	assert.Equal(t, 15, st.MinutesRemaining())
	assert.Equal(t, "15 minutes", st.LockoutText())

	other, err := l.Check(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.False(t, other.Locked)
	assert.Equal(t, 5, other.Remaining)
}

func TestLimiter_LockedKeyIsNotCountedFurther(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := l.Fail(ctx, "k")
		require.NoError(t, err)
	}

	st, err := l.Fail(ctx, "k")
	require.NoError(t, err)
	assert.True(t, st.Locked)
	assert.Equal(t, 5, st.Attempts)
}

func TestLimiter_MinutesRoundUp(t *testing.T) {
	l, clock := newTestLimiter(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := l.Fail(ctx, "k")
		require.NoError(t, err)
	}

	clock.Advance(14*time.Minute + time.Second)
	st, err := l.Check(ctx, "k")
	require.NoError(t, err)
	assert.True(t, st.Locked)
	assert.Equal(t, 1, st.MinutesRemaining())
	assert.Equal(t, "1 minute", st.LockoutText())
}

func TestLimiter_ExpiredLockClearsRecord(t *testing.T) {
	l, clock := newTestLimiter(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := l.Fail(ctx, "k")
		require.NoError(t, err)
	}

	clock.Advance(15 * time.Minute)
	st, err := l.Check(ctx, "k")
	require.NoError(t, err)
	assert.False(t, st.Locked)
	assert.Equal(t, 0, st.Attempts)
	assert.Equal(t, 5, st.Remaining)

	var n int64
	require.NoError(t, l.db.Model(&Throttle{}).Count(&n).Error)
	assert.Zero(t, n)

	st, err = l.Fail(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Attempts)
}

func TestLimiter_FailAfterExpiryStartsOver(t *testing.T) {
	l, clock := newTestLimiter(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := l.Fail(ctx, "k")
		require.NoError(t, err)
	}
	clock.Advance(16 * time.Minute)

	st, err := l.Fail(ctx, "k")
	require.NoError(t, err)
	assert.False(t, st.Locked)
	assert.Equal(t, 1, st.Attempts)
	assert.Equal(t, 4, st.Remaining)
}

func TestLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(t)
	ctx := context.Background()
	_, err := l.Fail(ctx, "k")
	require.NoError(t, err)

	require.NoError(t, l.Reset(ctx, "k"))
	st, err := l.Check(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, st.Attempts)
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "1 minute", FormatMinutes(1))
	assert.Equal(t, "15 minutes", FormatMinutes(15))
}
