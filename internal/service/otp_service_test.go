package service

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOTPFixture(t *testing.T) (*OTPService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewOTPService(client, log), mr
}

func TestOTPIssueGeneratesFourDigitCode(t *testing.T) {
	svc, _ := newOTPFixture(t)

	code, err := svc.Issue(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{3}$`), code)
}

func TestOTPResendBlockedDuringCooldown(t *testing.T) {
	svc, mr := newOTPFixture(t)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "session-1")
	require.NoError(t, err)

	_, err = svc.Issue(ctx, "session-1")
	assert.ErrorIs(t, err, ErrCooldownActive)

	remaining, err := svc.CooldownRemaining(ctx, "session-1")
	require.NoError(t, err)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, ResendCooldown)

	// After the cooldown window a re-send is allowed again.
	mr.FastForward(ResendCooldown)

	_, err = svc.Issue(ctx, "session-1")
	assert.NoError(t, err)
}

func TestOTPVerifyExactMatchOnly(t *testing.T) {
	svc, _ := newOTPFixture(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "session-1")
	require.NoError(t, err)

	match, err := svc.Verify(ctx, "session-1", "0000")
	require.NoError(t, err)
	assert.False(t, match)

	match, err = svc.Verify(ctx, "session-1", code)
	require.NoError(t, err)
	assert.True(t, match)

	// A mismatch must not consume the pending code.
	match, err = svc.Verify(ctx, "session-1", code)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestOTPVerifyWithoutPendingCode(t *testing.T) {
	svc, _ := newOTPFixture(t)

	_, err := svc.Verify(context.Background(), "session-1", "1234")
	assert.ErrorIs(t, err, ErrNoPendingCode)
}

// The pending code deliberately outlives the re-send cooldown.
func TestOTPCodeValidAfterCooldownExpires(t *testing.T) {
	svc, mr := newOTPFixture(t)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "session-1")
	require.NoError(t, err)

	mr.FastForward(ResendCooldown + time.Minute)

	match, err := svc.Verify(ctx, "session-1", code)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestOTPClear(t *testing.T) {
	svc, _ := newOTPFixture(t)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "session-1")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "session-1"))

	_, err = svc.Verify(ctx, "session-1", "1234")
	assert.ErrorIs(t, err, ErrNoPendingCode)

	remaining, err := svc.CooldownRemaining(ctx, "session-1")
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestOTPCooldownIsPerSession(t *testing.T) {
	svc, _ := newOTPFixture(t)
	ctx := context.Background()

	_, err := svc.Issue(ctx, "session-1")
	require.NoError(t, err)

	_, err = svc.Issue(ctx, "session-2")
	assert.NoError(t, err)
}
