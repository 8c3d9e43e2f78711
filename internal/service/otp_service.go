package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Errors
// =============================================================================

// ErrCooldownActive is returned when a re-send is requested before the
// previous cooldown has elapsed.
var ErrCooldownActive = errors.New("verification code re-send cooldown is active")

// ErrNoPendingCode is returned when verification is attempted before any
// code has been issued for the session.
var ErrNoPendingCode = errors.New("no pending verification code")

// =============================================================================
// Constants
// =============================================================================

const (
	// Redis key prefixes for the one-time code protocol
	otpCodeKeyPrefix     = "otp:code:"
	otpCooldownKeyPrefix = "otp:cooldown:"

	// ResendCooldown is how long re-sending is disabled after a code is
	// issued.
	ResendCooldown = 60 * time.Second
)

// =============================================================================
// Types
// =============================================================================

// OTPService implements the mocked one-time-code protocol: a random 4-digit
// code per session, stored as the pending code, with a single-use re-send
// cooldown. The pending code deliberately has no expiry: it stays valid
// until replaced by a re-send or cleared by a restart, matching the
// countdown's cosmetic-only role in the UI.
//
// There is no real delivery; issuing a code logs it, which stands in for
// the SMS gateway.
type OTPService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewOTPService(redisClient *redis.Client, log *logrus.Logger) *OTPService {
	return &OTPService{
		redisClient: redisClient,
		log:         log,
	}
}

// =============================================================================
// Public Methods
// =============================================================================

// Issue generates a new 4-digit code for the session and starts the re-send
// cooldown. Returns ErrCooldownActive if the previous cooldown is still
// running.
func (s *OTPService) Issue(ctx context.Context, sessionID string) (string, error) {
	cooldownKey := otpCooldownKeyPrefix + sessionID

	// SETNX doubles as the cooldown gate: only one issue per window.
	ok, err := s.redisClient.SetNX(ctx, cooldownKey, "1", ResendCooldown).Result()
	if err != nil {
		s.log.Warnf("Failed to set OTP cooldown for session %s: %+v", sessionID, err)
		return "", err
	}
	if !ok {
		return "", ErrCooldownActive
	}

	code := generateCode()
	codeKey := otpCodeKeyPrefix + sessionID

	// No TTL: the code remains valid after the cooldown ends.
	if err := s.redisClient.Set(ctx, codeKey, code, 0).Err(); err != nil {
		s.log.Warnf("Failed to store OTP for session %s: %+v", sessionID, err)
		return "", err
	}

	// Mock delivery channel.
	s.log.Infof("OTP issued for session %s: %s", sessionID, code)

	return code, nil
}

// Verify compares the submitted value against the pending code. The match
// must be bit-for-bit; a mismatch leaves both the pending code and the
// cooldown untouched.
func (s *OTPService) Verify(ctx context.Context, sessionID, submitted string) (bool, error) {
	codeKey := otpCodeKeyPrefix + sessionID
	pending, err := s.redisClient.Get(ctx, codeKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, ErrNoPendingCode
		}
		s.log.Warnf("Failed to read pending OTP for session %s: %+v", sessionID, err)
		return false, err
	}

	return submitted == pending, nil
}

// CooldownRemaining returns how long until re-sending is allowed again.
// Zero means a re-send is possible now.
func (s *OTPService) CooldownRemaining(ctx context.Context, sessionID string) (time.Duration, error) {
	ttl, err := s.redisClient.TTL(ctx, otpCooldownKeyPrefix+sessionID).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

// Clear drops the pending code and cooldown for the session. Called on
// restart.
func (s *OTPService) Clear(ctx context.Context, sessionID string) error {
	return s.redisClient.Del(ctx,
		otpCodeKeyPrefix+sessionID,
		otpCooldownKeyPrefix+sessionID,
	).Err()
}

// generateCode returns a random code in [1000, 9999].
func generateCode() string {
	var buf [8]byte
	rand.Read(buf[:])
	n := binary.BigEndian.Uint64(buf[:]) % 9000
	return fmt.Sprintf("%d", 1000+n)
}
