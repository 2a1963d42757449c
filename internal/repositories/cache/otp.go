package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sahulat/internal/utils"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrCodeExpired means no code exists for the transaction: it was
	// never issued, already consumed, or aged out of its window.
	ErrCodeExpired = errors.New("code expired")
	ErrCodeInvalid = errors.New("invalid code")
)

// OTPStore keeps per-transaction one-time codes in Redis with a TTL.
// Codes are bound to a transaction id and removed on first successful
// verification.
type OTPStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewOTPStore(client *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{client: client, ttl: ttl}
}

// Issue generates and stores a fresh code for the transaction.
func (s *OTPStore) Issue(ctx context.Context, transactionID string) (string, error) {
	code, err := utils.GenerateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	if err := s.client.Set(ctx, otpKey(transactionID), code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store code: %w", err)
	}
	return code, nil
}

// Verify compares the supplied code and consumes it on success.
func (s *OTPStore) Verify(ctx context.Context, transactionID, supplied string) error {
	stored, err := s.client.Get(ctx, otpKey(transactionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCodeExpired
		}
		return fmt.Errorf("failed to read code: %w", err)
	}
	if stored != supplied {
		return ErrCodeInvalid
	}
	return s.client.Del(ctx, otpKey(transactionID)).Err()
}

func otpKey(transactionID string) string {
	return fmt.Sprintf("otp:txn:%s", transactionID)
}
