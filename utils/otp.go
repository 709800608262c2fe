// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateResetCode returns a 6-character code for password resets
func GenerateResetCode() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return base32.StdEncoding.EncodeToString(bytes)[:6], nil
}

// ValidateResetAttempts caps reset-code requests per email. A nil client
// (Redis unavailable) disables the cap rather than blocking resets.
func ValidateResetAttempts(email string, rdb *redis.Client) error {
	if rdb == nil {
		return nil
	}

	key := "reset_attempts:" + email
	attempts, err := rdb.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		rdb.Expire(context.Background(), key, 1*time.Hour)
	}

	// Limit to 5 attempts per hour
	if attempts > 5 {
		return errors.New("too many password reset attempts")
	}

	return nil
}
