package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const otpTTL = 5 * time.Minute

// generateNumericOTP generates a secure random numeric OTP of the given
// length.
func generateNumericOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// InitiatePasswordResetOTP generates an OTP, stores it in Redis with a
// 5-minute TTL keyed by email, and mails it to the user.
func InitiatePasswordResetOTP(email string) error {
	otp, err := generateNumericOTP(6)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	otpKey := fmt.Sprintf("otp:reset:%s", email)

	ctx := context.Background()
	client := GetOTPCacheClient()

	if err := client.Set(ctx, otpKey, otp, otpTTL).Err(); err != nil {
		GetLogger().Error("Failed to cache OTP", zap.Error(err))
		return fmt.Errorf("failed to initiate password reset")
	}

	subject := "Your password reset code"
	body := fmt.Sprintf("Your password reset code is: %s. It expires in 5 minutes.", otp)
	if err := SendEmail(email, subject, body); err != nil {
		GetLogger().Error("Failed to send OTP email", zap.Error(err))
		return fmt.Errorf("failed to send OTP")
	}

	GetLogger().Sugar().Infof("Sent password reset OTP to %s (expires in %v)", email, otpTTL)
	return nil
}

// VerifyPasswordResetOTP compares the provided OTP against the stored one
// and consumes it on success.
func VerifyPasswordResetOTP(email, providedOTP string) error {
	otpKey := fmt.Sprintf("otp:reset:%s", email)
	ctx := context.Background()
	client := GetOTPCacheClient()

	storedOTP, err := client.Get(ctx, otpKey).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("OTP not found or expired")
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}

	if storedOTP != providedOTP {
		return fmt.Errorf("OTP does not match")
	}

	if err := client.Del(ctx, otpKey).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}
