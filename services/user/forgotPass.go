package user

import (
	"fmt"
	"strings"

	"evcharge/models"
	"evcharge/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *DefaultUserService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Users.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		// Report success either way so the endpoint cannot be used to probe
		// which emails have accounts.
		utils.GetLogger().Debug("password reset requested for unknown email")
		return nil
	}

	if err := utils.InitiatePasswordResetOTP(email); err != nil {
		utils.GetLogger().Error("failed to initiate password reset",
			zap.String("userId", u.ID), zap.Error(err))
		return fmt.Errorf("failed to send reset code")
	}
	return nil
}

func (s *DefaultUserService) ResetPassword(req models.ResetPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := utils.VerifyPasswordResetOTP(email, req.OTP); err != nil {
		return fmt.Errorf("invalid or expired reset code")
	}

	u, err := s.Users.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return fmt.Errorf("account not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.Users.SetPasswordHash(u.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	utils.GetLogger().Info("password reset completed", zap.String("userId", u.ID))
	return nil
}
