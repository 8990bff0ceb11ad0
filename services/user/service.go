package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evcharge/models"
	"evcharge/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 72 * time.Hour

func (s *DefaultUserService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("an account with email %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := models.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Users.Create(&u); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.openSession(&u)
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("user registered", zap.String("userId", u.ID))
	return &models.AuthResponse{Token: token, User: u}, nil
}

func (s *DefaultUserService) Authenticate(req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.Users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := s.openSession(u)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: *u}, nil
}

func (s *DefaultUserService) GetUser(id string) (*models.User, error) {
	u, err := s.Users.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %s not found", id)
	}
	return u, nil
}

func (s *DefaultUserService) UpdateProfile(userID string, req models.UpdateProfileRequest) (*models.User, error) {
	u, err := s.Users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %s not found", userID)
	}

	u.Name = strings.TrimSpace(req.Name)
	u.UpdatedAt = time.Now()
	if err := s.Users.Update(u); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// DeleteAccount removes the account record. Bookings carry their own copy
// of the user fields, so the ledger survives the account.
func (s *DefaultUserService) DeleteAccount(userID string) error {
	if err := s.Users.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	utils.GetLogger().Info("user deleted", zap.String("userId", userID))
	return nil
}

// RenewToken verifies the signature of an expired token and opens a fresh
// session for its subject.
func (s *DefaultUserService) RenewToken(token string) (string, error) {
	claims, err := utils.ParseAllowExpired(token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("token carries no subject")
	}

	u, err := s.Users.GetByID(sub)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return "", fmt.Errorf("user %s not found", sub)
	}
	return s.openSession(u)
}

func (s *DefaultUserService) UpdatePushToken(userID string, req models.PushTokenRequest) error {
	device := req.DeviceInfo
	device.LastUpdated = time.Now()
	if err := s.Users.SetPushToken(userID, req.PushToken, device); err != nil {
		return fmt.Errorf("failed to store push token: %w", err)
	}
	return nil
}

// openSession signs a JWT and caches its hash so middleware can check
// revocation without re-reading Mongo.
func (s *DefaultUserService) openSession(u *models.User) (string, error) {
	token, err := utils.GenerateToken(u.ID, u.Email, sessionTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	cacheKey := "session:" + utils.HashToken(token)
	if err := utils.GetAuthCacheClient().Set(context.Background(), cacheKey, u.ID, sessionTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache session", zap.String("userId", u.ID), zap.Error(err))
	}
	return token, nil
}
