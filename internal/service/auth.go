package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/security"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// dummyHash (bcrypt of "password") keeps the unknown-user path doing the same
// amount of work as a real comparison.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService verifies credentials against stored bcrypt hashes and issues
// JWT session tokens.
type AuthService struct {
	keys   *security.KeyManager
	users  store.UserStore
	logger *zap.Logger
}

func NewAuthService(keys *security.KeyManager, users store.UserStore, logger *zap.Logger) *AuthService {
	return &AuthService{keys: keys, users: users, logger: logger}
}

// Login returns a signed token on success. Failures are reported uniformly
// as ErrInvalidCredentials so callers cannot probe for usernames.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, errs.ErrUserNotFound) {
			s.logger.Error("user lookup failed", zap.String("username", username), zap.Error(err))
		}
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return "", errs.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("login failed", zap.String("username", username))
		return "", errs.ErrInvalidCredentials
	}
	token, err := s.keys.GenerateToken(user.ID, user.Role, tokenTTL)
	if err != nil {
		s.logger.Error("token generation failed", zap.String("user_id", user.ID), zap.Error(err))
		return "", err
	}
	s.logger.Info("login ok", zap.String("user_id", user.ID))
	return token, nil
}

// ValidateToken resolves a bearer token back to its user.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.keys.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, claims.UserID)
}

func (s *AuthService) IsAdmin(user *model.User) bool {
	return user != nil && user.Role == model.RoleAdmin
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *AuthService) CreateUser(ctx context.Context, username, password, email, role string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if email = strings.TrimSpace(email); email != "" {
		u.Email = &email
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
