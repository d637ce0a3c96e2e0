package service

import (
	"context"
	"time"

	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/internal/model"
	"praktikmaal_backend/internal/util"
	"praktikmaal_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = time.Hour

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, userID uint, hashed string) error
}

// AuthService handles registration, login and password recovery. Recovery
// tokens are one-time values stored in Redis with a one hour TTL; in file
// persistence mode (no Redis) recovery is unavailable.
type AuthService struct {
	Users  UserStore
	Redis  *redis.Client
	Gate   *SessionGate
	Config *config.Config
}

func NewAuthService(users UserStore, rdb *redis.Client, gate *SessionGate, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Redis: rdb, Gate: gate, Config: cfg}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register creates an apprentice account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	existing, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Password: string(hash),
		Name:     req.Name,
		Role:     model.Apprentice,
		Language: "da",
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a JWT. A login while the user is in
// password recovery succeeds but does not clear the recovery state.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Disabled {
		return nil, util.ErrInvalidCredentials
	}

	s.Gate.Publish(GateEvent{UserID: user.ID, Kind: EventAuthenticating})
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.Gate.Publish(GateEvent{UserID: user.ID, Kind: EventAuthFailed})
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	user.LastLogin = time.Now()
	if err := s.Users.Update(ctx, user); err != nil {
		logger.Log.Warn("failed to record last login", zap.Uint("user", user.ID), zap.Error(err))
	}

	s.Gate.Publish(GateEvent{UserID: user.ID, Kind: EventSignedIn})
	return &LoginResponse{Token: token, User: user}, nil
}

// Profile returns the signed-in user's account record.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

// Logout publishes the sign-out transition.
func (s *AuthService) Logout(userID uint) {
	s.Gate.Publish(GateEvent{UserID: userID, Kind: EventSignedOut})
}

// ForgotPassword issues a reset token for the address if it is registered.
// The caller gets the same answer either way, so the endpoint does not leak
// which addresses exist. The token is logged for delivery; there is no mail
// transport here.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if s.Redis == nil {
		return util.ErrStoreUnavailable
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		logger.Log.Info("password reset requested for unknown address")
		return nil
	}

	token := uuid.New().String()
	if err := s.Redis.Set(ctx, "reset:"+token, user.ID, resetTokenTTL).Err(); err != nil {
		return util.ErrStoreUnavailable
	}

	logger.Log.Info("password reset token issued",
		zap.Uint("user", user.ID),
		zap.String("token", token))
	s.Gate.Publish(GateEvent{UserID: user.ID, Kind: EventRecoveryInitiated})
	return nil
}

// ResetPassword consumes a reset token and sets the new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if s.Redis == nil {
		return util.ErrStoreUnavailable
	}

	key := "reset:" + token
	value, err := s.Redis.Get(ctx, key).Uint64()
	if err == redis.Nil {
		return util.ErrResetTokenInvalid
	}
	if err != nil {
		return util.ErrStoreUnavailable
	}
	userID := uint(value)

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		logger.Log.Warn("failed to invalidate reset token", zap.Error(err))
	}

	s.Gate.Publish(GateEvent{UserID: userID, Kind: EventPasswordChanged})
	return nil
}

// ChangePassword updates the password for a signed-in user after verifying
// the current one. A completed change ends a pending recovery, the same as
// a reset through the emailed link.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return util.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return util.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.Gate.Publish(GateEvent{UserID: userID, Kind: EventPasswordChanged})
	return nil
}
