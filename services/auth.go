package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"ecocart/model"
	"ecocart/repository"
)

var credentialMessages = map[string]string{
	"email":    "Please enter a valid email address.",
	"password": "Password must be at least 6 characters long.",
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// AuthResult is returned by sign-up and sign-in.
type AuthResult struct {
	User   *model.User      `json:"user"`
	Tokens *model.TokenPair `json:"token"`
}

// AuthService signs users up and in through an AuthProvider and keeps the
// users/{uid} profile document in step.
type AuthService struct {
	provider AuthProvider
	users    repository.UserStore
	sessions *SessionService
	captcha  CaptchaVerifier
	log      *zap.Logger
}

// NewAuthService builds the service. captcha may be nil.
func NewAuthService(provider AuthProvider, users repository.UserStore, sessions *SessionService, captcha CaptchaVerifier, log *zap.Logger) *AuthService {
	return &AuthService{provider: provider, users: users, sessions: sessions, captcha: captcha, log: log.Named("auth")}
}

func (s *AuthService) checkCaptcha(ctx context.Context, ev CaptchaEvent) error {
	if s.captcha == nil {
		return nil
	}
	return s.captcha.Verify(ctx, ev)
}

func (s *AuthService) SignUp(ctx context.Context, in Credentials, ev CaptchaEvent) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in, credentialMessages); err != nil {
		return nil, err
	}
	if err := s.checkCaptcha(ctx, ev); err != nil {
		return nil, err
	}

	id, err := s.provider.CreateAccount(ctx, in.Email, in.Password)
	if errors.Is(err, ErrEmailTaken) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, backendError(s.log, "An unknown error occurred. Please try again.", err)
	}

	user := &model.User{UID: id.UID, Email: id.Email, CreatedAt: time.Now(), EcoPoints: 0}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, backendError(s.log, "An unknown error occurred. Please try again.", err, zap.String("user_id", id.UID))
	}

	tokens, err := s.sessions.Issue(ctx, user.UID, user.Email)
	if err != nil {
		return nil, backendError(s.log, "An unknown error occurred. Please try again.", err, zap.String("user_id", id.UID))
	}
	s.log.Info("user signed up", zap.String("user_id", user.UID))
	return &AuthResult{User: user, Tokens: tokens}, nil
}

func (s *AuthService) SignIn(ctx context.Context, in Credentials, ev CaptchaEvent) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateStruct(in, credentialMessages); err != nil {
		return nil, err
	}
	if err := s.checkCaptcha(ctx, ev); err != nil {
		return nil, err
	}

	id, err := s.provider.VerifyPassword(ctx, in.Email, in.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, backendError(s.log, "Invalid email or password. Please try again.", err)
	}

	user, err := s.users.GetUser(ctx, id.UID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		// account created outside this service; mirror it now
		user = &model.User{UID: id.UID, Email: id.Email, CreatedAt: time.Now()}
		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, backendError(s.log, "An unknown error occurred. Please try again.", err, zap.String("user_id", id.UID))
		}
	case err != nil:
		return nil, backendError(s.log, "An unknown error occurred. Please try again.", err, zap.String("user_id", id.UID))
	}

	tokens, err := s.sessions.Issue(ctx, user.UID, user.Email)
	if err != nil {
		return nil, backendError(s.log, "An unknown error occurred. Please try again.", err, zap.String("user_id", id.UID))
	}
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// SignOut revokes the stored session and the provider's refresh tokens.
// Failures are logged and never returned.
func (s *AuthService) SignOut(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if err := s.sessions.Revoke(ctx, userID); err != nil {
		s.log.Error("logout failed: revoke session", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.provider.RevokeSessions(ctx, userID); err != nil {
		s.log.Error("logout failed: revoke provider tokens", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrSessionExpired
	}
	return s.sessions.Refresh(ctx, refreshToken)
}
