package services

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"ecocart/model"
	"ecocart/repository"
)

const (
	tokenIssuer     = "ecocart"
	accessAudience  = "access"
	refreshAudience = "refresh"
	AccessTokenTTL  = 60 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// SessionService issues and checks the HS256 token pair. Only a hash of
// the refresh token is stored, in sessions/{userId}.
type SessionService struct {
	sessions      repository.SessionStore
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
	log           *zap.Logger
}

func NewSessionService(sessions repository.SessionStore, accessSecret, refreshSecret string, log *zap.Logger) *SessionService {
	return &SessionService{
		sessions:      sessions,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
		log:           log.Named("session"),
	}
}

func (s *SessionService) createAccessToken(userID, email string) (string, error) {
	now := s.now()
	claims := &model.AccessClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{accessAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.accessSecret)
}

func (s *SessionService) createRefreshToken(userID, email string) (string, error) {
	now := s.now()
	claims := &model.AccessRefresh{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{refreshAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.refreshSecret)
}

// HashRefreshToken bcrypts the SHA-256 digest of token, which keeps the
// input under bcrypt's 72 byte limit.
func HashRefreshToken(token string) (string, error) {
	hash := sha256.Sum256([]byte(token))
	hashed, err := bcrypt.GenerateFromPassword(hash[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func compareRefreshToken(hashed, token string) error {
	hash := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(hashed), hash[:])
}

// Issue creates a new token pair and replaces the stored session.
func (s *SessionService) Issue(ctx context.Context, userID, email string) (*model.TokenPair, error) {
	access, err := s.createAccessToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	refresh, err := s.createRefreshToken(userID, email)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}
	hashed, err := HashRefreshToken(refresh)
	if err != nil {
		return nil, fmt.Errorf("hash refresh token: %w", err)
	}

	err = s.sessions.SaveSession(ctx, &model.Session{
		UserID:           userID,
		RefreshTokenHash: hashed,
		CreatedAt:        s.now(),
		ExpiresIn:        int64(RefreshTokenTTL / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccessToken validates signature, issuer, audience and expiry.
func (s *SessionService) ParseAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := s.parse(tokenString, claims, s.accessSecret, accessAudience); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no userId claim")
	}
	return claims, nil
}

// Authenticate parses an access token and rejects it once the user's
// session has been revoked or removed.
func (s *SessionService) Authenticate(ctx context.Context, tokenString string) (*model.AccessClaims, error) {
	claims, err := s.ParseAccessToken(tokenString)
	if err != nil {
		return nil, ErrSessionExpired
	}
	session, err := s.sessions.GetSession(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, backendError(s.log, "Could not verify your session. Please try again.", err, zap.String("user_id", claims.UserID))
	}
	if session.Revoked {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// Refresh returns a new access token for a live, unrevoked refresh token.
// The refresh token itself is kept.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims := &model.AccessRefresh{}
	if err := s.parse(refreshToken, claims, s.refreshSecret, refreshAudience); err != nil || claims.UserID == "" {
		return nil, ErrSessionExpired
	}

	session, err := s.sessions.GetSession(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, backendError(s.log, "Could not refresh your session. Please try again.", err, zap.String("user_id", claims.UserID))
	}
	if session.Revoked {
		return nil, ErrSessionExpired
	}
	if err := compareRefreshToken(session.RefreshTokenHash, refreshToken); err != nil {
		s.log.Warn("refresh token does not match stored session", zap.String("user_id", claims.UserID))
		return nil, ErrSessionExpired
	}

	access, err := s.createAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return nil, backendError(s.log, "Could not refresh your session. Please try again.", err, zap.String("user_id", claims.UserID))
	}
	return &model.TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
}

func (s *SessionService) Revoke(ctx context.Context, userID string) error {
	return s.sessions.RevokeSession(ctx, userID)
}

func (s *SessionService) parse(tokenString string, claims jwt.Claims, secret []byte, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(audience), jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	return nil
}
