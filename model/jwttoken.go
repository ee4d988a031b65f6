package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the refresh-token record stored at sessions/{userId}.
type Session struct {
	UserID           string    `firestore:"userId"`
	RefreshTokenHash string    `firestore:"refreshTokenHash"`
	CreatedAt        time.Time `firestore:"createdAt"`
	ExpiresIn        int64     `firestore:"expiresIn"` // seconds
	Revoked          bool      `firestore:"revoked"`
}

type AccessClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AccessRefresh struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
