// Package auth issues and validates the signed tokens the service hands
// out: bearer session tokens and single-purpose email-verification tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Azi77ry/personal-App/models"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	sessionTTL      = 24 * time.Hour
	verificationTTL = time.Hour
)

type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) issue(claims *models.Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssueSession returns a bearer token authenticating the user for 24 hours.
func (s *TokenService) IssueSession(userID string) (string, error) {
	return s.issue(&models.Claims{
		UserID:  userID,
		Purpose: models.TokenPurposeSession,
	}, sessionTTL)
}

// IssueEmailVerification returns a short-lived token bound to the address
// being verified, so a later email change invalidates outstanding links.
func (s *TokenService) IssueEmailVerification(userID, email string) (string, error) {
	return s.issue(&models.Claims{
		UserID:  userID,
		Purpose: models.TokenPurposeEmailVerification,
		Email:   email,
	}, verificationTTL)
}

// Parse validates the signature, expiry and purpose of a token.
func (s *TokenService) Parse(tokenString, purpose string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
