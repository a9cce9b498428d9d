package models

import "github.com/golang-jwt/jwt/v5"

const (
	TokenPurposeSession           = "session"
	TokenPurposeEmailVerification = "email-verification"
)

// Claims is the payload of every token this service issues. Purpose keeps
// verification links from being replayed as session tokens.
type Claims struct {
	UserID  string `json:"user_id"`
	Purpose string `json:"purpose"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
