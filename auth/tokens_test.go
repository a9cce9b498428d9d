package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azi77ry/personal-App/models"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")

	token, err := tokens.IssueSession("u1")
	require.NoError(t, err)

	claims, err := tokens.Parse(token, models.TokenPurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestVerificationTokenCannotBeUsedAsSession(t *testing.T) {
	tokens := NewTokenService("test-secret")

	token, err := tokens.IssueEmailVerification("u1", "u1@example.com")
	require.NoError(t, err)

	_, err = tokens.Parse(token, models.TokenPurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := tokens.Parse(token, models.TokenPurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", claims.Email)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token, err := NewTokenService("secret-a").IssueSession("u1")
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Parse(token, models.TokenPurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
