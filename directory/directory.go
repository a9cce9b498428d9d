// Package directory maps usernames and emails to user identities and
// credential hashes. Credential records live apart from the per-user
// financial documents.
package directory

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrExists             = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User is one credential record. The password hash never serializes to JSON.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash []byte    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Directory enforces global username/email uniqueness and answers identity
// lookups. Implementations index by username and email rather than scanning.
type Directory interface {
	Exists(ctx context.Context, username, email string) (bool, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, username, email string, passwordHash []byte) (string, error)
	UpdateEmail(ctx context.Context, id, email string) error
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
}

// dummyHash is compared against when the username is unknown, so lookup
// failures cost the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)

// VerifyCredentials looks the user up by username and checks the password
// against the stored bcrypt hash. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func VerifyCredentials(ctx context.Context, dir Directory, username, password string) (*User, error) {
	user, err := dir.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
