package directory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryDirectory keeps credential records in maps indexed by id, username
// and email. It backs tests and the file directory.
type MemoryDirectory struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byUsername map[string]string
	byEmail    map[string]string
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		byID:       map[string]*User{},
		byUsername: map[string]string{},
		byEmail:    map[string]string{},
	}
}

func copyUser(u *User) *User {
	c := *u
	c.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &c
}

func (d *MemoryDirectory) Exists(_ context.Context, username, email string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.byUsername[username]; ok {
		return true, nil
	}
	if email != "" {
		if _, ok := d.byEmail[email]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (d *MemoryDirectory) FindByUsername(_ context.Context, username string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(d.byID[id]), nil
}

func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(d.byID[id]), nil
}

func (d *MemoryDirectory) FindByID(_ context.Context, id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

func (d *MemoryDirectory) Create(_ context.Context, username, email string, passwordHash []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byUsername[username]; ok {
		return "", ErrExists
	}
	if _, ok := d.byEmail[email]; ok {
		return "", ErrExists
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: append([]byte(nil), passwordHash...),
		CreatedAt:    time.Now().UTC(),
	}
	d.byID[user.ID] = user
	d.byUsername[username] = user.ID
	d.byEmail[email] = user.ID
	return user.ID, nil
}

func (d *MemoryDirectory) UpdateEmail(_ context.Context, id, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.byID[id]
	if !ok {
		return ErrNotFound
	}
	if owner, taken := d.byEmail[email]; taken && owner != id {
		return ErrExists
	}
	delete(d.byEmail, user.Email)
	user.Email = email
	d.byEmail[email] = id
	return nil
}

func (d *MemoryDirectory) UpdatePassword(_ context.Context, id string, passwordHash []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.byID[id]
	if !ok {
		return ErrNotFound
	}
	user.PasswordHash = append([]byte(nil), passwordHash...)
	return nil
}

// all returns a snapshot of every record, for persistence by the file
// directory.
func (d *MemoryDirectory) all() []*User {
	d.mu.RLock()
	defer d.mu.RUnlock()
	users := make([]*User, 0, len(d.byID))
	for _, user := range d.byID {
		users = append(users, copyUser(user))
	}
	return users
}
