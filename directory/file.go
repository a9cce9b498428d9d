package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileDirectory persists credential records to a single users.json file,
// separate from the per-user financial documents. Lookups are served from
// the in-memory indexes; the file is rewritten after every mutation.
type FileDirectory struct {
	mu   sync.Mutex
	path string
	mem  *MemoryDirectory
}

// fileUser is the persisted form; unlike User it serializes the hash.
type fileUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewFileDirectory(dataDir string) (*FileDirectory, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	d := &FileDirectory{
		path: filepath.Join(dataDir, "users.json"),
		mem:  NewMemoryDirectory(),
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *FileDirectory) load() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read user directory: %w", err)
	}

	var users []fileUser
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse user directory: %w", err)
	}
	for _, u := range users {
		user := &User{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
		}
		d.mem.byID[user.ID] = user
		d.mem.byUsername[user.Username] = user.ID
		d.mem.byEmail[user.Email] = user.ID
	}
	return nil
}

func (d *FileDirectory) persist() error {
	users := d.mem.all()
	persisted := make([]fileUser, 0, len(users))
	for _, u := range users {
		persisted = append(persisted, fileUser{
			ID:           u.ID,
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user directory: %w", err)
	}
	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write user directory: %w", err)
	}
	if err := os.Rename(tmp, d.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace user directory: %w", err)
	}
	return nil
}

func (d *FileDirectory) Exists(ctx context.Context, username, email string) (bool, error) {
	return d.mem.Exists(ctx, username, email)
}

func (d *FileDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	return d.mem.FindByUsername(ctx, username)
}

func (d *FileDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.mem.FindByEmail(ctx, email)
}

func (d *FileDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.mem.FindByID(ctx, id)
}

func (d *FileDirectory) Create(ctx context.Context, username, email string, passwordHash []byte) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, err := d.mem.Create(ctx, username, email, passwordHash)
	if err != nil {
		return "", err
	}
	if err := d.persist(); err != nil {
		return "", err
	}
	return id, nil
}

func (d *FileDirectory) UpdateEmail(ctx context.Context, id, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.mem.UpdateEmail(ctx, id, email); err != nil {
		return err
	}
	return d.persist()
}

func (d *FileDirectory) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.mem.UpdatePassword(ctx, id, passwordHash); err != nil {
		return err
	}
	return d.persist()
}
