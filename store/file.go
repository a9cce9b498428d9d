package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azi77ry/personal-App/models"
)

// FileBackend keeps one JSON file per user, named user_<id>.json inside the
// data directory. Saves write to a temp file and rename it into place so a
// crashed write never leaves a torn document behind.
type FileBackend struct {
	dataDir string
}

func NewFileBackend(dataDir string) (*FileBackend, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %v", ErrUnavailable, err)
	}
	return &FileBackend{dataDir: dataDir}, nil
}

func (b *FileBackend) userFile(userID string) string {
	return filepath.Join(b.dataDir, "user_"+userID+".json")
}

func (b *FileBackend) Load(_ context.Context, userID string) (*rawDocument, error) {
	data, err := os.ReadFile(b.userFile(userID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read document for user %s: %v", ErrUnavailable, userID, err)
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document for user %s: %w", userID, err)
	}
	return &raw, nil
}

func (b *FileBackend) Save(_ context.Context, userID string, doc *models.UserDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document for user %s: %w", userID, err)
	}

	target := b.userFile(userID)
	tmp, err := os.CreateTemp(b.dataDir, "user_*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write document for user %s: %v", ErrUnavailable, userID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace document for user %s: %v", ErrUnavailable, userID, err)
	}
	return nil
}

func (b *FileBackend) Users(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: list data dir: %v", ErrUnavailable, err)
	}

	var users []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "user_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		users = append(users, strings.TrimSuffix(strings.TrimPrefix(name, "user_"), ".json"))
	}
	return users, nil
}

func (b *FileBackend) Ping(_ context.Context) error {
	if _, err := os.Stat(b.dataDir); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
