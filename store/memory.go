package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Azi77ry/personal-App/models"
)

// MemoryBackend stores each document as marshalled JSON, mimicking a real
// backing medium: loads decode a fresh copy, so in-memory mutations never
// leak into "persisted" state. Used by tests and as a scratch backend.
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: map[string][]byte{}}
}

// SeedRaw stores a raw JSON document verbatim, bypassing the typed Save
// path. Tests use it to plant legacy-shape documents.
func (b *MemoryBackend) SeedRaw(userID string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.docs[userID] = append([]byte(nil), data...)
}

func (b *MemoryBackend) Load(_ context.Context, userID string) (*rawDocument, error) {
	b.mu.RLock()
	data, ok := b.docs[userID]
	b.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse document for user %s: %w", userID, err)
	}
	return &raw, nil
}

func (b *MemoryBackend) Save(_ context.Context, userID string, doc *models.UserDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document for user %s: %w", userID, err)
	}
	b.mu.Lock()
	b.docs[userID] = data
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Users(_ context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	users := make([]string, 0, len(b.docs))
	for userID := range b.docs {
		users = append(users, userID)
	}
	return users, nil
}

func (b *MemoryBackend) Ping(_ context.Context) error {
	return nil
}

// Exists reports whether a document has been persisted for the user.
func (b *MemoryBackend) Exists(userID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.docs[userID]
	return ok
}
