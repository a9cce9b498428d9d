package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azi77ry/personal-App/models"
)

func newFileBackend(t *testing.T) (*FileBackend, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	require.NoError(t, err)
	return backend, dir
}

func TestFileBackendRoundTrip(t *testing.T) {
	backend, dir := newFileBackend(t)
	docs := NewDocuments(backend)
	ctx := context.Background()

	doc := models.DefaultUserDocument()
	doc.Profile = models.Profile{Username: "dana", Email: "dana@example.com"}
	addExpense(doc, "utilities")
	require.NoError(t, docs.Save(ctx, "u-42", doc))

	// One deterministic file per user, no temp files left behind.
	_, err := os.Stat(filepath.Join(dir, "user_u-42.json"))
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	loaded, err := docs.Load(ctx, "u-42")
	require.NoError(t, err)
	assert.Equal(t, "dana", loaded.Profile.Username)
	assert.Len(t, loaded.Expenses, 1)
}

func TestFileBackendMigratesLegacyFileOnLoad(t *testing.T) {
	backend, dir := newFileBackend(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user_old.json"), []byte(legacyUserJSON), 0o644))

	docs := NewDocuments(backend)
	doc, err := docs.Load(context.Background(), "old")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc.Profile.Username)
	assert.Len(t, doc.Expenses, 1)

	// Load alone does not rewrite the file; the sweep does.
	raw, err := os.ReadFile(filepath.Join(dir, "user_old.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "schema_version")

	migrated, err := docs.MigrateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, migrated)

	raw, err = os.ReadFile(filepath.Join(dir, "user_old.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"schema_version": 1`)
	assert.Contains(t, string(raw), `"username": "alice"`)
}

func TestFileBackendUsersListsOnlyUserFiles(t *testing.T) {
	backend, dir := newFileBackend(t)
	ctx := context.Background()
	docs := NewDocuments(backend)

	require.NoError(t, docs.Save(ctx, "one", models.DefaultUserDocument()))
	require.NoError(t, docs.Save(ctx, "two", models.DefaultUserDocument()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	users, err := backend.Users(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two"}, users)
}

func TestFileBackendMissingUser(t *testing.T) {
	backend, _ := newFileBackend(t)
	raw, err := backend.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, raw)
}
