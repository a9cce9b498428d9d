package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azi77ry/personal-App/models"
)

const legacyUserJSON = `{
	"username": "alice",
	"email": "alice@example.com",
	"email_verified": true,
	"expenses": {
		"exp-1": {"amount": 42.5, "category": "food", "date": "2025-01-15", "description": "groceries"}
	},
	"incomes": {
		"inc-1": {"amount": 1200, "source": "salary", "date": "2025-01-01", "description": ""}
	},
	"tasks": {
		"task-1": {"name": "file taxes", "due_date": "2025-04-15", "priority": "high", "description": "", "completed": false}
	}
}`

func TestLoadMigratesLegacyDocument(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SeedRaw("u1", []byte(legacyUserJSON))
	docs := NewDocuments(backend)

	doc, err := docs.Load(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, models.SchemaVersionCurrent, doc.SchemaVersion)
	assert.Equal(t, "alice", doc.Profile.Username)
	assert.Equal(t, "alice@example.com", doc.Profile.Email)
	assert.True(t, doc.Profile.EmailVerified)

	// Settings synthesized with defaults.
	assert.Equal(t, "USD", doc.Settings.Currency)
	assert.Equal(t, "09:00", doc.Settings.Notifications.Time)
	assert.True(t, doc.Settings.Notifications.Bills)

	// Records pass through the migration untouched.
	require.Len(t, doc.Expenses, 1)
	assert.Equal(t, 42.5, doc.Expenses["exp-1"].Amount)
	assert.Equal(t, "food", doc.Expenses["exp-1"].Category)
	require.Len(t, doc.Incomes, 1)
	assert.Equal(t, "salary", doc.Incomes["inc-1"].Source)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, models.TaskPriorityHigh, doc.Tasks["task-1"].Priority)

	// Absent collections become empty maps, never nil.
	assert.NotNil(t, doc.Budgets)
	assert.Empty(t, doc.Budgets)
	assert.NotNil(t, doc.Events)
}

func TestMigrationIsIdempotent(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SeedRaw("u1", []byte(legacyUserJSON))
	docs := NewDocuments(backend)

	first, err := docs.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.NoError(t, docs.Save(context.Background(), "u1", first))

	second, err := docs.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Saving and loading again is still the identity transform.
	require.NoError(t, docs.Save(context.Background(), "u1", second))
	third, err := docs.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestCurrentDocumentWithoutVersionStampIsNotRemigrated(t *testing.T) {
	// Documents written before versions were stamped carry a profile but no
	// schema_version field.
	backend := NewMemoryBackend()
	backend.SeedRaw("u1", []byte(`{
		"profile": {"username": "bob", "email": "bob@example.com", "email_verified": false},
		"settings": {"currency": "EUR", "notifications": {"email": false, "bills": true, "events": true, "time": "08:00"}},
		"expenses": {"exp-1": {"amount": 5, "category": "coffee", "date": "2025-02-01", "description": ""}}
	}`))
	docs := NewDocuments(backend)

	doc, err := docs.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "bob", doc.Profile.Username)
	assert.Equal(t, "EUR", doc.Settings.Currency)
	assert.False(t, doc.Settings.Notifications.Email)
	assert.Len(t, doc.Expenses, 1)
}

func TestLoadMissingUserReturnsDefaultWithoutPersisting(t *testing.T) {
	backend := NewMemoryBackend()
	docs := NewDocuments(backend)

	doc, err := docs.Load(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, models.SchemaVersionCurrent, doc.SchemaVersion)
	assert.Equal(t, "USD", doc.Settings.Currency)
	assert.Empty(t, doc.Expenses)

	assert.False(t, backend.Exists("ghost"), "default document must not be persisted by Load")
}

func TestMigrateAllUpgradesOnlyLegacyDocuments(t *testing.T) {
	backend := NewMemoryBackend()
	backend.SeedRaw("legacy", []byte(legacyUserJSON))
	docs := NewDocuments(backend)

	current := models.DefaultUserDocument()
	current.Profile = models.Profile{Username: "carol", Email: "carol@example.com"}
	require.NoError(t, docs.Save(context.Background(), "current", current))

	migrated, err := docs.MigrateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, migrated)

	// A second sweep finds nothing left to do.
	migrated, err = docs.MigrateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, migrated)

	doc, err := docs.Load(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc.Profile.Username)
	assert.Len(t, doc.Expenses, 1)
}
