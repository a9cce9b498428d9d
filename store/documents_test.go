package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azi77ry/personal-App/models"
)

func addExpense(doc *models.UserDocument, category string) {
	doc.Expenses[uuid.NewString()] = models.Expense{
		Amount:    10,
		Category:  category,
		Date:      "2025-03-01",
		CreatedAt: time.Now().UTC(),
	}
}

// Two interleaved load-modify-save cycles without per-user serialization
// lose the first writer's record: both load the pre-mutation document and
// the second save overwrites the first. This pins down the failure mode the
// Update path exists to prevent.
func TestRawLoadModifySaveLosesConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	docs := NewDocuments(NewMemoryBackend())

	first, err := docs.Load(ctx, "u1")
	require.NoError(t, err)
	second, err := docs.Load(ctx, "u1")
	require.NoError(t, err)

	addExpense(first, "groceries")
	addExpense(second, "rent")

	require.NoError(t, docs.Save(ctx, "u1", first))
	require.NoError(t, docs.Save(ctx, "u1", second))

	persisted, err := docs.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, persisted.Expenses, 1, "last writer wins: the first expense is lost")
	for _, expense := range persisted.Expenses {
		assert.Equal(t, "rent", expense.Category)
	}
}

// Update serializes the whole load-mutate-save cycle per user, so
// concurrent writers all land.
func TestUpdateSerializesConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	docs := NewDocuments(NewMemoryBackend())

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = docs.Update(ctx, "u1", func(doc *models.UserDocument) error {
				addExpense(doc, "concurrent")
				return nil
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	persisted, err := docs.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, persisted.Expenses, writers)
}

func TestUpdateAbortsWithoutPersistingOnError(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	docs := NewDocuments(backend)

	err := docs.Update(ctx, "u1", func(doc *models.UserDocument) error {
		addExpense(doc, "doomed")
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, backend.Exists("u1"))
}

func TestUpdatesForDifferentUsersDoNotInterfere(t *testing.T) {
	ctx := context.Background()
	docs := NewDocuments(NewMemoryBackend())

	require.NoError(t, docs.Update(ctx, "a", func(doc *models.UserDocument) error {
		addExpense(doc, "a-only")
		return nil
	}))
	require.NoError(t, docs.Update(ctx, "b", func(doc *models.UserDocument) error {
		addExpense(doc, "b-only")
		return nil
	}))

	docA, err := docs.Load(ctx, "a")
	require.NoError(t, err)
	docB, err := docs.Load(ctx, "b")
	require.NoError(t, err)

	require.Len(t, docA.Expenses, 1)
	require.Len(t, docB.Expenses, 1)
	for _, expense := range docA.Expenses {
		assert.Equal(t, "a-only", expense.Category)
	}
	for _, expense := range docB.Expenses {
		assert.Equal(t, "b-only", expense.Category)
	}
}
