package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Azi77ry/personal-App/logger"
	"github.com/Azi77ry/personal-App/models"
)

// Documents is the Record Store facade. It applies schema migrations on
// every load and serializes writes per user so that two concurrent
// read-modify-write cycles cannot overwrite each other's changes.
type Documents struct {
	backend Backend

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewDocuments(backend Backend) *Documents {
	return &Documents{
		backend: backend,
		locks:   map[string]*sync.Mutex{},
	}
}

func (d *Documents) userLock(userID string) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[userID] = l
	}
	return l
}

// Load fetches the user's document, migrated to the current shape. A user
// with no stored document gets the default document; it is not persisted
// until the first write.
func (d *Documents) Load(ctx context.Context, userID string) (*models.UserDocument, error) {
	raw, err := d.backend.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return models.DefaultUserDocument(), nil
	}
	return migrate(raw), nil
}

// Save persists the full document, overwriting any prior version. Callers
// mutating a loaded document should prefer Update, which holds the per-user
// lock across the whole load-mutate-save cycle.
func (d *Documents) Save(ctx context.Context, userID string, doc *models.UserDocument) error {
	doc.SchemaVersion = models.SchemaVersionCurrent
	doc.EnsureCollections()
	return d.backend.Save(ctx, userID, doc)
}

// Update runs fn on the user's current document and persists the result.
// The per-user lock makes the load-mutate-save sequence atomic with respect
// to other Update calls for the same user. An error from fn aborts the
// update without persisting anything.
func (d *Documents) Update(ctx context.Context, userID string, fn func(*models.UserDocument) error) error {
	l := d.userLock(userID)
	l.Lock()
	defer l.Unlock()

	doc, err := d.Load(ctx, userID)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return d.Save(ctx, userID, doc)
}

// MigrateAll upgrades every stored legacy document in place and returns how
// many were rewritten. Current-shape documents are left untouched.
func (d *Documents) MigrateAll(ctx context.Context) (int, error) {
	users, err := d.backend.Users(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for _, userID := range users {
		l := d.userLock(userID)
		l.Lock()
		raw, err := d.backend.Load(ctx, userID)
		if err != nil {
			l.Unlock()
			return migrated, err
		}
		if raw == nil || !needsMigration(raw) {
			l.Unlock()
			continue
		}
		if err := d.backend.Save(ctx, userID, migrate(raw)); err != nil {
			l.Unlock()
			return migrated, err
		}
		l.Unlock()
		migrated++
		logger.Get().Info("migrated user document", zap.String("user_id", userID))
	}
	return migrated, nil
}

// Ping reports whether the backing medium is reachable.
func (d *Documents) Ping(ctx context.Context) error {
	return d.backend.Ping(ctx)
}
