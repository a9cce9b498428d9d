package store

import "github.com/Azi77ry/personal-App/models"

// migrations[v] upgrades a document from schema version v to v+1. Applied in
// sequence until the document reaches models.SchemaVersionCurrent. Each step
// only restructures the envelope; records are never invented or discarded.
var migrations = [models.SchemaVersionCurrent]func(*rawDocument){
	0: migrateProfileEnvelope,
}

// migrate upgrades raw in place and returns the current-shape document.
// Running it on an already-current document is the identity transform.
func migrate(raw *rawDocument) *models.UserDocument {
	// Documents written before versions were stamped but already carrying a
	// profile envelope are current.
	if raw.SchemaVersion == 0 && raw.Profile != nil {
		raw.SchemaVersion = models.SchemaVersionCurrent
	}
	for raw.SchemaVersion < models.SchemaVersionCurrent {
		migrations[raw.SchemaVersion](raw)
		raw.SchemaVersion++
	}
	return raw.document()
}

// needsMigration reports whether a stored document is in a legacy shape.
func needsMigration(raw *rawDocument) bool {
	return raw.SchemaVersion < models.SchemaVersionCurrent && raw.Profile == nil
}

// migrateProfileEnvelope relocates the legacy top-level identity fields into
// the profile object and synthesizes settings when absent.
func migrateProfileEnvelope(raw *rawDocument) {
	raw.Profile = &models.Profile{
		Username:      raw.Username,
		Email:         raw.Email,
		EmailVerified: raw.EmailVerified,
	}
	raw.Username = ""
	raw.Email = ""
	raw.EmailVerified = false
	if raw.Settings == nil {
		settings := models.DefaultSettings()
		raw.Settings = &settings
	}
}
