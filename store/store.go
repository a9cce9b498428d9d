// Package store persists one whole document per user. Callers never see a
// legacy document shape: every load runs the schema migrations first.
package store

import (
	"context"
	"errors"

	"github.com/Azi77ry/personal-App/models"
)

// ErrUnavailable wraps any failure to reach the backing medium.
var ErrUnavailable = errors.New("storage unavailable")

// Backend is the raw persistence contract. Load returns (nil, nil) when no
// document exists for the user; Save overwrites the full document and must
// not leave a partial write observable to a subsequent Load.
type Backend interface {
	Load(ctx context.Context, userID string) (*rawDocument, error)
	Save(ctx context.Context, userID string, doc *models.UserDocument) error
	Users(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// rawDocument captures both the current and the legacy document shapes.
// Legacy documents carried username/email/email_verified at the top level
// and no schema version; migrations relocate them into the profile envelope.
type rawDocument struct {
	SchemaVersion int              `json:"schema_version,omitempty" bson:"schema_version,omitempty"`
	Profile       *models.Profile  `json:"profile,omitempty" bson:"profile,omitempty"`
	Settings      *models.Settings `json:"settings,omitempty" bson:"settings,omitempty"`

	Username      string `json:"username,omitempty" bson:"username,omitempty"`
	Email         string `json:"email,omitempty" bson:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty" bson:"email_verified,omitempty"`

	Expenses map[string]models.Expense `json:"expenses,omitempty" bson:"expenses,omitempty"`
	Incomes  map[string]models.Income  `json:"incomes,omitempty" bson:"incomes,omitempty"`
	Budgets  map[string]models.Budget  `json:"budgets,omitempty" bson:"budgets,omitempty"`
	Goals    map[string]models.Goal    `json:"goals,omitempty" bson:"goals,omitempty"`
	Bills    map[string]models.Bill    `json:"bills,omitempty" bson:"bills,omitempty"`
	Tasks    map[string]models.Task    `json:"tasks,omitempty" bson:"tasks,omitempty"`
	Events   map[string]models.Event   `json:"events,omitempty" bson:"events,omitempty"`
}

func (raw *rawDocument) document() *models.UserDocument {
	doc := &models.UserDocument{
		SchemaVersion: raw.SchemaVersion,
		Expenses:      raw.Expenses,
		Incomes:       raw.Incomes,
		Budgets:       raw.Budgets,
		Goals:         raw.Goals,
		Bills:         raw.Bills,
		Tasks:         raw.Tasks,
		Events:        raw.Events,
	}
	if raw.Profile != nil {
		doc.Profile = *raw.Profile
	}
	if raw.Settings != nil {
		doc.Settings = *raw.Settings
	} else {
		doc.Settings = models.DefaultSettings()
	}
	doc.EnsureCollections()
	return doc
}
