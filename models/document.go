package models

// SchemaVersionCurrent is the version stamped on every document the store
// writes. Documents carrying a lower version are upgraded on load.
const SchemaVersionCurrent = 1

type Profile struct {
	Username      string `json:"username" bson:"username"`
	Email         string `json:"email" bson:"email"`
	EmailVerified bool   `json:"email_verified" bson:"email_verified"`
}

type Notifications struct {
	Email  bool   `json:"email" bson:"email"`
	Bills  bool   `json:"bills" bson:"bills"`
	Events bool   `json:"events" bson:"events"`
	Time   string `json:"time" bson:"time"`
}

type Settings struct {
	Currency      string        `json:"currency" bson:"currency"`
	Notifications Notifications `json:"notifications" bson:"notifications"`
}

// UserDocument is the full persisted state for one user: profile, settings
// and the seven record collections, each keyed by record id.
type UserDocument struct {
	SchemaVersion int                `json:"schema_version" bson:"schema_version"`
	Profile       Profile            `json:"profile" bson:"profile"`
	Settings      Settings           `json:"settings" bson:"settings"`
	Expenses      map[string]Expense `json:"expenses" bson:"expenses"`
	Incomes       map[string]Income  `json:"incomes" bson:"incomes"`
	Budgets       map[string]Budget  `json:"budgets" bson:"budgets"`
	Goals         map[string]Goal    `json:"goals" bson:"goals"`
	Bills         map[string]Bill    `json:"bills" bson:"bills"`
	Tasks         map[string]Task    `json:"tasks" bson:"tasks"`
	Events        map[string]Event   `json:"events" bson:"events"`
}

func DefaultSettings() Settings {
	return Settings{
		Currency: "USD",
		Notifications: Notifications{
			Email:  true,
			Bills:  true,
			Events: true,
			Time:   "09:00",
		},
	}
}

// DefaultUserDocument returns the current-shape document with all
// collections empty and default settings.
func DefaultUserDocument() *UserDocument {
	doc := &UserDocument{
		SchemaVersion: SchemaVersionCurrent,
		Settings:      DefaultSettings(),
	}
	doc.EnsureCollections()
	return doc
}

// EnsureCollections replaces nil collection maps with empty ones so callers
// can always index and range without nil checks.
func (d *UserDocument) EnsureCollections() {
	if d.Expenses == nil {
		d.Expenses = map[string]Expense{}
	}
	if d.Incomes == nil {
		d.Incomes = map[string]Income{}
	}
	if d.Budgets == nil {
		d.Budgets = map[string]Budget{}
	}
	if d.Goals == nil {
		d.Goals = map[string]Goal{}
	}
	if d.Bills == nil {
		d.Bills = map[string]Bill{}
	}
	if d.Tasks == nil {
		d.Tasks = map[string]Task{}
	}
	if d.Events == nil {
		d.Events = map[string]Event{}
	}
}

// ResetCollections clears all seven collections while preserving profile and
// settings.
func (d *UserDocument) ResetCollections() {
	d.Expenses = map[string]Expense{}
	d.Incomes = map[string]Income{}
	d.Budgets = map[string]Budget{}
	d.Goals = map[string]Goal{}
	d.Bills = map[string]Bill{}
	d.Tasks = map[string]Task{}
	d.Events = map[string]Event{}
}
