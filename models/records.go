package models

import "time"

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type BillRecurrence string

const (
	BillRecurrenceNone    BillRecurrence = "none"
	BillRecurrenceWeekly  BillRecurrence = "weekly"
	BillRecurrenceMonthly BillRecurrence = "monthly"
	BillRecurrenceYearly  BillRecurrence = "yearly"
)

func (r BillRecurrence) Valid() bool {
	switch r {
	case BillRecurrenceNone, BillRecurrenceWeekly, BillRecurrenceMonthly, BillRecurrenceYearly:
		return true
	}
	return false
}

// Date fields use the YYYY-MM-DD wire format; timestamps are full time.Time
// values. Amounts are validated as decimals at the API boundary before being
// stored.

type Expense struct {
	Amount      float64   `json:"amount" bson:"amount"`
	Category    string    `json:"category" bson:"category"`
	Date        string    `json:"date" bson:"date"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type Income struct {
	Amount      float64   `json:"amount" bson:"amount"`
	Source      string    `json:"source" bson:"source"`
	Date        string    `json:"date" bson:"date"`
	Description string    `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Budget records are keyed by the composite "{month}_{category}" id, so
// re-adding the same month and category overwrites the prior budget.
type Budget struct {
	Category  string    `json:"category" bson:"category"`
	Amount    float64   `json:"amount" bson:"amount"`
	Month     string    `json:"month" bson:"month"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Goal struct {
	Name          string    `json:"name" bson:"name"`
	TargetAmount  float64   `json:"target_amount" bson:"target_amount"`
	CurrentAmount float64   `json:"current_amount" bson:"current_amount"`
	TargetDate    string    `json:"target_date,omitempty" bson:"target_date,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

type Bill struct {
	Name      string         `json:"name" bson:"name"`
	Amount    float64        `json:"amount" bson:"amount"`
	DueDate   string         `json:"due_date" bson:"due_date"`
	Recurring BillRecurrence `json:"recurring" bson:"recurring"`
	Paid      bool           `json:"paid" bson:"paid"`
	PaidDate  *time.Time     `json:"paid_date,omitempty" bson:"paid_date,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

type Task struct {
	Name          string       `json:"name" bson:"name"`
	DueDate       string       `json:"due_date" bson:"due_date"`
	Priority      TaskPriority `json:"priority" bson:"priority"`
	Description   string       `json:"description" bson:"description"`
	Completed     bool         `json:"completed" bson:"completed"`
	CompletedDate *time.Time   `json:"completed_date,omitempty" bson:"completed_date,omitempty"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
}

type Event struct {
	Title             string     `json:"title" bson:"title"`
	Start             time.Time  `json:"start" bson:"start"`
	End               *time.Time `json:"end,omitempty" bson:"end,omitempty"`
	Description       string     `json:"description" bson:"description"`
	Recurring         bool       `json:"recurring" bson:"recurring"`
	RecurrencePattern string     `json:"recurrence_pattern,omitempty" bson:"recurrence_pattern,omitempty"`
	CreatedAt         time.Time  `json:"created_at" bson:"created_at"`
}

// ExportData is the wire format for export and import: the seven collections
// only, never profile or settings.
type ExportData struct {
	Expenses map[string]Expense `json:"expenses,omitempty"`
	Incomes  map[string]Income  `json:"incomes,omitempty"`
	Budgets  map[string]Budget  `json:"budgets,omitempty"`
	Goals    map[string]Goal    `json:"goals,omitempty"`
	Bills    map[string]Bill    `json:"bills,omitempty"`
	Tasks    map[string]Task    `json:"tasks,omitempty"`
	Events   map[string]Event   `json:"events,omitempty"`
}
