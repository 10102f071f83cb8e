package domain

import (
	"strings"
	"time"
)

// MaxTitleLength bounds task titles.
const MaxTitleLength = 255

// Task is a to-do item. OwnerID is fixed at creation; only the owner may
// read or change the task.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	OwnerID     int64     `json:"owner_id"`
}

// NewTask builds an unsaved task for ownerID.
func NewTask(ownerID int64, title string, description *string, completed bool) (*Task, error) {
	t := &Task{
		Title:       title,
		Description: description,
		Completed:   completed,
		OwnerID:     ownerID,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the task invariants.
func (t *Task) Validate() error {
	if t.OwnerID <= 0 {
		return NewValidationError("owner_id", "must be set", ErrInvalidID)
	}
	return validateTitle(t.Title)
}

// OwnedBy reports whether userID owns the task.
func (t *Task) OwnedBy(userID int64) bool {
	return t.OwnerID == userID
}

// TaskPatch is a sparse update: nil fields are left untouched.
// Description uses SetDescription so a patch can clear it to NULL.
type TaskPatch struct {
	Title          *string
	Description    *string
	SetDescription bool
	Completed      *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && !p.SetDescription && p.Completed == nil
}

// Validate checks the fields present in the patch.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		return validateTitle(*p.Title)
	}
	return nil
}

// Apply copies the present fields onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.SetDescription {
		t.Description = p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTitle)
	}
	if len(title) > MaxTitleLength {
		return NewValidationError("title", "is too long", ErrValidation)
	}
	return nil
}
