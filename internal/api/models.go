package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/realtonyos/go-todo/internal/domain"
	"github.com/realtonyos/go-todo/internal/service"
)

// RegisterRequest is the JSON body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// LoginRequest holds the form fields of POST /auth/login. Username carries
// the e-mail address.
type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// TaskResponse is the JSON view of a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	OwnerID     int64     `json:"owner_id"`
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		OwnerID:     t.OwnerID,
	}
}

// CreateTaskRequest is the JSON body of POST /tasks/.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,max=255"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

func (r CreateTaskRequest) toInput() service.CreateTaskInput {
	in := service.CreateTaskInput{Title: r.Title, Description: r.Description}
	if r.Completed != nil {
		in.Completed = *r.Completed
	}
	return in
}

// NullableString distinguishes an absent JSON field from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only called for fields present in the document.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// UpdateTaskRequest is the JSON body of PATCH /tasks/{id}. Absent fields are
// left untouched; "description": null clears the description.
type UpdateTaskRequest struct {
	Title       *string        `json:"title"       validate:"omitempty,max=255"`
	Description NullableString `json:"description"`
	Completed   *bool          `json:"completed"`
}

func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:          r.Title,
		Description:    r.Description.Value,
		SetDescription: r.Description.Set,
		Completed:      r.Completed,
	}
}
