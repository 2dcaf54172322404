package handler

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/dtroode/notekeeper-server/internal/model"
)

// RegisterRequest is the sign-up payload. DisplayName is optional; when
// absent the account is named after the email local part.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// Validate checks the sign-up payload.
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.DisplayName, validation.Length(0, 128)),
	)
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the sign-in payload.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

// ForgotPasswordRequest asks for a recovery link.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate checks the recovery payload.
func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

// ResetPasswordRequest completes a recovery flow with the emailed token.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Validate checks the reset payload.
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
	)
}

// ProfileRequest updates profile metadata. Empty fields are left as-is.
type ProfileRequest struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url"`
	Bio         string `json:"bio"`
}

// Validate checks the profile payload.
func (r ProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(0, 128)),
		validation.Field(&r.Username, validation.Length(0, 128)),
		validation.Field(&r.AvatarURL, validation.Length(0, 2048), is.URL),
		validation.Field(&r.Bio, validation.Length(0, 1024)),
	)
}

// NoteRequest creates or updates a note.
type NoteRequest struct {
	Title      string     `json:"title"`
	Content    *string    `json:"content"`
	CategoryID *uuid.UUID `json:"category_id"`
}

// Validate checks the note payload.
func (r NoteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 512)),
	)
}

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks the category payload.
func (r CategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Description, validation.Length(0, 1024)),
	)
}

// SessionResponse describes the signed-in user.
type SessionResponse struct {
	UserID      uuid.UUID         `json:"user_id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

func newSessionResponse(sess model.Session) SessionResponse {
	return SessionResponse{
		UserID:      sess.UserID,
		Email:       sess.Email,
		DisplayName: sess.DisplayName(),
		Metadata:    sess.Metadata,
		ExpiresAt:   sess.ExpiresAt,
	}
}

// NoteResponse is the wire form of a note.
type NoteResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    *string    `json:"content"`
	CategoryID *uuid.UUID `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func newNoteResponse(note model.Note) NoteResponse {
	return NoteResponse{
		ID:         note.ID,
		Title:      note.Title,
		Content:    note.Content,
		CategoryID: note.CategoryID,
		CreatedAt:  note.CreatedAt,
		UpdatedAt:  note.UpdatedAt,
	}
}

func newNoteResponses(notes []model.Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, newNoteResponse(note))
	}
	return out
}

// CategoryResponse is the wire form of a category.
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCategoryResponse(category model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

func newCategoryResponses(categories []model.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, newCategoryResponse(category))
	}
	return out
}
