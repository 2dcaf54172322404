package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Metadata keys recognized in the user profile map.
const (
	MetadataDisplayName = "displayName"
	MetadataUsername    = "username"
	MetadataAvatarURL   = "avatarUrl"
	MetadataBio         = "bio"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateMetadata(ctx context.Context, id uuid.UUID, metadata map[string]string) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash []byte) error
}

// User represents a stored user with authentication material and
// free-form profile metadata.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// ProfileUpdate carries profile metadata changes. Empty fields are left
// untouched; set fields are merged into the stored metadata map.
type ProfileUpdate struct {
	DisplayName string
	Username    string
	AvatarURL   string
	Bio         string
}

// Apply merges the update into the given metadata map and returns the
// merged result without mutating the input map.
func (p ProfileUpdate) Apply(metadata map[string]string) map[string]string {
	merged := make(map[string]string, len(metadata)+4)
	for k, v := range metadata {
		merged[k] = v
	}
	if p.DisplayName != "" {
		merged[MetadataDisplayName] = p.DisplayName
	}
	if p.Username != "" {
		merged[MetadataUsername] = p.Username
	}
	if p.AvatarURL != "" {
		merged[MetadataAvatarURL] = p.AvatarURL
	}
	if p.Bio != "" {
		merged[MetadataBio] = p.Bio
	}
	return merged
}
