package dto

import (
	"time"

	"wth_backend/internal/feature/auth/domain/entity"
	"wth_backend/internal/feature/auth/usecase"
)

// UserSummary is the user object embedded in auth and profile-update responses.
type UserSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// AuthRes is returned by signup and login.
type AuthRes struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// ProfileRes is returned by GET /auth/user. It has no password field.
type ProfileRes struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UpdateProfileRes is returned by PUT /auth/update-profile.
type UpdateProfileRes struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// AvatarRes is returned by POST /auth/upload-avatar.
type AvatarRes struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profileImage"`
}

// MessageRes carries a single message, for success and failure alike.
type MessageRes struct {
	Message string `json:"message"`
}

// FieldErrorRes describes one invalid field.
type FieldErrorRes struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorRes lists every invalid field of a request.
type ValidationErrorRes struct {
	Errors []FieldErrorRes `json:"errors"`
}

// NewUserSummary builds a UserSummary from a profile.
func NewUserSummary(p entity.Profile) UserSummary {
	return UserSummary{ID: p.ID, FullName: p.FullName, Email: p.Email}
}

// NewProfileRes builds a ProfileRes from a profile.
func NewProfileRes(p entity.Profile) ProfileRes {
	return ProfileRes{
		ID:           p.ID,
		FullName:     p.FullName,
		Email:        p.Email,
		ProfileImage: p.ProfileImage,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewValidationErrorRes converts a usecase validation error.
func NewValidationErrorRes(err *usecase.ValidationError) ValidationErrorRes {
	out := ValidationErrorRes{Errors: make([]FieldErrorRes, 0, len(err.Fields))}
	for _, f := range err.Fields {
		out.Errors = append(out.Errors, FieldErrorRes{Field: f.Field, Message: f.Message})
	}
	return out
}
