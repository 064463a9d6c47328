// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"
	"strings"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidCurrentPassword is returned by ResetPassword when the current password does not match.
	ErrInvalidCurrentPassword = errors.New("incorrect current password")

	// ErrNoFileProvided is returned when an avatar upload carries no file.
	ErrNoFileProvided = errors.New("no file uploaded")

	// ErrFileTooLarge is returned when an avatar exceeds the configured size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedMedia is returned when an avatar is not an accepted image type.
	ErrUnsupportedMedia = errors.New("unsupported file type")

	// ErrMediaUnavailable is returned when the media store cannot accept an upload.
	ErrMediaUnavailable = errors.New("media store unavailable")
)

// FieldError describes one violated input rule.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violated field of a request, not only the first.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "validation failed: " + strings.Join(names, ", ")
}

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
