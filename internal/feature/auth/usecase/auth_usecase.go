package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"wth_backend/internal/feature/auth/domain/entity"
)

// CredentialStore persists users and owns password hashing.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CredentialStore interface {
	// Create stores a new user with a freshly salted hash of password.
	// It returns ErrEmailAlreadyExists when the email is taken, including under concurrent signups.
	Create(ctx context.Context, fullName, email, password string) (*entity.User, error)

	// FindByEmail returns the user with exactly this email, or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID returns the user with this id, or ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// VerifyPassword reports whether password matches the stored hash.
	// A nil user is compared against a dummy hash so that timing does not reveal absence.
	VerifyPassword(user *entity.User, password string) bool

	// UpdatePassword replaces the hash with a freshly salted hash of newPassword.
	UpdatePassword(ctx context.Context, user *entity.User, newPassword string) error

	// UpdateFullName persists a new display name.
	UpdateFullName(ctx context.Context, user *entity.User, fullName string) error

	// UpdateProfileImage persists a new avatar reference.
	UpdateProfileImage(ctx context.Context, user *entity.User, ref string) error
}

// TokenIssuer issues signed session tokens.
type TokenIssuer interface {
	// Issue returns a signed token asserting userID.
	Issue(userID string) (string, error)
}

// MediaStore stores avatar objects and returns a durable URL for them.
type MediaStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token string
	User  entity.Profile
}

// AvatarUpload is an avatar file received from a client.
type AvatarUpload struct {
	Filename string
	Data     []byte
}

// allowedAvatarTypes lists the accepted avatar MIME types.
var allowedAvatarTypes = []string{"image/jpeg", "image/png", "image/webp"}

// authUsecase implements the authentication business logic.
// It holds no per-request state.
type authUsecase struct {
	store          CredentialStore
	tokens         TokenIssuer
	media          MediaStore
	maxAvatarBytes int64
}

// NewAuthUsecase creates a new authUsecase.
func NewAuthUsecase(store CredentialStore, tokens TokenIssuer, media MediaStore, maxAvatarBytes int64) *authUsecase {
	return &authUsecase{
		store:          store,
		tokens:         tokens,
		media:          media,
		maxAvatarBytes: maxAvatarBytes,
	}
}

// Signup registers a new user and returns a token for it.
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	// Fast path. The store's unique constraint is what actually guards concurrent signups.
	if _, err := u.store.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	user, err := u.store.Create(ctx, in.FullName, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u.issue(user)
}

// Login authenticates a user and returns a token for it.
// An unknown email and a wrong password produce the same error, and both run a hash comparison.
func (u *authUsecase) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validateInput(&in); err != nil {
		return nil, err
	}

	user, err := u.store.FindByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	// user is nil when not found; VerifyPassword still burns a comparison
	if !u.store.VerifyPassword(user, in.Password) || user == nil {
		return nil, ErrInvalidCredentials
	}

	return u.issue(user)
}

// GetProfile returns the public fields of the caller.
func (u *authUsecase) GetProfile(ctx context.Context, callerID string) (*entity.Profile, error) {
	user, err := u.store.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

// UpdateProfile changes the caller's display name.
func (u *authUsecase) UpdateProfile(ctx context.Context, callerID, fullName string) (*entity.Profile, error) {
	if err := validateInput(&updateProfileInput{FullName: fullName}); err != nil {
		return nil, err
	}

	user, err := u.store.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := u.store.UpdateFullName(ctx, user, fullName); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	p := user.Profile()
	return &p, nil
}

// ResetPassword replaces the caller's password after re-checking the current one.
// Tokens issued before the reset stay valid until they expire.
func (u *authUsecase) ResetPassword(ctx context.Context, callerID string, in ResetPasswordInput) error {
	if err := validateInput(&in); err != nil {
		return err
	}

	user, err := u.store.FindByID(ctx, callerID)
	if err != nil {
		return err
	}
	if !u.store.VerifyPassword(user, in.CurrentPassword) {
		return ErrInvalidCurrentPassword
	}
	if err := u.store.UpdatePassword(ctx, user, in.NewPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateAvatarReference records ref as the caller's avatar and returns it.
func (u *authUsecase) UpdateAvatarReference(ctx context.Context, callerID, ref string) (string, error) {
	if ref == "" {
		return "", ErrNoFileProvided
	}
	user, err := u.store.FindByID(ctx, callerID)
	if err != nil {
		return "", err
	}
	if err := u.store.UpdateProfileImage(ctx, user, ref); err != nil {
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}
	return ref, nil
}

// UploadAvatar stores the file in the media store and records its URL as the caller's avatar.
func (u *authUsecase) UploadAvatar(ctx context.Context, callerID string, file *AvatarUpload) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", ErrNoFileProvided
	}
	if u.maxAvatarBytes > 0 && int64(len(file.Data)) > u.maxAvatarBytes {
		return "", ErrFileTooLarge
	}
	mtype := mimetype.Detect(file.Data)
	if !mimetype.EqualsAny(mtype.String(), allowedAvatarTypes...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, mtype.String())
	}

	// Resolve the user first so a stale token does not leave an orphaned object behind.
	user, err := u.store.FindByID(ctx, callerID)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("avatars/%s/%s%s", user.ID, uuid.NewString(), mtype.Extension())
	ref, err := u.media.Upload(ctx, key, mtype.String(), bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
	}
	return u.UpdateAvatarReference(ctx, user.ID, ref)
}

// issue signs a token for user. The result is only returned after signing completes.
func (u *authUsecase) issue(user *entity.User) (*AuthResult, error) {
	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Profile()}, nil
}
