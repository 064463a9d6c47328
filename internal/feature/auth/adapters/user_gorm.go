// Package adapters provides the credential store implementation for the auth feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"wth_backend/internal/feature/auth/domain/entity"
	"wth_backend/internal/feature/auth/usecase"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PasswordHasher derives and checks password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(hash, plaintext string) bool
}

// userGorm is the GORM implementation of usecase.CredentialStore.
type userGorm struct {
	db     *gorm.DB
	hasher PasswordHasher
}

// Compile-time check to ensure userGorm implements CredentialStore.
var _ usecase.CredentialStore = (*userGorm)(nil)

// NewUserGorm creates a credential store on db that hashes passwords with hasher.
func NewUserGorm(db *gorm.DB, hasher PasswordHasher) *userGorm {
	return &userGorm{db: db, hasher: hasher}
}

// Create inserts a new user with a freshly salted password hash.
// A unique-key violation on email is returned as usecase.ErrEmailAlreadyExists.
func (r *userGorm) Create(ctx context.Context, fullName, email, password string) (*entity.User, error) {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	m := &UserModel{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, usecase.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindByEmail retrieves a user by exact email.
// It returns usecase.ErrUserNotFound when no user matches.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// FindByID retrieves a user by ID.
// It returns usecase.ErrUserNotFound when no user matches.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// VerifyPassword compares password against the user's hash in constant time.
// A nil user still costs one comparison.
func (r *userGorm) VerifyPassword(user *entity.User, password string) bool {
	if user == nil {
		return r.hasher.Compare("", password)
	}
	return r.hasher.Compare(user.PasswordHash, password)
}

// UpdatePassword stores a freshly salted hash of newPassword.
// Tokens already issued to the user are not affected.
func (r *userGorm) UpdatePassword(ctx context.Context, user *entity.User, newPassword string) error {
	hash, err := r.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := r.updateColumn(ctx, user, "password_hash", hash); err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}

// UpdateFullName persists a new display name.
func (r *userGorm) UpdateFullName(ctx context.Context, user *entity.User, fullName string) error {
	if err := r.updateColumn(ctx, user, "full_name", fullName); err != nil {
		return err
	}
	user.FullName = fullName
	return nil
}

// UpdateProfileImage persists a new avatar reference.
func (r *userGorm) UpdateProfileImage(ctx context.Context, user *entity.User, ref string) error {
	if err := r.updateColumn(ctx, user, "profile_image", ref); err != nil {
		return err
	}
	user.ProfileImage = ref
	return nil
}

// updateColumn sets a single column and bumps updated_at.
func (r *userGorm) updateColumn(ctx context.Context, user *entity.User, column string, value any) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{column: value, "updated_at": now})
	if result.Error != nil {
		return fmt.Errorf("failed to update %s: %w", column, result.Error)
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	user.UpdatedAt = now
	return nil
}

// isDuplicateKey reports whether err is a unique-key violation.
// gorm translates it when TranslateError is on; the pgconn check covers connections opened without it.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
