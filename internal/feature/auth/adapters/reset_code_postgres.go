// Package adapters provides repository implementations for the auth feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"subscription_backend/internal/feature/auth/domain/entity"
	"subscription_backend/internal/feature/auth/usecase"
)

// resetCodePostgres is a PostgreSQL implementation of the ResetCodeRepository
// interface.
type resetCodePostgres struct {
	db *gorm.DB
}

// Compile-time check to ensure resetCodePostgres implements ResetCodeRepository.
var _ usecase.ResetCodeRepository = (*resetCodePostgres)(nil)

// NewResetCodePostgres creates a new instance of resetCodePostgres.
func NewResetCodePostgres(db *gorm.DB) *resetCodePostgres {
	return &resetCodePostgres{db: db}
}

// Create persists a new reset code to the database.
func (r *resetCodePostgres) Create(ctx context.Context, code *entity.ResetCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

// FindValid retrieves the unused, unexpired code matching (email, code).
func (r *resetCodePostgres) FindValid(ctx context.Context, email, code string) (*entity.ResetCode, error) {
	var rc entity.ResetCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND used = ? AND expires_at > ?", email, code, false, time.Now()).
		First(&rc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrCodeInvalid
		}
		return nil, err
	}
	return &rc, nil
}

// Consume marks a code as used. The WHERE clause carries the used = false
// predicate so the mutation is atomic: of two concurrent resets only one
// sees RowsAffected = 1, the other gets ErrCodeInvalid.
func (r *resetCodePostgres) Consume(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.ResetCode{}).
		Where("id = ? AND used = ?", id, false).
		Update("used", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrCodeInvalid
	}
	return nil
}

// InvalidateAll marks every unused code for the email as used.
func (r *resetCodePostgres) InvalidateAll(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Model(&entity.ResetCode{}).
		Where("email = ? AND used = ?", email, false).
		Update("used", true).Error
}
