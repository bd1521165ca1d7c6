// Package usecase はrecipientsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"regexp"

	"subscription_backend/internal/feature/recipients/domain/entity"
)

var (
	// ErrRecipientNotFound is returned when no recipient matches the ID.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrRecipientInUse is returned when deleting a recipient that still has
	// subscriptions.
	ErrRecipientInUse = errors.New("recipient has active subscriptions")

	// ErrInvalidRecipient is returned when a recipient fails validation.
	ErrInvalidRecipient = errors.New("invalid recipient")
)

// apartmentPattern: digits with an optional trailing letter.
var apartmentPattern = regexp.MustCompile(`^\d+[a-zA-Zа-яА-Я]?$`)

// ListParams bounds and filters a recipient listing.
type ListParams struct {
	Page  int
	Limit int
	// Search matches against the full name.
	Search string
}

// Normalize clamps paging values to sane bounds.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Repository はrecipientエンティティの永続化層を抽象化します。
type Repository interface {
	Create(ctx context.Context, rec *entity.Recipient) error
	FindByID(ctx context.Context, id uint) (*entity.Recipient, error)
	List(ctx context.Context, params ListParams) ([]*entity.Recipient, int64, error)
	Update(ctx context.Context, rec *entity.Recipient) error
	Delete(ctx context.Context, id uint) error
}

// SubscriptionCounter reports how many subscriptions reference a recipient.
type SubscriptionCounter interface {
	CountByRecipient(ctx context.Context, id uint) (int64, error)
}

type recipientUsecase struct {
	recipients Repository
	subs       SubscriptionCounter
}

// NewRecipientUsecase はrecipientUsecaseの新しいインスタンスを生成します。
func NewRecipientUsecase(recipients Repository, subs SubscriptionCounter) *recipientUsecase {
	return &recipientUsecase{recipients: recipients, subs: subs}
}

func validateRecipient(rec *entity.Recipient) error {
	if len(rec.FullName) < 2 || len(rec.FullName) > 255 {
		return ErrInvalidRecipient
	}
	if rec.Street == "" || rec.House == "" {
		return ErrInvalidRecipient
	}
	if rec.Apartment != "" && !apartmentPattern.MatchString(rec.Apartment) {
		return ErrInvalidRecipient
	}
	return nil
}

// Create は新しい受取人を登録します。
func (u *recipientUsecase) Create(ctx context.Context, rec *entity.Recipient) error {
	if err := validateRecipient(rec); err != nil {
		return err
	}
	return u.recipients.Create(ctx, rec)
}

// Get はIDで1件取得します。
func (u *recipientUsecase) Get(ctx context.Context, id uint) (*entity.Recipient, error) {
	return u.recipients.FindByID(ctx, id)
}

// List はページネーション付きで受取人の一覧を返します。
func (u *recipientUsecase) List(ctx context.Context, params ListParams) ([]*entity.Recipient, int64, error) {
	params.Normalize()
	return u.recipients.List(ctx, params)
}

// Update は既存の受取人を更新します。
func (u *recipientUsecase) Update(ctx context.Context, rec *entity.Recipient) error {
	if err := validateRecipient(rec); err != nil {
		return err
	}
	if _, err := u.recipients.FindByID(ctx, rec.ID); err != nil {
		return err
	}
	return u.recipients.Update(ctx, rec)
}

// Delete は受取人を削除します。購読を持つ受取人は削除できません。
func (u *recipientUsecase) Delete(ctx context.Context, id uint) error {
	if _, err := u.recipients.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := u.subs.CountByRecipient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRecipientInUse
	}
	return u.recipients.Delete(ctx, id)
}
