// Package usecase はsubscriptionsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"subscription_backend/internal/feature/subscriptions/domain/entity"
)

var (
	// ErrSubscriptionNotFound is returned when no subscription matches the ID.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrInvalidSubscription is returned when a subscription fails validation.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrUnknownRecipient is returned when the referenced recipient does not exist.
	ErrUnknownRecipient = errors.New("recipient does not exist")

	// ErrUnknownPublication is returned when the referenced publication does not exist.
	ErrUnknownPublication = errors.New("publication does not exist")
)

// ListParams bounds and filters a subscription listing.
type ListParams struct {
	Page  int
	Limit int
	// RecipientID filters by recipient when non-zero.
	RecipientID uint
	// PublicationIndex filters by publication when set.
	PublicationIndex string
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

// Repository はsubscriptionエンティティの永続化層を抽象化します。
type Repository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	FindByID(ctx context.Context, id uint) (*entity.Subscription, error)
	List(ctx context.Context, params ListParams) ([]*entity.Subscription, int64, error)
	Update(ctx context.Context, sub *entity.Subscription) error
	Delete(ctx context.Context, id uint) error
}

// RecipientChecker reports whether a recipient exists.
// Implemented by the recipients feature's repository.
type RecipientChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// PublicationChecker reports whether a publication exists.
// Implemented by the publications feature's repository.
type PublicationChecker interface {
	Exists(ctx context.Context, index string) (bool, error)
}

type subscriptionUsecase struct {
	subs       Repository
	recipients RecipientChecker
	pubs       PublicationChecker
}

// NewSubscriptionUsecase はsubscriptionUsecaseの新しいインスタンスを生成します。
func NewSubscriptionUsecase(subs Repository, recipients RecipientChecker, pubs PublicationChecker) *subscriptionUsecase {
	return &subscriptionUsecase{subs: subs, recipients: recipients, pubs: pubs}
}

func validateSubscription(sub *entity.Subscription) error {
	switch sub.DurationMonths {
	case 1, 3, 6:
	default:
		return ErrInvalidSubscription
	}
	if sub.StartMonth < 1 || sub.StartMonth > 12 {
		return ErrInvalidSubscription
	}
	if sub.StartYear < 2000 || sub.StartYear > 2100 {
		return ErrInvalidSubscription
	}
	return nil
}

// checkReferences は受取人と刊行物の存在を検証します。
func (u *subscriptionUsecase) checkReferences(ctx context.Context, sub *entity.Subscription) error {
	ok, err := u.recipients.Exists(ctx, sub.RecipientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownRecipient
	}

	ok, err = u.pubs.Exists(ctx, sub.PublicationIndex)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownPublication
	}
	return nil
}

// Create は新しい購読を登録します。
func (u *subscriptionUsecase) Create(ctx context.Context, sub *entity.Subscription) error {
	if err := validateSubscription(sub); err != nil {
		return err
	}
	if err := u.checkReferences(ctx, sub); err != nil {
		return err
	}
	return u.subs.Create(ctx, sub)
}

// Get はIDで1件取得します。
func (u *subscriptionUsecase) Get(ctx context.Context, id uint) (*entity.Subscription, error) {
	return u.subs.FindByID(ctx, id)
}

// List はページネーション付きで購読の一覧を返します。
func (u *subscriptionUsecase) List(ctx context.Context, params ListParams) ([]*entity.Subscription, int64, error) {
	params.Normalize()
	return u.subs.List(ctx, params)
}

// Update は既存の購読を更新します。
func (u *subscriptionUsecase) Update(ctx context.Context, sub *entity.Subscription) error {
	if err := validateSubscription(sub); err != nil {
		return err
	}
	if _, err := u.subs.FindByID(ctx, sub.ID); err != nil {
		return err
	}
	if err := u.checkReferences(ctx, sub); err != nil {
		return err
	}
	return u.subs.Update(ctx, sub)
}

// Delete は購読を削除します。
func (u *subscriptionUsecase) Delete(ctx context.Context, id uint) error {
	if _, err := u.subs.FindByID(ctx, id); err != nil {
		return err
	}
	return u.subs.Delete(ctx, id)
}
