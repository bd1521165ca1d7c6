// Package usecase はpublicationsフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"

	"subscription_backend/internal/feature/publications/domain/entity"
)

var (
	// ErrPublicationNotFound is returned when no publication matches the index.
	ErrPublicationNotFound = errors.New("publication not found")

	// ErrPublicationExists is returned when creating a publication whose
	// index is already taken.
	ErrPublicationExists = errors.New("publication index already exists")

	// ErrPublicationInUse is returned when deleting a publication that still
	// has subscriptions.
	ErrPublicationInUse = errors.New("publication has active subscriptions")

	// ErrInvalidPublication is returned when a publication fails validation.
	ErrInvalidPublication = errors.New("invalid publication")
)

// ListParams bounds and filters a publication listing.
type ListParams struct {
	Page  int
	Limit int
	// Type filters by publication kind when set.
	Type entity.PublicationType
	// Search matches against index and title.
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

// Repository はpublicationエンティティの永続化層を抽象化します。
// インターフェースはコンシューマー（usecase）が定義します。
type Repository interface {
	Create(ctx context.Context, pub *entity.Publication) error
	FindByIndex(ctx context.Context, index string) (*entity.Publication, error)
	List(ctx context.Context, params ListParams) ([]*entity.Publication, int64, error)
	Update(ctx context.Context, pub *entity.Publication) error
	Delete(ctx context.Context, index string) error
}

// SubscriptionCounter reports how many subscriptions reference a publication.
// Implemented by the subscriptions feature's repository.
type SubscriptionCounter interface {
	CountByPublication(ctx context.Context, index string) (int64, error)
}

type publicationUsecase struct {
	pubs Repository
	subs SubscriptionCounter
}

// NewPublicationUsecase はpublicationUsecaseの新しいインスタンスを生成します。
func NewPublicationUsecase(pubs Repository, subs SubscriptionCounter) *publicationUsecase {
	return &publicationUsecase{pubs: pubs, subs: subs}
}

func validatePublication(pub *entity.Publication) error {
	if pub.Index == "" || len(pub.Index) > 10 {
		return ErrInvalidPublication
	}
	if !pub.Type.Valid() {
		return ErrInvalidPublication
	}
	if pub.Title == "" || len(pub.Title) > 255 {
		return ErrInvalidPublication
	}
	if pub.MonthlyCost < 0 {
		return ErrInvalidPublication
	}
	return nil
}

// Create は新しい刊行物を登録します。
func (u *publicationUsecase) Create(ctx context.Context, pub *entity.Publication) error {
	if err := validatePublication(pub); err != nil {
		return err
	}
	return u.pubs.Create(ctx, pub)
}

// Get は刊行物インデックスで1件取得します。
func (u *publicationUsecase) Get(ctx context.Context, index string) (*entity.Publication, error) {
	return u.pubs.FindByIndex(ctx, index)
}

// List はページネーション付きで刊行物の一覧を返します。
func (u *publicationUsecase) List(ctx context.Context, params ListParams) ([]*entity.Publication, int64, error) {
	params.Normalize()
	return u.pubs.List(ctx, params)
}

// Update は既存の刊行物を更新します。
func (u *publicationUsecase) Update(ctx context.Context, pub *entity.Publication) error {
	if err := validatePublication(pub); err != nil {
		return err
	}
	if _, err := u.pubs.FindByIndex(ctx, pub.Index); err != nil {
		return err
	}
	return u.pubs.Update(ctx, pub)
}

// Delete は刊行物を削除します。購読されている刊行物は削除できません。
func (u *publicationUsecase) Delete(ctx context.Context, index string) error {
	if _, err := u.pubs.FindByIndex(ctx, index); err != nil {
		return err
	}
	count, err := u.subs.CountByPublication(ctx, index)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPublicationInUse
	}
	return u.pubs.Delete(ctx, index)
}
