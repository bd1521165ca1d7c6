// Package adapters はsubscriptionsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"subscription_backend/internal/feature/subscriptions/domain/entity"
	"subscription_backend/internal/feature/subscriptions/usecase"
)

// subscriptionPostgres はRepositoryインターフェースのPostgreSQL実装です。
type subscriptionPostgres struct {
	db *gorm.DB
}

var _ usecase.Repository = (*subscriptionPostgres)(nil)

// NewSubscriptionPostgres はsubscriptionPostgresの新しいインスタンスを生成します。
func NewSubscriptionPostgres(db *gorm.DB) *subscriptionPostgres {
	return &subscriptionPostgres{db: db}
}

// CountByPublication は刊行物を参照する購読数を返します。
// publicationsフィーチャーのSubscriptionCounterを満たします。
func (r *subscriptionPostgres) CountByPublication(ctx context.Context, index string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Subscription{}).
		Where("publication_index = ?", index).
		Count(&count).Error
	return count, err
}

// CountByRecipient は受取人を参照する購読数を返します。
// recipientsフィーチャーのSubscriptionCounterを満たします。
func (r *subscriptionPostgres) CountByRecipient(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Subscription{}).
		Where("recipient_id = ?", id).
		Count(&count).Error
	return count, err
}

// Create は購読をデータベースに追加します。
func (r *subscriptionPostgres) Create(ctx context.Context, sub *entity.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// FindByID はIDで購読を取得します。
func (r *subscriptionPostgres) FindByID(ctx context.Context, id uint) (*entity.Subscription, error) {
	var sub entity.Subscription
	if err := r.db.WithContext(ctx).Where("subscription_id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// List はフィルタとページネーションを適用して一覧と総件数を返します。
func (r *subscriptionPostgres) List(ctx context.Context, params usecase.ListParams) ([]*entity.Subscription, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Subscription{})

	if params.RecipientID != 0 {
		q = q.Where("recipient_id = ?", params.RecipientID)
	}
	if params.PublicationIndex != "" {
		q = q.Where("publication_index = ?", params.PublicationIndex)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []*entity.Subscription
	err := q.Order("subscription_id ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// Update は購読の全フィールドを保存します。
func (r *subscriptionPostgres) Update(ctx context.Context, sub *entity.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}

// Delete は購読を削除します。
func (r *subscriptionPostgres) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Subscription{}, "subscription_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrSubscriptionNotFound
	}
	return nil
}
