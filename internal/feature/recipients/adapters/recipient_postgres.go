// Package adapters はrecipientsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"subscription_backend/internal/feature/recipients/domain/entity"
	"subscription_backend/internal/feature/recipients/usecase"
)

// recipientPostgres はRepositoryインターフェースのPostgreSQL実装です。
type recipientPostgres struct {
	db *gorm.DB
}

var _ usecase.Repository = (*recipientPostgres)(nil)

// NewRecipientPostgres はrecipientPostgresの新しいインスタンスを生成します。
func NewRecipientPostgres(db *gorm.DB) *recipientPostgres {
	return &recipientPostgres{db: db}
}

// Exists reports whether a recipient with the ID exists. It satisfies the
// subscriptions feature's RecipientChecker interface.
func (r *recipientPostgres) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Recipient{}).
		Where("recipient_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// Create は受取人をデータベースに追加します。
func (r *recipientPostgres) Create(ctx context.Context, rec *entity.Recipient) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// FindByID はIDで受取人を取得します。
func (r *recipientPostgres) FindByID(ctx context.Context, id uint) (*entity.Recipient, error) {
	var rec entity.Recipient
	if err := r.db.WithContext(ctx).Where("recipient_id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrRecipientNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// List は氏名検索とページネーションを適用して一覧と総件数を返します。
func (r *recipientPostgres) List(ctx context.Context, params usecase.ListParams) ([]*entity.Recipient, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Recipient{})

	if params.Search != "" {
		q = q.Where("full_name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recs []*entity.Recipient
	err := q.Order("recipient_id ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&recs).Error
	if err != nil {
		return nil, 0, err
	}
	return recs, total, nil
}

// Update は受取人の全フィールドを保存します。
func (r *recipientPostgres) Update(ctx context.Context, rec *entity.Recipient) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// Delete は受取人を削除します。
func (r *recipientPostgres) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Recipient{}, "recipient_id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrRecipientNotFound
	}
	return nil
}
