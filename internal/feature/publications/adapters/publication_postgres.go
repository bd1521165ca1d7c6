// Package adapters はpublicationsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"subscription_backend/internal/feature/publications/domain/entity"
	"subscription_backend/internal/feature/publications/usecase"
)

// publicationPostgres はRepositoryインターフェースのPostgreSQL実装です。
type publicationPostgres struct {
	db *gorm.DB
}

var _ usecase.Repository = (*publicationPostgres)(nil)

// NewPublicationPostgres はpublicationPostgresの新しいインスタンスを生成します。
func NewPublicationPostgres(db *gorm.DB) *publicationPostgres {
	return &publicationPostgres{db: db}
}

// Exists reports whether a publication with the index exists. It satisfies
// the subscriptions feature's PublicationChecker interface.
func (r *publicationPostgres) Exists(ctx context.Context, index string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Publication{}).
		Where("publication_index = ?", index).
		Count(&count).Error
	return count > 0, err
}

// Create は刊行物をデータベースに追加します。
func (r *publicationPostgres) Create(ctx context.Context, pub *entity.Publication) error {
	if err := r.db.WithContext(ctx).Create(pub).Error; err != nil {
		var pgErr *pgconn.PgError
		if (errors.As(err, &pgErr) && pgErr.Code == "23505") || errors.Is(err, gorm.ErrDuplicatedKey) {
			return usecase.ErrPublicationExists
		}
		return err
	}
	return nil
}

// FindByIndex は刊行物インデックスで1件取得します。
func (r *publicationPostgres) FindByIndex(ctx context.Context, index string) (*entity.Publication, error) {
	var pub entity.Publication
	if err := r.db.WithContext(ctx).Where("publication_index = ?", index).First(&pub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPublicationNotFound
		}
		return nil, err
	}
	return &pub, nil
}

// List はフィルタとページネーションを適用して一覧と総件数を返します。
func (r *publicationPostgres) List(ctx context.Context, params usecase.ListParams) ([]*entity.Publication, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Publication{})

	if params.Type != "" {
		q = q.Where("publication_type = ?", params.Type)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		q = q.Where("publication_index LIKE ? OR publication_title LIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var pubs []*entity.Publication
	err := q.Order("publication_index ASC").
		Limit(params.Limit).
		Offset(params.Offset()).
		Find(&pubs).Error
	if err != nil {
		return nil, 0, err
	}
	return pubs, total, nil
}

// Update は刊行物の全フィールドを保存します。
func (r *publicationPostgres) Update(ctx context.Context, pub *entity.Publication) error {
	return r.db.WithContext(ctx).Save(pub).Error
}

// Delete は刊行物を削除します。
func (r *publicationPostgres) Delete(ctx context.Context, index string) error {
	result := r.db.WithContext(ctx).Delete(&entity.Publication{}, "publication_index = ?", index)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrPublicationNotFound
	}
	return nil
}
