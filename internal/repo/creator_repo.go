package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/academia/internal/domain"
)

// CreatorFilter is the triple resolved from the requesting user's profile.
type CreatorFilter struct {
	Category string
	Language string
	Region   string
}

type CreatorRepository interface {
	UpsertBatch(ctx context.Context, creators []domain.EchoTikCreator) error
	ListByFilter(ctx context.Context, filter CreatorFilter, offset, limit int) ([]domain.EchoTikCreator, int64, error)
}

type gormCreatorRepository struct {
	db *gorm.DB
}

func NewCreatorRepository(db *gorm.DB) CreatorRepository {
	return &gormCreatorRepository{db: db}
}

func (r *gormCreatorRepository) UpsertBatch(ctx context.Context, creators []domain.EchoTikCreator) error {
	if len(creators) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(&creators).Error
}

func (r *gormCreatorRepository) ListByFilter(ctx context.Context, filter CreatorFilter, offset, limit int) ([]domain.EchoTikCreator, int64, error) {
	var creators []domain.EchoTikCreator
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.EchoTikCreator{}).
		Where("category = ? AND language = ? AND region = ?", filter.Category, filter.Language, filter.Region)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}
	if err := query.
		Order("total_sale_gmv_30d_amt DESC").
		Offset(offset).
		Limit(limit).
		Find(&creators).Error; err != nil {
		return nil, 0, err
	}
	return creators, count, nil
}
