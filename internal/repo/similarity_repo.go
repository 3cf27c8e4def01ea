package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/academia/internal/domain"
)

type SimilarityRepository interface {
	ListForUser(ctx context.Context, userID string) ([]domain.CreatorSimilar, error)
}

type gormSimilarityRepository struct {
	db *gorm.DB
}

func NewSimilarityRepository(db *gorm.DB) SimilarityRepository {
	return &gormSimilarityRepository{db: db}
}

func (r *gormSimilarityRepository) ListForUser(ctx context.Context, userID string) ([]domain.CreatorSimilar, error) {
	var edges []domain.CreatorSimilar
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}
