package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/example/academia/internal/domain"
)

type ProductRepository interface {
	TopByVideos(ctx context.Context, videoIDs []string, perVideo int) (map[string][]domain.VideoProduct, error)
}

type gormProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &gormProductRepository{db: db}
}

// TopByVideos fetches products for all given videos in one query and keeps
// the perVideo best sellers per video.
func (r *gormProductRepository) TopByVideos(ctx context.Context, videoIDs []string, perVideo int) (map[string][]domain.VideoProduct, error) {
	result := make(map[string][]domain.VideoProduct, len(videoIDs))
	if len(videoIDs) == 0 {
		return result, nil
	}
	var products []domain.VideoProduct
	if err := r.db.WithContext(ctx).
		Where("video_id IN ?", videoIDs).
		Order("sales_count DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	for _, product := range products {
		if len(result[product.VideoID]) < perVideo {
			result[product.VideoID] = append(result[product.VideoID], product)
		}
	}
	return result, nil
}
