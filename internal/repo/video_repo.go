package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/academia/internal/domain"
)

type VideoRepository interface {
	UpsertBatch(ctx context.Context, videos []domain.CreatorVideo) error
	ListByUser(ctx context.Context, userID string) ([]domain.CreatorVideo, error)
	TopByUsers(ctx context.Context, userIDs []string, perUser int) (map[string][]domain.CreatorVideo, error)
}

type gormVideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &gormVideoRepository{db: db}
}

// UpsertBatch persists videos keyed by the external video_id. Conflicts
// overwrite every mapped column, including ownership.
func (r *gormVideoRepository) UpsertBatch(ctx context.Context, videos []domain.CreatorVideo) error {
	if len(videos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_id", "video_url", "cover_image_url", "title", "description",
			"duration_seconds", "view_count", "like_count", "comment_count",
			"share_count", "posted_at", "updated_at",
		}),
	}).Create(&videos).Error
}

func (r *gormVideoRepository) ListByUser(ctx context.Context, userID string) ([]domain.CreatorVideo, error) {
	var videos []domain.CreatorVideo
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}

// TopByUsers fetches videos for all given users in one query and keeps the
// perUser most viewed per owner. One IN-query replaces the per-creator
// round-trips of the dashboard aggregation.
func (r *gormVideoRepository) TopByUsers(ctx context.Context, userIDs []string, perUser int) (map[string][]domain.CreatorVideo, error) {
	result := make(map[string][]domain.CreatorVideo, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var videos []domain.CreatorVideo
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("view_count DESC").
		Find(&videos).Error; err != nil {
		return nil, err
	}
	for _, video := range videos {
		if len(result[video.UserID]) < perUser {
			result[video.UserID] = append(result[video.UserID], video)
		}
	}
	return result, nil
}
