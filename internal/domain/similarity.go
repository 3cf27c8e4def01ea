package domain

import "time"

// CreatorSimilar is a precomputed similarity edge. This service only reads
// the table; scoring happens in a separate pipeline.
type CreatorSimilar struct {
	ID               string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	SimilarCreatorID string    `gorm:"column:similar_creator_id;type:uuid;not null" json:"similar_creator_id"`
	SimilarityScore  float64   `gorm:"column:similarity_score" json:"similarity_score"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (CreatorSimilar) TableName() string {
	return "creators_similar"
}
