package domain

import "time"

// CreatorVideo is a hydrated TikTok video. VideoID is the upsert key and is
// unique across all users, matching the persisted schema: if two users ever
// surfaced the same external id the later login would take over the row.
type CreatorVideo struct {
	ID              string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID          string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	VideoID         string    `gorm:"column:video_id;uniqueIndex;not null" json:"video_id"`
	VideoURL        string    `gorm:"column:video_url" json:"video_url"`
	CoverImageURL   string    `gorm:"column:cover_image_url" json:"cover_image_url"`
	Title           *string   `gorm:"column:title" json:"title,omitempty"`
	Description     *string   `gorm:"column:description" json:"description,omitempty"`
	DurationSeconds *int      `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	ViewCount       int64     `gorm:"column:view_count;default:0" json:"view_count"`
	LikeCount       int64     `gorm:"column:like_count;default:0" json:"like_count"`
	CommentCount    int64     `gorm:"column:comment_count;default:0" json:"comment_count"`
	ShareCount      int64     `gorm:"column:share_count;default:0" json:"share_count"`
	PostedAt        time.Time `gorm:"column:posted_at" json:"posted_at"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CreatorVideo) TableName() string {
	return "creator_videos"
}
