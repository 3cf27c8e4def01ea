package domain

import (
	"time"

	"gorm.io/datatypes"
)

// EchoTikCreator is a row synced from the EchoTik influencer API. UserID is
// the provider's id and the upsert key for refresh runs.
type EchoTikCreator struct {
	ID                string  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID            string  `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	UniqueID          string  `gorm:"column:unique_id" json:"unique_id"`
	Nickname          string  `gorm:"column:nickname" json:"nickname"`
	AvatarURL         string  `gorm:"column:avatar_url" json:"avatar_url"`
	AvatarOriginalURL string  `gorm:"column:avatar_original_url" json:"avatar_original_url"`
	Signature         string  `gorm:"column:signature" json:"signature"`
	Region            string  `gorm:"column:region;index:idx_creators_filter" json:"region"`
	Language          string  `gorm:"column:language;index:idx_creators_filter" json:"language"`
	Category          string  `gorm:"column:category;index:idx_creators_filter" json:"category"`

	TotalFollowersCnt      int64 `gorm:"column:total_followers_cnt" json:"total_followers_cnt"`
	FollowerCntIncrease1D  int64 `gorm:"column:follower_cnt_increase_1d" json:"follower_cnt_increase_1d"`
	FollowerCntIncrease7D  int64 `gorm:"column:follower_cnt_increase_7d" json:"follower_cnt_increase_7d"`
	FollowerCntIncrease30D int64 `gorm:"column:follower_cnt_increase_30d" json:"follower_cnt_increase_30d"`
	FollowerCntIncrease90D int64 `gorm:"column:follower_cnt_increase_90d" json:"follower_cnt_increase_90d"`

	TotalVideoCnt   int64   `gorm:"column:total_video_cnt" json:"total_video_cnt"`
	TotalViewsCnt   int64   `gorm:"column:total_views_cnt" json:"total_views_cnt"`
	TotalDiggCnt    int64   `gorm:"column:total_digg_cnt" json:"total_digg_cnt"`
	InteractionRate float64 `gorm:"column:interaction_rate" json:"interaction_rate"`

	TotalSaleGmvAmt    float64 `gorm:"column:total_sale_gmv_amt" json:"total_sale_gmv_amt"`
	TotalSaleGmv1DAmt  float64 `gorm:"column:total_sale_gmv_1d_amt" json:"total_sale_gmv_1d_amt"`
	TotalSaleGmv7DAmt  float64 `gorm:"column:total_sale_gmv_7d_amt" json:"total_sale_gmv_7d_amt"`
	TotalSaleGmv30DAmt float64 `gorm:"column:total_sale_gmv_30d_amt;index" json:"total_sale_gmv_30d_amt"`
	TotalSaleGmv90DAmt float64 `gorm:"column:total_sale_gmv_90d_amt" json:"total_sale_gmv_90d_amt"`
	ECScore            float64 `gorm:"column:ec_score" json:"ec_score"`

	TotalProductCnt           int64          `gorm:"column:total_product_cnt" json:"total_product_cnt"`
	MostCategoryProduct       datatypes.JSON `gorm:"column:most_category_product" json:"most_category_product,omitempty"`
	MostVideoDurationRange    datatypes.JSON `gorm:"column:most_video_duration_range" json:"most_video_duration_range,omitempty"`
	MostVideoPublishTimeRange datatypes.JSON `gorm:"column:most_video_publish_time_range" json:"most_video_publish_time_range,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EchoTikCreator) TableName() string {
	return "echotik_creators"
}
