package domain

import "time"

// VideoProduct is a product shown in a creator video. Populated elsewhere,
// read-only here.
type VideoProduct struct {
	ID              string    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VideoID         string    `gorm:"column:video_id;type:uuid;not null;index" json:"video_id"`
	ProductID       string    `gorm:"column:product_id;not null" json:"product_id"`
	ProductName     string    `gorm:"column:product_name" json:"product_name"`
	ProductImageURL string    `gorm:"column:product_image_url" json:"product_image_url"`
	Price           float64   `gorm:"column:price" json:"price"`
	Currency        string    `gorm:"column:currency" json:"currency"`
	SalesCount      int64     `gorm:"column:sales_count;default:0" json:"sales_count"`
	ConversionRate  float64   `gorm:"column:conversion_rate;default:0" json:"conversion_rate"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VideoProduct) TableName() string {
	return "video_products"
}
