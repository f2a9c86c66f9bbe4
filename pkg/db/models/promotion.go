package models

import "time"

// Promotion is a storefront banner.
type Promotion struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	ImageURL    string    `gorm:"column:image_url;not null;default:''"`
	ImageHint   string    `gorm:"column:image_hint;not null;default:''"`
	Link        string    `gorm:"column:link;not null;default:''"`
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
