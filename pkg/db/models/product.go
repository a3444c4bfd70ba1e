package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing. Rating statistics are derived from
// reviews at read time and never stored here.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string         `gorm:"column:name;type:text;not null"`
	Description   *string        `gorm:"column:description;type:text"`
	Price         float64        `gorm:"column:price;type:numeric(10,2);not null"`
	OriginalPrice *float64       `gorm:"column:original_price;type:numeric(10,2)"`
	CategoryID    *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	Category      *Category      `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	ImageURL      *string        `gorm:"column:image_url;type:text"`
	Images        pq.StringArray `gorm:"column:images;type:text[];not null;default:'{}'"`
	AffiliateLink string         `gorm:"column:affiliate_link;type:text;not null;default:''"`
	Notes         *string        `gorm:"column:notes;type:text"`
	IsFeatured    bool           `gorm:"column:is_featured;not null;default:false"`
	Reviews       []Review       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
