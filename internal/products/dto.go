package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/thiwankabandara/giftonline-backend/pkg/db/models"
)

// ProductDTO is the transport shape for products, including the derived
// rating fields and the joined category name.
type ProductDTO struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	Price         float64    `json:"price"`
	OriginalPrice *float64   `json:"original_price,omitempty"`
	CategoryID    *uuid.UUID `json:"category_id"`
	CategoryName  *string    `json:"category_name"`
	ImageURL      *string    `json:"image_url"`
	Images        []string   `json:"images"`
	AffiliateLink string     `json:"affiliate_link"`
	Notes         *string    `json:"notes,omitempty"`
	IsFeatured    bool       `json:"is_featured"`
	AverageRating float64    `json:"average_rating"`
	TotalReviews  int        `json:"total_reviews"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreateProductRequest captures the admin payload for a new product.
type CreateProductRequest struct {
	Name          string     `json:"name" validate:"required"`
	Description   *string    `json:"description,omitempty"`
	Price         float64    `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64   `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	Images        []string   `json:"images,omitempty"`
	AffiliateLink *string    `json:"affiliate_link,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	IsFeatured    *bool      `json:"is_featured,omitempty"`
}

// UpdateProductRequest carries partial product updates. Nil fields keep the
// stored value.
type UpdateProductRequest struct {
	Name          *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	Description   *string    `json:"description,omitempty"`
	Price         *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	OriginalPrice *float64   `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	ImageURL      *string    `json:"image_url,omitempty"`
	Images        []string   `json:"images,omitempty"`
	AffiliateLink *string    `json:"affiliate_link,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	IsFeatured    *bool      `json:"is_featured,omitempty"`
}

func (r CreateProductRequest) toModel() *models.Product {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	affiliateLink := ""
	if r.AffiliateLink != nil {
		affiliateLink = *r.AffiliateLink
	}
	featured := false
	if r.IsFeatured != nil {
		featured = *r.IsFeatured
	}
	return &models.Product{
		ID:            uuid.New(),
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		CategoryID:    r.CategoryID,
		ImageURL:      r.ImageURL,
		Images:        pq.StringArray(images),
		AffiliateLink: affiliateLink,
		Notes:         r.Notes,
		IsFeatured:    featured,
	}
}
