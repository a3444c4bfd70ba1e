package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/thiwankabandara/giftonline-backend/pkg/db/models"
	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
)

// ratingJoin computes per-product aggregates in one pass so single-item and
// list reads report identical numbers.
const ratingJoin = `LEFT JOIN (
	SELECT product_id,
	       AVG(rating) AS average_rating,
	       COUNT(id) AS total_reviews
	FROM reviews
	GROUP BY product_id
) ratings ON ratings.product_id = p.id`

var productColumns = strings.Join([]string{
	"p.id",
	"p.name",
	"p.description",
	"p.price",
	"p.original_price",
	"p.category_id",
	"p.image_url",
	"p.images",
	"p.affiliate_link",
	"p.notes",
	"p.is_featured",
	"p.created_at",
	"p.updated_at",
	"c.name AS category_name",
	"COALESCE(ratings.average_rating, 0) AS average_rating",
	"COALESCE(ratings.total_reviews, 0) AS total_reviews",
}, ", ")

// Repository exposes product persistence with rating aggregation.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products p").
		Select(productColumns).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins(ratingJoin)
}

// GetDetail fetches one product with its derived fields.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	var record productRecord
	err := r.baseQuery(ctx).Where("p.id = ?", id).Take(&record).Error
	if err != nil {
		return nil, err
	}
	dto := record.toDTO()
	return &dto, nil
}

// List applies the filter, sort, and pagination knobs and returns one page.
func (r *Repository) List(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	params := input.Pagination.Normalize()

	qb := r.baseQuery(ctx)

	filter := input.Filters
	if filter.CategoryID != nil {
		qb = qb.Where("p.category_id = ?", *filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(p.name) LIKE ?", pattern)
	}
	if filter.MinPrice != nil {
		qb = qb.Where("p.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		qb = qb.Where("p.price <= ?", *filter.MaxPrice)
	}
	if filter.IsFeatured != nil {
		qb = qb.Where("p.is_featured = ?", *filter.IsFeatured)
	}

	qb = qb.Order(orderClause(input.SortBy, input.SortOrder)).
		Order("p.id DESC").
		Limit(params.Limit).
		Offset(params.Offset)

	var records []productRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, record.toDTO())
	}

	return &ProductListResult{
		Products: dtos,
		Total:    len(dtos),
	}, nil
}

// ListFeatured returns the newest featured products up to limit.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]ProductDTO, error) {
	var records []productRecord
	err := r.baseQuery(ctx).
		Where("p.is_featured = ?", true).
		Order("p.created_at DESC").
		Order("p.id DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, record.toDTO())
	}
	return dtos, nil
}

// FindByID loads the raw product row without derived fields.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update persists the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a product. Reviews cascade via the schema.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// CategoryExists reports whether the category id references a stored row.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// orderClause maps the allow-listed sort key to its SQL expression. Rating
// sorts reference the aggregate aliases.
func orderClause(field enums.ProductSortField, order enums.SortOrder) string {
	if !order.IsValid() {
		order = enums.SortOrderDesc
	}
	column := "p.created_at"
	switch field {
	case enums.ProductSortPrice:
		column = "p.price"
	case enums.ProductSortName:
		column = "p.name"
	case enums.ProductSortAverageRating:
		column = "average_rating"
	case enums.ProductSortTotalReviews:
		column = "total_reviews"
	case enums.ProductSortCreatedAt:
		column = "p.created_at"
	}
	return fmt.Sprintf("%s %s", column, order)
}

type productRecord struct {
	ID            uuid.UUID      `gorm:"column:id"`
	Name          string         `gorm:"column:name"`
	Description   *string        `gorm:"column:description"`
	Price         float64        `gorm:"column:price"`
	OriginalPrice *float64       `gorm:"column:original_price"`
	CategoryID    *uuid.UUID     `gorm:"column:category_id"`
	CategoryName  *string        `gorm:"column:category_name"`
	ImageURL      *string        `gorm:"column:image_url"`
	Images        pq.StringArray `gorm:"column:images;type:text[]"`
	AffiliateLink string         `gorm:"column:affiliate_link"`
	Notes         *string        `gorm:"column:notes"`
	IsFeatured    bool           `gorm:"column:is_featured"`
	AverageRating float64        `gorm:"column:average_rating"`
	TotalReviews  int            `gorm:"column:total_reviews"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at"`
}

func (r productRecord) toDTO() ProductDTO {
	images := []string(r.Images)
	if images == nil {
		images = []string{}
	}
	return ProductDTO{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		OriginalPrice: r.OriginalPrice,
		CategoryID:    r.CategoryID,
		CategoryName:  r.CategoryName,
		ImageURL:      r.ImageURL,
		Images:        images,
		AffiliateLink: r.AffiliateLink,
		Notes:         r.Notes,
		IsFeatured:    r.IsFeatured,
		AverageRating: r.AverageRating,
		TotalReviews:  r.TotalReviews,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
