package reviews

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thiwankabandara/giftonline-backend/pkg/db/models"
)

var reviewColumns = strings.Join([]string{
	"r.id",
	"r.product_id",
	"r.user_id",
	"r.rating",
	"r.comment",
	"r.created_at",
	"r.updated_at",
	"u.name AS user_name",
	"u.email AS user_email",
	"p.name AS product_name",
}, ", ")

// Repository exposes review persistence with author and product joins.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("reviews r").
		Select(reviewColumns).
		Joins("LEFT JOIN users u ON u.id = r.user_id").
		Joins("LEFT JOIN products p ON p.id = r.product_id")
}

// ListAll returns every review newest first, carrying the product name for
// moderation views.
func (r *Repository) ListAll(ctx context.Context) ([]ReviewDTO, error) {
	var records []reviewRecord
	err := r.baseQuery(ctx).
		Order("r.created_at DESC").
		Order("r.id DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return toDTOs(records, true), nil
}

// ListByProduct returns a product's reviews newest first.
func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	var records []reviewRecord
	err := r.baseQuery(ctx).
		Where("r.product_id = ?", productID).
		Order("r.created_at DESC").
		Order("r.id DESC").
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return toDTOs(records, false), nil
}

// GetDetail fetches one review with its joined fields.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	var record reviewRecord
	if err := r.baseQuery(ctx).Where("r.id = ?", id).Take(&record).Error; err != nil {
		return nil, err
	}
	dto := record.toDTO(false)
	return &dto, nil
}

// FindByID loads the raw review row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsForUser reports whether the user has already reviewed the product.
func (r *Repository) ExistsForUser(ctx context.Context, productID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Count(&count).Error
	return count > 0, err
}

// ProductExists reports whether the product id references a stored row.
func (r *Repository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// Update persists the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes a review.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	return res.RowsAffected, res.Error
}

type reviewRecord struct {
	ID          uuid.UUID `gorm:"column:id"`
	ProductID   uuid.UUID `gorm:"column:product_id"`
	UserID      uuid.UUID `gorm:"column:user_id"`
	Rating      int       `gorm:"column:rating"`
	Comment     *string   `gorm:"column:comment"`
	UserName    string    `gorm:"column:user_name"`
	UserEmail   string    `gorm:"column:user_email"`
	ProductName *string   `gorm:"column:product_name"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (r reviewRecord) toDTO(withProductName bool) ReviewDTO {
	dto := ReviewDTO{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		UserName:  r.UserName,
		UserEmail: r.UserEmail,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if withProductName {
		dto.ProductName = r.ProductName
	}
	return dto
}

func toDTOs(records []reviewRecord, withProductName bool) []ReviewDTO {
	dtos := make([]ReviewDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, record.toDTO(withProductName))
	}
	return dtos
}
