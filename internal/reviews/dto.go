package reviews

import (
	"time"

	"github.com/google/uuid"
)

// ReviewDTO is the transport shape for reviews, enriched with the author's
// public identity and, on the global list, the product name.
type ReviewDTO struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	UserID      uuid.UUID `json:"user_id"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	ProductName *string   `json:"product_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateReviewRequest is the payload for posting a review on a product.
type CreateReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty"`
}

// UpdateReviewRequest carries partial review updates. Nil fields keep the
// stored value.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment,omitempty"`
}
