package reviews

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thiwankabandara/giftonline-backend/pkg/db"
	"github.com/thiwankabandara/giftonline-backend/pkg/db/models"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
)

const (
	reviewNotFoundMessage  = "Review not found"
	productNotFoundMessage = "Product not found"
	alreadyReviewedMessage = "you have already reviewed this product"
	notOwnerMessage        = "you can only modify your own reviews"
)

// Service defines the behavior needed by the reviews controller.
type Service interface {
	ListAll(ctx context.Context) ([]ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error)
	Create(ctx context.Context, productID, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error)
	Update(ctx context.Context, id, userID uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a reviews service over the shared DB handle.
func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &service{repo: NewRepository(client.DB())}, nil
}

func (s *service) ListAll(ctx context.Context) ([]ReviewDTO, error) {
	dtos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reviews")
	}
	return dtos, nil
}

func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]ReviewDTO, error) {
	dtos, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product reviews")
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	dto, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, reviewNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get review")
	}
	return dto, nil
}

func (s *service) Create(ctx context.Context, productID, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	exists, err := s.repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, productNotFoundMessage)
	}

	reviewed, err := s.repo.ExistsForUser(ctx, productID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing review")
	}
	if reviewed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadyReviewedMessage)
	}

	review, err := s.repo.Create(ctx, &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		// The unique index closes the pre-check race under concurrency.
		if db.IsUniqueViolation(err, "uq_reviews_product_user") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadyReviewedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
	}
	return s.Get(ctx, review.ID)
}

func (s *service) Update(ctx context.Context, id, userID uuid.UUID, req UpdateReviewRequest) (*ReviewDTO, error) {
	review, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
		}
		updates["rating"] = *req.Rating
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}

	if err := s.repo.Update(ctx, review.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
	}
	return s.Get(ctx, review.ID)
}

func (s *service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	review, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, review.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, reviewNotFoundMessage)
	}
	return nil
}

func (s *service) findOwned(ctx context.Context, id, userID uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, reviewNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get review")
	}
	if review.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, notOwnerMessage)
	}
	return review, nil
}
