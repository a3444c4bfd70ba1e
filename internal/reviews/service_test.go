package reviews

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/thiwankabandara/giftonline-backend/pkg/config"
	"github.com/thiwankabandara/giftonline-backend/pkg/db"
	"github.com/thiwankabandara/giftonline-backend/pkg/db/models"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
)

func setupReviewsService(t *testing.T) (Service, *db.Client) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: db.DriverSQLite,
		DSN:    "file::memory:?cache=shared",
	}, nil)
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'user',
  is_admin INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  category_id TEXT,
  image_url TEXT,
  images TEXT NOT NULL DEFAULT '{}',
  affiliate_link TEXT NOT NULL DEFAULT '',
  notes TEXT,
  is_featured INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  rating INTEGER NOT NULL,
  comment TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT uq_reviews_product_user UNIQUE (product_id, user_id)
);`
	require.NoError(t, client.DB().Exec(schema).Error)

	svc, err := NewService(client)
	require.NoError(t, err)
	return svc, client
}

func seedUser(t *testing.T, client *db.Client, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:    uuid.New(),
		Email: fmt.Sprintf("%s@example.com", uuid.NewString()),
		Name:  name,
	}
	require.NoError(t, client.DB().Create(user).Error)
	return user
}

func seedProduct(t *testing.T, client *db.Client) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:    uuid.New(),
		Name:  fmt.Sprintf("Product %s", uuid.NewString()),
		Price: 20,
	}
	require.NoError(t, client.DB().Create(product).Error)
	return product
}

func TestReviewCreateEnrichesAuthor(t *testing.T) {
	svc, client := setupReviewsService(t)
	ctx := context.Background()

	user := seedUser(t, client, "Reviewer One")
	product := seedProduct(t, client)

	comment := "Great gift idea"
	created, err := svc.Create(ctx, product.ID, user.ID, CreateReviewRequest{Rating: 5, Comment: &comment})
	require.NoError(t, err)
	require.Equal(t, 5, created.Rating)
	require.Equal(t, "Reviewer One", created.UserName)
	require.Equal(t, user.Email, created.UserEmail)
	require.NotNil(t, created.Comment)
	require.Equal(t, comment, *created.Comment)
	require.Nil(t, created.ProductName)
}

func TestReviewCreateUnknownProduct(t *testing.T) {
	svc, client := setupReviewsService(t)

	user := seedUser(t, client, "Reviewer")
	_, err := svc.Create(context.Background(), uuid.New(), user.ID, CreateReviewRequest{Rating: 4})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "Product not found", typed.Message())
}

func TestReviewCreateRejectsDuplicate(t *testing.T) {
	svc, client := setupReviewsService(t)
	ctx := context.Background()

	user := seedUser(t, client, "Reviewer")
	product := seedProduct(t, client)

	_, err := svc.Create(ctx, product.ID, user.ID, CreateReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = svc.Create(ctx, product.ID, user.ID, CreateReviewRequest{Rating: 2})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
	require.Equal(t, "you have already reviewed this product", typed.Message())
}

func TestReviewCreateRejectsOutOfRangeRating(t *testing.T) {
	svc, client := setupReviewsService(t)

	user := seedUser(t, client, "Reviewer")
	product := seedProduct(t, client)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), product.ID, user.ID, CreateReviewRequest{Rating: rating})
		require.Error(t, err)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestReviewListByProductNewestFirst(t *testing.T) {
	svc, client := setupReviewsService(t)
	ctx := context.Background()

	product := seedProduct(t, client)
	for i := 0; i < 3; i++ {
		user := seedUser(t, client, fmt.Sprintf("Reviewer %d", i))
		_, err := svc.Create(ctx, product.ID, user.ID, CreateReviewRequest{Rating: i + 1})
		require.NoError(t, err)
	}

	listed, err := svc.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	for _, dto := range listed {
		require.Equal(t, product.ID, dto.ProductID)
		require.Nil(t, dto.ProductName)
	}
}

func TestReviewListAllCarriesProductName(t *testing.T) {
	svc, client := setupReviewsService(t)
	ctx := context.Background()

	user := seedUser(t, client, "Reviewer")
	product := seedProduct(t, client)
	created, err := svc.Create(ctx, product.ID, user.ID, CreateReviewRequest{Rating: 3})
	require.NoError(t, err)

	listed, err := svc.ListAll(ctx)
	require.NoError(t, err)

	var mine *ReviewDTO
	for i := range listed {
		if listed[i].ID == created.ID {
			mine = &listed[i]
		}
	}
	require.NotNil(t, mine)
	require.NotNil(t, mine.ProductName)
	require.Equal(t, product.Name, *mine.ProductName)
}

func TestReviewUpdateOwnerOnly(t *testing.T) {
	svc, client := setupReviewsService(t)
	ctx := context.Background()

	owner := seedUser(t, client, "Owner")
	other := seedUser(t, client, "Other")
	product := seedProduct(t, client)

	created, err := svc.Create(ctx, product.ID, owner.ID, CreateReviewRequest{Rating: 2})
	require.NoError(t, err)

	newRating := 4
	_, err = svc.Update(ctx, created.ID, other.ID, UpdateReviewRequest{Rating: &newRating})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	updated, err := svc.Update(ctx, created.ID, owner.ID, UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Rating)
}

func TestReviewDeleteOwnerOnly(t *testing.T) {
	svc, client := setupReviewsService(t)
	ctx := context.Background()

	owner := seedUser(t, client, "Owner")
	other := seedUser(t, client, "Other")
	product := seedProduct(t, client)

	created, err := svc.Create(ctx, product.ID, owner.ID, CreateReviewRequest{Rating: 1})
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID, other.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	require.NoError(t, svc.Delete(ctx, created.ID, owner.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
