package products

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/thiwankabandara/giftonline-backend/pkg/config"
	"github.com/thiwankabandara/giftonline-backend/pkg/db"
	"github.com/thiwankabandara/giftonline-backend/pkg/db/models"
	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
	"github.com/thiwankabandara/giftonline-backend/pkg/pagination"
)

func setupProductsService(t *testing.T) (Service, *db.Client) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		Driver: db.DriverSQLite,
		DSN:    "file::memory:?cache=shared",
	}, nil)
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  category_id TEXT REFERENCES categories(id),
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

func seedCategory(t *testing.T, client *db.Client) *models.Category {
	t.Helper()
	category := &models.Category{
		ID:   uuid.New(),
		Name: fmt.Sprintf("Category %s", uuid.NewString()),
	}
	require.NoError(t, client.DB().Create(category).Error)
	return category
}

func seedReview(t *testing.T, client *db.Client, productID uuid.UUID, rating int) {
	t.Helper()
	require.NoError(t, client.DB().Exec(
		"INSERT INTO reviews (id, product_id, user_id, rating, created_at, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)",
		uuid.New(), productID, uuid.New(), rating,
	).Error)
}

func productName() string {
	return fmt.Sprintf("Product %s", uuid.NewString())
}

func TestProductCreateAndGet(t *testing.T) {
	svc, client := setupProductsService(t)
	ctx := context.Background()

	category := seedCategory(t, client)
	name := productName()
	description := "A very giftable thing"
	created, err := svc.Create(ctx, CreateProductRequest{
		Name:        "  " + name + "  ",
		Description: &description,
		Price:       29.99,
		CategoryID:  &category.ID,
		Images:      []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, name, created.Name)
	require.Equal(t, 29.99, created.Price)
	require.NotNil(t, created.CategoryName)
	require.Equal(t, category.Name, *created.CategoryName)
	require.Len(t, created.Images, 2)
	require.Zero(t, created.AverageRating)
	require.Zero(t, created.TotalReviews)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, created.Images, fetched.Images)
}

func TestProductCreateRejectsUnknownCategory(t *testing.T) {
	svc, _ := setupProductsService(t)

	missing := uuid.New()
	_, err := svc.Create(context.Background(), CreateProductRequest{
		Name:       productName(),
		Price:      10,
		CategoryID: &missing,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Equal(t, "Category not found", typed.Message())
}

func TestProductRatingAggregation(t *testing.T) {
	svc, client := setupProductsService(t)
	ctx := context.Background()

	rated, err := svc.Create(ctx, CreateProductRequest{Name: productName(), Price: 15})
	require.NoError(t, err)
	unrated, err := svc.Create(ctx, CreateProductRequest{Name: productName(), Price: 15})
	require.NoError(t, err)

	for _, rating := range []int{4, 5, 3} {
		seedReview(t, client, rated.ID, rating)
	}

	got, err := svc.Get(ctx, rated.ID)
	require.NoError(t, err)
	require.InDelta(t, 4.0, got.AverageRating, 0.0001)
	require.Equal(t, 3, got.TotalReviews)

	got, err = svc.Get(ctx, unrated.ID)
	require.NoError(t, err)
	require.Zero(t, got.AverageRating)
	require.Zero(t, got.TotalReviews)
}

func TestProductListFiltersAndSorts(t *testing.T) {
	svc, client := setupProductsService(t)
	ctx := context.Background()

	category := seedCategory(t, client)
	prices := []float64{40, 10, 25}
	for _, price := range prices {
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:       productName(),
			Price:      price,
			CategoryID: &category.ID,
		})
		require.NoError(t, err)
	}

	result, err := svc.List(ctx, ListProductsInput{
		Filters:   ProductListFilters{CategoryID: &category.ID},
		SortBy:    enums.ProductSortPrice,
		SortOrder: enums.SortOrderAsc,
	})
	require.NoError(t, err)
	require.Equal(t, 3, result.Total)
	require.Len(t, result.Products, 3)
	require.Equal(t, 10.0, result.Products[0].Price)
	require.Equal(t, 25.0, result.Products[1].Price)
	require.Equal(t, 40.0, result.Products[2].Price)

	min := 20.0
	result, err = svc.List(ctx, ListProductsInput{
		Filters:   ProductListFilters{CategoryID: &category.ID, MinPrice: &min},
		SortBy:    enums.ProductSortPrice,
		SortOrder: enums.SortOrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	require.Equal(t, 40.0, result.Products[0].Price)
}

func TestProductListSearchMatchesNameCaseInsensitive(t *testing.T) {
	svc, client := setupProductsService(t)
	ctx := context.Background()

	category := seedCategory(t, client)
	marker := uuid.NewString()
	_, err := svc.Create(ctx, CreateProductRequest{
		Name:       "Cozy Blanket " + marker,
		Price:      35,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateProductRequest{
		Name:       "Desk Lamp " + marker,
		Price:      20,
		CategoryID: &category.ID,
	})
	require.NoError(t, err)

	result, err := svc.List(ctx, ListProductsInput{
		Filters: ProductListFilters{CategoryID: &category.ID, Search: "cozy BLANKET"},
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	require.Contains(t, result.Products[0].Name, "Cozy Blanket")
}

func TestProductListPagination(t *testing.T) {
	svc, client := setupProductsService(t)
	ctx := context.Background()

	category := seedCategory(t, client)
	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, CreateProductRequest{
			Name:       productName(),
			Price:      float64(i + 1),
			CategoryID: &category.ID,
		})
		require.NoError(t, err)
	}

	firstPage, err := svc.List(ctx, ListProductsInput{
		Filters:    ProductListFilters{CategoryID: &category.ID},
		SortBy:     enums.ProductSortPrice,
		SortOrder:  enums.SortOrderAsc,
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	require.Len(t, firstPage.Products, 2)
	require.Equal(t, 2, firstPage.Total)

	secondPage, err := svc.List(ctx, ListProductsInput{
		Filters:    ProductListFilters{CategoryID: &category.ID},
		SortBy:     enums.ProductSortPrice,
		SortOrder:  enums.SortOrderAsc,
		Pagination: pagination.Params{Limit: 2, Offset: 2},
	})
	require.NoError(t, err)
	require.Len(t, secondPage.Products, 2)
	require.NotEqual(t, firstPage.Products[0].ID, secondPage.Products[0].ID)
	require.Equal(t, 3.0, secondPage.Products[0].Price)
}

func TestProductSortByAverageRating(t *testing.T) {
	svc, client := setupProductsService(t)
	ctx := context.Background()

	category := seedCategory(t, client)
	low, err := svc.Create(ctx, CreateProductRequest{Name: productName(), Price: 5, CategoryID: &category.ID})
	require.NoError(t, err)
	high, err := svc.Create(ctx, CreateProductRequest{Name: productName(), Price: 5, CategoryID: &category.ID})
	require.NoError(t, err)

	seedReview(t, client, low.ID, 2)
	seedReview(t, client, high.ID, 5)

	result, err := svc.List(ctx, ListProductsInput{
		Filters:   ProductListFilters{CategoryID: &category.ID},
		SortBy:    enums.ProductSortAverageRating,
		SortOrder: enums.SortOrderDesc,
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 2)
	require.Equal(t, high.ID, result.Products[0].ID)
	require.InDelta(t, 5.0, result.Products[0].AverageRating, 0.0001)
}

func TestProductFeaturedListsNewestFirst(t *testing.T) {
	svc, _ := setupProductsService(t)
	ctx := context.Background()

	featured := true
	created, err := svc.Create(ctx, CreateProductRequest{
		Name:       productName(),
		Price:      12,
		IsFeatured: &featured,
	})
	require.NoError(t, err)

	dtos, err := svc.Featured(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, dtos)
	require.LessOrEqual(t, len(dtos), 6)
	found := false
	for _, dto := range dtos {
		require.True(t, dto.IsFeatured)
		if dto.ID == created.ID {
			found = true
		}
	}
	require.True(t, found)
}

func TestProductPartialUpdate(t *testing.T) {
	svc, client := setupProductsService(t)
	ctx := context.Background()

	category := seedCategory(t, client)
	created, err := svc.Create(ctx, CreateProductRequest{Name: productName(), Price: 50})
	require.NoError(t, err)

	newPrice := 42.5
	featured := false
	updated, err := svc.Update(ctx, created.ID, UpdateProductRequest{
		Price:      &newPrice,
		CategoryID: &category.ID,
		IsFeatured: &featured,
	})
	require.NoError(t, err)
	require.Equal(t, created.Name, updated.Name)
	require.Equal(t, newPrice, updated.Price)
	require.NotNil(t, updated.CategoryID)
	require.Equal(t, category.ID, *updated.CategoryID)
	require.False(t, updated.IsFeatured)
}

func TestProductUpdateMissingNotFound(t *testing.T) {
	svc, _ := setupProductsService(t)

	name := productName()
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProductRequest{Name: &name})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "Product not found", typed.Message())
}

func TestProductDelete(t *testing.T) {
	svc, _ := setupProductsService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateProductRequest{Name: productName(), Price: 9})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
