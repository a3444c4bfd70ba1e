package products

import (
	"github.com/google/uuid"

	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
	"github.com/thiwankabandara/giftonline-backend/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the browse
// endpoint. All filters are conjunctive.
type ProductListFilters struct {
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	IsFeatured *bool
}

// ListProductsInput captures the inputs needed to filter, sort, and paginate
// the catalog.
type ListProductsInput struct {
	Filters    ProductListFilters
	SortBy     enums.ProductSortField
	SortOrder  enums.SortOrder
	Pagination pagination.Params
}

// ProductListResult is the list response body: the page of products plus a
// total that reflects the page length, not the filtered row count.
type ProductListResult struct {
	Products []ProductDTO `json:"products"`
	Total    int          `json:"total"`
}
