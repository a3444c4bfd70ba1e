package enums

import (
	"fmt"
	"strings"
)

// ProductSortField enumerates the columns the product list endpoint may order
// by. Client-supplied sort keys are parsed against this set and never reach
// the query builder raw.
type ProductSortField string

const (
	ProductSortCreatedAt     ProductSortField = "created_at"
	ProductSortPrice         ProductSortField = "price"
	ProductSortAverageRating ProductSortField = "average_rating"
	ProductSortTotalReviews  ProductSortField = "total_reviews"
	ProductSortName          ProductSortField = "name"
)

var validProductSortFields = []ProductSortField{
	ProductSortCreatedAt,
	ProductSortPrice,
	ProductSortAverageRating,
	ProductSortTotalReviews,
	ProductSortName,
}

func (f ProductSortField) String() string {
	return string(f)
}

func (f ProductSortField) IsValid() bool {
	for _, candidate := range validProductSortFields {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseProductSortField converts raw input into a ProductSortField. Empty
// input defaults to created_at.
func ParseProductSortField(value string) (ProductSortField, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ProductSortCreatedAt, nil
	}
	for _, candidate := range validProductSortFields {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort field %q", value)
}

// SortOrder is the direction applied to the selected sort field.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

func (o SortOrder) String() string {
	return string(o)
}

func (o SortOrder) IsValid() bool {
	return o == SortOrderAsc || o == SortOrderDesc
}

// ParseSortOrder converts raw input into a SortOrder, defaulting to DESC.
func ParseSortOrder(value string) (SortOrder, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "":
		return SortOrderDesc, nil
	case "ASC":
		return SortOrderAsc, nil
	case "DESC":
		return SortOrderDesc, nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
