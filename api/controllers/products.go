package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/thiwankabandara/giftonline-backend/api/responses"
	"github.com/thiwankabandara/giftonline-backend/api/validators"
	productsvc "github.com/thiwankabandara/giftonline-backend/internal/products"
	"github.com/thiwankabandara/giftonline-backend/pkg/enums"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
	"github.com/thiwankabandara/giftonline-backend/pkg/logger"
	"github.com/thiwankabandara/giftonline-backend/pkg/pagination"
)

// ListProducts serves the catalog browse endpoint with filters, sorting, and
// pagination.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, result)
	}
}

// FeaturedProducts serves the featured carousel selection as a bare array.
func FeaturedProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dtos, err := svc.Featured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if dtos == nil {
			dtos = []productsvc.ProductDTO{}
		}
		responses.WriteJSON(w, http.StatusOK, dtos)
	}
}

// GetProduct serves a single product with its derived rating fields.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, product)
	}
}

// CreateProduct handles admin product creation.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productsvc.CreateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, product)
	}
}

// UpdateProduct handles admin partial product updates.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productsvc.UpdateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, product)
	}
}

// DeleteProduct handles admin product removal.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMessage(w, http.StatusOK, "product deleted")
	}
}

func parseListInput(r *http.Request) (*productsvc.ListProductsInput, error) {
	query := r.URL.Query()
	input := productsvc.ListProductsInput{}

	if raw := strings.TrimSpace(query.Get("categoryId")); raw != "" {
		id, err := validators.ParsePathUUID(raw, "categoryId")
		if err != nil {
			return nil, err
		}
		input.Filters.CategoryID = &id
	}

	input.Filters.Search = strings.TrimSpace(query.Get("search"))

	minPrice, err := validators.ParseQueryFloat(r, "minPrice")
	if err != nil {
		return nil, err
	}
	input.Filters.MinPrice = minPrice

	maxPrice, err := validators.ParseQueryFloat(r, "maxPrice")
	if err != nil {
		return nil, err
	}
	input.Filters.MaxPrice = maxPrice
	if minPrice != nil && maxPrice != nil && *minPrice > *maxPrice {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must not exceed maxPrice")
	}

	// Only the literal "true" narrows to featured items; anything else is
	// treated as absent.
	if strings.TrimSpace(query.Get("isFeatured")) == "true" {
		featured := true
		input.Filters.IsFeatured = &featured
	}

	sortBy, err := enums.ParseProductSortField(query.Get("sortBy"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sortBy")
	}
	input.SortBy = sortBy

	sortOrder, err := enums.ParseSortOrder(query.Get("sortOrder"))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sortOrder")
	}
	input.SortOrder = sortOrder

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return nil, err
	}
	offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		return nil, err
	}
	input.Pagination = pagination.Params{Limit: limit, Offset: offset}

	return &input, nil
}
