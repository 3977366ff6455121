package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
)

type Catalog interface {
	Products(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	Product(ctx context.Context, handle string) (*domain.Product, error)
	ProductRecommendations(ctx context.Context, handle string) ([]domain.Product, error)
	SearchProducts(ctx context.Context, q domain.ProductQuery) (*domain.ProductPage, error)
	Collections(ctx context.Context, first int, after string) (*domain.CollectionPage, error)
	CollectionProducts(ctx context.Context, handle string, q domain.ProductQuery) (*domain.Collection, error)
	Shop(ctx context.Context) (*domain.Shop, error)
}

type CatalogHandler struct {
	catalog Catalog
	timeout time.Duration
}

func NewCatalogHandler(catalog Catalog, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type RecommendationsResponse struct {
	Products []domain.Product `json:"products"`
}

// productQuery reads first, after, sort, reverse and q from the query string.
func productQuery(r *http.Request) (domain.ProductQuery, bool) {
	v := r.URL.Query()
	q := domain.ProductQuery{
		After:   v.Get("after"),
		Query:   v.Get("q"),
		SortKey: v.Get("sort"),
	}
	if s := v.Get("first"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return q, false
		}
		q.First = n
	}
	if s := v.Get("reverse"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, false
		}
		q.Reverse = b
	}
	return q, true
}

func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, ok := productQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_query", "first must be a positive integer and reverse a boolean")
		return
	}
	page, err := h.catalog.Products(ctx, q)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) Product(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.catalog.Product(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.ProductRecommendations(ctx, chi.URLParam(r, "handle"))
	if err != nil {
		handleError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, RecommendationsResponse{Products: products})
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, ok := productQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_query", "first must be a positive integer and reverse a boolean")
		return
	}
	if q.Query == "" {
		respondError(w, http.StatusBadRequest, "invalid_query", "q is required")
		return
	}
	page, err := h.catalog.SearchProducts(ctx, q)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) Collections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, ok := productQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_query", "first must be a positive integer")
		return
	}
	page, err := h.catalog.Collections(ctx, q.First, q.After)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *CatalogHandler) CollectionProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	q, ok := productQuery(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_query", "first must be a positive integer and reverse a boolean")
		return
	}
	collection, err := h.catalog.CollectionProducts(ctx, chi.URLParam(r, "handle"), q)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, collection)
}

func (h *CatalogHandler) Shop(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	shop, err := h.catalog.Shop(ctx)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, shop)
}
