package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

type ProductHandler struct {
	products ProductStore
	timeout  time.Duration
}

func NewProductHandler(products ProductStore, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		products: products,
		timeout:  timeout,
	}
}

type ProductRequestDTO struct {
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"required,min=10,max=1000"`
	ImageURL    string  `json:"imageUrl" validate:"required,url"`
	Category    string  `json:"category" validate:"required,max=50"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

type ProductsResponse struct {
	Products []*domain.Product `json:"products"`
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.ListProducts(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.products.GetProduct(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req ProductRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	product := &domain.Product{SellerID: user.ID}
	req.apply(product)
	if err := h.products.CreateProduct(ctx, product); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// PUT /api/v1/products/{product_id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := h.ownedProduct(ctx, w, r)
	if !ok {
		return
	}

	var req ProductRequestDTO
	if !decodeAndValidate(w, r, &req) {
		return
	}

	req.apply(product)
	if err := h.products.UpdateProduct(ctx, product); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// DELETE /api/v1/products/{product_id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := h.ownedProduct(ctx, w, r)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(ctx, product.ID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// ownedProduct loads the path product and checks the caller may edit it.
func (h *ProductHandler) ownedProduct(ctx context.Context, w http.ResponseWriter, r *http.Request) (*domain.Product, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, false
	}

	product, err := h.products.GetProduct(ctx, chi.URLParam(r, "product_id"))
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	if !product.OwnedBy(user) {
		handleServiceError(w, r, errForbidden)
		return nil, false
	}
	return product, true
}

func (req *ProductRequestDTO) apply(p *domain.Product) {
	p.Name = req.Name
	p.Price = req.Price
	p.Description = req.Description
	p.ImageURL = req.ImageURL
	p.Category = req.Category
	p.Stock = req.Stock
}
