package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/storekit/catalog/pkg/catalog"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	service catalog.Service
}

func NewProductHandler(service catalog.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// Routes returns the router for product endpoints
func (h *ProductHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateProduct)
	r.Get("/", h.ListProducts)
	r.Get("/{id}", h.GetProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
	return r
}

// ProductRequest is the request body for creating or updating a
// product. Price is free-form text and may be empty.
type ProductRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	ImageURL     string `json:"imageUrl"`
	IsNewRelease bool   `json:"isNewRelease"`
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "name is required"})
		return
	}

	product, err := h.service.CreateProduct(r.Context(), catalog.CreateProductRequest{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsNewRelease: req.IsNewRelease,
	})
	if err != nil {
		slog.Error("Failed to create product", "name", req.Name, "error", err)
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, product)
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	req := catalog.ListProductsRequest{
		NewReleasesOnly: r.URL.Query().Get("new") == "true",
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			req.Limit = limit
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err := strconv.Atoi(v); err == nil && offset > 0 {
			req.Offset = offset
		}
	}

	products, err := h.service.ListProducts(r.Context(), req)
	if err != nil {
		slog.Error("Failed to list products", "error", err)
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, products)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid product id"})
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, product)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid product id"})
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), catalog.UpdateProductRequest{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		ImageURL:     req.ImageURL,
		IsNewRelease: req.IsNewRelease,
	})
	if err != nil {
		slog.Error("Failed to update product", "id", id, "error", err)
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid product id"})
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		slog.Error("Failed to delete product", "id", id, "error", err)
		respondError(w, r, err)
		return
	}

	render.NoContent(w, r)
}
