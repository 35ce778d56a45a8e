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

// CarouselHandler handles homepage carousel API endpoints
type CarouselHandler struct {
	service catalog.Service
}

func NewCarouselHandler(service catalog.Service) *CarouselHandler {
	return &CarouselHandler{service: service}
}

// Routes returns the router for carousel endpoints
func (h *CarouselHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.AddItem)
	r.Get("/", h.ListItems)
	r.Delete("/{id}", h.DeleteItem)
	r.Post("/reorder", h.Reorder)
	// PUT kept for clients that treat reorder as a replacement
	r.Put("/reorder", h.Reorder)
	return r
}

// CarouselItemRequest is the request body for adding a carousel item
type CarouselItemRequest struct {
	ImageURL     string `json:"imageUrl"`
	FullImageURL string `json:"fullImageUrl"`
	Alt          string `json:"alt"`
	Caption      string `json:"caption"`
}

// ReorderRequest carries the full desired id ordering
type ReorderRequest struct {
	Order []uuid.UUID `json:"order"`
}

func (h *CarouselHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req CarouselItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ImageURL == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "imageUrl is required"})
		return
	}

	item, err := h.service.AddCarouselItem(r.Context(), catalog.AddCarouselItemRequest{
		ImageURL:     req.ImageURL,
		FullImageURL: req.FullImageURL,
		Alt:          req.Alt,
		Caption:      req.Caption,
	})
	if err != nil {
		slog.Error("Failed to add carousel item", "error", err)
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

func (h *CarouselHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	var req catalog.ListCarouselItemsRequest
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

	items, err := h.service.ListCarouselItems(r.Context(), req)
	if err != nil {
		slog.Error("Failed to list carousel items", "error", err)
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, items)
}

func (h *CarouselHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid carousel item id"})
		return
	}

	if err := h.service.DeleteCarouselItem(r.Context(), id); err != nil {
		slog.Error("Failed to delete carousel item", "id", id, "error", err)
		respondError(w, r, err)
		return
	}

	render.NoContent(w, r)
}

func (h *CarouselHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	items, err := h.service.ReorderCarousel(r.Context(), req.Order)
	if err != nil {
		slog.Error("Failed to reorder carousel", "error", err)
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, items)
}
