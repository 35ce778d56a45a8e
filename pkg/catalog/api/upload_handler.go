package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/storekit/catalog/pkg/catalog"
)

// UploadHandler accepts multipart image uploads
type UploadHandler struct {
	service        catalog.Service
	maxUploadBytes int64
}

func NewUploadHandler(service catalog.Service, maxUploadBytes int64) *UploadHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = catalog.DefaultMaxUploadBytes
	}
	return &UploadHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Routes returns the router for upload endpoints
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.UploadImage)
	return r
}

// UploadResponse is returned after a successful upload
type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
	Filename string `json:"filename"`
}

// UploadImage stores the multipart "image" part and returns the URL it
// will be served from.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// The multipart framing adds overhead on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)

	file, header, err := r.FormFile("image")
	if err != nil {
		slog.Error("Failed to read multipart image", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "missing or unreadable image field"})
		return
	}
	defer file.Close()

	result, err := h.service.UploadImage(r.Context(), file, catalog.UploadImageRequest{
		FileName:     header.Filename,
		DeclaredType: header.Header.Get("Content-Type"),
		DeclaredSize: header.Size,
	})
	if err != nil {
		slog.Error("Upload failed", "filename", header.Filename, "error", err)
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, UploadResponse{
		ImageURL: result.ImageURL,
		Filename: result.Blob.LogicalName,
	})
}
