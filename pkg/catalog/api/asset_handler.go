package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storekit/catalog/pkg/catalog"
)

// AssetHandler streams stored image bytes back to clients
type AssetHandler struct {
	service catalog.Service
}

func NewAssetHandler(service catalog.Service) *AssetHandler {
	return &AssetHandler{service: service}
}

// Routes returns the router for asset endpoints
func (h *AssetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{name}", h.ServeAsset)
	return r
}

// ServeAsset streams the named blob. Uploaded assets are immutable, so
// clients may cache them for an hour.
func (h *AssetHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, blob, err := h.service.OpenImage(r.Context(), name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	defer body.Close()

	contentType := blob.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if blob.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(blob.SizeBytes, 10))
	}

	if _, err := io.Copy(w, body); err != nil {
		// Headers are already sent; nothing to do but note the failure
		slog.Warn("Asset stream interrupted", "name", name, "error", err)
	}
}
