package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storekit/catalog/pkg/catalog/imageproxy"
)

// ProxyHandler relays remote images for browser clients blocked by
// cross-origin restrictions.
type ProxyHandler struct {
	fetcher *imageproxy.Fetcher
}

func NewProxyHandler(fetcher *imageproxy.Fetcher) *ProxyHandler {
	return &ProxyHandler{fetcher: fetcher}
}

// Routes returns the router for proxy endpoints
func (h *ProxyHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ProxyImage)
	return r
}

// ProxyImage fetches the image named by the url query parameter and
// streams it back with permissive CORS headers.
func (h *ProxyHandler) ProxyImage(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")

	result, err := h.fetcher.Fetch(r.Context(), rawURL)
	if err != nil {
		slog.Warn("Proxy fetch failed", "url", rawURL, "error", err)
		respondError(w, r, err)
		return
	}
	defer result.Body.Close()

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Cache-Control", "public, max-age=300")
	if result.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(result.ContentLength, 10))
	}

	if _, err := io.Copy(w, result.Body); err != nil {
		slog.Warn("Proxy stream interrupted", "url", rawURL, "error", err)
	}
}
