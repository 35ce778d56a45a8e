package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/storekit/catalog/pkg/catalog"
	"github.com/storekit/catalog/pkg/catalog/imageproxy"
)

// ErrorResponse is the JSON body returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError maps service and proxy errors onto HTTP status codes and
// writes a JSON error body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal detail stays in the logs
		message = "internal server error"
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidMediaType),
		errors.Is(err, catalog.ErrPayloadTooLarge),
		errors.Is(err, catalog.ErrInvalidOrder),
		errors.Is(err, imageproxy.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrBlobNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrCarouselItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, imageproxy.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, catalog.ErrStorageNotReady),
		errors.Is(err, catalog.ErrStorageBackendNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, imageproxy.ErrUpstreamTimeout),
		errors.Is(err, imageproxy.ErrBadGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
