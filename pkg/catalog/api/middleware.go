package api

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/go-chi/render"
)

// RequireAPIKey gates mutating routes behind a pre-shared key. The
// configured value is the hex SHA-256 of the key, so the key itself
// never appears in config or environment dumps. An empty digest
// disables the check.
func RequireAPIKey(keySHA256Hex string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if keySHA256Hex == "" {
				next.ServeHTTP(w, r)
				return
			}

			presented := r.Header.Get("X-API-Key")
			if presented == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, ErrorResponse{Error: "missing api key"})
				return
			}

			digest := sha256.Sum256([]byte(presented))
			digestHex := hex.EncodeToString(digest[:])
			if subtle.ConstantTimeCompare([]byte(digestHex), []byte(keySHA256Hex)) != 1 {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, ErrorResponse{Error: "invalid api key"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
