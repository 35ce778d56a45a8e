package catalog

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// newLogicalName synthesizes a globally unique logical name for an
// uploaded blob: upload_<unix-nano>_<12 hex chars><original extension>.
// The nanosecond timestamp plus 48 bits of uuid entropy makes collision
// probability negligible rather than merely unlikely.
func newLogicalName(fileName string) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("upload_%d_%s%s", time.Now().UnixNano(), token, safeExtension(fileName))
}

// safeExtension extracts the extension from a suggested filename,
// dropping anything that could not appear in a stored object key.
func safeExtension(fileName string) string {
	ext := path.Ext(path.Base(strings.ReplaceAll(fileName, "\\", "/")))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\?%*:|\"<> ") {
		return ""
	}
	return strings.ToLower(ext)
}

// LogicalNameFromURL extracts the final path segment of an image URL.
// This is a best-effort heuristic for locating the blob a record
// references: URLs pointing at proxied or third-party images yield a
// name no blob record matches, which makes the subsequent delete a
// harmless no-op. Malformed input yields an empty string, never a
// panic.
func LogicalNameFromURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
		if p == "" && u.Opaque != "" {
			p = u.Opaque
		}
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p
}
