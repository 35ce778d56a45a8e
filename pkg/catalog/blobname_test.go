package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogicalName(t *testing.T) {
	t.Run("format", func(t *testing.T) {
		name := newLogicalName("holiday photo.JPG")
		assert.True(t, strings.HasPrefix(name, "upload_"))
		assert.True(t, strings.HasSuffix(name, ".jpg"))
		assert.NotContains(t, name, " ")
	})

	t.Run("uniqueness", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			name := newLogicalName("a.png")
			assert.False(t, seen[name], "duplicate name %s", name)
			seen[name] = true
		}
	})

	t.Run("extension handling", func(t *testing.T) {
		tests := []struct {
			fileName string
			wantExt  string
		}{
			{"photo.jpg", ".jpg"},
			{"photo.JPEG", ".jpeg"},
			{"archive.tar.gz", ".gz"},
			{"noextension", ""},
			{"trailingdot.", "."},
			{"weird.j p g", ""},
			{"dir\\file.png", ".png"},
			{"toolong.verylongextension", ""},
		}

		for _, tt := range tests {
			name := newLogicalName(tt.fileName)
			if tt.wantExt == "" {
				assert.NotContains(t, name[len("upload_"):], ".", "file %q", tt.fileName)
			} else {
				assert.True(t, strings.HasSuffix(name, tt.wantExt), "file %q got %q", tt.fileName, name)
			}
		}
	})
}

func TestLogicalNameFromURL(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		want   string
	}{
		{"empty", "", ""},
		{"asset path", "/api/assets/upload_123_abc.jpg", "upload_123_abc.jpg"},
		{"absolute url", "https://shop.example.com/api/assets/upload_9_f.png", "upload_9_f.png"},
		{"query string ignored", "/api/assets/upload_1_a.jpg?w=200", "upload_1_a.jpg"},
		{"bare name", "upload_5_b.webp", "upload_5_b.webp"},
		{"third party url", "https://cdn.example.com/img/external.jpg", "external.jpg"},
		{"trailing slash", "/api/assets/", ""},
		{"malformed", "http://%zz/broken", "broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LogicalNameFromURL(tt.rawURL))
		})
	}
}
