package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://docs.google.com/document/d/abc123/edit", PlatformGoogleDocs},
		{"https://en.wikipedia.org/wiki/Go_(programming_language)", PlatformWikipedia},
		{"https://medium.com/@someone/post-1", PlatformMedium},
		{"https://team.medium.com/post", PlatformMedium},
		{"https://example.substack.com/p/hello", PlatformSubstack},
		{"https://example.com/article", PlatformUnknown},
		{"https://notwikipedia.org/wiki", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestGoogleDocsExportURL(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"edit link", "https://docs.google.com/document/d/1AbC-d_E/edit?usp=sharing", "https://docs.google.com/document/d/1AbC-d_E/export?format=txt", true},
		{"view link", "https://docs.google.com/document/d/xyz/view", "https://docs.google.com/document/d/xyz/export?format=txt", true},
		{"bare id", "https://docs.google.com/document/d/xyz", "https://docs.google.com/document/d/xyz/export?format=txt", true},
		{"already export", "https://docs.google.com/document/d/xyz/export?format=txt", "", false},
		{"spreadsheet", "https://docs.google.com/spreadsheets/d/xyz/edit", "", false},
		{"other host", "https://example.com/document/d/xyz/edit", "", false},
		{"no id", "https://docs.google.com/document/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := GoogleDocsExportURL(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlatformSelectors(t *testing.T) {
	assert.Equal(t, DefaultTextSelectors(), PlatformContentSelectors(PlatformUnknown))
	assert.Contains(t, PlatformContentSelectors(PlatformWikipedia), "#mw-content-text")
	assert.Contains(t, PlatformNoiseSelectors(PlatformWikipedia), ".mw-editsection")
	assert.Contains(t, PlatformNoiseSelectors(PlatformSubstack), ".subscribe-widget")
	assert.Contains(t, PlatformNoiseSelectors(PlatformUnknown), "form")
}
