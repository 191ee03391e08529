package uploader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.html", "text/html"},
		{"A.HTML", "text/html"},
		{"assets/logo.png", "image/png"},
		{"style.css", "text/css"},
		{"photo.jpg", "image/jpeg"},
		{"data.json", "application/json"},
		{"notes.txt", "text/plain"},
		{"favicon.ico", "image/vnd.microsoft.icon"},
		{"fonts/inter.woff2", "font/woff2"},
		{"app.js", "application/javascript"},
		{"README", DefaultContentType},
		{"archive.unknownext", DefaultContentType},
		{"dir.with.dots/noext", DefaultContentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentType(tt.name))
		})
	}
}

func TestContentTypeWebTypesIgnoreHostTables(t *testing.T) {
	// Registered types win over /etc/mime.types, so every host agrees
	for ext, want := range webTypes {
		t.Run(ext, func(t *testing.T) {
			assert.Equal(t, stripParams(want), ContentType("file"+ext))
			assert.Equal(t, stripParams(want), ContentType("FILE"+strings.ToUpper(ext)))
		})
	}
}

func TestResolveContentTypeSniffing(t *testing.T) {
	html := []byte("<!DOCTYPE html><html><body>hi</body></html>")

	assert.Equal(t, DefaultContentType, resolveContentType("page", html, false))
	assert.Equal(t, "text/html", resolveContentType("page", html, true))
	assert.Equal(t, "text/plain", resolveContentType("notes", []byte("just some words\n"), true))
	// The extension wins over the content when it is known
	assert.Equal(t, "image/png", resolveContentType("logo.png", html, true))
	assert.Equal(t, DefaultContentType, resolveContentType("empty", nil, true))
}
