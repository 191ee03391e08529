package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsExcluded(t *testing.T) {
	m, err := NewMatcher([]string{"*.map", "drafts/", "**/.DS_Store"})
	require.NoError(t, err)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"app.js.map", false, true},
		{"js/app.js.map", false, false},
		{"app.js", false, false},
		{"drafts", true, true},
		{"drafts/post.html", false, true},
		{"posts/drafts", true, false},
		{"img/.DS_Store", false, true},
		{".DS_Store", false, true},
		{"index.html", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.IsExcluded(tt.path, tt.isDir))
		})
	}
}

func TestNilMatcher(t *testing.T) {
	var m *Matcher
	assert.False(t, m.IsExcluded("anything", false))
}

func TestNewMatcherInvalidPattern(t *testing.T) {
	_, err := NewMatcher([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		relPath string
		want    string
	}{
		{"no prefix", "", "index.html", "index.html"},
		{"nested", "", "assets/logo.png", "assets/logo.png"},
		{"prefix without slash", "site", "index.html", "site/index.html"},
		{"prefix with slashes", "/site/v1/", "a/b.css", "site/v1/a/b.css"},
		{"dot segments cleaned", "", "./assets/../index.html", "index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.prefix, tt.relPath))
		})
	}
}
