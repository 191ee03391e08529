package walker

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher decides which relative paths are left out of an upload
type Matcher struct {
	excludes []string
}

// NewMatcher validates the exclude patterns and returns a Matcher
func NewMatcher(excludes []string) (*Matcher, error) {
	for _, pattern := range excludes {
		if !doublestar.ValidatePattern(strings.TrimSuffix(pattern, "/")) {
			return nil, fmt.Errorf("invalid exclude pattern: %q", pattern)
		}
	}
	return &Matcher{excludes: excludes}, nil
}

// IsExcluded checks if a slash-separated relative path matches any exclude
// pattern. Patterns ending with / exclude a directory and everything below it.
func (m *Matcher) IsExcluded(relPath string, isDir bool) bool {
	if m == nil {
		return false
	}

	for _, pattern := range m.excludes {
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			if isDir {
				if matched, _ := doublestar.Match(dirPattern, relPath); matched {
					return true
				}
			}
			// Also check if any parent directory matches
			parts := strings.Split(relPath, "/")
			for i := 1; i < len(parts); i++ {
				subPath := strings.Join(parts[:i], "/")
				if matched, _ := doublestar.Match(dirPattern, subPath); matched {
					return true
				}
			}
		} else if !isDir {
			// Regular file pattern
			if matched, _ := doublestar.Match(pattern, relPath); matched {
				return true
			}
		}
	}
	return false
}

// ObjectKey converts a slash-separated relative path to an object key
func ObjectKey(prefix, relPath string) string {
	key := strings.TrimPrefix(path.Clean("/"+relPath), "/")

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}

	return prefix + "/" + key
}
