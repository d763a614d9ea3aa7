package filesystem

import (
	"path/filepath"
	"strings"
)

// ResolveRoot converts a corpus location to a local path.
// Handles file:// URIs and bare paths; relative paths are made absolute
// so snapshot manifests record where the corpus really was.
func ResolveRoot(uri string) string {
	path := uri
	// Strip file:// prefix for local paths
	if strings.HasPrefix(path, "file://") {
		path = strings.TrimPrefix(path, "file://")
	}
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
