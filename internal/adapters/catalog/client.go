package catalog

import (
	"context"
	"strings"
	"time"
)

// Entry is one game in the external catalog. CoverURL and ReleaseYear are
// never persisted; read-side queries re-resolve them through a Client.
type Entry struct {
	ID          int64
	Name        string
	CoverURL    string
	Summary     string
	Platforms   []string
	ReleaseYear int // 0 when the catalog has no release date
}

// Client is the interface to the external game catalog.
type Client interface {
	// Search runs a free-text search and returns ranked candidates.
	Search(ctx context.Context, query string, limit int) ([]Entry, error)
	// GetByID resolves one catalog entry. A missing ID is not an error; the
	// returned ok is false.
	GetByID(ctx context.Context, id int64) (Entry, bool, error)
}

// CoverSize rewrites a thumbnail cover URL to the big cover variant.
func CoverSize(url string) string {
	return strings.Replace(url, "t_thumb", "t_cover_big", 1)
}

// ReleaseYear converts a catalog unix release timestamp to a year.
func ReleaseYear(unix int64) int {
	if unix == 0 {
		return 0
	}
	return time.Unix(unix, 0).UTC().Year()
}
