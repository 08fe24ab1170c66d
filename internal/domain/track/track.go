// Package track provides the Track domain entity.
package track

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Track represents a playable audio item.
// Identity is the ID; two tracks with the same ID are the same track.
type Track struct {
	ID         string        // Opaque unique id within a queue
	Source     string        // Playable URL, local or remote
	Title      string        // Display title
	Artist     string        // Display artist
	ArtworkURL string        // Artwork reference, resolved lazily via ArtworkCache
	Duration   time.Duration // Duration hint (0 if unknown)
	Local      bool          // Cached is-local predicate, derived from Source
}

// New creates a track for the given source.
// An id is generated when the caller does not supply one.
func New(id, source string) Track {
	if id == "" {
		id = uuid.New().String()
	}
	return Track{
		ID:     id,
		Source: source,
		Local:  isLocalSource(source),
	}
}

// isLocalSource reports whether the source does not require network access.
func isLocalSource(source string) bool {
	source = strings.TrimSpace(source)
	if source == "" {
		return false
	}
	u, err := url.Parse(source)
	if err != nil {
		// Not a URL, treat as a filesystem path
		return true
	}
	switch u.Scheme {
	case "", "file":
		return true
	default:
		// Windows drive letters parse as a single-letter scheme
		return len(u.Scheme) == 1
	}
}
