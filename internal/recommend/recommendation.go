package recommend

import (
	"strings"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
)

// Recommendation is one display-ready movie suggestion. Key uniquely
// identifies the catalog item and is what playback uses.
type Recommendation struct {
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	Genres  string `json:"genres"`
	Key     string `json:"key"`
	Summary string `json:"summary"`
}

// FromMovie formats a catalog movie into a recommendation record.
// Genres are denormalized to a comma-joined string for display.
func FromMovie(m catalog.Movie) Recommendation {
	return Recommendation{
		Title:   m.Title,
		Year:    m.Year,
		Genres:  strings.Join(m.Genres, ", "),
		Key:     m.Key,
		Summary: m.Summary,
	}
}
