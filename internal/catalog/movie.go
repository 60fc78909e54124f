package catalog

import (
	"fmt"
	"strings"
)

// Movie is one item extracted from the Plex movie library.
// Key is the stable Plex metadata key used for playback lookup.
type Movie struct {
	Title     string
	Year      int
	Summary   string
	Genres    []string
	Directors []string
	Actors    []string
	Key       string
	Rating    float64
	Duration  int
}

// TextRepresentation builds the canonical text form of the movie that
// embeddings are generated from. The format is stable: changing it
// invalidates every cached embedding.
func (m Movie) TextRepresentation() string {
	var b strings.Builder

	b.WriteString("Title: " + m.Title)

	if m.Year != 0 {
		fmt.Fprintf(&b, " (%d)", m.Year)
	}

	if len(m.Directors) > 0 {
		b.WriteString(". Directed by " + strings.Join(m.Directors, ", "))
	}

	if len(m.Actors) > 0 {
		b.WriteString(". Starring " + strings.Join(m.Actors, ", "))
	}

	if len(m.Genres) > 0 {
		b.WriteString(". Genres: " + strings.Join(m.Genres, ", "))
	}

	if m.Summary != "" {
		b.WriteString(". Summary: " + m.Summary)
	}

	return b.String()
}
