package recommend

import (
	"math/rand"
	"sort"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
)

// Catalog browsing helpers that work directly off the extracted movie
// list, without the vector index.

// SimilarByDirector returns up to limit movies sharing the given
// director, in catalog order.
func SimilarByDirector(movies []catalog.Movie, director, excludeTitle string, limit int) []Recommendation {
	if director == "" {
		return nil
	}

	var out []Recommendation
	for _, m := range movies {
		if m.Title == excludeTitle {
			continue
		}
		for _, d := range m.Directors {
			if d == director {
				out = append(out, FromMovie(m))
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

// SimilarByGenre scores movies by genre overlap against the given set
// and returns the top matches, best first.
func SimilarByGenre(movies []catalog.Movie, genres []string, excludeTitle string, limit int) []Recommendation {
	if len(genres) == 0 {
		return nil
	}

	want := make(map[string]bool, len(genres))
	for _, g := range genres {
		want[g] = true
	}

	type scored struct {
		rec   Recommendation
		score float64
	}

	var candidates []scored
	for _, m := range movies {
		if m.Title == excludeTitle {
			continue
		}
		matching := 0
		for _, g := range m.Genres {
			if want[g] {
				matching++
			}
		}
		if matching == 0 {
			continue
		}
		denom := len(m.Genres)
		if len(genres) > denom {
			denom = len(genres)
		}
		candidates = append(candidates, scored{
			rec:   FromMovie(m),
			score: float64(matching) / float64(denom),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.rec)
	}
	return out
}

// Popular returns a random sample of the catalog. A stand-in until
// play counts are wired through from Plex.
func Popular(movies []catalog.Movie, limit int) []Recommendation {
	if limit > len(movies) {
		limit = len(movies)
	}

	indices := rand.Perm(len(movies))[:limit]
	out := make([]Recommendation, 0, limit)
	for _, idx := range indices {
		out = append(out, FromMovie(movies[idx]))
	}
	return out
}

// RecentlyAdded returns the tail of the catalog, which Plex orders by
// addition when extracted.
func RecentlyAdded(movies []catalog.Movie, limit int) []Recommendation {
	start := len(movies) - limit
	if start < 0 {
		start = 0
	}

	out := make([]Recommendation, 0, len(movies)-start)
	for _, m := range movies[start:] {
		out = append(out, FromMovie(m))
	}
	return out
}
