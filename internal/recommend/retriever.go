package recommend

import (
	"context"
	"fmt"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
	"github.com/ADeane6/plex-movie-rec/internal/logger"
)

// DefaultLimit bounds how many recommendations one retrieval returns.
const DefaultLimit = 5

// QueryEmbedder turns query text into a vector.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Index answers nearest-neighbor queries with catalog positions ranked
// by descending similarity.
type Index interface {
	Query(ctx context.Context, vector []float32, limit int) ([]int, error)
}

// Retriever resolves an intent description into a ranked list of
// recommendations from the catalog.
type Retriever struct {
	embedder QueryEmbedder
	index    Index
	movies   []catalog.Movie
}

func NewRetriever(embedder QueryEmbedder, index Index, movies []catalog.Movie) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		movies:   movies,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, intent string, limit int) ([]Recommendation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	vector, err := r.embedder.EmbedQuery(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("recommend: embedding query: %w", err)
	}

	positions, err := r.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("recommend: querying index: %w", err)
	}

	recs := make([]Recommendation, 0, len(positions))
	for _, pos := range positions {
		if pos < 0 || pos >= len(r.movies) {
			logger.Warn("index returned out-of-range position", map[string]any{
				"position": pos,
				"catalog":  len(r.movies),
			})
			continue
		}
		recs = append(recs, FromMovie(r.movies[pos]))
	}
	return recs, nil
}
