package embedding

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
	"github.com/ADeane6/plex-movie-rec/internal/logger"
)

// Embedder generates OpenAI embeddings for movies and queries, reusing
// cached vectors where available.
type Embedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	batchSize int
	cache     *Cache

	// pause between batches, kept under rate limits; overridable in tests
	batchPause time.Duration
}

func New(apiKey, model string, batchSize int, cache *Cache) (*Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding: OpenAI API key is required")
	}
	if model == "" {
		model = string(openai.AdaEmbeddingV2)
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Embedder{
		client:     openai.NewClient(apiKey),
		model:      openai.EmbeddingModel(model),
		batchSize:  batchSize,
		cache:      cache,
		batchPause: time.Second,
	}, nil
}

// EmbedQuery generates an embedding for one free-text query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: query embedding failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding: no embedding returned for query")
	}
	return resp.Data[0].Embedding, nil
}

// EmbedMovies returns the movies that have embeddings together with
// their vectors, position-aligned. Cached vectors are reused; the rest
// are generated in batches and written back to the cache. Movies whose
// embedding fails are dropped from the result rather than failing the
// whole run.
func (e *Embedder) EmbedMovies(ctx context.Context, movies []catalog.Movie) ([]catalog.Movie, [][]float32, error) {
	vectors := make([][]float32, len(movies))

	var missing []int
	if e.cache != nil {
		for i, m := range movies {
			cached, err := e.cache.Get(ctx, m.Key)
			if err != nil {
				logger.Warn("embedding cache read failed", map[string]any{
					"key":   m.Key,
					"error": err.Error(),
				})
			}
			if cached != nil {
				vectors[i] = cached
			} else {
				missing = append(missing, i)
			}
		}
		logger.Info("applied cached embeddings", map[string]any{
			"cached":  len(movies) - len(missing),
			"missing": len(missing),
		})
	} else {
		for i := range movies {
			missing = append(missing, i)
		}
	}

	for start := 0; start < len(missing); start += e.batchSize {
		end := start + e.batchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		input := make([]string, 0, len(batch))
		for _, idx := range batch {
			input = append(input, movies[idx].TextRepresentation())
		}

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: input,
			Model: e.model,
		})
		if err != nil {
			// leave this batch without vectors; they get dropped below
			logger.Error("embedding batch failed", map[string]any{
				"from":  start,
				"to":    end,
				"error": err.Error(),
			})
			continue
		}

		for j, idx := range batch {
			if j >= len(resp.Data) {
				break
			}
			vectors[idx] = resp.Data[j].Embedding
			if e.cache != nil {
				if err := e.cache.Put(ctx, movies[idx].Key, vectors[idx]); err != nil {
					logger.Warn("embedding cache write failed", map[string]any{
						"key":   movies[idx].Key,
						"error": err.Error(),
					})
				}
			}
		}

		if end < len(missing) {
			time.Sleep(e.batchPause)
		}
	}

	embeddedMovies := make([]catalog.Movie, 0, len(movies))
	embeddedVectors := make([][]float32, 0, len(movies))
	for i, v := range vectors {
		if v == nil {
			continue
		}
		embeddedMovies = append(embeddedMovies, movies[i])
		embeddedVectors = append(embeddedVectors, v)
	}

	if dropped := len(movies) - len(embeddedMovies); dropped > 0 {
		logger.Warn("dropped movies with failed embeddings", map[string]any{
			"dropped": dropped,
		})
	}

	return embeddedMovies, embeddedVectors, nil
}
