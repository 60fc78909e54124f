package vector

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
	"github.com/ADeane6/plex-movie-rec/internal/logger"
)

const className = "PlexMovie"

// Index is the similarity index over movie embeddings, backed by
// Weaviate with externally supplied vectors.
type Index struct {
	client *weaviate.Client
}

func New(weaviateURL string) (*Index, error) {
	parsed, err := url.Parse(weaviateURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("vector: invalid Weaviate URL %q", weaviateURL)
	}

	client, err := weaviate.NewClient(weaviate.Config{
		Host:   parsed.Host,
		Scheme: parsed.Scheme,
	})
	if err != nil {
		return nil, fmt.Errorf("vector: failed to create Weaviate client: %w", err)
	}

	return &Index{client: client}, nil
}

func movieClass() *models.Class {
	return &models.Class{
		Class:       className,
		Description: "One movie from the Plex library with its embedding.",
		Vectorizer:  "none",
		Properties: []*models.Property{
			{Name: "position", DataType: []string{"int"}, Description: "Position in the extracted catalog."},
			{Name: "title", DataType: []string{"text"}},
			{Name: "year", DataType: []string{"int"}},
			{Name: "genres", DataType: []string{"text"}},
			{Name: "movieKey", DataType: []string{"text"}, Description: "Plex metadata key."},
		},
	}
}

// Setup recreates the movie class and imports one object per catalog
// position. Movies and vectors must be position-aligned.
func (ix *Index) Setup(ctx context.Context, movies []catalog.Movie, vectors [][]float32) error {
	if len(movies) != len(vectors) {
		return fmt.Errorf("vector: %d movies but %d vectors", len(movies), len(vectors))
	}

	// Drop any stale class: every initialize rebuilds the index from
	// the current catalog.
	if _, err := ix.client.Schema().ClassGetter().WithClassName(className).Do(ctx); err == nil {
		if err := ix.client.Schema().ClassDeleter().WithClassName(className).Do(ctx); err != nil {
			return fmt.Errorf("vector: failed to drop class %s: %w", className, err)
		}
	}

	if err := ix.client.Schema().ClassCreator().WithClass(movieClass()).Do(ctx); err != nil {
		return fmt.Errorf("vector: failed to create class %s: %w", className, err)
	}

	objects := make([]*models.Object, len(movies))
	for i, m := range movies {
		objects[i] = &models.Object{
			Class:  className,
			Vector: vectors[i],
			Properties: map[string]interface{}{
				"position": i,
				"title":    m.Title,
				"year":     m.Year,
				"genres":   strings.Join(m.Genres, ","),
				"movieKey": m.Key,
			},
		}
	}

	resp, err := ix.client.Batch().ObjectsBatcher().WithObjects(objects...).Do(ctx)
	if err != nil {
		return fmt.Errorf("vector: batch import failed: %w", err)
	}

	imported := 0
	for _, item := range resp {
		if item.Result != nil && item.Result.Status != nil && *item.Result.Status == "SUCCESS" {
			imported++
		} else if item.Result != nil && item.Result.Errors != nil {
			for _, e := range item.Result.Errors.Error {
				logger.Warn("weaviate batch item error", map[string]any{
					"error": e.Message,
				})
			}
		}
	}

	logger.Info("vector index ready", map[string]any{
		"class":    className,
		"imported": imported,
	})
	return nil
}

// Query returns catalog positions ranked by similarity to the vector.
func (ix *Index) Query(ctx context.Context, vector []float32, limit int) ([]int, error) {
	nearVector := ix.client.GraphQL().NearVectorArgBuilder().
		WithVector(vector)

	result, err := ix.client.GraphQL().Get().
		WithClassName(className).
		WithFields(graphql.Field{Name: "position"}).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("vector: query failed: %w", err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("vector: query returned error: %s", result.Errors[0].Message)
	}

	return parsePositions(result)
}

func parsePositions(result *models.GraphQLResponse) ([]int, error) {
	get, ok := result.Data["Get"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("vector: unexpected response shape: missing Get")
	}
	rows, ok := get[className].([]interface{})
	if !ok {
		return nil, fmt.Errorf("vector: unexpected response shape: missing %s", className)
	}

	positions := make([]int, 0, len(rows))
	for _, row := range rows {
		props, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		if pos, ok := props["position"].(float64); ok {
			positions = append(positions, int(pos))
		}
	}
	return positions, nil
}
