package app

import (
	"context"
	"fmt"

	"github.com/ADeane6/plex-movie-rec/internal/assistant"
	"github.com/ADeane6/plex-movie-rec/internal/catalog"
	"github.com/ADeane6/plex-movie-rec/internal/config"
	"github.com/ADeane6/plex-movie-rec/internal/embedding"
	"github.com/ADeane6/plex-movie-rec/internal/handler"
	"github.com/ADeane6/plex-movie-rec/internal/llm"
	"github.com/ADeane6/plex-movie-rec/internal/logger"
	"github.com/ADeane6/plex-movie-rec/internal/recommend"
	"github.com/ADeane6/plex-movie-rec/internal/redis"
	"github.com/ADeane6/plex-movie-rec/internal/session"
	"github.com/ADeane6/plex-movie-rec/internal/vector"
)

// systemBuilder returns the BuildFunc behind POST /api/initialize:
// connect to Plex, extract the catalog, embed it (with the Redis
// cache), load the vector index, and stand up the LLM client and the
// turn engine.
func systemBuilder(cfg config.Config) handler.BuildFunc {
	return func(ctx context.Context) (*handler.System, error) {

		if cfg.PlexURL == "" || cfg.PlexToken == "" {
			return nil, fmt.Errorf("app: no valid Plex credentials provided")
		}

		plex := catalog.New(cfg.PlexURL, cfg.PlexToken)
		if err := plex.Connect(ctx); err != nil {
			return nil, fmt.Errorf("app: connecting to Plex: %w", err)
		}

		movies, err := plex.Movies(ctx, cfg.MovieLibraryName)
		if err != nil {
			return nil, fmt.Errorf("app: extracting movie library: %w", err)
		}
		logger.Info("extracted movie library", map[string]any{
			"library": cfg.MovieLibraryName,
			"movies":  len(movies),
		})

		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("app: connecting to Redis: %w", err)
		}
		logger.Info("redis ready", nil)

		embedder, err := embedding.New(
			cfg.OpenAIAPIKey,
			cfg.EmbeddingModel,
			cfg.BatchSize,
			embedding.NewCache(redisClient.Client),
		)
		if err != nil {
			redisClient.Close()
			return nil, err
		}

		embedded, vectors, err := embedder.EmbedMovies(ctx, movies)
		if err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("app: generating embeddings: %w", err)
		}

		index, err := vector.New(cfg.WeaviateURL)
		if err != nil {
			redisClient.Close()
			return nil, err
		}
		if err := index.Setup(ctx, embedded, vectors); err != nil {
			redisClient.Close()
			return nil, err
		}

		llmClient, err := llm.New(
			cfg.LLMProvider,
			cfg.AnthropicAPIKey,
			cfg.OpenAIAPIKey,
			cfg.AnthropicModel,
			cfg.OpenAIModel,
		)
		if err != nil {
			redisClient.Close()
			return nil, err
		}
		logger.Info("llm client initialized", map[string]any{
			"provider": cfg.LLMProvider,
		})

		retriever := recommend.NewRetriever(embedder, index, embedded)
		store := session.NewMemoryStore(session.DefaultIdleTTL)
		engine := assistant.New(store, llmClient, llmClient, retriever, plex)

		return &handler.System{
			Engine:  engine,
			Media:   plex,
			Catalog: embedded,
			Cleanup: redisClient.Close,
		}, nil
	}
}
