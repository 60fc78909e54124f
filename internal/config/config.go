package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	PlexURL          string
	PlexToken        string
	MovieLibraryName string

	OpenAIAPIKey    string
	AnthropicAPIKey string

	LLMProvider    string
	OpenAIModel    string
	AnthropicModel string

	EmbeddingModel string
	BatchSize      int

	RedisAddr     string
	RedisPassword string

	WeaviateURL string
}

func Load() Config {

	cfg := Config{

		AppPort: getenv("APP_PORT", "5000"),

		PlexURL:          os.Getenv("PLEX_URL"),
		PlexToken:        os.Getenv("PLEX_TOKEN"),
		MovieLibraryName: getenv("MOVIE_LIBRARY_NAME", "Movies"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		LLMProvider:    getenv("LLM_PROVIDER", "anthropic"),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4"),
		AnthropicModel: getenv("ANTHROPIC_MODEL", "claude-3-sonnet-20240229"),

		EmbeddingModel: getenv("EMBEDDING_MODEL", "text-embedding-ada-002"),
		BatchSize:      getenvInt("BATCH_SIZE", 100),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		WeaviateURL: getenv("WEAVIATE_URL", "http://localhost:8080"),
	}

	return cfg

}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
