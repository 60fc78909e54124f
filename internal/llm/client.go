package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ADeane6/plex-movie-rec/internal/recommend"
	"github.com/ADeane6/plex-movie-rec/internal/session"
)

// Client is a language-model backend that interprets movie requests
// and writes conversational replies.
type Client interface {
	// InterpretRequest maps free text (plus optional conversation
	// history) to a short intent description.
	InterpretRequest(ctx context.Context, userText string, history []session.Turn) (string, error)

	// GenerateResponse writes a conversational reply presenting the
	// recommendations.
	GenerateResponse(ctx context.Context, userText string, recs []recommend.Recommendation) (string, error)
}

// New builds the configured provider.
func New(provider, anthropicKey, openaiKey, anthropicModel, openaiModel string) (Client, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic(anthropicKey, anthropicModel)
	case "openai":
		return NewOpenAI(openaiKey, openaiModel)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}

const interpretSystemPrompt = `You are a movie recommendation assistant for a Plex media server.
The user has a library of movies and wants recommendations.

If the user is asking for movie recommendations, extract what kind of movie they're looking for.
Focus on extracting genres, themes, moods, or similar movies mentioned.

If the user is referring to previous recommendations (e.g., "play the second one" or "tell me more about the third movie"),
identify this as a follow-up command, not a new recommendation request.

Return a concise description that captures the essence of what they're looking for,
or clearly indicate if this is a follow-up command about previous recommendations.`

// Listing renders recommendations as a numbered plain-text list, used
// both inside the response prompt and as the fallback reply.
func Listing(recs []recommend.Recommendation) string {
	lines := make([]string, 0, len(recs))
	for i, r := range recs {
		if r.Year != 0 {
			lines = append(lines, fmt.Sprintf("%d. %s (%d) - %s", i+1, r.Title, r.Year, r.Genres))
		} else {
			lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, r.Title, r.Genres))
		}
	}
	return strings.Join(lines, "\n")
}

func responsePrompt(userText string, recs []recommend.Recommendation) string {
	return fmt.Sprintf(`The user asked: %q

Based on their request, here are some movie recommendations from their Plex library:

%s

Create a friendly, conversational response that presents these recommendations.
Explain briefly why each movie might match what they're looking for.
If they mentioned a specific movie, you can reference how these recommendations relate to it.`,
		userText, Listing(recs))
}

// FallbackResponse is the templated reply used when response
// generation fails.
func FallbackResponse(recs []recommend.Recommendation) string {
	return "Here are some movie recommendations for you:\n\n" + Listing(recs)
}
