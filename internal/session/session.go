package session

import (
	"time"

	"github.com/ADeane6/plex-movie-rec/internal/recommend"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. History is append-only and
// chronological.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is the short-term conversational state for one client.
// RecentRecommendations holds only the most recent retrieval set; it
// is replaced wholesale on every new recommendation turn, never merged,
// so ordinal references ("play the second one") always resolve against
// what the user last saw.
type Session struct {
	ID                    string
	LastUpdated           time.Time
	RecentRecommendations []recommend.Recommendation
	ConversationHistory   []Turn
}

// AppendTurn records a message at the end of the conversation history.
func (s *Session) AppendTurn(role Role, content string) {
	s.ConversationHistory = append(s.ConversationHistory, Turn{
		Role:    role,
		Content: content,
	})
}
