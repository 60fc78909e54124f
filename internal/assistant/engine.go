package assistant

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ADeane6/plex-movie-rec/internal/catalog"
	"github.com/ADeane6/plex-movie-rec/internal/llm"
	"github.com/ADeane6/plex-movie-rec/internal/logger"
	"github.com/ADeane6/plex-movie-rec/internal/recommend"
	"github.com/ADeane6/plex-movie-rec/internal/session"
)

// janitorChance is the per-turn probability of sweeping expired
// sessions. The sweep runs on its own goroutine so it never sits on
// the turn's latency path.
const janitorChance = 0.1

// Interpreter maps free text to a short intent description.
type Interpreter interface {
	InterpretRequest(ctx context.Context, userText string, history []session.Turn) (string, error)
}

// Responder writes the conversational reply for a recommendation list.
type Responder interface {
	GenerateResponse(ctx context.Context, userText string, recs []recommend.Recommendation) (string, error)
}

// Retriever returns ranked recommendations for an intent description.
type Retriever interface {
	Retrieve(ctx context.Context, intent string, limit int) ([]recommend.Recommendation, error)
}

// MediaController lists playable clients and starts playback.
type MediaController interface {
	Clients(ctx context.Context) ([]catalog.MediaClient, error)
	Play(ctx context.Context, movieKey, clientName string) (string, error)
}

// TurnResult is what one conversational turn returns to the caller.
type TurnResult struct {
	Response        string
	Recommendations []recommend.Recommendation
	SessionID       string
}

// Engine owns session lifecycle and orchestrates one conversational
// turn: play-command detection, reference resolution against the last
// shown recommendations, and the interpret/retrieve/respond pipeline.
type Engine struct {
	store       session.Store
	interpreter Interpreter
	responder   Responder
	retriever   Retriever
	media       MediaController

	// overridable in tests
	randFloat func() float64
}

func New(store session.Store, interpreter Interpreter, responder Responder, retriever Retriever, media MediaController) *Engine {
	return &Engine{
		store:       store,
		interpreter: interpreter,
		responder:   responder,
		retriever:   retriever,
		media:       media,
		randFloat:   rand.Float64,
	}
}

// HandleTurn processes one user message and returns the reply, the
// current recommendation list, and the session id.
func (e *Engine) HandleTurn(ctx context.Context, sessionID, userText string) (*TurnResult, error) {
	sess, created := e.store.Resolve(ctx, sessionID)
	if created {
		logger.Info("created session", map[string]any{"session_id": sess.ID})
	}

	// Record the user turn before any processing, so failed turns
	// still leave a trace of what was asked.
	sess.AppendTurn(session.RoleUser, userText)

	defer e.maybeSweep()

	recent := sess.RecentRecommendations
	if len(recent) > 0 && isPlayCommand(userText) {
		if movie, ok := resolveReference(userText, recent); ok {
			if result := e.play(ctx, sess, movie); result != nil {
				return result, nil
			}
			// no client available: fall through to recommendations
		}
	}

	return e.recommendTurn(ctx, sess, userText)
}

// play starts playback of the resolved movie on the first available
// client. A nil return means no client was available and the turn
// should fall through to the recommendation path.
func (e *Engine) play(ctx context.Context, sess *session.Session, movie recommend.Recommendation) *TurnResult {
	clients, err := e.media.Clients(ctx)
	if err != nil {
		logger.Error("listing clients failed", map[string]any{"error": err.Error()})
		return nil
	}
	if len(clients) == 0 {
		logger.Warn("no clients available for playback", map[string]any{"title": movie.Title})
		return nil
	}

	clientName := clients[0].Name
	status, err := e.media.Play(ctx, movie.Key, clientName)
	if err != nil {
		logger.Error("playback dispatch failed", map[string]any{
			"title":  movie.Title,
			"client": clientName,
			"error":  err.Error(),
		})
	} else {
		logger.Info("playback dispatched", map[string]any{
			"title":  movie.Title,
			"client": clientName,
			"status": status,
		})
	}

	reply := fmt.Sprintf("Now playing '%s' on %s.", movie.Title, clientName)
	sess.AppendTurn(session.RoleAssistant, reply)

	// A play turn does not refresh the recommendation list.
	return &TurnResult{
		Response:        reply,
		Recommendations: sess.RecentRecommendations,
		SessionID:       sess.ID,
	}
}

func (e *Engine) recommendTurn(ctx context.Context, sess *session.Session, userText string) (*TurnResult, error) {
	// History is deliberately not passed here, even though the
	// interpreter's contract accepts it.
	intent, err := e.interpreter.InterpretRequest(ctx, userText, nil)
	if err != nil {
		logger.Error("intent interpretation failed, using raw text", map[string]any{
			"error": err.Error(),
		})
		intent = userText
	}

	recs, err := e.retriever.Retrieve(ctx, intent, recommend.DefaultLimit)
	if err != nil {
		// Turn-level failure: the user turn stays recorded, no
		// assistant turn is appended, and the previous recommendation
		// list is left untouched.
		logger.Error("recommendation retrieval failed", map[string]any{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("assistant: retrieving recommendations: %w", err)
	}

	sess.RecentRecommendations = recs

	reply, err := e.responder.GenerateResponse(ctx, userText, recs)
	if err != nil {
		logger.Error("response generation failed, using fallback", map[string]any{
			"error": err.Error(),
		})
		reply = llm.FallbackResponse(recs)
	}

	sess.AppendTurn(session.RoleAssistant, reply)

	return &TurnResult{
		Response:        reply,
		Recommendations: recs,
		SessionID:       sess.ID,
	}, nil
}

func (e *Engine) maybeSweep() {
	if e.randFloat() < janitorChance {
		go func() {
			removed := e.store.SweepExpired(context.Background(), time.Now())
			if removed > 0 {
				logger.Info("evicted idle sessions", map[string]any{"count": removed})
			}
		}()
	}
}
