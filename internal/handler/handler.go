package handler

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ADeane6/plex-movie-rec/internal/assistant"
	"github.com/ADeane6/plex-movie-rec/internal/catalog"
	"github.com/ADeane6/plex-movie-rec/internal/logger"
	"github.com/ADeane6/plex-movie-rec/internal/recommend"
)

// MediaGateway is the slice of the Plex client the HTTP surface needs.
type MediaGateway interface {
	Clients(ctx context.Context) ([]catalog.MediaClient, error)
	Play(ctx context.Context, movieKey, clientName string) (string, error)
}

// System is everything the API serves once initialization has run.
type System struct {
	Engine  *assistant.Engine
	Media   MediaGateway
	Catalog []catalog.Movie
	Cleanup func() error
}

// BuildFunc assembles the system: Plex connection, catalog extraction,
// embeddings, vector index, LLM client. Invoked by POST /api/initialize.
type BuildFunc func(ctx context.Context) (*System, error)

type Handler struct {
	build BuildFunc

	mu  sync.RWMutex
	sys *System
}

func New(build BuildFunc) *Handler {
	return &Handler{build: build}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/initialize", h.Initialize)
	r.POST("/api/recommend", h.Recommend)
	r.GET("/api/clients", h.Clients)
	r.POST("/api/play", h.Play)
	r.GET("/api/browse/popular", h.BrowsePopular)
	r.GET("/api/browse/recent", h.BrowseRecent)
	r.GET("/api/browse/similar", h.BrowseSimilar)
}

func (h *Handler) system() *System {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sys
}

// Close releases the resources held by an initialized system.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sys != nil && h.sys.Cleanup != nil {
		return h.sys.Cleanup()
	}
	return nil
}

func (h *Handler) Initialize(c *gin.Context) {
	sys, err := h.build(c.Request.Context())
	if err != nil {
		logger.Error("initialization failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	old := h.sys
	h.sys = sys
	h.mu.Unlock()

	if old != nil && old.Cleanup != nil {
		_ = old.Cleanup()
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": initializedMessage(len(sys.Catalog)),
	})
}

type recommendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

func (h *Handler) Recommend(c *gin.Context) {
	sys := h.system()
	if sys == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "System not initialized"})
		return
	}

	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := sys.Engine.HandleTurn(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":        result.Response,
		"recommendations": result.Recommendations,
		"session_id":      result.SessionID,
	})
}

func (h *Handler) Clients(c *gin.Context) {
	sys := h.system()
	if sys == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "System not initialized"})
		return
	}

	clients, err := sys.Media.Clients(c.Request.Context())
	if err != nil {
		logger.Error("listing clients failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

type playRequest struct {
	MovieKey   string `json:"movieKey"`
	ClientName string `json:"clientName"`
}

func (h *Handler) Play(c *gin.Context) {
	sys := h.system()
	if sys == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "System not initialized"})
		return
	}

	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.MovieKey == "" || req.ClientName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Movie key and client name are required"})
		return
	}

	result, err := sys.Media.Play(c.Request.Context(), req.MovieKey, req.ClientName)
	if err != nil {
		logger.Error("play request failed", map[string]any{
			"movie_key": req.MovieKey,
			"client":    req.ClientName,
			"error":     err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *Handler) BrowsePopular(c *gin.Context) {
	sys := h.system()
	if sys == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "System not initialized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"movies": recommend.Popular(sys.Catalog, recommend.DefaultLimit),
	})
}

func (h *Handler) BrowseRecent(c *gin.Context) {
	sys := h.system()
	if sys == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "System not initialized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"movies": recommend.RecentlyAdded(sys.Catalog, recommend.DefaultLimit),
	})
}

// BrowseSimilar returns movies sharing a director or genres with the
// named title, directed matches first.
func (h *Handler) BrowseSimilar(c *gin.Context) {
	sys := h.system()
	if sys == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "System not initialized"})
		return
	}

	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	var source *catalog.Movie
	for i := range sys.Catalog {
		if sys.Catalog[i].Title == title {
			source = &sys.Catalog[i]
			break
		}
	}
	if source == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	director := ""
	if len(source.Directors) > 0 {
		director = source.Directors[0]
	}

	byDirector := recommend.SimilarByDirector(sys.Catalog, director, source.Title, recommend.DefaultLimit)
	byGenre := recommend.SimilarByGenre(sys.Catalog, source.Genres, source.Title, recommend.DefaultLimit)

	seen := make(map[string]bool, len(byDirector))
	movies := make([]recommend.Recommendation, 0, len(byDirector)+len(byGenre))
	for _, r := range byDirector {
		seen[r.Key] = true
		movies = append(movies, r)
	}
	for _, r := range byGenre {
		if len(movies) >= recommend.DefaultLimit {
			break
		}
		if !seen[r.Key] {
			movies = append(movies, r)
		}
	}

	c.JSON(http.StatusOK, gin.H{"movies": movies})
}

func initializedMessage(movies int) string {
	return fmt.Sprintf("Successfully initialized with %d movies", movies)
}
