package app

import (
	"github.com/gin-gonic/gin"

	"github.com/ADeane6/plex-movie-rec/internal/config"
	"github.com/ADeane6/plex-movie-rec/internal/handler"
	"github.com/ADeane6/plex-movie-rec/internal/middleware"
)

func setupHTTP(cfg config.Config) (*gin.Engine, func() error, error) {

	apiHandler := handler.New(systemBuilder(cfg))

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	// ----------------------------
	// Routes
	// ----------------------------

	apiHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, apiHandler.Close, nil
}
