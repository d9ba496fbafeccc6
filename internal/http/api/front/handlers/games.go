package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mycardscz/mycards-server/internal/catalog"
)

// GamesHandler serves the game catalog.
type GamesHandler struct{}

// NewGamesHandler constructs a games handler.
func NewGamesHandler() *GamesHandler {
	return &GamesHandler{}
}

// List returns every offered game variant.
func (h *GamesHandler) List(c *gin.Context) {
	variants := catalog.Variants()
	out := make([]gin.H, 0, len(variants))
	for _, v := range variants {
		out = append(out, gin.H{
			"id":          v.ID,
			"name":        v.Name,
			"description": v.Description,
			"cardCount":   v.CardCount,
			"dimensions":  v.Dimensions,
		})
	}
	c.JSON(http.StatusOK, gin.H{"games": out})
}
