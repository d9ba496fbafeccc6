package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
)

// DecksHandler resolves game/style selections into full decks.
type DecksHandler struct {
	resolver *deck.Resolver
}

// NewDecksHandler constructs a decks handler.
func NewDecksHandler(resolver *deck.Resolver) *DecksHandler {
	return &DecksHandler{resolver: resolver}
}

// resolveDeckRequest captures the wizard's game and style selection.
type resolveDeckRequest struct {
	GameType  string `json:"game_type"`  // Game variant identifier.
	CardStyle string `json:"card_style"` // Customization tier identifier.
}

// Resolve builds the ordered card list for a selection.
func (h *DecksHandler) Resolve(c *gin.Context) {
	var body resolveDeckRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	gameType := catalog.GameType(body.GameType)
	if !catalog.IsKnown(gameType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game_type"})
		return
	}
	style := catalog.CardStyle(body.CardStyle)
	if !catalog.IsKnownStyle(style) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown card_style"})
		return
	}

	cards := h.resolver.Resolve(gameType, style)
	c.JSON(http.StatusOK, gin.H{
		"gameType":   gameType,
		"cardStyle":  style,
		"deck":       cards,
		"backConfig": deck.NewBackConfig(),
	})
}
