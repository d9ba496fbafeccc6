package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
	"github.com/mycardscz/mycards-server/internal/session"
)

// SessionHandler persists wizard progress between visits.
type SessionHandler struct {
	sessions session.Store
	resolver *deck.Resolver
}

// NewSessionHandler constructs a session handler.
func NewSessionHandler(sessions session.Store, resolver *deck.Resolver) *SessionHandler {
	return &SessionHandler{sessions: sessions, resolver: resolver}
}

// Get loads a saved wizard session.
func (h *SessionHandler) Get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	state, err := h.sessions.Load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load session failed"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Put overwrites a wizard session. A session that names a game but carries no
// deck gets one resolved, so a refresh mid-wizard never loses the card list.
func (h *SessionHandler) Put(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var state session.State
	if errBind := c.ShouldBindJSON(&state); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if state.GameType != "" && !catalog.IsKnown(state.GameType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown game type"})
		return
	}
	if state.CardStyle != "" && !catalog.IsKnownStyle(state.CardStyle) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown card style"})
		return
	}

	if len(state.Deck) == 0 && state.GameType != "" && state.CardStyle != "" {
		state.Deck = h.resolver.Resolve(state.GameType, state.CardStyle)
	}
	if state.BackConfig == (deck.BackConfig{}) {
		state.BackConfig = deck.NewBackConfig()
	}

	if errSave := h.sessions.Save(c.Request.Context(), id, state); errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save session failed"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// Delete clears a wizard session.
func (h *SessionHandler) Delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.sessions.Clear(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear session failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// updateCardRequest carries one card edit. Nil fields are left untouched.
type updateCardRequest struct {
	CustomImage         *string  `json:"customImage"`         // New uploaded image reference.
	CustomText          *string  `json:"customText"`          // New caption.
	ImageScale          *float64 `json:"imageScale"`          // New zoom factor.
	ImageX              *int     `json:"imageX"`              // New horizontal offset.
	ImageY              *int     `json:"imageY"`              // New vertical offset.
	BorderColor         *string  `json:"borderColor"`         // New border color.
	IsBackgroundRemoved *bool    `json:"isBackgroundRemoved"` // Background removal flag.
	RemoveImage         bool     `json:"removeImage"`         // Drop the uploaded image.
	ApplyTo             string   `json:"applyTo"`             // "", "rank" or "suit" bulk propagation.
}

// UpdateCard edits one card in a saved session, optionally propagating the
// edit across the card's rank or suit. Locked template cards reject edits.
func (h *SessionHandler) UpdateCard(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	cardID := strings.TrimSpace(c.Param("cardID"))

	var body updateCardRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.ApplyTo != "" && body.ApplyTo != "rank" && body.ApplyTo != "suit" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "applyTo must be rank or suit"})
		return
	}

	state, err := h.sessions.Load(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load session failed"})
		return
	}

	target := -1
	for i := range state.Deck {
		if state.Deck[i].ID == cardID {
			target = i
			break
		}
	}
	if target < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	if state.Deck[target].IsLocked {
		c.JSON(http.StatusConflict, gin.H{"error": "card is template-locked"})
		return
	}

	applyEdit(&state.Deck[target], body)

	// Bulk propagation copies the edit across the rank or suit, skipping
	// locked cards. Jokers never take part on either side.
	if body.ApplyTo != "" && state.Deck[target].Rank != catalog.Joker {
		ref := state.Deck[target]
		for i := range state.Deck {
			if i == target {
				continue
			}
			card := &state.Deck[i]
			if card.IsLocked || card.Rank == catalog.Joker {
				continue
			}
			if body.ApplyTo == "rank" && card.Rank != ref.Rank {
				continue
			}
			if body.ApplyTo == "suit" && card.Suit != ref.Suit {
				continue
			}
			applyEdit(card, body)
		}
	}

	if errSave := h.sessions.Save(c.Request.Context(), id, state); errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save session failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": state.Deck[target], "deck": state.Deck})
}

// applyEdit folds an update into a card, clamping transforms to the wizard's
// bounds.
func applyEdit(card *deck.CardConfig, body updateCardRequest) {
	if body.RemoveImage {
		card.CustomImage = ""
		card.ImageScale = 1
		card.ImageX = 0
		card.ImageY = 0
		card.IsBackgroundRemoved = false
	}
	if body.CustomImage != nil {
		card.CustomImage = *body.CustomImage
	}
	if body.CustomText != nil {
		card.CustomText = deck.TruncateCaption(*body.CustomText)
	}
	if body.ImageScale != nil {
		card.ImageScale = deck.ClampScale(*body.ImageScale)
	}
	if body.ImageX != nil {
		card.ImageX = deck.ClampShift(*body.ImageX)
	}
	if body.ImageY != nil {
		card.ImageY = deck.ClampShift(*body.ImageY)
	}
	if body.BorderColor != nil {
		card.BorderColor = *body.BorderColor
	}
	if body.IsBackgroundRemoved != nil {
		card.IsBackgroundRemoved = *body.IsBackgroundRemoved
	}
}
