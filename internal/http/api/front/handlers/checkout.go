package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mycardscz/mycards-server/internal/order"
	"github.com/mycardscz/mycards-server/internal/session"
	"github.com/mycardscz/mycards-server/internal/store"
)

// CheckoutHandler turns a completed wizard session into a persisted order.
type CheckoutHandler struct {
	sessions session.Store
	orders   store.Store
}

// NewCheckoutHandler constructs a checkout handler.
func NewCheckoutHandler(sessions session.Store, orders store.Store) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, orders: orders}
}

// checkoutRequest finalizes a session with the checkout form.
type checkoutRequest struct {
	SessionID string         `json:"sessionId"` // Wizard session to finalize.
	Customer  order.Customer `json:"customer"`  // Checkout form.
}

// Checkout assembles and persists the order. The session is cleared only
// after the order is safely stored, so a failed save keeps the deck intact.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var body checkoutRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(body.SessionID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return
	}
	if strings.TrimSpace(body.Customer.LastName) == "" || strings.TrimSpace(body.Customer.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customer lastName and email are required"})
		return
	}

	ctx := c.Request.Context()
	state, err := h.sessions.Load(ctx, body.SessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load session failed"})
		return
	}
	if len(state.Deck) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session has no configured deck"})
		return
	}

	o := order.Assemble(state.Deck, state.BackConfig, state.GameType, state.CardStyle, body.Customer, time.Now())

	savedLocally := false
	if errSave := h.orders.Save(ctx, o); errSave != nil {
		if !errors.Is(errSave, store.ErrSavedLocally) {
			// The order is not stored anywhere; keep the session so the
			// shopper can retry.
			log.WithError(errSave).Errorf("checkout: order %s not persisted", o.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order could not be saved, please try again"})
			return
		}
		savedLocally = true
	}

	if errClear := h.sessions.Clear(ctx, body.SessionID); errClear != nil {
		log.WithError(errClear).Warnf("checkout: session %s not cleared", body.SessionID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId":      o.ID,
		"totalPrice":   o.TotalPrice,
		"status":       o.Status,
		"savedLocally": savedLocally,
	})
}
