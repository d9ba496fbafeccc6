package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mycardscz/mycards-server/internal/export"
	"github.com/mycardscz/mycards-server/internal/order"
	"github.com/mycardscz/mycards-server/internal/store"
)

// OrdersHandler manages the admin order panel.
type OrdersHandler struct {
	orders   store.Store
	exporter *export.Exporter
}

// NewOrdersHandler constructs an orders handler.
func NewOrdersHandler(orders store.Store, exporter *export.Exporter) *OrdersHandler {
	return &OrdersHandler{orders: orders, exporter: exporter}
}

// List returns all orders, newest first, with purge countdowns on deleted
// ones. Supports ?q= (id, name, email) and ?status= filters. Filtering
// happens in memory because the listing merges remote and local rows.
func (h *OrdersHandler) List(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list orders failed"})
		return
	}

	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	statusFilter := order.Status(strings.TrimSpace(c.Query("status")))
	if statusFilter != "" && !order.IsKnownStatus(statusFilter) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	now := time.Now().UTC()
	out := make([]gin.H, 0, len(orders))
	for i := range orders {
		if statusFilter != "" && orders[i].Status != statusFilter {
			continue
		}
		if query != "" && !matchesQuery(&orders[i], query) {
			continue
		}
		out = append(out, h.formatOrder(&orders[i], now, false))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out})
}

// matchesQuery reports whether an order matches a lowercased search term.
func matchesQuery(o *order.Order, query string) bool {
	haystacks := []string{
		o.ID,
		o.Customer.FirstName + " " + o.Customer.LastName,
		o.Customer.Email,
	}
	for _, s := range haystacks {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return false
}

// Get returns one order with its full deck snapshot.
func (h *OrdersHandler) Get(c *gin.Context) {
	o, ok := h.fetch(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.formatOrder(&o, time.Now().UTC(), true))
}

// updateStatusRequest carries the new processing state.
type updateStatusRequest struct {
	Status string `json:"status"` // New order status.
}

// UpdateStatus transitions an order to a new status.
func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var body updateStatusRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	status := order.Status(body.Status)
	if !order.IsKnownStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update status failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SoftDelete marks an order deleted, starting the purge countdown.
func (h *OrdersHandler) SoftDelete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.orders.SoftDelete(c.Request.Context(), id, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "purge_in_days": order.PurgeWindowDays})
}

// Export streams the print-shop ZIP for an order.
func (h *OrdersHandler) Export(c *gin.Context) {
	o, ok := h.fetch(c)
	if !ok {
		return
	}

	name := export.ArchiveName(o)
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := h.exporter.WriteZip(c.Request.Context(), c.Writer, o); err != nil {
		// Headers are gone; all we can do is log and drop the connection.
		log.WithError(err).Errorf("export of %s aborted", o.ID)
		c.Abort()
		return
	}
}

// Download returns the raw order JSON for offline archival.
func (h *OrdersHandler) Download(c *gin.Context) {
	o, ok := h.fetch(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", o.ID+".json"))
	c.JSON(http.StatusOK, o)
}

func (h *OrdersHandler) fetch(c *gin.Context) (order.Order, bool) {
	id := strings.TrimSpace(c.Param("id"))
	o, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return order.Order{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return order.Order{}, false
	}
	return o, true
}

// formatOrder converts an order into a response payload. Deleted orders
// carry the remaining days of the purge window.
func (h *OrdersHandler) formatOrder(o *order.Order, now time.Time, includeDeck bool) gin.H {
	out := gin.H{
		"id":         o.ID,
		"date":       o.Date.Format(time.RFC3339),
		"customer":   o.Customer,
		"gameType":   o.GameType,
		"cardStyle":  o.CardStyle,
		"totalPrice": o.TotalPrice,
		"status":     o.Status,
		"cardCount":  len(o.Deck),
	}
	if o.DeletedAt != nil {
		out["deletedAt"] = o.DeletedAt.Format(time.RFC3339)
		out["purgeCountdownDays"] = order.PurgeCountdownDays(*o.DeletedAt, now)
	}
	if includeDeck {
		out["deck"] = o.Deck
		out["backConfig"] = o.BackConfig
	}
	return out
}
