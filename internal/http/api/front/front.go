// Package front exposes the storefront wizard API: catalog browsing, deck
// resolution, session persistence, uploads and checkout.
package front

import (
	"github.com/gin-gonic/gin"

	"github.com/mycardscz/mycards-server/internal/deck"
	"github.com/mycardscz/mycards-server/internal/http/api/front/handlers"
	"github.com/mycardscz/mycards-server/internal/session"
	"github.com/mycardscz/mycards-server/internal/store"
)

// RegisterFrontRoutes registers the public storefront routes.
func RegisterFrontRoutes(r *gin.Engine, resolver *deck.Resolver, sessions session.Store, orders store.Store) {
	if r == nil {
		return
	}

	frontGroup := r.Group("/v0/front")

	gamesHandler := handlers.NewGamesHandler()
	frontGroup.GET("/games", gamesHandler.List)

	decksHandler := handlers.NewDecksHandler(resolver)
	frontGroup.POST("/decks/resolve", decksHandler.Resolve)

	sessionHandler := handlers.NewSessionHandler(sessions, resolver)
	frontGroup.GET("/session/:id", sessionHandler.Get)
	frontGroup.PUT("/session/:id", sessionHandler.Put)
	frontGroup.DELETE("/session/:id", sessionHandler.Delete)
	frontGroup.POST("/session/:id/cards/:cardID", sessionHandler.UpdateCard)

	uploadsHandler := handlers.NewUploadsHandler()
	frontGroup.POST("/uploads/compress", uploadsHandler.Compress)

	checkoutHandler := handlers.NewCheckoutHandler(sessions, orders)
	frontGroup.POST("/checkout", checkoutHandler.Checkout)
}
