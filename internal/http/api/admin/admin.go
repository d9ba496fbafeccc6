// Package admin exposes the order management API behind a shared-password
// JWT login.
package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mycardscz/mycards-server/internal/config"
	"github.com/mycardscz/mycards-server/internal/export"
	"github.com/mycardscz/mycards-server/internal/http/api/admin/handlers"
	"github.com/mycardscz/mycards-server/internal/security"
	"github.com/mycardscz/mycards-server/internal/store"
)

// RegisterAdminRoutes registers the login route and the authenticated order
// management routes.
func RegisterAdminRoutes(r *gin.Engine, orders store.Store, exporter *export.Exporter, adminCfg config.AdminConfig) {
	if r == nil {
		return
	}

	adminGroup := r.Group("/v0/admin")

	authHandler := handlers.NewAuthHandler(adminCfg)
	adminGroup.POST("/login", authHandler.Login)

	authed := adminGroup.Group("")
	authed.Use(adminAuthMiddleware(adminCfg.JWTSecret))

	ordersHandler := handlers.NewOrdersHandler(orders, exporter)
	authed.GET("/orders", ordersHandler.List)
	authed.GET("/orders/:id", ordersHandler.Get)
	authed.PUT("/orders/:id/status", ordersHandler.UpdateStatus)
	authed.DELETE("/orders/:id", ordersHandler.SoftDelete)
	authed.GET("/orders/:id/export", ordersHandler.Export)
	authed.GET("/orders/:id/json", ordersHandler.Download)
}

// adminAuthMiddleware validates admin JWTs.
func adminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		if _, errJWT := security.ParseAdminToken(secret, token); errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}
