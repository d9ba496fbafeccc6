package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/mycardscz/mycards-server/internal/config"
	"github.com/mycardscz/mycards-server/internal/security"
)

// AuthHandler issues admin tokens for the shared admin password.
type AuthHandler struct {
	cfg config.AdminConfig
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(cfg config.AdminConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// loginRequest carries the shared admin password.
type loginRequest struct {
	Password string `json:"password"` // Shared admin password.
}

// Login checks the password against the configured bcrypt hash and issues an
// HS256 token. Failed attempts are logged but never locked out.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	if !security.CheckPassword(h.cfg.PasswordHash, body.Password) {
		log.Warnf("admin login failed from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong password"})
		return
	}

	token, errToken := security.GenerateAdminToken(h.cfg.JWTSecret, h.cfg.TokenExpiry.Std())
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": h.cfg.TokenExpiry.Seconds(),
	})
}
