package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mycardscz/mycards-server/internal/media"
)

// UploadsHandler shrinks uploaded artwork before it enters a session.
type UploadsHandler struct{}

// NewUploadsHandler constructs an uploads handler.
func NewUploadsHandler() *UploadsHandler {
	return &UploadsHandler{}
}

// compressRequest carries one upload as a data URL.
type compressRequest struct {
	Image string `json:"image"` // Data URL of the uploaded image.
}

// Compress downscales and re-encodes an upload. Compression is best-effort;
// an image that cannot be processed comes back unchanged.
func (h *UploadsHandler) Compress(c *gin.Context) {
	var body compressRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": media.CompressDataURL(body.Image)})
}
