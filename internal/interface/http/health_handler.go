package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers the root liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is running"})
}
