package handlers

import (
	"net/http"

	intconfig "billettigue/internal/config"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/v1/db-check
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(env); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": "base de données inaccessible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "up"})
}
