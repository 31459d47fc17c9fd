package handlers

import (
	"net/http"

	"billettigue/internal/http/middleware"
	"billettigue/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/admin/stats
func GetAdminStats(c *gin.Context) {
	svc := services.StatsService{RequestID: middleware.GetRequestID(c)}
	stats, err := svc.Overview()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
