package handler

import (
	"net/http"
	"time"

	"github.com/v-wei40680/mcp-linker/backend/common"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports service liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   common.Version,
		"timestamp": common.FormatTime(time.Now()),
	})
}
