package handler

import (
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func enqueueCounter(c *gin.Context, kind service.CounterKind) {
	id := c.Param("server_id")
	if _, err := uuid.Parse(id); err != nil {
		common.RespErrorStr(c, http.StatusBadRequest, "Invalid server id")
		return
	}
	// Fire and forget: the response does not wait for the write, and a full
	// queue drops the increment.
	service.Counters().Enqueue(id, kind)
	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}

// IncrementServerView queues a view-count increment.
func IncrementServerView(c *gin.Context) {
	enqueueCounter(c, service.CounterViews)
}

// IncrementServerDownload queues a download-count increment.
func IncrementServerDownload(c *gin.Context) {
	enqueueCounter(c, service.CounterDownloads)
}
