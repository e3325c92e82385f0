package handler

import (
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"github.com/gin-gonic/gin"
)

// GetCategories returns the distinct categories currently present in the
// catalog.
func GetCategories(c *gin.Context) {
	cats, err := model.DistinctCategories()
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// GetSimpleCategories returns the fixed category list.
func GetSimpleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, common.Categories)
}
