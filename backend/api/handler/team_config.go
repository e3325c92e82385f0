package handler

import (
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/api/middleware"
	"github.com/v-wei40680/mcp-linker/backend/common"

	"github.com/gin-gonic/gin"
)

// GetTeamConfigs lists a team's shared configurations, visible to members.
func GetTeamConfigs(c *gin.Context) {
	configs, err := teamService().GetTeamConfigs(c.Request.Context(), c.Param("team_id"), middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// TeamConfigCreateRequest is the create-config body.
type TeamConfigCreateRequest struct {
	ConfigName        string         `json:"config_name" binding:"required,max=100"`
	ConfigDescription string         `json:"config_description"`
	ConfigData        map[string]any `json:"config_data" binding:"required"`
}

// CreateTeamConfig stores a new shared configuration; ADMIN or OWNER only.
func CreateTeamConfig(c *gin.Context) {
	var req TeamConfigCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespValidationError(c, err)
		return
	}
	config, err := teamService().CreateTeamConfig(c.Request.Context(), c.Param("team_id"), middleware.CurrentUserID(c),
		req.ConfigName, req.ConfigDescription, req.ConfigData)
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	common.RespCreated(c, config)
}

// TeamConfigUpdateRequest carries the optional fields of a config update.
type TeamConfigUpdateRequest struct {
	ConfigName        *string        `json:"config_name"`
	ConfigDescription *string        `json:"config_description"`
	ConfigData        map[string]any `json:"config_data"`
}

// UpdateTeamConfig patches a shared configuration; ADMIN or OWNER only.
func UpdateTeamConfig(c *gin.Context) {
	var req TeamConfigUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespValidationError(c, err)
		return
	}
	if req.ConfigName == nil && req.ConfigDescription == nil && req.ConfigData == nil {
		common.RespErrorStr(c, http.StatusBadRequest, "No update data provided")
		return
	}
	config, err := teamService().UpdateTeamConfig(c.Request.Context(), c.Param("team_id"), c.Param("config_id"),
		middleware.CurrentUserID(c), req.ConfigName, req.ConfigDescription, req.ConfigData)
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// DeleteTeamConfig removes a shared configuration; ADMIN or OWNER only.
func DeleteTeamConfig(c *gin.Context) {
	err := teamService().DeleteTeamConfig(c.Request.Context(), c.Param("team_id"), c.Param("config_id"), middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
