package handler

import (
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/api/middleware"
	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"
	"github.com/v-wei40680/mcp-linker/backend/service"

	"github.com/gin-gonic/gin"
)

func teamService() *service.TeamService {
	return service.NewTeamService(model.DB)
}

// TeamListResponse mirrors the paged listing envelope for teams; the owned
// set is always returned in full.
type TeamListResponse struct {
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	HasNext  bool          `json:"has_next"`
	HasPrev  bool          `json:"has_prev"`
	Teams    []*model.Team `json:"teams"`
}

// GetMyTeams lists teams owned by the viewer.
func GetMyTeams(c *gin.Context) {
	teams, err := model.GetTeamsByOwnerID(middleware.CurrentUserID(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}
	c.JSON(http.StatusOK, TeamListResponse{
		Page:     1,
		PageSize: len(teams),
		Teams:    teams,
	})
}

// GetTeamByID fetches a team the viewer owns or belongs to.
func GetTeamByID(c *gin.Context) {
	team, err := teamService().GetTeamForViewer(c.Request.Context(), c.Param("team_id"), middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// TeamCreateRequest is the create-team body.
type TeamCreateRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

// CreateTeam creates a team with the viewer as its OWNER member.
func CreateTeam(c *gin.Context) {
	var req TeamCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespValidationError(c, err)
		return
	}
	team, err := teamService().CreateTeam(c.Request.Context(), req.Name, req.Description, middleware.CurrentUserID(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to create team", err)
		return
	}
	common.RespCreated(c, team)
}

// UpdateTeam renames or re-describes an owned team. Fields arrive as query
// parameters; at least one must be present.
func UpdateTeam(c *gin.Context) {
	var name, description *string
	if v, ok := c.GetQuery("name"); ok {
		name = &v
	}
	if v, ok := c.GetQuery("description"); ok {
		description = &v
	}
	if name == nil && description == nil {
		common.RespErrorStr(c, http.StatusBadRequest, "No update data provided")
		return
	}
	team, err := teamService().UpdateTeam(c.Request.Context(), c.Param("team_id"), middleware.CurrentUserID(c), name, description)
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, team)
}

// DeleteTeam removes an owned team along with its members and configs.
func DeleteTeam(c *gin.Context) {
	err := teamService().DeleteTeam(c.Request.Context(), c.Param("team_id"), middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
