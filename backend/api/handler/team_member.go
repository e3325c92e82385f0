package handler

import (
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/api/middleware"
	"github.com/v-wei40680/mcp-linker/backend/common"
	apierrors "github.com/v-wei40680/mcp-linker/backend/common/errors"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"github.com/gin-gonic/gin"
)

// GetTeamMembers lists a team's members, visible to any member.
func GetTeamMembers(c *gin.Context) {
	members, err := teamService().GetTeamMembers(c.Request.Context(), c.Param("team_id"), middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// GetMyTeamMemberships lists every team the viewer belongs to.
func GetMyTeamMemberships(c *gin.Context) {
	members, err := teamService().GetMyMemberships(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to list memberships", err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func bindTeamRole(c *gin.Context, param, fallback string) (model.TeamRole, bool) {
	role := model.TeamRole(c.DefaultQuery(param, fallback))
	if !model.IsValidTeamRole(role) {
		common.RespAPIError(c, apierrors.BadRequest(apierrors.ErrInvalidParam, "Invalid team role"))
		return "", false
	}
	return role, true
}

// AddTeamMember adds a user to a team; callers must be ADMIN or OWNER.
func AddTeamMember(c *gin.Context) {
	userIDToAdd := c.Query("user_id_to_add")
	if userIDToAdd == "" {
		common.RespErrorStr(c, http.StatusBadRequest, "user_id_to_add is required")
		return
	}
	role, ok := bindTeamRole(c, "role", string(model.TeamRoleMember))
	if !ok {
		return
	}
	member, err := teamService().AddMember(c.Request.Context(), c.Param("team_id"), userIDToAdd, role, middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	common.RespCreated(c, member)
}

// UpdateTeamMemberRole changes a member's role. Demoting the last OWNER is
// rejected.
func UpdateTeamMemberRole(c *gin.Context) {
	newRole := c.Query("new_role")
	if newRole == "" {
		common.RespErrorStr(c, http.StatusBadRequest, "new_role is required")
		return
	}
	role := model.TeamRole(newRole)
	if !model.IsValidTeamRole(role) {
		common.RespAPIError(c, apierrors.BadRequest(apierrors.ErrInvalidParam, "Invalid team role"))
		return
	}
	member, err := teamService().UpdateMemberRole(c.Request.Context(), c.Param("team_id"), c.Param("member_id"), role, middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

// RemoveTeamMember takes a member out of a team. Removing the last OWNER is
// rejected.
func RemoveTeamMember(c *gin.Context) {
	err := teamService().RemoveMember(c.Request.Context(), c.Param("team_id"), c.Param("member_id"), middleware.CurrentUserID(c))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
