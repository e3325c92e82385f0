package handler

import (
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/api/middleware"
	"github.com/v-wei40680/mcp-linker/backend/common"
	apierrors "github.com/v-wei40680/mcp-linker/backend/common/errors"
	"github.com/v-wei40680/mcp-linker/backend/model"

	"github.com/gin-gonic/gin"
)

// GetMe returns the authenticated viewer's profile.
func GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// GetUserByEmail looks up another user by email address.
func GetUserByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		common.RespErrorStr(c, http.StatusBadRequest, "email is required")
		return
	}
	user, err := model.GetUserByEmail(email)
	if err != nil {
		common.RespAPIError(c, apierrors.NotFound(apierrors.ErrUserNotFound, "User not found"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// UserUpdateRequest carries the profile fields a viewer may change.
type UserUpdateRequest struct {
	Username string `json:"username" binding:"required,max=100"`
}

// UpdateMe changes the viewer's username.
func UpdateMe(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespValidationError(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	if err := user.UpdateUsername(req.Username); err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to update user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
