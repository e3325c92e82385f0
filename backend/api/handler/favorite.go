package handler

import (
	"net/http"

	"github.com/v-wei40680/mcp-linker/backend/api/middleware"
	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"
	"github.com/v-wei40680/mcp-linker/backend/service"

	"github.com/gin-gonic/gin"
)

func favoriteService() *service.FavoriteService {
	return service.NewFavoriteService(model.DB)
}

// AddFavorite puts a server on the viewer's favorite list. Re-adding is a
// no-op acknowledged with a distinct message.
func AddFavorite(c *gin.Context) {
	result, err := favoriteService().Add(c.Request.Context(), middleware.CurrentUserID(c), c.Param("server_id"))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RemoveFavorite drops a server from the viewer's favorites, idempotently.
func RemoveFavorite(c *gin.Context) {
	result, err := favoriteService().Remove(c.Request.Context(), middleware.CurrentUserID(c), c.Param("server_id"))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ToggleFavorite flips the favorite state of a server for the viewer.
func ToggleFavorite(c *gin.Context) {
	result, err := favoriteService().Toggle(c.Request.Context(), middleware.CurrentUserID(c), c.Param("server_id"))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetFavorites lists the viewer's favorite servers.
func GetFavorites(c *gin.Context) {
	servers, err := model.GetFavoriteServers(middleware.CurrentUserID(c))
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to list favorites", err)
		return
	}
	for _, s := range servers {
		s.IsFavorited = true
	}
	c.JSON(http.StatusOK, servers)
}

// GetFavoriteStats returns the favorite count for a server plus the
// viewer's own flag.
func GetFavoriteStats(c *gin.Context) {
	stats, err := favoriteService().Stats(c.Request.Context(), middleware.CurrentUserID(c), c.Param("server_id"))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CheckFavorite reports whether the viewer has favorited a server.
func CheckFavorite(c *gin.Context) {
	favorited, err := favoriteService().Check(c.Request.Context(), middleware.CurrentUserID(c), c.Param("server_id"))
	if err != nil {
		common.RespAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFavorited": favorited})
}

// ClearFavorites removes everything from the viewer's favorite list.
func ClearFavorites(c *gin.Context) {
	if err := model.ClearFavorites(middleware.CurrentUserID(c)); err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to clear favorites", err)
		return
	}
	c.Status(http.StatusNoContent)
}
