package handler

import (
	"net/http"
	"strconv"

	"github.com/v-wei40680/mcp-linker/backend/api/middleware"
	"github.com/v-wei40680/mcp-linker/backend/common"
	"github.com/v-wei40680/mcp-linker/backend/model"
	"github.com/v-wei40680/mcp-linker/backend/service"

	"github.com/gin-gonic/gin"
)

func recommendLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return service.ClampRecommendLimit(limit)
}

func respondRecommendation(c *gin.Context, rec service.Recommendation, err error) {
	if err != nil {
		common.RespError(c, http.StatusInternalServerError, "Failed to load recommendations", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetTrendingServers returns the most favorited servers.
func GetTrendingServers(c *gin.Context) {
	rec := service.NewRecommendationService(model.DB)
	result, err := rec.Trending(c.Request.Context(), middleware.CurrentUserID(c), recommendLimit(c))
	respondRecommendation(c, result, err)
}

// GetOfficialRecommendations returns official servers ranked by rating.
func GetOfficialRecommendations(c *gin.Context) {
	rec := service.NewRecommendationService(model.DB)
	result, err := rec.Official(c.Request.Context(), recommendLimit(c))
	respondRecommendation(c, result, err)
}

// GetSimilarServers recommends servers close to a reference one. An unknown
// reference yields an empty result, not an error.
func GetSimilarServers(c *gin.Context) {
	rec := service.NewRecommendationService(model.DB)
	result, err := rec.Similar(c.Request.Context(), c.Param("server_id"), middleware.CurrentUserID(c), recommendLimit(c))
	respondRecommendation(c, result, err)
}

// GetRecommendationsBasedOnFavorites personalizes picks from the viewer's
// favorite servers and developers.
func GetRecommendationsBasedOnFavorites(c *gin.Context) {
	rec := service.NewRecommendationService(model.DB)
	result, err := rec.BasedOnFavorites(c.Request.Context(), middleware.CurrentUserID(c), recommendLimit(c))
	respondRecommendation(c, result, err)
}
