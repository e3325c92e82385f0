package route

import (
	"time"

	"github.com/v-wei40680/mcp-linker/backend/api/handler"
	"github.com/v-wei40680/mcp-linker/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

// SetApiRouter registers every versioned API route. Auth middleware runs
// before the response cache so cached entries stay keyed per viewer.
func SetApiRouter(route *gin.Engine) {
	route.GET("/health", handler.HealthCheck)
	route.HEAD("/health", handler.HealthCheck)

	apiRouter := route.Group("/api/v1")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		// Catalog listing and detail. Listing is public with optional
		// identity for the favorite flags.
		serverRoute := apiRouter.Group("/servers")
		{
			serverRoute.GET("", middleware.OptionalJWTAuth(), middleware.CacheResponse(45*time.Minute), handler.GetServers)
			serverRoute.GET("/minimal", middleware.CacheResponse(time.Hour), handler.GetServersMinimal)
			serverRoute.GET("/recommended", middleware.OptionalJWTAuth(), middleware.CacheResponse(30*time.Minute), handler.GetRecommendedServers)
			serverRoute.GET("/count", handler.GetServerCount)
			serverRoute.GET("/qualified/*qualified_name", middleware.CacheResponse(time.Hour), handler.GetServerByQualifiedName)
			serverRoute.GET("/:server_id", middleware.CacheResponse(time.Hour), handler.GetServerByID)

			serverRoute.POST("/:server_id/views", handler.IncrementServerView)
			serverRoute.POST("/:server_id/view-count", handler.IncrementServerView)
			serverRoute.POST("/:server_id/downloads", handler.IncrementServerDownload)
			serverRoute.POST("/:server_id/download-count", handler.IncrementServerDownload)

			ownedRoute := serverRoute.Group("")
			ownedRoute.Use(middleware.JWTAuth())
			{
				ownedRoute.GET("/my", middleware.CacheResponse(15*time.Minute), handler.GetMyServers)
				ownedRoute.POST("", middleware.CriticalRateLimit(), handler.CreateServer)
				ownedRoute.PUT("/:server_id", middleware.CriticalRateLimit(), handler.UpdateServer)
				ownedRoute.DELETE("/:server_id", middleware.CriticalRateLimit(), handler.DeleteServer)
			}

			favoriteRoute := serverRoute.Group("/favorites")
			favoriteRoute.Use(middleware.JWTAuth())
			{
				favoriteRoute.GET("", middleware.CacheResponse(5*time.Minute), handler.GetFavorites)
				favoriteRoute.POST("/:server_id", handler.AddFavorite)
				favoriteRoute.DELETE("/clear", handler.ClearFavorites)
				favoriteRoute.DELETE("/:server_id", handler.RemoveFavorite)
				favoriteRoute.POST("/:server_id/toggle", handler.ToggleFavorite)
				favoriteRoute.GET("/stats/:server_id", handler.GetFavoriteStats)
				favoriteRoute.GET("/check/:server_id", handler.CheckFavorite)
			}

			recommendRoute := serverRoute.Group("/recommendations")
			{
				recommendRoute.GET("/trending", middleware.OptionalJWTAuth(), middleware.CacheResponse(time.Hour), handler.GetTrendingServers)
				recommendRoute.GET("/official", middleware.CacheResponse(10*time.Second), handler.GetOfficialRecommendations)
				recommendRoute.GET("/similar/:server_id", middleware.JWTAuth(), middleware.CacheResponse(30*time.Minute), handler.GetSimilarServers)
				recommendRoute.GET("/based-on-favorites", middleware.JWTAuth(), middleware.CacheResponse(30*time.Minute), handler.GetRecommendationsBasedOnFavorites)
			}
		}

		apiRouter.GET("/server_configs", middleware.CacheResponse(10*time.Minute), handler.GetServerConfigs)

		categoryRoute := apiRouter.Group("/categories")
		{
			categoryRoute.GET("", middleware.CacheResponse(time.Hour), handler.GetCategories)
			categoryRoute.GET("/simple", middleware.CacheResponse(time.Hour), handler.GetSimpleCategories)
		}

		userRoute := apiRouter.Group("/users")
		userRoute.Use(middleware.JWTAuth())
		{
			userRoute.GET("/me", handler.GetMe)
			userRoute.PATCH("/me", handler.UpdateMe)
			userRoute.GET("/by-email", handler.GetUserByEmail)
		}

		teamRoute := apiRouter.Group("/teams")
		teamRoute.Use(middleware.JWTAuth())
		{
			teamRoute.GET("/my_teams", middleware.CacheResponse(15*time.Minute), handler.GetMyTeams)
			teamRoute.GET("/my_memberships", middleware.CacheResponse(15*time.Minute), handler.GetMyTeamMemberships)
			teamRoute.POST("", middleware.CriticalRateLimit(), handler.CreateTeam)
			teamRoute.GET("/:team_id", middleware.CacheResponse(15*time.Minute), handler.GetTeamByID)
			teamRoute.PUT("/:team_id", handler.UpdateTeam)
			teamRoute.DELETE("/:team_id", middleware.CriticalRateLimit(), handler.DeleteTeam)

			teamRoute.GET("/:team_id/members", middleware.CacheResponse(15*time.Minute), handler.GetTeamMembers)
			teamRoute.POST("/:team_id/members", handler.AddTeamMember)
			teamRoute.PUT("/:team_id/members/:member_id", handler.UpdateTeamMemberRole)
			teamRoute.DELETE("/:team_id/members/:member_id", handler.RemoveTeamMember)

			teamRoute.GET("/:team_id/configs", middleware.CacheResponse(15*time.Minute), handler.GetTeamConfigs)
			teamRoute.POST("/:team_id/configs", handler.CreateTeamConfig)
			teamRoute.PUT("/:team_id/configs/:config_id", handler.UpdateTeamConfig)
			teamRoute.DELETE("/:team_id/configs/:config_id", handler.DeleteTeamConfig)
		}
	}
}
