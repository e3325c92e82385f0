package route

import (
	"github.com/v-wei40680/mcp-linker/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetRouter(route *gin.Engine) {
	route.Use(middleware.CORS())
	SetApiRouter(route)
}
