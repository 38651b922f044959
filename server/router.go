package server

import (
	"time"

	httpHandler "ytcollector/interfaces/http"
	"ytcollector/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	healthHandler httpHandler.IHealthHandler,
	recordHandler httpHandler.IRecordHandler,
	allowOrigins []string,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", healthHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))
	{
		api.GET("/videos", recordHandler.ListVideos)
		api.GET("/videos/:videoId", recordHandler.GetVideo)
		api.GET("/videos/:videoId/comments", recordHandler.ListVideoComments)
		api.GET("/quota/:date", recordHandler.GetQuota)
	}

	export := router.Group("export")
	export.Use(middleware.Auth(secretKey))
	export.GET("/:file", recordHandler.ExportTable)

	return router
}
