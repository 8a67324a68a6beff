package service

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func SetupRoutes(h *Handlers, logger *zap.Logger) *gin.Engine {
	routes := gin.New()
	routes.Use(RequestLogger(logger), gin.Recovery())

	routes.GET("/activity/:username", h.GetUserActivity)

	cachedRoutes := routes.Group("/")
	{
		cachedRoutes.Use(h.CacheUserRequest)

		cachedRoutes.POST("/graphql", h.GraphQL)
		cachedRoutes.GET("/graphql", h.GraphQLGet)
		cachedRoutes.GET("/store", h.Store)
	}

	return routes
}
