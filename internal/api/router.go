package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), Metrics())

	router.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/campaign")
	{
		api.GET("", h.GetState)
		api.PUT("/input", h.SetInput)
		api.PUT("/step", h.SetStep)
		api.POST("/analyze", h.Analyze)
		api.POST("/refine", h.Refine)

		api.POST("/keywords", h.AddKeyword)
		api.POST("/keywords/toggle", h.ToggleKeyword)
		api.DELETE("/keywords", h.RemoveKeyword)

		api.POST("/adgroups", h.GenerateAdGroups)
		api.PATCH("/adgroups/:id", h.RenameAdGroup)
		api.DELETE("/adgroups/:id", h.RemoveAdGroup)
		api.PUT("/adgroups/:id/assets/:kind/:index", h.UpdateAsset)
		api.POST("/adgroups/:id/image", h.GenerateImage)

		api.GET("/limits", h.Limits)
		api.GET("/export.csv", h.Export)
		api.POST("/reset", h.Reset)
	}

	return router
}
