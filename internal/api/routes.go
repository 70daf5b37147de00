package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"loftonrealty/server/internal/auth"
)

// SetupRoutes mounts the public API, the signed-in favorite endpoints and
// the Prometheus scrape target.
func SetupRoutes(router *gin.Engine, handler *Handler, verifier auth.TokenVerifier, logger *logrus.Logger) {
	if verifier != nil {
		router.Use(auth.Middleware(verifier, logger))
	}

	api := router.Group("/api")
	{
		api.GET("/listings", handler.GetListings)
		api.GET("/listings/:id", handler.GetListing)
		api.POST("/listings/:id/favorite", handler.ToggleFavorite)
		api.GET("/favorites", handler.GetFavorites)
		api.GET("/cities", handler.GetCities)
		api.GET("/markets", handler.GetMarkets)
		api.GET("/markets/:name", handler.GetMarket)
		api.GET("/areas", handler.GetMarketAreas)
		api.GET("/areas/hulls", handler.GetAreaHulls)
		api.POST("/leads", handler.CreateLead)
		api.POST("/sync", handler.TriggerSync)
		api.POST("/update-coordinates", handler.UpdateCoordinates)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
