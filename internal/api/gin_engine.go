package api

import (
	"github.com/gin-gonic/gin"

	"github.com/relecloud/ticketing/pkg/logger"
	"github.com/relecloud/ticketing/pkg/metrics"
)

func NewGinEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(logger.CorrelationMiddleware(), metrics.GinMiddleware(), logger.GinLogger(), gin.Recovery())
	return engine
}
