package main

import (
	"net/http"
	"time"

	"geoverify-api/internal/handler"
	"geoverify-api/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRouter(verifyHandler *handler.VerifyImageHandler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Cross-origin access is only granted to the verification endpoint.
	verifyCORS := cors.New(cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	})
	r.OPTIONS("/verify-image", verifyCORS)
	r.POST("/verify-image", verifyCORS, verifyHandler.VerifyImage)

	return r
}
