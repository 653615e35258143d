package main

import (
	"net/http"
	"os"

	"customworld-api/config"
	"customworld-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := config.Load(); err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	config.InitDB()

	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "CustomWorld Order API",
		})
	})

	routes.SetupRoutes(r)

	log.WithField("port", config.C.Port).Info("server starting")
	if err := r.Run(":" + config.C.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
