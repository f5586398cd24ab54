package routes

import (
	"go-firewatch/db"
	"go-firewatch/extraction"
	"go-firewatch/handlers"
	"go-firewatch/intake"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"
)

func SetupRouter(service *intake.Service, store *db.ReportStore, adapter *extraction.Adapter, openaiClient *openai.Client) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Firewatch backend is running",
		})
	})

	// api routes
	api := r.Group("/api/firewatch")
	{
		api.POST("/report", func(c *gin.Context) {
			handlers.SubmitReport(c, service)
		})
		api.GET("/reports", func(c *gin.Context) {
			handlers.GetReports(c, store)
		})
		api.GET("/reports/nearby", func(c *gin.Context) {
			handlers.GetNearbyReports(c, store)
		})
		api.GET("/reports/:id", func(c *gin.Context) {
			handlers.GetReport(c, store)
		})
		api.PATCH("/reports/:id/status", func(c *gin.Context) {
			handlers.UpdateReportStatus(c, store)
		})
		api.GET("/extract-test", func(c *gin.Context) {
			handlers.TestExtraction(c, adapter)
		})
	}

	r.POST("/api/chat", func(c *gin.Context) {
		handlers.Chat(c, openaiClient)
	})

	return r
}

func corsMiddleware() gin.HandlerFunc {
	origin := os.Getenv("CLIENT_URL")
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
