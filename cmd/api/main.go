package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/justsurfingit/Job-Search-Agent/internal/config"
	"github.com/justsurfingit/Job-Search-Agent/internal/database"
	"github.com/justsurfingit/Job-Search-Agent/internal/handlers"
	"github.com/justsurfingit/Job-Search-Agent/internal/services"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}
	cfg := config.Load()

	// 2. Database Connection
	db := database.Connect(cfg.DatabaseDSN)

	// 3. Initialize Core Services (Dependencies)
	llmService := services.NewLLMService(cfg)
	searchService := services.NewSearchService(cfg)
	queryService := services.NewQueryService(db)
	platformService := services.NewPlatformService(db)
	searchResultService := services.NewSearchResultService(db)

	// 4. Initialize Handlers
	queryHandler := handlers.NewQueryHandler(llmService, searchService, queryService, platformService, searchResultService)
	platformHandler := handlers.NewPlatformHandler(platformService)

	// 5. Setup Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))
	r.Use(requestID())

	// 6. Define Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck(cfg))

		// Formatting + Search Routes
		api.POST("/format-query", queryHandler.FormatQuery)
		api.POST("/search-query", queryHandler.SearchQuery)

		// Query History Routes
		api.GET("/query-history", queryHandler.GetQueryHistory)
		api.GET("/query-history/:id", queryHandler.GetQueryHistoryByID)
		api.PUT("/query-history/:id", queryHandler.UpdateQueryHistory)

		// Platform URL Routes
		api.POST("/platform-urls", platformHandler.Create)
		api.GET("/platform-urls", platformHandler.GetAll)
		api.GET("/platform-urls/:id", platformHandler.GetByID)
		api.PUT("/platform-urls/:id", platformHandler.Update)
		api.DELETE("/platform-urls/:id", platformHandler.Delete)
	}

	log.Printf("🚀 Server starting on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

// requestID tags every request so log lines from one request can be grouped.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}
