package api

import (
	"github.com/gin-gonic/gin"

	"docuchat/internal/api/chat"
	"docuchat/internal/api/documents"
	"docuchat/internal/api/middleware"
	"docuchat/internal/repository"
	"docuchat/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	ingestService *service.IngestService,
	processor *service.ProcessorService,
	chatService *service.ChatService,
	documentRepo *repository.DocumentRepository,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	documentsHandler := documents.NewHandler(ingestService, processor, documentRepo)
	documentsHandler.RegisterRoutes(v1.Group("/documents"))

	chatHandler := chat.NewHandler(chatService)
	chatHandler.RegisterRoutes(v1.Group("/chat"))

	return r
}
