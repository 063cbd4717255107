package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vcenk/SmartRealtorAgent/internal/middleware"
)

type RouterDeps struct {
	Chat      *ChatHandler
	Knowledge *KnowledgeHandler
	Leads     *LeadHandler
	Skills    *SkillHandler
	Files     *FileHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	// The widget endpoint is embedded on tenant sites; no auth, rate
	// limited per ip+tenant instead.
	widget := api.Group("/widget")
	widget.Use(middleware.RateLimit(time.Second))
	widget.POST("/:tenant/chat", deps.Chat.WidgetChat)

	api.GET("/files/:key", deps.Files.Get)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))

	authGroup.POST("/chat", deps.Chat.Chat)
	authGroup.GET("/conversations/:id/messages", deps.Chat.Messages)

	authGroup.POST("/knowledge", deps.Knowledge.Ingest)
	authGroup.POST("/knowledge/crawl", deps.Knowledge.Crawl)
	authGroup.GET("/knowledge/sources", deps.Knowledge.Sources)
	authGroup.POST("/knowledge/sources/:id/reindex", deps.Knowledge.Reindex)
	authGroup.DELETE("/knowledge/sources/:id", deps.Knowledge.Delete)
	authGroup.POST("/knowledge/upload", deps.Knowledge.Upload)

	authGroup.GET("/leads", deps.Leads.List)
	authGroup.GET("/skills", deps.Skills.List)
}
