package chatapi

import (
	"github.com/gin-gonic/gin"
	"github.com/txn2/termchat/pkg/chatapi/handlers"
	"github.com/txn2/termchat/pkg/chatapi/middleware"
)

// setupRouter creates and configures the Gin router
// URL structure:
//   - /            - POST appends a message, GET dumps the log
//   - /api/health  - liveness
//   - /api/info    - runtime and storage details
func (m *Manager) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.NoCache())
	r.Use(middleware.ErrorHandler())

	msgHandler := handlers.NewMessagesHandler(m.log, m.cfg.MaxMessageBytes)
	r.POST("/", msgHandler.Append)
	r.GET("/", msgHandler.Dump)

	api := r.Group("/api")
	{
		healthHandler := handlers.NewHealthHandler(m.cfg.Version, m.startTime, m.log, m.cfg.MaxMessageBytes)
		api.GET("/health", healthHandler.Health)
		api.GET("/info", healthHandler.Info)
	}

	return r
}
