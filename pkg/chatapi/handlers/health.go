package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

// HealthHandler handles health and info endpoints
type HealthHandler struct {
	version   string
	startTime time.Time
	log       types.MessageLog
	maxBytes  int64
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, startTime time.Time, messageLog types.MessageLog, maxBytes int64) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: startTime,
		log:       messageLog,
		maxBytes:  maxBytes,
	}
}

// Health returns health status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now(),
	})
}

// Info returns runtime and storage details
func (h *HealthHandler) Info(c *gin.Context) {
	response := types.InfoResponse{
		Version:       h.version,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		StartTime:     h.startTime,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		MaxMessageLen: h.maxBytes,
	}

	if h.log != nil {
		response.Storage = h.log.Driver()
		count, err := h.log.Count(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			c.Status(http.StatusInternalServerError)
			return
		}
		response.MessageCount = count
	}

	c.JSON(http.StatusOK, types.Response{
		Success: true,
		Data:    response,
		Meta: &types.MetaInfo{
			Count:     response.MessageCount,
			Timestamp: time.Now(),
		},
	})
}
