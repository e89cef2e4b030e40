package types

import "time"

// Message is one entry of the chat log as it travels on the wire.
// IDs are assigned by the server, strictly increasing and unique per log.
type Message struct {
	ID   uint64 `json:"id"`
	Text string `json:"message"`
}

// Response is the standard API response wrapper
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo provides error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo provides response metadata
type MetaInfo struct {
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse provides health status
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy", "unhealthy"
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// InfoResponse provides detailed runtime information
type InfoResponse struct {
	Version       string    `json:"version"`
	GoVersion     string    `json:"goVersion"`
	Platform      string    `json:"platform"`
	StartTime     time.Time `json:"startTime"`
	Uptime        string    `json:"uptime"`
	Storage       string    `json:"storage"`
	MessageCount  int       `json:"messageCount"`
	MaxMessageLen int64     `json:"maxMessageBytes"`
}
