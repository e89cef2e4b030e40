package chatmcp

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/txn2/termchat/pkg/chatclient"
)

// MCPError is the structured error body returned to MCP clients so an
// agent can decide whether to retry.
type MCPError struct {
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	Diagnosis        string            `json:"diagnosis,omitempty"`
	SuggestedActions []SuggestedAction `json:"suggested_actions,omitempty"`
	RetryRecommended bool              `json:"retry_recommended"`
}

// SuggestedAction names a tool call that may resolve an error.
type SuggestedAction struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
	Hint   string         `json:"hint,omitempty"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error codes
const (
	ErrCodeServerUnavailable = "server_unavailable"
	ErrCodeTimeout           = "timeout"
	ErrCodeInvalidInput      = "invalid_input"
	ErrCodeMessageTooLarge   = "message_too_large"
	ErrCodeServerError       = "server_error"
	ErrCodeMalformedResponse = "malformed_response"
	ErrCodeInternal          = "internal_error"
)

// NewServerUnavailableError reports that the chat server could not be reached.
func NewServerUnavailableError(url string, cause error) *MCPError {
	return &MCPError{
		Code:      ErrCodeServerUnavailable,
		Message:   fmt.Sprintf("Cannot reach chat server at %s: %v", url, cause),
		Diagnosis: "The chat server is not running or is listening on a different address",
		SuggestedActions: []SuggestedAction{
			{Action: "get_health", Hint: "Check the server once it has been started with 'termchat serve'"},
		},
		RetryRecommended: true,
	}
}

// NewTimeoutError reports a request that exceeded the client timeout.
func NewTimeoutError(op string) *MCPError {
	return &MCPError{
		Code:             ErrCodeTimeout,
		Message:          fmt.Sprintf("%s timed out", op),
		Diagnosis:        "The chat server accepted the connection but did not answer in time",
		RetryRecommended: true,
	}
}

// NewInvalidInputError reports a rejected tool argument.
func NewInvalidInputError(field, requirement string) *MCPError {
	return &MCPError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("Invalid %s: %s", field, requirement),
	}
}

// ClassifyError maps a client error onto an MCPError. Errors that are not
// transport errors become internal errors.
func ClassifyError(err error, baseURL string) *MCPError {
	if err == nil {
		return nil
	}

	te, ok := chatclient.IsTransportError(err)
	if !ok {
		return &MCPError{Code: ErrCodeInternal, Message: err.Error()}
	}

	switch {
	case te.Timeout():
		return NewTimeoutError(te.Op)
	case te.StatusCode == http.StatusRequestEntityTooLarge:
		return &MCPError{
			Code:      ErrCodeMessageTooLarge,
			Message:   "Message exceeds the server's size limit",
			Diagnosis: "Split the text into smaller messages",
		}
	case te.StatusCode == http.StatusBadRequest:
		return &MCPError{
			Code:      ErrCodeInvalidInput,
			Message:   "Server rejected the message",
			Diagnosis: strings.TrimSpace(te.Body),
		}
	case te.StatusCode >= 500:
		return &MCPError{
			Code:             ErrCodeServerError,
			Message:          fmt.Sprintf("Chat server returned %d", te.StatusCode),
			Diagnosis:        strings.TrimSpace(te.Body),
			RetryRecommended: true,
		}
	case te.StatusCode != 0:
		return &MCPError{
			Code:    ErrCodeServerError,
			Message: fmt.Sprintf("Chat server returned %d", te.StatusCode),
		}
	case strings.Contains(strings.ToLower(te.Error()), "decode"):
		return &MCPError{
			Code:      ErrCodeMalformedResponse,
			Message:   "Chat server returned a body that is not a message list",
			Diagnosis: "The URL may point at a different service",
		}
	default:
		return NewServerUnavailableError(baseURL, te.Err)
	}
}
