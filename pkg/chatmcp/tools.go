package chatmcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

// Tool input types

type SendMessageInput struct {
	Text string `json:"text" jsonschema:"Message text to append to the chat log"`
}

type GetHistoryInput struct {
	Count int `json:"count,omitempty" jsonschema:"Return only the last N messages (0 returns the full log)"`
}

func (s *Server) handleSendMessage(ctx context.Context, _ *mcp.CallToolRequest, input SendMessageInput) (*mcp.CallToolResult, any, error) {
	if input.Text == "" {
		return nil, nil, NewInvalidInputError("text", "must not be empty")
	}

	echo, err := s.chat.Send(ctx, input.Text)
	if err != nil {
		return nil, nil, ClassifyError(err, s.chat.BaseURL())
	}

	result := map[string]any{
		"sent": true,
		"echo": echo,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Sent: %s", echo)},
		},
	}, result, nil
}

func (s *Server) handleGetHistory(ctx context.Context, _ *mcp.CallToolRequest, input GetHistoryInput) (*mcp.CallToolResult, any, error) {
	if input.Count < 0 {
		return nil, nil, NewInvalidInputError("count", "must be zero or positive")
	}

	messages, err := s.chat.FetchHistory(ctx)
	if err != nil {
		return nil, nil, ClassifyError(err, s.chat.BaseURL())
	}

	total := len(messages)
	messages = lastN(messages, input.Count)

	var sb strings.Builder
	if len(messages) == 0 {
		sb.WriteString("The chat log is empty.")
	}
	for i, msg := range messages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "Message %d: %s", msg.ID, msg.Text)
	}

	result := map[string]any{
		"messages": messages,
		"count":    len(messages),
		"total":    total,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: sb.String()},
		},
	}, result, nil
}

func (s *Server) handleGetHealth(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	health, err := s.chat.Health(ctx)
	if err != nil {
		return nil, nil, ClassifyError(err, s.chat.BaseURL())
	}

	result := map[string]any{
		"status":        health.Status,
		"serverVersion": health.Version,
		"uptime":        health.Uptime,
		"bridgeVersion": s.version,
		"url":           s.chat.BaseURL(),
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("termchat server %s at %s: %s (up %s)",
				health.Version, s.chat.BaseURL(), health.Status, health.Uptime)},
		},
	}, result, nil
}

// lastN returns the trailing n messages, or all of them when n is zero.
func lastN(messages []types.Message, n int) []types.Message {
	if n <= 0 || n >= len(messages) {
		return messages
	}
	return messages[len(messages)-n:]
}
