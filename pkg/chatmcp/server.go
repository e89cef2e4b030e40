// Package chatmcp exposes a running chat server to MCP clients over stdio.
// It is a thin bridge: every tool is answered through the same HTTP client
// the terminal uses.
package chatmcp

import (
	"context"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

// ChatAPI is the subset of chatclient.Client the tools need.
type ChatAPI interface {
	BaseURL() string
	Send(ctx context.Context, text string) (string, error)
	FetchHistory(ctx context.Context) ([]types.Message, error)
	Health(ctx context.Context) (*types.HealthResponse, error)
}

// Server manages the MCP server lifecycle
type Server struct {
	mcpServer *mcp.Server
	version   string
	chat      ChatAPI

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewServer creates an MCP server with all chat tools registered.
func NewServer(chat ChatAPI, version string) *Server {
	s := &Server{
		version: version,
		chat:    chat,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	s.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    "termchat",
		Version: version,
	}, nil)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_message",
		Description: "Append a message to the shared chat log. Returns the text as stored by the server.",
	}, s.handleSendMessage)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_history",
		Description: "Read the chat log in server order. Use count to return only the most recent messages.",
	}, s.handleGetHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_health",
		Description: "Check that the chat server is reachable and report its version and uptime.",
	}, s.handleGetHealth)
}

// MCPServer returns the underlying go-sdk server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Run serves MCP on stdio until the client disconnects, ctx is cancelled,
// or Stop is called.
func (s *Server) Run(ctx context.Context) error {
	return s.RunTransport(ctx, &mcp.StdioTransport{})
}

// RunTransport serves MCP on the given transport.
func (s *Server) RunTransport(ctx context.Context, transport mcp.Transport) error {
	defer close(s.doneCh)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	return s.mcpServer.Run(runCtx, transport)
}

// Stop signals the server to stop. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// Done returns a channel that closes when the server stops
func (s *Server) Done() <-chan struct{} {
	return s.doneCh
}
