// Package mcp provides the MCP (Model Context Protocol) subcommand. It
// starts a stdio MCP server that talks to a running termchat server over
// HTTP, so AI assistants can read and post to the chat log.
package mcp

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/txn2/termchat/cmd/termchat/internal/cliutil"
	"github.com/txn2/termchat/pkg/chatclient"
	"github.com/txn2/termchat/pkg/chatmcp"
)

var (
	serverURL  string
	timeout    time.Duration
	configPath string
	verbose    bool
)

// Version is set by the main package
var Version string

func init() {
	Cmd.Flags().StringVarP(&serverURL, "url", "u", chatclient.DefaultURL, "URL of the chat server")
	Cmd.Flags().DurationVarP(&timeout, "timeout", "t", chatclient.DefaultTimeout, "Timeout for each request to the server")
	Cmd.Flags().StringVar(&configPath, "config", "", "Config file (default $TERMCHAT_CONFIG or ~/.termchat.yaml)")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

// Cmd is the MCP subcommand
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (connects to a termchat server)",
	Long: `Start an MCP (Model Context Protocol) server on stdio that forwards tool
calls to a running termchat server.

Tools:
  send_message   append a message to the chat log
  get_history    read the chat log (optionally only the last N messages)
  get_health     check the chat server

Configure your MCP client to spawn it:
  {
    "mcpServers": {
      "termchat": {
        "command": "termchat",
        "args": ["mcp", "--url", "http://127.0.0.1:32123"]
      }
    }
  }`,
	Example: `  # Start MCP server against the default local chat server
  termchat mcp

  # Connect to another server
  termchat mcp --url http://chat.example.com:32123

  # With verbose logging (logs go to stderr, not interfering with stdio MCP)
  termchat mcp --verbose`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	// stdout carries the MCP stdio transport
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	cfg, err := cliutil.LoadConfig(configPath)
	if err != nil {
		return err
	}
	url := cfg.Client.URL
	if cmd.Flags().Changed("url") {
		url = serverURL
	}
	reqTimeout := cfg.Client.Timeout
	if cmd.Flags().Changed("timeout") {
		reqTimeout = timeout
	}

	client, err := chatclient.New(url, chatclient.WithTimeout(reqTimeout))
	if err != nil {
		return err
	}

	log.Infof("Starting termchat MCP server (version %s)", Version)
	log.Infof("Connecting to chat server at: %s", client.BaseURL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tools stay registered while the server is down; calls report
	// server_unavailable until it is up.
	if _, err := client.Health(ctx); err != nil {
		log.Warnf("Cannot reach chat server at %s: %v", client.BaseURL(), err)
		log.Warn("MCP server will start but tools require 'termchat serve' to be running.")
	} else {
		log.Info("Chat server connection verified")
	}

	server := chatmcp.NewServer(client, Version)
	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		log.Errorf("MCP server error: %v", err)
		return err
	}

	log.Info("MCP server stopped")
	return nil
}
