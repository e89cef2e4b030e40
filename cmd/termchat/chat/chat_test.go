package chat

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/txn2/termchat/pkg/chatapi"
	"github.com/txn2/termchat/pkg/chatcfg"
	"github.com/txn2/termchat/pkg/chatclient"
	"github.com/txn2/termchat/pkg/chatlog"
)

func newTestClient(t *testing.T) *chatclient.Client {
	t.Helper()
	api := chatapi.NewManager(chatlog.NewMemoryStore(), chatapi.Config{Version: "test"})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	client, err := chatclient.New(srv.URL, chatclient.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("chatclient.New: %v", err)
	}
	return client
}

func TestRunOnceSendThenGet(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var out bytes.Buffer
	if err := runOnce(ctx, client, &out, "hello", false); err != nil {
		t.Fatalf("runOnce send: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("Expected echo line, got %q", out.String())
	}

	out.Reset()
	if err := runOnce(ctx, client, &out, "world", true); err != nil {
		t.Fatalf("runOnce send+get: %v", err)
	}
	want := "world\nMessage 1: hello\nMessage 2: world\n"
	if out.String() != want {
		t.Errorf("Expected %q, got %q", want, out.String())
	}
}

func TestRunOnceGetEmpty(t *testing.T) {
	client := newTestClient(t)

	var out bytes.Buffer
	if err := runOnce(context.Background(), client, &out, "", true); err != nil {
		t.Fatalf("runOnce: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected no output for an empty log, got %q", out.String())
	}
}

func TestRunOnceUnreachable(t *testing.T) {
	client, err := chatclient.New("http://127.0.0.1:1", chatclient.WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("chatclient.New: %v", err)
	}

	err = runOnce(context.Background(), client, &bytes.Buffer{}, "", true)
	if err == nil {
		t.Fatal("Expected error for unreachable server")
	}
	if !strings.Contains(err.Error(), "fetch history") {
		t.Errorf("Expected wrapped fetch error, got %v", err)
	}
	if _, ok := chatclient.IsTransportError(err); !ok {
		t.Errorf("Expected TransportError in chain, got %T", err)
	}
}

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	cmd := &cobra.Command{Use: "chat"}
	cmd.Flags().StringVarP(&serverURL, "url", "u", chatclient.DefaultURL, "")
	cmd.Flags().DurationVar(&refreshInterval, "refresh-interval", time.Second, "")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", 16*time.Millisecond, "")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 5*time.Second, "")
	cmd.Flags().StringVar(&logFile, "log-file", "", "")

	if err := cmd.ParseFlags([]string{"--url", "http://flag:1", "--refresh-interval", "250ms"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg := chatcfg.Default()
	cfg.Client.Timeout = 9 * time.Second
	applyFlags(cmd, cfg)

	if cfg.Client.URL != "http://flag:1" {
		t.Errorf("URL = %s", cfg.Client.URL)
	}
	if cfg.Client.RefreshInterval != 250*time.Millisecond {
		t.Errorf("RefreshInterval = %s", cfg.Client.RefreshInterval)
	}
	if cfg.Client.Timeout != 9*time.Second {
		t.Errorf("Timeout from config was overridden: %s", cfg.Client.Timeout)
	}
}

func TestCmdOneShot(t *testing.T) {
	client := newTestClient(t)
	t.Setenv(chatcfg.EnvConfigPath, filepath.Join(t.TempDir(), "absent.yaml"))

	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs([]string{"--url", client.BaseURL(), "--message", "hi", "--get"})
	t.Cleanup(func() {
		Cmd.SetOut(nil)
		Cmd.SetArgs(nil)
		message, getHistory, serverURL = "", false, chatclient.DefaultURL
	})

	if err := Cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.String() != "hi\nMessage 1: hi\n" {
		t.Errorf("Unexpected output %q", out.String())
	}
}
