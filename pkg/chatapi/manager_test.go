package chatapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/txn2/termchat/pkg/chatapi/middleware"
	"github.com/txn2/termchat/pkg/chatapi/types"
	"github.com/txn2/termchat/pkg/chatlog"
)

func TestNewManagerDefaults(t *testing.T) {
	m := NewManager(chatlog.NewMemoryStore(), Config{})

	if m.cfg.Addr != DefaultAddr {
		t.Errorf("Expected addr %s, got %s", DefaultAddr, m.cfg.Addr)
	}
	if m.cfg.MaxMessageBytes != 64*1024 {
		t.Errorf("Expected 64KiB limit, got %d", m.cfg.MaxMessageBytes)
	}
	if m.Addr() != DefaultAddr {
		t.Errorf("Expected Addr() to report configured address before Run, got %s", m.Addr())
	}
}

func TestRouterRoundTrip(t *testing.T) {
	m := NewManager(chatlog.NewMemoryStore(), Config{Version: "test"})
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	for _, text := range []string{"hello", "world"} {
		resp, err := http.Post(srv.URL+"/", "text/plain; charset=utf-8", strings.NewReader(text))
		if err != nil {
			t.Fatalf("POST %q: %v", text, err)
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK || string(body) != text {
			t.Fatalf("POST %q: status %d body %q", text, resp.StatusCode, body)
		}
		if resp.Header.Get(middleware.RequestIDHeader) == "" {
			t.Error("Expected request id on response")
		}
	}

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var got []types.Message
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Text != "hello" || got[1].Text != "world" {
		t.Fatalf("Unexpected log: %+v", got)
	}
	if got[0].ID >= got[1].ID {
		t.Errorf("Expected increasing ids, got %d then %d", got[0].ID, got[1].ID)
	}
}

func TestRouterHealth(t *testing.T) {
	m := NewManager(chatlog.NewMemoryStore(), Config{Version: "9.9.9"})
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var health types.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Version != "9.9.9" {
		t.Errorf("Expected version 9.9.9, got %s", health.Version)
	}
}

func TestRunAndStop(t *testing.T) {
	m := NewManager(chatlog.NewMemoryStore(), Config{Addr: "127.0.0.1:0"})

	errCh := make(chan error, 1)
	go func() { errCh <- m.Run() }()

	select {
	case <-m.Ready():
	case err := <-errCh:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for listener")
	}

	resp, err := http.Get("http://" + m.Addr() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}

	m.Stop()
	m.Stop()

	select {
	case <-m.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for shutdown")
	}
	if err := <-errCh; err != nil {
		t.Errorf("Run returned error: %v", err)
	}
}

func TestRunWithoutLog(t *testing.T) {
	m := NewManager(nil, Config{Addr: "127.0.0.1:0"})
	if err := m.Run(); err == nil {
		t.Error("Expected error when no message log is configured")
	}
	select {
	case <-m.Done():
	default:
		t.Error("Expected Done to be closed after Run returns")
	}
}

func TestRunListenError(t *testing.T) {
	m := NewManager(chatlog.NewMemoryStore(), Config{Addr: "256.0.0.1:1"})
	if err := m.Run(); err == nil {
		t.Error("Expected listen error for invalid address")
	}
}
