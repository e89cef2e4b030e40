package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/txn2/termchat/pkg/chatapi/middleware"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockLog implements types.MessageLog in memory with injectable failures
type mockLog struct {
	mu       sync.Mutex
	messages []types.Message
	failWith error
}

func (m *mockLog) Append(_ context.Context, text string) (types.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return types.Message{}, m.failWith
	}
	msg := types.Message{ID: uint64(len(m.messages) + 1), Text: text}
	m.messages = append(m.messages, msg)
	return msg, nil
}

func (m *mockLog) All(_ context.Context) ([]types.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]types.Message(nil), m.messages...), nil
}

func (m *mockLog) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return len(m.messages), nil
}

func (m *mockLog) Driver() string { return "mock" }

func newMessagesRouter(l types.MessageLog, maxBytes int64) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewMessagesHandler(l, maxBytes)
	r.POST("/", h.Append)
	r.GET("/", h.Dump)
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAppendEchoesBody(t *testing.T) {
	l := &mockLog{}
	r := newMessagesRouter(l, 0)

	w := post(r, "héllo ✓")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != "héllo ✓" {
		t.Errorf("Expected echoed body, got %q", w.Body.String())
	}
	if len(l.messages) != 1 || l.messages[0].Text != "héllo ✓" {
		t.Errorf("Expected message stored, got %+v", l.messages)
	}
}

func TestAppendRejectsEmptyBody(t *testing.T) {
	l := &mockLog{}
	r := newMessagesRouter(l, 0)

	w := post(r, "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
	if len(l.messages) != 0 {
		t.Errorf("Expected nothing stored, got %+v", l.messages)
	}
}

func TestAppendRejectsInvalidUTF8(t *testing.T) {
	l := &mockLog{}
	r := newMessagesRouter(l, 0)

	w := post(r, string([]byte{0xff, 0xfe, 0xfd}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAppendRejectsOversizedBody(t *testing.T) {
	l := &mockLog{}
	r := newMessagesRouter(l, 8)

	w := post(r, "this is longer than eight bytes")

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status %d, got %d", http.StatusRequestEntityTooLarge, w.Code)
	}
	if len(l.messages) != 0 {
		t.Errorf("Expected nothing stored, got %+v", l.messages)
	}
}

func TestAppendStorageFailure(t *testing.T) {
	l := &mockLog{failWith: errors.New("disk full")}
	r := newMessagesRouter(l, 0)

	w := post(r, "hello")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(w.Body.String(), "disk full") {
		t.Errorf("Expected storage error in body, got %s", w.Body.String())
	}
}

func TestDumpEmptyLog(t *testing.T) {
	r := newMessagesRouter(&mockLog{}, 0)

	w := get(r, "/")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty JSON array, got %q", w.Body.String())
	}
}

func TestDumpWireFormat(t *testing.T) {
	l := &mockLog{}
	r := newMessagesRouter(l, 0)
	post(r, "hello")
	post(r, "world")

	w := get(r, "/")

	var raw []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(raw))
	}
	if raw[0]["message"] != "hello" || raw[1]["message"] != "world" {
		t.Errorf("Unexpected entries: %v", raw)
	}
	if raw[0]["id"].(float64) >= raw[1]["id"].(float64) {
		t.Errorf("Expected increasing ids: %v", raw)
	}
}

func TestDumpStorageFailure(t *testing.T) {
	r := newMessagesRouter(&mockLog{failWith: errors.New("locked")}, 0)

	w := get(r, "/")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestHealth(t *testing.T) {
	h := NewHealthHandler("1.2.3", time.Now().Add(-time.Minute), &mockLog{}, DefaultMaxMessageBytes)
	r := gin.New()
	r.GET("/api/health", h.Health)

	w := get(r, "/api/health")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp types.HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "healthy" || resp.Version != "1.2.3" {
		t.Errorf("Unexpected health response: %+v", resp)
	}
}

func TestInfo(t *testing.T) {
	l := &mockLog{}
	_, _ = l.Append(context.Background(), "one")
	h := NewHealthHandler("1.2.3", time.Now(), l, 1024)
	r := gin.New()
	r.GET("/api/info", h.Info)

	w := get(r, "/api/info")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp struct {
		Success bool               `json:"success"`
		Data    types.InfoResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success")
	}
	if resp.Data.Storage != "mock" || resp.Data.MessageCount != 1 || resp.Data.MaxMessageLen != 1024 {
		t.Errorf("Unexpected info: %+v", resp.Data)
	}
}
