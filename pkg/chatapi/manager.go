// Package chatapi hosts the chat log over HTTP: POST / appends a
// message, GET / dumps the whole log.
package chatapi

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatapi/handlers"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

const (
	// DefaultAddr is where the server listens unless configured otherwise
	DefaultAddr = "0.0.0.0:32123"

	shutdownTimeout = 5 * time.Second
)

// Config holds the server settings
type Config struct {
	Addr            string
	MaxMessageBytes int64
	Version         string
}

// Manager manages the chat server lifecycle
type Manager struct {
	server    *http.Server
	router    *gin.Engine
	stopChan  chan struct{}
	doneChan  chan struct{}
	readyChan chan struct{}
	stopOnce  sync.Once
	startTime time.Time

	mu   sync.RWMutex
	addr string

	log types.MessageLog
	cfg Config
}

// NewManager creates a server over messageLog. Empty config fields take
// their defaults.
func NewManager(messageLog types.MessageLog, cfg Config) *Manager {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = handlers.DefaultMaxMessageBytes
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	gin.SetMode(gin.ReleaseMode)

	m := &Manager{
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
		readyChan: make(chan struct{}),
		startTime: time.Now(),
		log:       messageLog,
		cfg:       cfg,
	}
	m.router = m.setupRouter()
	return m
}

// Handler exposes the router, mainly for httptest
func (m *Manager) Handler() http.Handler {
	return m.router
}

// Run listens on the configured address and serves until Stop is called
// or the listener fails.
func (m *Manager) Run() error {
	defer close(m.doneChan)

	if m.log == nil {
		return errors.New("message log not configured")
	}

	ln, err := net.Listen("tcp", m.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", m.cfg.Addr)
	}

	m.mu.Lock()
	m.addr = ln.Addr().String()
	m.mu.Unlock()

	m.server = &http.Server{
		Handler:           m.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Infof("Chat server listening on http://%s (storage: %s)", m.Addr(), m.log.Driver())
	close(m.readyChan)

	errCh := make(chan error, 1)
	go func() {
		if err := m.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-m.stopChan:
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := m.server.Shutdown(ctx); err != nil {
			log.Errorf("Chat server shutdown error: %v", err)
		}
		log.Info("Chat server stopped")
	case err := <-errCh:
		return errors.Wrap(err, "serve")
	}

	return nil
}

// Stop signals Run to drain in-flight requests and return
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
}

// Done is closed once Run has returned
func (m *Manager) Done() <-chan struct{} {
	return m.doneChan
}

// Ready is closed once the listener is bound
func (m *Manager) Ready() <-chan struct{} {
	return m.readyChan
}

// Addr is the bound listen address, or the configured one before Run.
func (m *Manager) Addr() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.addr != "" {
		return m.addr
	}
	return m.cfg.Addr
}
