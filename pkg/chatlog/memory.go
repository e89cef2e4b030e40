package chatlog

import (
	"context"
	"sync"

	"github.com/txn2/termchat/pkg/chatapi/types"
)

// MemoryStore keeps the log in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []types.Message
	nextID   uint64
}

// NewMemoryStore creates an empty in-memory log
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Append(_ context.Context, text string) (types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := types.Message{ID: s.nextID, Text: text}
	s.nextID++
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *MemoryStore) All(_ context.Context) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]types.Message, len(s.messages))
	copy(result, s.messages)
	return result, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages), nil
}

func (s *MemoryStore) Driver() string { return "memory" }

func (s *MemoryStore) Close() error { return nil }
