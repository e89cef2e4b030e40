/*
Copyright 2018-2024 Craig Johnston <cjimti@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package state holds the client's cached copy of the server log.
package state

import (
	"context"
	"time"

	"github.com/txn2/termchat/pkg/chatapi/types"
)

// Fetcher returns the full server log
type Fetcher interface {
	FetchHistory(ctx context.Context) ([]types.Message, error)
}

// History is the client-side snapshot of the log used for rendering.
// It is owned by the event loop and is not safe for concurrent use.
//
// Fetches are numbered by Begin. A result is applied only if its number is
// newer than the last applied one, so a slow response can never replace a
// fresher snapshot.
type History struct {
	messages      []types.Message
	lastRefreshed time.Time
	lastAttempt   time.Time

	nextSeq    uint64
	appliedSeq uint64
	timerSeq   uint64 // outstanding timer-driven fetch, 0 if none
}

// NewHistory creates an empty history that is immediately due
func NewHistory() *History {
	return &History{messages: []types.Message{}}
}

// Messages returns the current snapshot in server order
func (h *History) Messages() []types.Message {
	return h.messages
}

// Len returns the number of cached messages
func (h *History) Len() int {
	return len(h.messages)
}

// LastRefreshed is the time of the last applied fetch
func (h *History) LastRefreshed() time.Time {
	return h.lastRefreshed
}

// InFlight reports whether a timer-driven fetch is outstanding
func (h *History) InFlight() bool {
	return h.timerSeq != 0
}

// Due reports whether a timer-driven refresh should start now: more than
// interval has passed since the last refresh or failed attempt, and no
// timer-driven fetch is outstanding.
func (h *History) Due(now time.Time, interval time.Duration) bool {
	if h.InFlight() {
		return false
	}
	since := h.lastRefreshed
	if h.lastAttempt.After(since) {
		since = h.lastAttempt
	}
	return now.Sub(since) > interval
}

// Begin numbers a new fetch. Forced fetches (after a send) do not count
// against the single outstanding timer-driven fetch.
func (h *History) Begin(now time.Time, forced bool) uint64 {
	h.nextSeq++
	h.lastAttempt = now
	if !forced {
		h.timerSeq = h.nextSeq
	}
	return h.nextSeq
}

// Apply replaces the snapshot with messages if seq is newer than the last
// applied fetch. It reports whether the snapshot changed hands.
func (h *History) Apply(seq uint64, messages []types.Message, now time.Time) bool {
	h.settle(seq)
	if seq <= h.appliedSeq {
		return false
	}
	if messages == nil {
		messages = []types.Message{}
	}
	h.messages = messages
	h.appliedSeq = seq
	h.lastRefreshed = now
	return true
}

// Fail records that fetch seq did not complete. The snapshot and
// LastRefreshed are left untouched.
func (h *History) Fail(seq uint64) {
	h.settle(seq)
}

// Refresh fetches and applies in one call, for callers without an event
// loop. On error the snapshot is unchanged.
func (h *History) Refresh(ctx context.Context, f Fetcher) error {
	seq := h.Begin(time.Now(), true)
	messages, err := f.FetchHistory(ctx)
	if err != nil {
		h.Fail(seq)
		return err
	}
	h.Apply(seq, messages, time.Now())
	return nil
}

func (h *History) settle(seq uint64) {
	if seq == h.timerSeq {
		h.timerSeq = 0
	}
}
