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

package hooks

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Entry is the part of a log entry the TUI shows
type Entry struct {
	Level   logrus.Level
	Message string
	Time    time.Time
}

// TUILogHook captures logrus entries and hands them to the TUI over a
// buffered channel. It never blocks the logging goroutine.
type TUILogHook struct {
	dropped uint64 // first for 64-bit atomic alignment
	logCh   chan<- Entry
	stopCh  <-chan struct{}
	levels  []logrus.Level
}

// NewTUILogHook creates a new TUI log hook
func NewTUILogHook(logCh chan<- Entry, stopCh <-chan struct{}) *TUILogHook {
	return &TUILogHook{
		logCh:  logCh,
		stopCh: stopCh,
		levels: logrus.AllLevels,
	}
}

// Levels returns the log levels this hook handles
func (h *TUILogHook) Levels() []logrus.Level {
	return h.levels
}

// Fire is called when a log entry is made
func (h *TUILogHook) Fire(entry *logrus.Entry) error {
	select {
	case <-h.stopCh:
		return nil
	default:
	}

	select {
	case h.logCh <- Entry{Level: entry.Level, Message: entry.Message, Time: entry.Time}:
	default:
		atomic.AddUint64(&h.dropped, 1)
	}
	return nil
}

// Dropped returns how many entries were discarded because the TUI was
// not keeping up
func (h *TUILogHook) Dropped() uint64 {
	return atomic.LoadUint64(&h.dropped)
}

// SetLevels sets which log levels this hook should capture
func (h *TUILogHook) SetLevels(levels []logrus.Level) {
	h.levels = levels
}
