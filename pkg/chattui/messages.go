package chattui

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

// TickMsg drives the refresh timer at the poll interval
type TickMsg time.Time

// HistoryMsg carries the result of one numbered history fetch
type HistoryMsg struct {
	Seq      uint64
	Messages []types.Message
	Err      error
}

// SentMsg carries the result of posting one message
type SentMsg struct {
	Text string
	Echo string
	Err  error
}

// LogEntryMsg represents a log message to display
type LogEntryMsg struct {
	Level   logrus.Level
	Message string
	Time    time.Time

	// fromHook is set for entries read off the hook channel
	fromHook bool
}

// ShutdownMsg signals the TUI to shut down
type ShutdownMsg struct{}
