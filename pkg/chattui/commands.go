package chattui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chattui/hooks"
)

// Tick schedules the next timer check
func Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// FetchHistory creates a command that fetches the log as fetch number seq
func FetchHistory(ctx context.Context, t Transport, seq uint64) tea.Cmd {
	return func() tea.Msg {
		messages, err := t.FetchHistory(ctx)
		return HistoryMsg{Seq: seq, Messages: messages, Err: err}
	}
}

// SendMessage creates a command that posts text
func SendMessage(ctx context.Context, t Transport, text string) tea.Cmd {
	return func() tea.Msg {
		echo, err := t.Send(ctx, text)
		return SentMsg{Text: text, Echo: echo, Err: err}
	}
}

// ListenLogs creates a command that listens for log entries
func ListenLogs(logCh <-chan hooks.Entry) tea.Cmd {
	if logCh == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-logCh
		if !ok {
			return nil
		}
		return LogEntryMsg{
			Level:    entry.Level,
			Message:  entry.Message,
			Time:     entry.Time,
			fromHook: true,
		}
	}
}

// ListenShutdown creates a command that listens for shutdown signal
func ListenShutdown(stopCh <-chan struct{}) tea.Cmd {
	if stopCh == nil {
		return nil
	}
	return func() tea.Msg {
		<-stopCh
		return ShutdownMsg{}
	}
}

// SendLog creates a log entry message
func SendLog(level logrus.Level, message string) tea.Cmd {
	return func() tea.Msg {
		return LogEntryMsg{
			Level:   level,
			Message: message,
			Time:    time.Now(),
		}
	}
}
