// Package chattui is the interactive client: a scrollback of the shared
// log above a one-line input field, refreshed by polling the server.
package chattui

import (
	"context"
	"io"
	"os"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatapi/types"
	"github.com/txn2/termchat/pkg/chattui/editor"
	"github.com/txn2/termchat/pkg/chattui/hooks"
	"github.com/txn2/termchat/pkg/chattui/state"
	"github.com/txn2/termchat/pkg/chattui/view"
)

const (
	// DefaultRefreshInterval is how stale the history may get before a
	// timer-driven refresh is issued
	DefaultRefreshInterval = time.Second

	// DefaultPollInterval is the tick period at which the timer is checked
	DefaultPollInterval = 16 * time.Millisecond

	// noticeTTL is how long a notice stays on the input bar
	noticeTTL = 10 * time.Second
)

// noticeLevels are forwarded from logrus to the input bar
var noticeLevels = []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}

// Transport is what the event loop needs from the server connection
type Transport interface {
	Send(ctx context.Context, text string) (string, error)
	FetchHistory(ctx context.Context) ([]types.Message, error)
}

// Config holds the event loop settings
type Config struct {
	RefreshInterval time.Duration
	PollInterval    time.Duration

	// Greeting is shown as a hint on the input bar when the session starts
	Greeting string

	// LogOutput receives logrus output while the terminal is taken over.
	// Nil discards it.
	LogOutput io.Writer

	// Input and Output default to the process terminal
	Input  io.Reader
	Output io.Writer
}

// Manager manages the TUI lifecycle
type Manager struct {
	program     *tea.Program
	model       *RootModel
	cfg         Config
	logCh       chan hooks.Entry
	stopChan    chan struct{}
	doneChan    chan struct{}
	originalOut io.Writer
}

// RootModel is the main bubbletea model. It owns the editor and the
// history; both are only touched from Update.
type RootModel struct {
	editor    *editor.Editor
	history   *state.History
	transport Transport
	keys      KeyMap

	refreshInterval time.Duration
	pollInterval    time.Duration
	greeting        string

	width    int
	height   int
	notice   view.Notice
	noticeAt time.Time
	quitting bool

	// ctx is cancelled on quit so in-flight requests are abandoned
	ctx    context.Context
	cancel context.CancelFunc

	logCh  <-chan hooks.Entry
	stopCh <-chan struct{}
}

// NewRootModel creates the event loop model over a transport
func NewRootModel(t Transport, cfg Config) *RootModel {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RootModel{
		editor:          editor.New(),
		history:         state.NewHistory(),
		transport:       t,
		keys:            DefaultKeyMap(),
		refreshInterval: cfg.RefreshInterval,
		pollInterval:    cfg.PollInterval,
		greeting:        cfg.Greeting,
		ctx:             ctx,
		cancel:          cancel,
	}
}

// NewManager creates a TUI manager for one interactive session
func NewManager(t Transport, cfg Config) *Manager {
	m := &Manager{
		cfg:      cfg,
		logCh:    make(chan hooks.Entry, 100),
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	m.model = NewRootModel(t, cfg)
	m.model.logCh = m.logCh
	m.model.stopCh = m.stopChan
	return m
}

// Run takes over the terminal and blocks until the user quits or Stop is
// called. Log output and the terminal are restored on every path out.
func (m *Manager) Run() error {
	defer close(m.doneChan)

	// Ensure TERM is set
	if os.Getenv("TERM") == "" {
		_ = os.Setenv("TERM", "xterm-256color")
	}

	logger := log.StandardLogger()
	m.originalOut = logger.Out
	out := m.cfg.LogOutput
	if out == nil {
		out = io.Discard
	}
	logger.SetOutput(out)
	savedHooks := make(log.LevelHooks, len(logger.Hooks))
	for level, hs := range logger.Hooks {
		savedHooks[level] = append([]log.Hook(nil), hs...)
	}
	hook := hooks.NewTUILogHook(m.logCh, m.stopChan)
	hook.SetLevels(noticeLevels)
	logger.AddHook(hook)
	defer func() {
		logger.ReplaceHooks(savedHooks)
		logger.SetOutput(m.originalOut)
		if n := hook.Dropped(); n > 0 {
			log.Debugf("TUI dropped %d log entries", n)
		}
	}()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if m.cfg.Input != nil {
		opts = append(opts, tea.WithInput(m.cfg.Input))
	}
	if m.cfg.Output != nil {
		opts = append(opts, tea.WithOutput(m.cfg.Output))
	}
	m.program = tea.NewProgram(m.model, opts...)

	_, err := m.program.Run()
	m.model.cancel()
	if err != nil {
		return &TerminalError{Err: err}
	}
	return nil
}

// Stop asks a running session to quit
func (m *Manager) Stop() {
	select {
	case <-m.stopChan:
		return
	default:
		close(m.stopChan)
	}
}

// Done returns a channel that closes when the session has ended
func (m *Manager) Done() <-chan struct{} {
	return m.doneChan
}

// Init starts the timer and the first history fetch
func (m *RootModel) Init() tea.Cmd {
	var greet tea.Cmd
	if m.greeting != "" {
		greet = SendLog(log.InfoLevel, m.greeting)
	}
	return tea.Batch(
		greet,
		m.refresh(time.Now(), false),
		Tick(m.pollInterval),
		ListenLogs(m.logCh),
		ListenShutdown(m.stopCh),
	)
}

// Update handles messages
func (m *RootModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	// Panic recovery to prevent TUI crash from leaving terminal in broken state
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("TUI Update panic recovered: %v", r)
			model = m
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case TickMsg:
		return m, m.handleTick(time.Time(msg))
	case HistoryMsg:
		m.handleHistoryMsg(msg)
	case SentMsg:
		return m, m.handleSentMsg(msg)
	case LogEntryMsg:
		m.handleLogEntryMsg(msg)
		if msg.fromHook {
			return m, ListenLogs(m.logCh)
		}
	case ShutdownMsg:
		return m.quit()
	}

	return m, nil
}

// View renders the UI
func (m *RootModel) View() string {
	if m.quitting {
		return ""
	}
	frame := view.Render(m.width, m.height, m.history.Messages(), m.editor.Content(), m.editor.Cursor())
	return frame.String(m.notice)
}

func (m *RootModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

// handleTick checks the refresh timer and re-arms the tick
func (m *RootModel) handleTick(now time.Time) tea.Cmd {
	if m.notice.Text != "" && now.Sub(m.noticeAt) > noticeTTL {
		m.notice = view.Notice{}
	}
	if m.quitting {
		return nil
	}
	var fetch tea.Cmd
	if m.history.Due(now, m.refreshInterval) {
		fetch = m.refresh(now, false)
	}
	return tea.Batch(fetch, Tick(m.pollInterval))
}

// refresh numbers a fetch and returns the command performing it
func (m *RootModel) refresh(now time.Time, forced bool) tea.Cmd {
	seq := m.history.Begin(now, forced)
	return FetchHistory(m.ctx, m.transport, seq)
}

func (m *RootModel) handleHistoryMsg(msg HistoryMsg) {
	if msg.Err != nil {
		m.history.Fail(msg.Seq)
		if m.ctx.Err() == nil {
			log.Warnf("History refresh failed: %v", msg.Err)
		}
		return
	}
	if !m.history.Apply(msg.Seq, msg.Messages, time.Now()) {
		log.Debugf("Discarded stale history fetch %d", msg.Seq)
	}
}

func (m *RootModel) handleSentMsg(msg SentMsg) tea.Cmd {
	if msg.Err != nil {
		if m.ctx.Err() == nil {
			log.Errorf("Send failed, message lost: %q: %v", msg.Text, msg.Err)
		}
		return nil
	}
	log.Debugf("Sent %d bytes", len(msg.Echo))
	return m.refresh(time.Now(), true)
}

func (m *RootModel) handleLogEntryMsg(msg LogEntryMsg) {
	if msg.Level > log.InfoLevel {
		return
	}
	m.notice = view.Notice{
		Text:  msg.Message,
		Error: msg.Level <= log.ErrorLevel,
		Hint:  msg.Level == log.InfoLevel,
	}
	m.noticeAt = msg.Time
	if m.noticeAt.IsZero() {
		m.noticeAt = time.Now()
	}
}

// handleKeyMsg handles keyboard input
func (m *RootModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Send):
		return m, m.send()
	case key.Matches(msg, m.keys.Backspace):
		m.editor.RemoveBeforeCursor()
	case key.Matches(msg, m.keys.Left):
		m.editor.MoveCursorLeft()
	case key.Matches(msg, m.keys.Right):
		m.editor.MoveCursorRight()
	case (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt:
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				continue
			}
			m.editor.InsertAtCursor(r)
		}
	}
	return m, nil
}

// send spends the editor content and posts it
func (m *RootModel) send() tea.Cmd {
	if m.editor.IsEmpty() {
		return nil
	}
	text := m.editor.TakeAndClear()
	return SendMessage(m.ctx, m.transport, text)
}
