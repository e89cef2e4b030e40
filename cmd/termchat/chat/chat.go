// Package chat implements the terminal chat client command.
package chat

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/txn2/termchat/cmd/termchat/internal/cliutil"
	"github.com/txn2/termchat/pkg/chatcfg"
	"github.com/txn2/termchat/pkg/chatclient"
	"github.com/txn2/termchat/pkg/chattui"
	"github.com/txn2/termchat/pkg/chattui/state"
	"github.com/txn2/termchat/pkg/chattui/styles"
	"golang.org/x/term"
)

// cmdline arguments
var serverURL string
var message string
var getHistory bool
var refreshInterval time.Duration
var pollInterval time.Duration
var timeout time.Duration
var logFile string
var configPath string
var verbose bool

// Version is set by the main package
var Version string

func init() {
	Cmd.Flags().StringVarP(&serverURL, "url", "u", chatclient.DefaultURL, "URL of the chat server")
	Cmd.Flags().StringVarP(&message, "message", "m", "", "Send this message and exit")
	Cmd.Flags().BoolVarP(&getHistory, "get", "g", false, "Print the full chat log and exit")
	Cmd.Flags().DurationVar(&refreshInterval, "refresh-interval", chattui.DefaultRefreshInterval, "How often the chat log is re-fetched (e.g., 500ms, 1s)")
	Cmd.Flags().DurationVar(&pollInterval, "poll-interval", chattui.DefaultPollInterval, "How often the session checks whether a refresh is due")
	Cmd.Flags().DurationVarP(&timeout, "timeout", "t", chatclient.DefaultTimeout, "Timeout for each request to the server")
	Cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the chat session owns the terminal")
	Cmd.Flags().StringVar(&configPath, "config", "", "Config file (default $TERMCHAT_CONFIG or ~/.termchat.yaml)")
	Cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output.")
}

var Cmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat client",
	Long: `Open an interactive chat session against a termchat server.

The chat log fills the screen above a one-line input bar and is re-fetched
from the server on a short interval. Type and press Enter to send. Ctrl+C
quits.

With --message or --get the client runs once without taking over the
terminal. When both are given the message is sent first.`,
	Example: "  termchat chat\n" +
		"  termchat chat -u http://chat.example.com:32123\n" +
		"  termchat chat -m 'hello'\n" +
		"  termchat chat -g\n" +
		"  termchat chat --refresh-interval 250ms --log-file /tmp/termchat.log",
	Args: cobra.NoArgs,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := cliutil.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if err := cliutil.ConfigureLogging(verbose, cfg.Logging); err != nil {
		return err
	}

	client, err := chatclient.New(cfg.Client.URL, chatclient.WithTimeout(cfg.Client.Timeout))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if message != "" || getHistory {
		return runOnce(ctx, client, cmd.OutOrStdout(), message, getHistory)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("interactive chat needs a terminal; use --message or --get for scripted use")
	}

	return runInteractive(ctx, client, cfg)
}

// applyFlags lets flags given on the command line override the config file.
func applyFlags(cmd *cobra.Command, cfg *chatcfg.Config) {
	if cmd.Flags().Changed("url") {
		cfg.Client.URL = serverURL
	}
	if cmd.Flags().Changed("refresh-interval") {
		cfg.Client.RefreshInterval = refreshInterval
	}
	if cmd.Flags().Changed("poll-interval") {
		cfg.Client.PollInterval = pollInterval
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Client.Timeout = timeout
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Logging.File = logFile
	}
}

// runOnce sends text (when non-empty) and prints the echo, then prints the
// whole log when dump is set.
func runOnce(ctx context.Context, client *chatclient.Client, out io.Writer, text string, dump bool) error {
	if text != "" {
		echo, err := client.Send(ctx, text)
		if err != nil {
			return errors.Wrap(err, "send message")
		}
		_, _ = fmt.Fprintln(out, echo)
	}

	if !dump {
		return nil
	}

	history := state.NewHistory()
	if err := history.Refresh(ctx, client); err != nil {
		return errors.Wrap(err, "fetch history")
	}
	for _, msg := range history.Messages() {
		_, _ = fmt.Fprintf(out, "Message %d: %s\n", msg.ID, msg.Text)
	}
	return nil
}

func runInteractive(ctx context.Context, client *chatclient.Client, cfg *chatcfg.Config) error {
	logOut, closeLog, err := cliutil.OpenLogFile(cfg.Logging.File)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	styles.SetDarkTheme(lipgloss.HasDarkBackground())

	log.Debugf("Starting chat session against %s", client.BaseURL())

	manager := chattui.NewManager(client, chattui.Config{
		RefreshInterval: cfg.Client.RefreshInterval,
		PollInterval:    cfg.Client.PollInterval,
		Greeting:        fmt.Sprintf("Chatting on %s. Ctrl+C quits.", client.BaseURL()),
		LogOutput:       logOut,
	})

	go func() {
		select {
		case <-ctx.Done():
			manager.Stop()
		case <-manager.Done():
		}
	}()

	return manager.Run()
}
