// Package cliutil holds the setup shared by the termchat subcommands.
package cliutil

import (
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatcfg"
)

// LoadConfig reads path (or the default config location when empty).
func LoadConfig(path string) (*chatcfg.Config, error) {
	cfg, err := chatcfg.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Debugf("Loaded config %s", path)
	}
	return cfg, nil
}

// ConfigureLogging sets the global logrus level. verbose wins over the
// configured level.
func ConfigureLogging(verbose bool, cfg chatcfg.LoggingConfig) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
		return nil
	}
	if cfg.Level == "" {
		return nil
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return errors.Wrapf(err, "logging.level %q", cfg.Level)
	}
	log.SetLevel(level)
	return nil
}

// OpenLogFile opens path for appending. An empty path yields a nil writer
// and a no-op close.
func OpenLogFile(path string) (io.Writer, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log file %s", path)
	}
	return f, f.Close, nil
}
