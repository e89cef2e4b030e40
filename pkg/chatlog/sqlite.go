package chatlog

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"time"

	"github.com/bep/debounce"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

// checkpointDelay is how long the log must be quiet before the WAL is
// folded back into the main database file.
const checkpointDelay = 2 * time.Second

const createMessagesSQLite = `CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	message TEXT NOT NULL
)`

// SQLiteStore is the default engine: one file, created on first run.
type SQLiteStore struct {
	db         *sql.DB
	path       string
	checkpoint func(f func())

	// mu guards closed against a debounced checkpoint racing Close
	mu     sync.Mutex
	closed bool
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty database path")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Infof("Creating database %s", path)
	} else {
		log.Infof("Database already exists: %s", path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "sqlite: open %s", path)
	}
	// A single connection serializes writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlite: enable WAL")
	}
	if _, err := db.ExecContext(ctx, createMessagesSQLite); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlite: create messages table")
	}

	return &SQLiteStore{
		db:         db,
		path:       path,
		checkpoint: debounce.New(checkpointDelay),
	}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, text string) (types.Message, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO messages (message) VALUES (?)`, text)
	if err != nil {
		return types.Message{}, errors.Wrap(err, "sqlite: insert message")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Message{}, errors.Wrap(err, "sqlite: read inserted id")
	}
	s.checkpoint(s.walCheckpoint)
	return types.Message{ID: uint64(id), Text: text}, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]types.Message, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, message FROM messages ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite: query messages")
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Errorf("sqlite: close rows: %v", err)
		}
	}()

	messages := make([]types.Message, 0)
	for rows.Next() {
		var id int64
		var text string
		if err := rows.Scan(&id, &text); err != nil {
			return nil, errors.Wrap(err, "sqlite: scan message")
		}
		messages = append(messages, types.Message{ID: uint64(id), Text: text})
	}
	return messages, errors.Wrap(rows.Err(), "sqlite: iterate messages")
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "sqlite: count messages")
	}
	return n, nil
}

func (s *SQLiteStore) Driver() string { return "sqlite" }

// Close cancels any pending checkpoint, checkpoints the WAL once more and
// closes the database. Closing twice is a no-op.
func (s *SQLiteStore) Close() error {
	s.checkpoint(func() {})

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.checkpointLocked()
	s.closed = true
	return errors.Wrap(s.db.Close(), "sqlite: close")
}

func (s *SQLiteStore) walCheckpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.checkpointLocked()
}

func (s *SQLiteStore) checkpointLocked() {
	if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		log.Debugf("sqlite: wal checkpoint on %s: %v", s.path, err)
	}
}
