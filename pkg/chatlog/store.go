// Package chatlog persists the chat log on the server side: an
// append-only table keyed by an auto-incrementing integer id.
package chatlog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

const (
	// DefaultDSN is the SQLite file used when no database is configured.
	DefaultDSN = "chat.db"

	memoryScheme   = "memory://"
	sqliteScheme   = "sqlite://"
	postgresScheme = "postgres://"
	postgresAlt    = "postgresql://"
)

// Store is a MessageLog that owns resources which must be released.
type Store interface {
	types.MessageLog
	Close() error
}

// Open selects a storage engine from the DSN and makes sure the backing
// storage and the messages table exist:
//   - memory://                      in-process, lost on exit
//   - postgres://... postgresql://...  Postgres via pgx
//   - sqlite://path or a bare path   SQLite file, created if absent
func Open(ctx context.Context, dsn string) (Store, error) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return OpenSQLite(ctx, DefaultDSN)
	case strings.HasPrefix(dsn, memoryScheme):
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, postgresScheme), strings.HasPrefix(dsn, postgresAlt):
		return OpenPostgres(ctx, dsn)
	case strings.HasPrefix(dsn, sqliteScheme):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, sqliteScheme))
	case strings.Contains(dsn, "://"):
		return nil, errors.Errorf("unsupported database scheme in %q", dsn)
	default:
		return OpenSQLite(ctx, dsn)
	}
}
