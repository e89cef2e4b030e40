package chatlog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

const createMessagesPostgres = `CREATE TABLE IF NOT EXISTS messages (
	id BIGSERIAL PRIMARY KEY,
	message TEXT NOT NULL
)`

// PostgresStore keeps the log in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to dsn and ensures the messages table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "postgres: ping")
	}
	if _, err := pool.Exec(ctx, createMessagesPostgres); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "postgres: create messages table")
	}
	log.Info("Connected to PostgreSQL")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Append(ctx context.Context, text string) (types.Message, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `INSERT INTO messages (message) VALUES ($1) RETURNING id`, text).Scan(&id)
	if err != nil {
		return types.Message{}, errors.Wrap(err, "postgres: insert message")
	}
	return types.Message{ID: uint64(id), Text: text}, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]types.Message, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, message FROM messages ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "postgres: query messages")
	}
	defer rows.Close()

	messages := make([]types.Message, 0)
	for rows.Next() {
		var id int64
		var text string
		if err := rows.Scan(&id, &text); err != nil {
			return nil, errors.Wrap(err, "postgres: scan message")
		}
		messages = append(messages, types.Message{ID: uint64(id), Text: text})
	}
	return messages, errors.Wrap(rows.Err(), "postgres: iterate messages")
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "postgres: count messages")
	}
	return n, nil
}

func (s *PostgresStore) Driver() string { return "postgres" }

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
