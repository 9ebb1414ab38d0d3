package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool, used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	messages   JSONB NOT NULL DEFAULT '[]',
	state      JSONB NOT NULL DEFAULT '{}',
	ready      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions(updated_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context) (*model.Session, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	sess := &model.Session{
		ID:        id,
		State:     profile.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	stateJSON, err := json.Marshal(sess.State)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal state")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, messages, state, ready, created_at, updated_at) VALUES ($1, '[]', $2, FALSE, $3, $4)`,
		id, string(stateJSON), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert session")
	}
	return sess, nil
}

func (s *PostgresStore) UpdateSession(ctx context.Context, sess *model.Session) error {
	messagesJSON, err := json.Marshal(sess.Messages)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal messages")
	}
	stateJSON, err := json.Marshal(sess.State)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal state")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE sessions SET messages = $1, state = $2, ready = $3, updated_at = $4 WHERE id = $5`,
		string(messagesJSON), string(stateJSON), sess.Ready, time.Now().UTC(), sess.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update session %s", sess.ID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "%s", sess.ID)
	}
	return nil
}

func (s *PostgresStore) GetSession(ctx context.Context, id string) (*model.Session, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, messages, state, ready, created_at, updated_at FROM sessions WHERE id = $1`,
		id,
	)
	return scanPgSession(row)
}

func (s *PostgresStore) ListSessions(ctx context.Context, limit, offset int) ([]model.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, messages, state, ready, created_at, updated_at FROM sessions
		 ORDER BY updated_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list sessions")
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		sess, err := scanPgSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	return sessions, eris.Wrap(rows.Err(), "postgres: list sessions iterate")
}

func (s *PostgresStore) ListTasks(ctx context.Context, id string) ([]profile.TaskRecord, error) {
	sess, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.State.Meta.Tasks, nil
}

func scanPgSession(row pgx.Row) (*model.Session, error) {
	var sess model.Session
	var messagesJSON, stateJSON []byte

	err := row.Scan(&sess.ID, &messagesJSON, &stateJSON, &sess.Ready, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan session")
	}

	if err := json.Unmarshal(messagesJSON, &sess.Messages); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal messages")
	}
	if err := json.Unmarshal(stateJSON, &sess.State); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal state")
	}
	if sess.State.Profile == nil {
		sess.State.Profile = make(profile.Profile)
	}
	return &sess, nil
}
