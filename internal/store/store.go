// Package store persists consultation sessions: the transcript, the
// extraction state and the readiness flag. SQLite is the default backend;
// Postgres is available for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
)

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = eris.New("session not found")

// Store defines the persistence interface for consultation sessions.
type Store interface {
	// CreateSession inserts a new empty session and returns it.
	CreateSession(ctx context.Context) (*model.Session, error)
	// UpdateSession persists the session's messages, state and readiness.
	UpdateSession(ctx context.Context, s *model.Session) error
	// GetSession loads one session by id.
	GetSession(ctx context.Context, id string) (*model.Session, error)
	// ListSessions returns sessions newest first.
	ListSessions(ctx context.Context, limit, offset int) ([]model.Session, error)
	// ListTasks returns the research task records of a session.
	ListTasks(ctx context.Context, id string) ([]profile.TaskRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
