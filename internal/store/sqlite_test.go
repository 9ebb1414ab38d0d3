package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthdesk/consultor-cli/internal/model"
	"github.com/growthdesk/consultor-cli/internal/profile"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "consultor-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteCreateAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.False(t, sess.Ready)
	assert.Empty(t, sess.Messages)

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.False(t, got.Ready)
	assert.NotNil(t, got.State.Profile)
	assert.Empty(t, got.Messages)
}

func TestSQLiteUpdateRoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx)
	require.NoError(t, err)

	sess.Messages = []model.Message{
		{Role: model.RoleAssistant, Content: "Oi! Me conta sobre seu negócio."},
		{Role: model.RoleUser, Content: "Vendo brownies artesanais"},
	}
	sess.State.Profile.Set(profile.FieldSegment, "brownies artesanais")
	sess.State.Meta.MarkResearched(profile.FieldCompetitors)
	sess.State.Meta.AddTask(profile.TaskRecord{
		Title:       "Pesquisa de mercado",
		Description: "Mapear concorrentes locais",
		Category:    "pesquisa",
		Origin:      profile.TaskOriginAssisted,
	})
	sess.Ready = true

	require.NoError(t, s.UpdateSession(ctx, sess))

	got, err := s.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, got.Ready)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "Vendo brownies artesanais", got.Messages[1].Content)
	assert.Equal(t, "brownies artesanais", got.State.Profile.Get(profile.FieldSegment))
	assert.True(t, got.State.Meta.WasResearched(profile.FieldCompetitors))
	require.Len(t, got.State.Meta.Tasks, 1)
	assert.Equal(t, profile.TaskOriginAssisted, got.State.Meta.Tasks[0].Origin)
}

func TestSQLiteGetNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetSession(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteUpdateNotFound(t *testing.T) {
	s := newTestSQLite(t)

	err := s.UpdateSession(context.Background(), &model.Session{
		ID:    "missing-id",
		State: profile.NewState(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListSessions(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		sess, err := s.CreateSession(ctx)
		require.NoError(t, err)
		ids[sess.ID] = true
	}

	sessions, err := s.ListSessions(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for _, sess := range sessions {
		assert.True(t, ids[sess.ID])
	}

	limited, err := s.ListSessions(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	// A non-positive limit falls back to the default page size.
	all, err := s.ListSessions(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteListTasks(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	sess, err := s.CreateSession(ctx)
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	sess.State.Meta.AddTask(profile.TaskRecord{
		Title:  "Pesquisa de mercado",
		Origin: profile.TaskOriginFailed,
	})
	require.NoError(t, s.UpdateSession(ctx, sess))

	tasks, err = s.ListTasks(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, profile.TaskOriginFailed, tasks[0].Origin)

	_, err = s.ListTasks(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}
