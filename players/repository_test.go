package players

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phturb/domain-randomizer/model"
	"github.com/phturb/domain-randomizer/storage"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockDocumentStore) Put(ctx context.Context, key string, body []byte) error {
	args := m.Called(ctx, key, body)
	return args.Error(0)
}

func newFileRepository(t *testing.T) (Repository, string) {
	dir := t.TempDir()
	s, err := storage.NewFileStore(dir)
	require.NoError(t, err)
	return NewRepository(s), dir
}

func TestRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo, dir := newFileRepository(t)

	t.Run("empty document lists nothing", func(t *testing.T) {
		ps, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, ps)
		assert.Len(t, ps, 0)
	})

	t.Run("new name appends", func(t *testing.T) {
		ps, err := repo.Upsert(ctx, model.Player{Name: "Alice", Characters: []string{"c1", "c2"}})
		require.NoError(t, err)
		assert.Len(t, ps, 1)

		ps, err = repo.Upsert(ctx, model.Player{Name: "Bob", Characters: []string{"c2"}})
		require.NoError(t, err)
		assert.Len(t, ps, 2)
	})

	t.Run("existing name replaces characters", func(t *testing.T) {
		ps, err := repo.Upsert(ctx, model.Player{Name: "Alice", Characters: []string{"c3"}})
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, "Alice", ps[0].Name)
		assert.Equal(t, []string{"c3"}, ps[0].Characters)
	})

	t.Run("document is pretty printed", func(t *testing.T) {
		b, err := os.ReadFile(filepath.Join(dir, "players.json"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(b), "[\n  {"))
		ps, err := Decode(b)
		require.NoError(t, err)
		assert.Len(t, ps, 2)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		_, err := repo.Upsert(ctx, model.Player{Name: "  "})
		assert.ErrorIs(t, err, ErrBlankName)
	})
}

func TestRepositoryStoreFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("read failure", func(t *testing.T) {
		s := &MockDocumentStore{}
		s.On("Get", mock.Anything, "players").Return(nil, boom)
		_, err := NewRepository(s).List(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("write failure", func(t *testing.T) {
		s := &MockDocumentStore{}
		s.On("Get", mock.Anything, "players").Return(nil, storage.ErrNotFound)
		s.On("Put", mock.Anything, "players", mock.Anything).Return(boom)
		_, err := NewRepository(s).Upsert(ctx, model.Player{Name: "Alice"})
		assert.ErrorIs(t, err, boom)
		s.AssertExpectations(t)
	})

	t.Run("malformed document", func(t *testing.T) {
		s := &MockDocumentStore{}
		s.On("Get", mock.Anything, "players").Return([]byte(`{"name":"Alice"}`), nil)
		_, err := NewRepository(s).List(ctx)
		assert.ErrorIs(t, err, ErrMalformedDocument)
	})
}

func TestDecode(t *testing.T) {
	ps, err := Decode([]byte(`[{"name":"Alice","characters":["c1"]},{"name":"Bob","characters":[]}]`))
	require.NoError(t, err)
	assert.Equal(t, []model.Player{
		{Name: "Alice", Characters: []string{"c1"}},
		{Name: "Bob", Characters: []string{}},
	}, ps)

	for _, bad := range []string{`{}`, `null`, `[{"characters":[]}]`, `[{"name":"Alice"}]`, `[{"name":"","characters":[]}]`, `not json`} {
		_, err := Decode([]byte(bad))
		assert.ErrorIs(t, err, ErrMalformedDocument, bad)
	}
}

func TestBackup(t *testing.T) {
	ctx := context.Background()
	repo, _ := newFileRepository(t)
	_, err := repo.Upsert(ctx, model.Player{Name: "Alice", Characters: []string{"c1"}})
	require.NoError(t, err)

	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	path, err := Backup(ctx, repo, dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "players-20240301T123000Z.json"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	ps, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, []model.Player{{Name: "Alice", Characters: []string{"c1"}}}, ps)
}

func TestScheduleBackups(t *testing.T) {
	repo, _ := newFileRepository(t)
	c := cron.New()

	id, err := ScheduleBackups(context.Background(), c, "", repo, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, cron.EntryID(0), id)
	assert.Len(t, c.Entries(), 0)

	id, err = ScheduleBackups(context.Background(), c, "@hourly", repo, t.TempDir())
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Len(t, c.Entries(), 1)

	_, err = ScheduleBackups(context.Background(), c, "not a schedule", repo, t.TempDir())
	assert.Error(t, err)
}
