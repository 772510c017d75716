package randomizer

import (
	"context"
	"errors"
	"testing"

	"github.com/phturb/domain-randomizer/model"
	"github.com/phturb/domain-randomizer/players"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRosterSave(t *testing.T) {
	ctx := context.Background()

	t.Run("append then replace", func(t *testing.T) {
		r := NewRoster(nil)
		require.NoError(t, r.Save(ctx, "Alice", []string{"c1", "c2"}))
		require.NoError(t, r.Save(ctx, "Bob", []string{"c2"}))
		require.NoError(t, r.Save(ctx, "Alice", []string{"c3"}))

		assert.Equal(t, []model.Player{
			{Name: "Alice", Characters: []string{"c3"}},
			{Name: "Bob", Characters: []string{"c2"}},
		}, r.List())
	})

	t.Run("saving the same pair twice keeps one player", func(t *testing.T) {
		r := NewRoster(nil)
		require.NoError(t, r.Save(ctx, "Alice", []string{"c1"}))
		require.NoError(t, r.Save(ctx, "Alice", []string{"c1"}))
		assert.Equal(t, []model.Player{{Name: "Alice", Characters: []string{"c1"}}}, r.List())
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		r := NewRoster(nil)
		assert.ErrorIs(t, r.Save(ctx, " ", []string{"c1"}), ErrBlankName)
		assert.Empty(t, r.List())
	})

	t.Run("save collapses imported duplicates", func(t *testing.T) {
		r := NewRoster(nil)
		require.NoError(t, r.Import([]byte(`[{"name":"Alice","characters":["c1"]},{"name":"Bob","characters":[]},{"name":"Alice","characters":["c2"]}]`)))
		require.NoError(t, r.Save(ctx, "Alice", []string{"c5"}))
		assert.Equal(t, []model.Player{
			{Name: "Alice", Characters: []string{"c5"}},
			{Name: "Bob", Characters: []string{}},
		}, r.List())
	})

	t.Run("stored roster does not alias the caller slice", func(t *testing.T) {
		r := NewRoster(nil)
		in := []string{"c1"}
		require.NoError(t, r.Save(ctx, "Alice", in))
		in[0] = "c9"
		p, ok := r.Find("Alice")
		require.True(t, ok)
		assert.Equal(t, []string{"c1"}, p.Characters)
	})
}

func TestRosterForwardsSaves(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		p := &MockPersister{}
		p.On("SavePlayer", mock.Anything, model.Player{Name: "Alice", Characters: []string{"c1"}}).Return(nil).Once()
		r := NewRoster(p)
		require.NoError(t, r.Save(ctx, "Alice", []string{"c1"}))
		r.Wait()
		p.AssertExpectations(t)
		assert.Len(t, r.SaveErrors(), 0)
	})

	t.Run("failure is surfaced and local state kept", func(t *testing.T) {
		p := &MockPersister{}
		p.On("SavePlayer", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
		r := NewRoster(p)

		cctx, cancel := context.WithCancel(ctx)
		require.NoError(t, r.Save(cctx, "Alice", []string{"c1"}))
		cancel()
		r.Wait()

		select {
		case err := <-r.SaveErrors():
			assert.ErrorContains(t, err, "Alice")
			assert.ErrorContains(t, err, "connection refused")
		default:
			t.Fatal("expected a save error")
		}
		assert.Len(t, r.List(), 1)
	})
}

func TestRosterLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the players", func(t *testing.T) {
		p := &MockPersister{}
		p.On("FetchPlayers", mock.Anything).Return([]model.Player{{Name: "Alice", Characters: []string{"c1"}}}, nil)
		r := NewRoster(p)
		assert.True(t, r.Loading())
		require.NoError(t, r.Load(ctx))
		assert.False(t, r.Loading())
		assert.Equal(t, []model.Player{{Name: "Alice", Characters: []string{"c1"}}}, r.List())
	})

	t.Run("failure keeps prior state", func(t *testing.T) {
		p := &MockPersister{}
		p.On("FetchPlayers", mock.Anything).Return(nil, errors.New("timeout"))
		r := NewRoster(p)
		require.NoError(t, r.Import([]byte(`[{"name":"Bob","characters":["c2"]}]`)))

		err := r.Load(ctx)
		assert.ErrorContains(t, err, "failed to load players")
		assert.False(t, r.Loading())
		assert.Equal(t, []model.Player{{Name: "Bob", Characters: []string{"c2"}}}, r.List())
	})

	t.Run("without persister", func(t *testing.T) {
		r := NewRoster(nil)
		require.NoError(t, r.Load(ctx))
		assert.False(t, r.Loading())
	})
}

func TestRosterRemove(t *testing.T) {
	r := NewRoster(nil)
	require.NoError(t, r.Import([]byte(`[{"name":"Alice","characters":["c1"]},{"name":"Bob","characters":[]},{"name":"Alice","characters":["c2"]}]`)))
	r.Remove("Alice")
	assert.Equal(t, []model.Player{{Name: "Bob", Characters: []string{}}}, r.List())
	r.Remove("Nobody")
	assert.Len(t, r.List(), 1)
}

func TestRosterExportImport(t *testing.T) {
	ctx := context.Background()
	src := NewRoster(nil)
	require.NoError(t, src.Save(ctx, "Alice", []string{"c1", "c2"}))
	require.NoError(t, src.Save(ctx, "Bob", []string{"c2", "c3"}))
	blob, err := src.Export()
	require.NoError(t, err)

	t.Run("into an empty store", func(t *testing.T) {
		dst := NewRoster(nil)
		require.NoError(t, dst.Import(blob))
		assert.ElementsMatch(t, src.List(), dst.List())
	})

	t.Run("into a populated store", func(t *testing.T) {
		dst := NewRoster(nil)
		require.NoError(t, dst.Save(ctx, "Carol", []string{"c4"}))
		require.NoError(t, dst.Import(blob))
		assert.ElementsMatch(t, append(src.List(), model.Player{Name: "Carol", Characters: []string{"c4"}}), dst.List())
	})

	t.Run("second import duplicates by name", func(t *testing.T) {
		dst := NewRoster(nil)
		require.NoError(t, dst.Import(blob))
		require.NoError(t, dst.Import(blob))
		names := map[string]int{}
		for _, p := range dst.List() {
			names[p.Name]++
		}
		assert.Equal(t, map[string]int{"Alice": 2, "Bob": 2}, names)
		assert.Equal(t, 8, dst.TotalCharacters())
	})

	t.Run("malformed blob leaves the store untouched", func(t *testing.T) {
		dst := NewRoster(nil)
		require.NoError(t, dst.Save(ctx, "Carol", []string{"c4"}))
		for _, bad := range []string{`{"name":"Alice"}`, `[{"name":"Alice","characters":["c1"]},{"characters":[]}]`, `nope`} {
			err := dst.Import([]byte(bad))
			assert.ErrorIs(t, err, players.ErrMalformedDocument)
		}
		assert.Equal(t, []model.Player{{Name: "Carol", Characters: []string{"c4"}}}, dst.List())
	})

	t.Run("empty store exports an empty array", func(t *testing.T) {
		b, err := NewRoster(nil).Export()
		require.NoError(t, err)
		assert.Equal(t, "[]", string(b))
	})
}
