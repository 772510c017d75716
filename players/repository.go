// Package players is the persistence collaborator behind /players: a single
// JSON document holding every roster, upserted by player name.
package players

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/phturb/domain-randomizer/model"
	"github.com/phturb/domain-randomizer/storage"
)

const documentKey = "players"

var (
	ErrMalformedDocument = errors.New("players document is malformed")
	ErrBlankName         = errors.New("player name is blank")
)

type Repository interface {
	List(ctx context.Context) ([]model.Player, error)
	// Upsert replaces the characters of the player with the same name, or
	// appends it, and returns the full updated list.
	Upsert(ctx context.Context, p model.Player) ([]model.Player, error)
}

type repository struct {
	mu    sync.Mutex
	store storage.DocumentStore
}

var _ Repository = (*repository)(nil)

func NewRepository(store storage.DocumentStore) Repository {
	return &repository{store: store}
}

func (r *repository) List(ctx context.Context) ([]model.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read(ctx)
}

func (r *repository) Upsert(ctx context.Context, p model.Player) ([]model.Player, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrBlankName
	}
	if p.Characters == nil {
		p.Characters = []string{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ps, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range ps {
		if ps[i].Name == p.Name {
			slog.Info(fmt.Sprintf("[Upsert] - updating player '%s'", p.Name))
			ps[i].Characters = p.Characters
			found = true
			break
		}
	}
	if !found {
		slog.Info(fmt.Sprintf("[Upsert] - adding player '%s'", p.Name))
		ps = append(ps, p)
	}
	if err := r.write(ctx, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (r *repository) read(ctx context.Context) ([]model.Player, error) {
	b, err := r.store.Get(ctx, documentKey)
	if errors.Is(err, storage.ErrNotFound) {
		return []model.Player{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

func (r *repository) write(ctx context.Context, ps []model.Player) error {
	b, err := Encode(ps)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, documentKey, b)
}

// Encode renders players in the pretty-printed document and export format.
func Encode(ps []model.Player) ([]byte, error) {
	if ps == nil {
		ps = []model.Player{}
	}
	return json.MarshalIndent(ps, "", "  ")
}

type rawPlayer struct {
	Name       *string   `json:"name"`
	Characters *[]string `json:"characters"`
}

// Decode parses a players array. The whole blob is checked before anything is
// returned: it must be a JSON array whose entries carry a non-blank name and a
// characters array.
func Decode(b []byte) ([]model.Player, error) {
	var raws []rawPlayer
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if raws == nil {
		return nil, fmt.Errorf("%w: expected an array", ErrMalformedDocument)
	}
	ps := make([]model.Player, 0, len(raws))
	for i, raw := range raws {
		if raw.Name == nil || strings.TrimSpace(*raw.Name) == "" {
			return nil, fmt.Errorf("%w: entry %d has no name", ErrMalformedDocument, i)
		}
		if raw.Characters == nil {
			return nil, fmt.Errorf("%w: entry %d (%s) has no characters", ErrMalformedDocument, i, *raw.Name)
		}
		ps = append(ps, model.Player{
			Name:       *raw.Name,
			Characters: *raw.Characters,
		})
	}
	return ps, nil
}
