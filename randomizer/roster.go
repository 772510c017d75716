package randomizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phturb/domain-randomizer/model"
	"github.com/phturb/domain-randomizer/players"
)

var ErrBlankName = errors.New("player name is blank")

const (
	defaultSaveTimeout = 10 * time.Second
	saveErrorsBuffer   = 16
)

// Persister is the remote side of the roster store.
type Persister interface {
	FetchPlayers(ctx context.Context) ([]model.Player, error)
	SavePlayer(ctx context.Context, p model.Player) error
}

// Roster is the in-memory player roster store. It is the source of truth for
// the session; the persister only receives copies.
type Roster struct {
	players   []model.Player
	persister Persister
	loading   bool

	saveTimeout time.Duration
	inflight    sync.WaitGroup
	saveErrs    chan error
}

// NewRoster creates an empty store. A nil persister keeps everything local.
func NewRoster(p Persister) *Roster {
	return &Roster{
		players:     []model.Player{},
		persister:   p,
		loading:     true,
		saveTimeout: defaultSaveTimeout,
		saveErrs:    make(chan error, saveErrorsBuffer),
	}
}

// Loading reports whether the first Load has not resolved yet.
func (r *Roster) Loading() bool {
	return r.loading
}

// Load replaces the store with the persisted players. On failure the current
// players are kept and the error is returned.
func (r *Roster) Load(ctx context.Context) error {
	defer func() { r.loading = false }()
	if r.persister == nil {
		return nil
	}
	ps, err := r.persister.FetchPlayers(ctx)
	if err != nil {
		slog.Error(fmt.Sprintf("[Load] - failed to load players : %s", err.Error()))
		return fmt.Errorf("failed to load players: %w", err)
	}
	r.players = make([]model.Player, 0, len(ps))
	for _, p := range ps {
		r.players = append(r.players, p.Clone())
	}
	slog.Info(fmt.Sprintf("[Load] - loaded %d players", len(r.players)))
	return nil
}

func (r *Roster) List() []model.Player {
	out := make([]model.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.Clone())
	}
	return out
}

// Find returns the first player with that name.
func (r *Roster) Find(name string) (model.Player, bool) {
	for _, p := range r.players {
		if p.Name == name {
			return p.Clone(), true
		}
	}
	return model.Player{}, false
}

// Save replaces the characters of the named player, or appends a new one,
// then forwards the player to the persister without waiting. Duplicate
// entries left over from imports collapse into the first one.
func (r *Roster) Save(ctx context.Context, name string, ids []string) error {
	if strings.TrimSpace(name) == "" {
		return ErrBlankName
	}
	p := model.Player{Name: name, Characters: ids}.Clone()

	kept := make([]model.Player, 0, len(r.players))
	found := false
	for _, existing := range r.players {
		if existing.Name != name {
			kept = append(kept, existing)
			continue
		}
		if !found {
			kept = append(kept, p.Clone())
			found = true
		}
	}
	if !found {
		kept = append(kept, p.Clone())
	}
	r.players = kept

	r.forward(ctx, p)
	return nil
}

func (r *Roster) forward(ctx context.Context, p model.Player) {
	if r.persister == nil {
		return
	}
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.saveTimeout)
		defer cancel()
		if err := r.persister.SavePlayer(ctx, p); err != nil {
			err = fmt.Errorf("failed to save player '%s': %w", p.Name, err)
			slog.Error("[Save] - " + err.Error())
			select {
			case r.saveErrs <- err:
			default:
				slog.Warn("[Save] - save error buffer is full, dropping error")
			}
		}
	}()
}

// SaveErrors delivers failures of the asynchronous persister writes.
func (r *Roster) SaveErrors() <-chan error {
	return r.saveErrs
}

// Wait blocks until every forwarded save has finished.
func (r *Roster) Wait() {
	r.inflight.Wait()
}

// Remove deletes every player with that name. It is local only.
func (r *Roster) Remove(name string) {
	kept := make([]model.Player, 0, len(r.players))
	for _, p := range r.players {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	r.players = kept
}

func (r *Roster) Export() ([]byte, error) {
	return players.Encode(r.List())
}

// Import appends every player of blob without checking for duplicate names.
// Nothing is appended unless the whole blob parses.
func (r *Roster) Import(blob []byte) error {
	ps, err := players.Decode(blob)
	if err != nil {
		return err
	}
	for _, p := range ps {
		r.players = append(r.players, p.Clone())
	}
	slog.Info(fmt.Sprintf("[Import] - imported %d players", len(ps)))
	return nil
}

func (r *Roster) TotalCharacters() int {
	total := 0
	for _, p := range r.players {
		total += len(p.Characters)
	}
	return total
}
