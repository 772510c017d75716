// Package randomizer is the selection, roster and team draw engine. App owns
// all of its mutable state; views subscribe to change events instead of
// reading shared globals.
package randomizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/phturb/domain-randomizer/catalog"
	"github.com/phturb/domain-randomizer/model"
)

var (
	ErrNoSession        = errors.New("no player is being edited")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrUnknownCharacter = errors.New("character is not in the catalog")
	ErrCharacterHidden  = errors.New("character is hidden by the current filter")
)

type EventKind int

const (
	FilterChanged EventKind = iota
	SelectionChanged
	SessionChanged
	RosterChanged
	PlayersForTeamChanged
	TeamGenerated
)

func (k EventKind) String() string {
	switch k {
	case FilterChanged:
		return "filterChanged"
	case SelectionChanged:
		return "selectionChanged"
	case SessionChanged:
		return "sessionChanged"
	case RosterChanged:
		return "rosterChanged"
	case PlayersForTeamChanged:
		return "playersForTeamChanged"
	case TeamGenerated:
		return "teamGenerated"
	}
	return "unknown"
}

type Event struct {
	Kind EventKind
}

type Observer func(Event)

type SessionMode int

const (
	SessionClosed SessionMode = iota
	SessionNewPlayer
	SessionEditPlayer
)

type AppConfig struct {
	Catalog   *catalog.Catalog
	Roster    *Roster
	Generator *TeamGenerator
	// TeamSize bounds the generated team length.
	TeamSize int
	// MaxTeamPlayers caps how many players a team is drawn from.
	MaxTeamPlayers int
}

func (cfg *AppConfig) validate() error {
	if cfg.Catalog == nil {
		return errors.New("catalog is required")
	}
	if cfg.Roster == nil {
		return errors.New("roster is required")
	}
	if cfg.TeamSize <= 0 {
		return fmt.Errorf("team size must be positive, got %d", cfg.TeamSize)
	}
	if cfg.MaxTeamPlayers <= 0 {
		return fmt.Errorf("max team players must be positive, got %d", cfg.MaxTeamPlayers)
	}
	return nil
}

type subscriber struct {
	id int
	fn Observer
}

type App struct {
	catalog        *catalog.Catalog
	roster         *Roster
	generator      *TeamGenerator
	teamSize       int
	maxTeamPlayers int

	filter    FilterState
	selection *Selection
	mode      SessionMode
	editing   string

	teamPlayers []string
	team        []string

	subscribers []subscriber
	nextID      int
}

func NewApp(cfg AppConfig) (*App, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	g := cfg.Generator
	if g == nil {
		g = NewTeamGenerator()
	}
	return &App{
		catalog:        cfg.Catalog,
		roster:         cfg.Roster,
		generator:      g,
		teamSize:       cfg.TeamSize,
		maxTeamPlayers: cfg.MaxTeamPlayers,
		selection:      NewSelection(),
	}, nil
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (a *App) Subscribe(fn Observer) func() {
	id := a.nextID
	a.nextID++
	a.subscribers = append(a.subscribers, subscriber{id: id, fn: fn})
	return func() {
		a.subscribers = slices.DeleteFunc(a.subscribers, func(s subscriber) bool {
			return s.id == id
		})
	}
}

func (a *App) notify(kind EventKind) {
	slog.Debug(fmt.Sprintf("[notify] - %s", kind))
	for _, s := range slices.Clone(a.subscribers) {
		s.fn(Event{Kind: kind})
	}
}

func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

func (a *App) Filter() FilterState {
	return a.filter.Clone()
}

func (a *App) SetFilter(f FilterState) {
	a.filter = f.Clone()
	a.notify(FilterChanged)
}

func (a *App) VisibleCharacters() []catalog.CharacterRecord {
	return a.filter.VisibleRecords(a.catalog)
}

// Session

func (a *App) SessionMode() SessionMode {
	return a.mode
}

// EditingPlayer is the name of the player opened with OpenPlayer.
func (a *App) EditingPlayer() string {
	return a.editing
}

func (a *App) OpenNewPlayer() {
	a.mode = SessionNewPlayer
	a.editing = ""
	a.selection.DeselectAll()
	a.notify(SessionChanged)
	a.notify(SelectionChanged)
}

func (a *App) OpenPlayer(name string) error {
	p, ok := a.roster.Find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	ids := slices.DeleteFunc(slices.Clone(p.Characters), func(id string) bool {
		return !a.catalog.Has(id)
	})
	if dropped := len(p.Characters) - len(ids); dropped > 0 {
		slog.Warn(fmt.Sprintf("[OpenPlayer] - dropping %d characters of '%s' missing from the catalog", dropped, p.Name))
	}
	a.mode = SessionEditPlayer
	a.editing = p.Name
	a.selection.Replace(ids)
	a.notify(SessionChanged)
	a.notify(SelectionChanged)
	return nil
}

// CloseSession discards the selection without saving.
func (a *App) CloseSession() {
	a.closeSession()
}

func (a *App) closeSession() {
	a.mode = SessionClosed
	a.editing = ""
	a.selection.DeselectAll()
	a.notify(SessionChanged)
	a.notify(SelectionChanged)
}

// SaveSession stores the selection as a roster and closes the session. A new
// player is saved under name; a blank name aborts the save without error and
// reports false. An edited player keeps its name and name is ignored.
func (a *App) SaveSession(ctx context.Context, name string) (bool, error) {
	switch a.mode {
	case SessionClosed:
		return false, ErrNoSession
	case SessionEditPlayer:
		name = a.editing
	}
	if strings.TrimSpace(name) == "" {
		slog.Info("[SaveSession] - no player name given, cancelling save")
		a.closeSession()
		return false, nil
	}
	if err := a.roster.Save(ctx, name, a.selection.IDs()); err != nil {
		return false, err
	}
	a.closeSession()
	a.notify(RosterChanged)
	return true, nil
}

func (a *App) Selection() []string {
	return a.selection.IDs()
}

func (a *App) IsSelected(id string) bool {
	return a.selection.Contains(id)
}

// ToggleCharacter flips a visible catalog entry in the current session.
func (a *App) ToggleCharacter(id string) error {
	if a.mode == SessionClosed {
		return ErrNoSession
	}
	c, ok := a.catalog.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCharacter, id)
	}
	if !a.filter.Visible(c) {
		return fmt.Errorf("%w: %s", ErrCharacterHidden, id)
	}
	a.selection.Toggle(id)
	a.notify(SelectionChanged)
	return nil
}

func (a *App) SelectAllVisible() error {
	if a.mode == SessionClosed {
		return ErrNoSession
	}
	a.selection.SelectAllVisible(a.catalog, a.filter)
	a.notify(SelectionChanged)
	return nil
}

// DeselectAll clears every selected entry, including those the filter hides.
func (a *App) DeselectAll() error {
	if a.mode == SessionClosed {
		return ErrNoSession
	}
	a.selection.DeselectAll()
	a.notify(SelectionChanged)
	return nil
}

// Roster

func (a *App) LoadPlayers(ctx context.Context) error {
	if err := a.roster.Load(ctx); err != nil {
		return err
	}
	a.notify(RosterChanged)
	return nil
}

func (a *App) Loading() bool {
	return a.roster.Loading()
}

func (a *App) Players() []model.Player {
	return a.roster.List()
}

func (a *App) RemovePlayer(name string) {
	a.roster.Remove(name)
	a.notify(RosterChanged)
	if i := slices.Index(a.teamPlayers, name); i >= 0 {
		a.teamPlayers = slices.Delete(a.teamPlayers, i, i+1)
		a.notify(PlayersForTeamChanged)
	}
}

func (a *App) ImportPlayers(blob []byte) error {
	if err := a.roster.Import(blob); err != nil {
		return fmt.Errorf("failed to import players: %w", err)
	}
	a.notify(RosterChanged)
	return nil
}

func (a *App) ExportPlayers() ([]byte, error) {
	return a.roster.Export()
}

func (a *App) TotalOwnedCharacters() int {
	return a.roster.TotalCharacters()
}

// Team

// TogglePlayerForTeam adds or removes name from the players a team is drawn
// from. Adding beyond the cap is ignored and reported false.
func (a *App) TogglePlayerForTeam(name string) bool {
	if i := slices.Index(a.teamPlayers, name); i >= 0 {
		a.teamPlayers = slices.Delete(a.teamPlayers, i, i+1)
		a.notify(PlayersForTeamChanged)
		return true
	}
	if len(a.teamPlayers) >= a.maxTeamPlayers {
		slog.Warn(fmt.Sprintf("[TogglePlayerForTeam] - already %d players selected, ignoring '%s'", len(a.teamPlayers), name))
		return false
	}
	a.teamPlayers = append(a.teamPlayers, name)
	a.notify(PlayersForTeamChanged)
	return true
}

func (a *App) PlayersForTeam() []string {
	return slices.Clone(a.teamPlayers)
}

func (a *App) GenerateTeam() []string {
	a.team = a.generator.Generate(a.teamPlayers, a.roster, a.teamSize)
	slog.Info(fmt.Sprintf("[GenerateTeam] - drew %d characters from %d players", len(a.team), len(a.teamPlayers)))
	a.notify(TeamGenerated)
	return slices.Clone(a.team)
}

func (a *App) Team() []string {
	return slices.Clone(a.team)
}

func (a *App) TeamSlots() []*catalog.CharacterRecord {
	return TeamSlots(a.team, a.catalog, a.teamSize)
}
