package randomizer

import (
	"math/rand/v2"

	"github.com/phturb/domain-randomizer/catalog"
	"github.com/phturb/domain-randomizer/model"
)

// Shuffler is satisfied by *rand.Rand. Shuffle must be an unbiased
// Fisher-Yates permutation.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type RosterReader interface {
	Find(name string) (model.Player, bool)
}

type TeamGenerator struct {
	rng Shuffler
}

func NewTeamGenerator() *TeamGenerator {
	return NewTeamGeneratorFrom(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewSeededTeamGenerator draws the same teams for the same seed.
func NewSeededTeamGenerator(seed uint64) *TeamGenerator {
	return NewTeamGeneratorFrom(rand.New(rand.NewPCG(seed, seed)))
}

func NewTeamGeneratorFrom(rng Shuffler) *TeamGenerator {
	return &TeamGenerator{rng: rng}
}

// Generate merges the rosters of the named players, drops duplicate ids,
// shuffles and keeps at most teamSize ids. Unknown players own nothing.
func (g *TeamGenerator) Generate(names []string, roster RosterReader, teamSize int) []string {
	seen := map[string]bool{}
	pool := []string{}
	for _, name := range names {
		p, ok := roster.Find(name)
		if !ok {
			continue
		}
		for _, id := range p.Characters {
			if seen[id] {
				continue
			}
			seen[id] = true
			pool = append(pool, id)
		}
	}
	g.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if teamSize < 0 {
		teamSize = 0
	}
	if len(pool) > teamSize {
		pool = pool[:teamSize]
	}
	return pool
}

// TeamSlots resolves a team against the catalog and pads it to size. Missing
// positions and ids unknown to the catalog are nil.
func TeamSlots(team []string, cat *catalog.Catalog, size int) []*catalog.CharacterRecord {
	slots := make([]*catalog.CharacterRecord, size)
	for i := 0; i < size && i < len(team); i++ {
		if c, ok := cat.Get(team[i]); ok {
			slots[i] = &c
		}
	}
	return slots
}
