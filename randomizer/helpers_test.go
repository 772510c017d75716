package randomizer

import (
	"context"
	"strings"
	"testing"

	"github.com/phturb/domain-randomizer/catalog"
	"github.com/phturb/domain-randomizer/model"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCatalogYAML = `
characters:
  - {id: c1, fullName: Pyro Sword Male, elements: [pyro], weapon: sword, gender: male, stars: 4}
  - {id: c2, fullName: Hydro Bow Female, elements: [hydro], weapon: bow, gender: female, stars: 5}
  - {id: c3, fullName: Dual Element, elements: [pyro, geo], weapon: catalyst, gender: female, stars: 5}
  - {id: c4, fullName: Cryo Claymore Male, elements: [cryo], weapon: claymore, gender: male, stars: 5}
  - {id: c5, fullName: Geo Polearm Female, elements: [geo], weapon: polearm, gender: female, stars: 4, collab: true}
`

func testCatalog(t *testing.T) *catalog.Catalog {
	c, err := catalog.Load(strings.NewReader(testCatalogYAML))
	require.NoError(t, err)
	return c
}

type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) FetchPlayers(ctx context.Context) ([]model.Player, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]model.Player)
	return ps, args.Error(1)
}

func (m *MockPersister) SavePlayer(ctx context.Context, p model.Player) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// identityShuffler keeps the merged order so draws can be asserted exactly.
type identityShuffler struct{}

func (identityShuffler) Shuffle(n int, swap func(i, j int)) {}

// reverseShuffler reverses the merged order.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}
