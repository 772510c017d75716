package randomizer

import (
	"testing"

	"github.com/phturb/domain-randomizer/catalog"
	"github.com/stretchr/testify/assert"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()
	s.Toggle("c2")
	s.Toggle("c1")
	assert.Equal(t, []string{"c2", "c1"}, s.IDs(), "click order is kept")

	before := s.IDs()
	s.Toggle("c2")
	assert.False(t, s.Contains("c2"))
	s.Toggle("c2")
	assert.ElementsMatch(t, before, s.IDs(), "toggling twice restores membership")
	assert.Equal(t, []string{"c1", "c2"}, s.IDs(), "re-inserted ids go to the end")
}

func TestSelectAllVisible(t *testing.T) {
	cat := testCatalog(t)
	s := NewSelection()
	s.Toggle("c4")

	s.SelectAllVisible(cat, FilterState{Genders: []catalog.Gender{catalog.Female}})
	assert.Equal(t, []string{"c4", "c2", "c3", "c5"}, s.IDs())

	s.SelectAllVisible(cat, FilterState{})
	assert.Equal(t, []string{"c4", "c2", "c3", "c5", "c1"}, s.IDs(), "no duplicates, new ids appended in catalog order")
	assert.Equal(t, 5, s.Len())
}

func TestDeselectAllIgnoresFilter(t *testing.T) {
	cat := testCatalog(t)
	filters := []FilterState{
		{},
		{Elements: []catalog.Element{catalog.Geo}},
		{Weapons: []catalog.Weapon{catalog.Sword}, Rarities: []catalog.Rarity{catalog.FourStar}},
	}
	for _, f := range filters {
		s := NewSelection()
		s.Toggle("c2")
		s.SelectAllVisible(cat, f)
		s.DeselectAll()
		assert.Equal(t, 0, s.Len())
	}
}

func TestSelectionReplace(t *testing.T) {
	s := NewSelection()
	s.Toggle("c1")
	s.Replace([]string{"c3", "c2", "c3"})
	assert.Equal(t, []string{"c3", "c2"}, s.IDs())

	in := []string{"c5"}
	s.Replace(in)
	in[0] = "c4"
	assert.Equal(t, []string{"c5"}, s.IDs(), "replace copies its input")
}
