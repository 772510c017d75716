package randomizer

import (
	"slices"

	"github.com/phturb/domain-randomizer/catalog"
)

// FilterState restricts which catalog entries are visible. Facets are ANDed
// together, values within a facet are ORed, and an empty facet matches all.
type FilterState struct {
	Elements []catalog.Element
	Weapons  []catalog.Weapon
	Genders  []catalog.Gender
	Rarities []catalog.Rarity
}

func (f FilterState) IsEmpty() bool {
	return len(f.Elements) == 0 && len(f.Weapons) == 0 && len(f.Genders) == 0 && len(f.Rarities) == 0
}

func (f FilterState) Visible(c catalog.CharacterRecord) bool {
	return f.matchElement(c) &&
		(len(f.Weapons) == 0 || slices.Contains(f.Weapons, c.Weapon)) &&
		(len(f.Genders) == 0 || slices.Contains(f.Genders, c.Gender)) &&
		(len(f.Rarities) == 0 || slices.Contains(f.Rarities, c.Stars))
}

func (f FilterState) matchElement(c catalog.CharacterRecord) bool {
	if len(f.Elements) == 0 {
		return true
	}
	for _, e := range f.Elements {
		if c.HasElement(e) {
			return true
		}
	}
	return false
}

// VisibleRecords rescans the whole catalog and keeps catalog order.
func (f FilterState) VisibleRecords(cat *catalog.Catalog) []catalog.CharacterRecord {
	var out []catalog.CharacterRecord
	for _, c := range cat.All() {
		if f.Visible(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f FilterState) Clone() FilterState {
	return FilterState{
		Elements: slices.Clone(f.Elements),
		Weapons:  slices.Clone(f.Weapons),
		Genders:  slices.Clone(f.Genders),
		Rarities: slices.Clone(f.Rarities),
	}
}

func toggle[T comparable](s []T, v T) []T {
	if i := slices.Index(s, v); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return append(s, v)
}

func (f *FilterState) ToggleElement(e catalog.Element) { f.Elements = toggle(f.Elements, e) }
func (f *FilterState) ToggleWeapon(w catalog.Weapon)   { f.Weapons = toggle(f.Weapons, w) }
func (f *FilterState) ToggleGender(g catalog.Gender)   { f.Genders = toggle(f.Genders, g) }
func (f *FilterState) ToggleRarity(r catalog.Rarity)   { f.Rarities = toggle(f.Rarities, r) }

func (f *FilterState) Clear() {
	*f = FilterState{}
}
