package randomizer

import (
	"slices"

	"github.com/phturb/domain-randomizer/catalog"
)

// Selection is the ordered set of character ids picked in an editing
// session. Order is click order.
type Selection struct {
	ids []string
}

func NewSelection() *Selection {
	return &Selection{}
}

func (s *Selection) Toggle(id string) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return
	}
	s.ids = append(s.ids, id)
}

// SelectAllVisible keeps the current order and appends newly visible ids in
// catalog order.
func (s *Selection) SelectAllVisible(cat *catalog.Catalog, f FilterState) {
	for _, c := range f.VisibleRecords(cat) {
		if !slices.Contains(s.ids, c.ID) {
			s.ids = append(s.ids, c.ID)
		}
	}
}

// DeselectAll clears the whole selection, hidden entries included.
func (s *Selection) DeselectAll() {
	s.ids = nil
}

func (s *Selection) Replace(ids []string) {
	s.ids = make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
}

func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

func (s *Selection) Len() int {
	return len(s.ids)
}
