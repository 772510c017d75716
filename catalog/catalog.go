// Package catalog holds the static, ordered list of characters players can own.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed characters.yaml
var embeddedCharacters []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

// CharacterRecord is immutable once loaded. Callers must not modify Elements.
type CharacterRecord struct {
	ID       string
	FullName string
	Elements []Element
	Weapon   Weapon
	Gender   Gender
	Stars    Rarity
	Collab   bool
}

func (c CharacterRecord) HasElement(e Element) bool {
	return slices.Contains(c.Elements, e)
}

type Catalog struct {
	records []CharacterRecord
	byID    map[string]int
}

type catalogFile struct {
	Characters []characterEntry `yaml:"characters"`
}

type characterEntry struct {
	ID       string   `yaml:"id"`
	FullName string   `yaml:"fullName"`
	Elements []string `yaml:"elements"`
	Weapon   string   `yaml:"weapon"`
	Gender   string   `yaml:"gender"`
	Stars    string   `yaml:"stars"`
	Collab   bool     `yaml:"collab"`
}

func (e characterEntry) record() (CharacterRecord, error) {
	if strings.TrimSpace(e.ID) == "" {
		return CharacterRecord{}, errors.New("character id is blank")
	}
	if len(e.Elements) == 0 {
		return CharacterRecord{}, fmt.Errorf("character %q has no element", e.ID)
	}
	elements := make([]Element, 0, len(e.Elements))
	for _, s := range e.Elements {
		el, err := ParseElement(s)
		if err != nil {
			return CharacterRecord{}, fmt.Errorf("character %q: %w", e.ID, err)
		}
		if !slices.Contains(elements, el) {
			elements = append(elements, el)
		}
	}
	w, err := ParseWeapon(e.Weapon)
	if err != nil {
		return CharacterRecord{}, fmt.Errorf("character %q: %w", e.ID, err)
	}
	g, err := ParseGender(e.Gender)
	if err != nil {
		return CharacterRecord{}, fmt.Errorf("character %q: %w", e.ID, err)
	}
	r, err := ParseRarity(e.Stars)
	if err != nil {
		return CharacterRecord{}, fmt.Errorf("character %q: %w", e.ID, err)
	}
	name := e.FullName
	if name == "" {
		name = e.ID
	}
	return CharacterRecord{
		ID:       e.ID,
		FullName: name,
		Elements: elements,
		Weapon:   w,
		Gender:   g,
		Stars:    r,
		Collab:   e.Collab,
	}, nil
}

// Load parses a YAML catalog document. Order of the document is kept.
func Load(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	c := &Catalog{
		records: make([]CharacterRecord, 0, len(f.Characters)),
		byID:    make(map[string]int, len(f.Characters)),
	}
	for _, e := range f.Characters {
		rec, err := e.record()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
		}
		if _, ok := c.byID[rec.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate character id %q", ErrInvalidCatalog, rec.ID)
		}
		c.byID[rec.ID] = len(c.records)
		c.records = append(c.records, rec)
	}
	return c, nil
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog shipped with the binary. It is parsed once.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Load(bytes.NewReader(embeddedCharacters))
	})
	return defaultCat, defaultErr
}

// All returns the records in catalog order.
func (c *Catalog) All() []CharacterRecord {
	return slices.Clone(c.records)
}

func (c *Catalog) Get(id string) (CharacterRecord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return CharacterRecord{}, false
	}
	return c.records[i], true
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.records)
}
