package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

type Element string

const (
	Anemo   Element = "anemo"
	Cryo    Element = "cryo"
	Dendro  Element = "dendro"
	Electro Element = "electro"
	Geo     Element = "geo"
	Hydro   Element = "hydro"
	Pyro    Element = "pyro"
)

var Elements = []Element{
	Anemo,
	Cryo,
	Dendro,
	Electro,
	Geo,
	Hydro,
	Pyro,
}

func ParseElement(s string) (Element, error) {
	e := Element(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Elements {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unsupported element %q", s)
}

type Weapon string

const (
	Sword    Weapon = "sword"
	Claymore Weapon = "claymore"
	Polearm  Weapon = "polearm"
	Bow      Weapon = "bow"
	Catalyst Weapon = "catalyst"
)

var Weapons = []Weapon{
	Sword,
	Claymore,
	Polearm,
	Bow,
	Catalyst,
}

func ParseWeapon(s string) (Weapon, error) {
	w := Weapon(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Weapons {
		if w == known {
			return w, nil
		}
	}
	return "", fmt.Errorf("unsupported weapon %q", s)
}

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

var Genders = []Gender{
	Male,
	Female,
}

func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Genders {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("unsupported gender %q", s)
}

// Rarity is the star count of a character.
type Rarity int

const (
	FourStar Rarity = 4
	FiveStar Rarity = 5
)

var Rarities = []Rarity{
	FourStar,
	FiveStar,
}

func ParseRarity(s string) (Rarity, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("unsupported rarity %q", s)
	}
	r := Rarity(n)
	for _, known := range Rarities {
		if r == known {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unsupported rarity %q", s)
}

func (r Rarity) String() string {
	return strconv.Itoa(int(r)) + "*"
}
