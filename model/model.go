package model

import "time"

// Player is the wire and storage shape of a roster: a unique name and the
// ordered catalog ids the player owns.
type Player struct {
	Name       string   `json:"name"`
	Characters []string `json:"characters"`
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	cs := make([]string, len(p.Characters))
	copy(cs, p.Characters)
	return Player{
		Name:       p.Name,
		Characters: cs,
	}
}

// Document is a whole JSON document stored under a key by the sql backends.
type Document struct {
	Key       string `gorm:"primaryKey"`
	Body      string
	UpdatedAt time.Time
}
