// Package tiles defines tile identity and the draw wall for a room.
package tiles

import (
	"fmt"
	"sort"
)

// Suit identifies which family a tile's kind is drawn from.
type Suit int

const (
	Bamboo Suit = iota
	Dots
	Character
	Wind
	Dragon
	Flower
	Season
)

func (s Suit) String() string {
	switch s {
	case Bamboo:
		return "bamboo"
	case Dots:
		return "dots"
	case Character:
		return "character"
	case Wind:
		return "wind"
	case Dragon:
		return "dragon"
	case Flower:
		return "flower"
	case Season:
		return "season"
	default:
		return "unknown"
	}
}

// Wind kinds.
const (
	East = 1 + iota
	South
	West
	North
)

// Dragon kinds.
const (
	Red = 1 + iota
	Green
	White
)

// NumericSuits are the suits that carry kinds 1..9 and participate in chows.
var NumericSuits = map[Suit]bool{Bamboo: true, Dots: true, Character: true}

// HonorSuits are the suits that may only form pungs, kongs, or a pair.
var HonorSuits = map[Suit]bool{Wind: true, Dragon: true}

// IsNumeric reports whether s is one of NumericSuits.
func (s Suit) IsNumeric() bool { return NumericSuits[s] }

// IsHonor reports whether s is one of HonorSuits.
func (s Suit) IsHonor() bool { return HonorSuits[s] }

// Tile is (suit, kind). Two tiles compare equal iff both fields match —
// there is no per-copy identity (no red-fives, no dora: spec.md §1 Non-goals).
type Tile struct {
	Suit Suit
	Kind int
}

func (t Tile) String() string {
	return fmt.Sprintf("%s-%d", t.Suit, t.Kind)
}

// Less gives the (suit, kind) order hands are sorted by.
func (t Tile) Less(other Tile) bool {
	if t.Suit != other.Suit {
		return t.Suit < other.Suit
	}
	return t.Kind < other.Kind
}

// SortTiles sorts a hand in place by (suit, kind), the order §3 requires.
func SortTiles(hand []Tile) {
	sort.Slice(hand, func(i, j int) bool { return hand[i].Less(hand[j]) })
}
