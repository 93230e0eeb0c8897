package tiles

import "math/rand"

// suitSet describes one family of tiles to enumerate when building a wall.
type suitSet struct {
	suit         Suit
	kinds        []int
	multiplicity int
}

func standardSets() []suitSet {
	numeric := make([]int, 9)
	for i := range numeric {
		numeric[i] = i + 1
	}
	return []suitSet{
		{Bamboo, numeric, 4},
		{Dots, numeric, 4},
		{Character, numeric, 4},
		{Wind, []int{East, South, West, North}, 4},
		{Dragon, []int{Red, Green, White}, 4},
	}
}

func bonusSets() []suitSet {
	return []suitSet{
		{Flower, []int{1, 2, 3, 4}, 1},
		{Season, []int{1, 2, 3, 4}, 1},
	}
}

// Wall is an ordered sequence of tiles. Deal removes from the tail;
// exhaustion triggers a draw-game (spec.md §3 "Wall", §4.D advance_turn).
type Wall struct {
	tiles []Tile
}

// BuildWall enumerates the configured tile sets and shuffles them with an
// unbiased in-place Fisher-Yates shuffle (spec.md §4.A). rng is injected so
// tests can supply a deterministic source, generalizing
// material.go's DeckManager, which always seeds from time.Now().
func BuildWall(includeBonus bool, rng *rand.Rand) *Wall {
	sets := standardSets()
	if includeBonus {
		sets = append(sets, bonusSets()...)
	}

	var all []Tile
	for _, set := range sets {
		for i := 0; i < set.multiplicity; i++ {
			for _, kind := range set.kinds {
				all = append(all, Tile{Suit: set.suit, Kind: kind})
			}
		}
	}

	for i := len(all) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		all[i], all[j] = all[j], all[i]
	}

	return &Wall{tiles: all}
}

// Len reports the number of tiles remaining in the wall.
func (w *Wall) Len() int { return len(w.tiles) }

// Draw removes and returns the tile at the tail of the wall. The second
// return value is false when the wall is already exhausted.
func (w *Wall) Draw() (Tile, bool) {
	if len(w.tiles) == 0 {
		return Tile{}, false
	}
	last := len(w.tiles) - 1
	t := w.tiles[last]
	w.tiles = w.tiles[:last]
	return t, true
}

// Deal distributes the opening hands for seatCount seats: seat 0 (the
// dealer) receives 14 tiles and discards first, the rest receive 13 (spec.md
// §4.A). Each returned hand is sorted by (suit, kind).
func Deal(w *Wall, seatCount int) ([][]Tile, bool) {
	hands := make([][]Tile, seatCount)
	for seat := 0; seat < seatCount; seat++ {
		count := 13
		if seat == 0 {
			count = 14
		}
		hand := make([]Tile, 0, count)
		for i := 0; i < count; i++ {
			t, ok := w.Draw()
			if !ok {
				return nil, false
			}
			hand = append(hand, t)
		}
		SortTiles(hand)
		hands[seat] = hand
	}
	return hands, true
}
