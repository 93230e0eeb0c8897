package tiles

import (
	"math/rand"
	"testing"
)

func countByTile(all []Tile) map[Tile]int {
	counts := make(map[Tile]int)
	for _, t := range all {
		counts[t]++
	}
	return counts
}

func TestBuildWallStandardCount(t *testing.T) {
	w := BuildWall(false, rand.New(rand.NewSource(1)))
	if w.Len() != 136 {
		t.Fatalf("expected 136 tiles without bonus, got %d", w.Len())
	}
}

func TestBuildWallWithBonusCount(t *testing.T) {
	w := BuildWall(true, rand.New(rand.NewSource(1)))
	if w.Len() != 144 {
		t.Fatalf("expected 144 tiles with bonus, got %d", w.Len())
	}
}

func TestBuildWallMultiplicity(t *testing.T) {
	w := BuildWall(false, rand.New(rand.NewSource(2)))
	var all []Tile
	for {
		tl, ok := w.Draw()
		if !ok {
			break
		}
		all = append(all, tl)
	}
	for tile, count := range countByTile(all) {
		if count != 4 {
			t.Fatalf("expected multiplicity 4 for %v, got %d", tile, count)
		}
	}
}

func TestDealOpeningHands(t *testing.T) {
	w := BuildWall(false, rand.New(rand.NewSource(3)))
	hands, ok := Deal(w, 4)
	if !ok {
		t.Fatalf("expected deal to succeed from a full wall")
	}
	if len(hands[0]) != 14 {
		t.Fatalf("expected dealer to hold 14 tiles, got %d", len(hands[0]))
	}
	for seat := 1; seat < 4; seat++ {
		if len(hands[seat]) != 13 {
			t.Fatalf("expected seat %d to hold 13 tiles, got %d", seat, len(hands[seat]))
		}
	}
	if w.Len() != 136-14-13*3 {
		t.Fatalf("expected remaining wall to reflect the deal, got %d", w.Len())
	}
}

func TestDealFailsOnShortWall(t *testing.T) {
	w := BuildWall(false, rand.New(rand.NewSource(4)))
	for i := 0; i < 130; i++ {
		w.Draw()
	}
	if _, ok := Deal(w, 4); ok {
		t.Fatalf("expected deal to fail when the wall cannot supply 53 tiles")
	}
}
