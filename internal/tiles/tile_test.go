package tiles

import "testing"

func TestTileEquality(t *testing.T) {
	a := Tile{Suit: Bamboo, Kind: 5}
	b := Tile{Suit: Bamboo, Kind: 5}
	c := Tile{Suit: Dots, Kind: 5}
	if a != b {
		t.Fatalf("expected %v == %v", a, b)
	}
	if a == c {
		t.Fatalf("expected %v != %v", a, c)
	}
}

func TestSortTiles(t *testing.T) {
	hand := []Tile{
		{Suit: Dots, Kind: 3},
		{Suit: Bamboo, Kind: 9},
		{Suit: Bamboo, Kind: 1},
		{Suit: Wind, Kind: East},
	}
	SortTiles(hand)
	want := []Tile{
		{Suit: Bamboo, Kind: 1},
		{Suit: Bamboo, Kind: 9},
		{Suit: Dots, Kind: 3},
		{Suit: Wind, Kind: East},
	}
	for i := range want {
		if hand[i] != want[i] {
			t.Fatalf("sorted hand mismatch at %d: got %v, want %v", i, hand[i], want[i])
		}
	}
}

func TestNumericAndHonorSuits(t *testing.T) {
	if !Bamboo.IsNumeric() || !Dots.IsNumeric() || !Character.IsNumeric() {
		t.Fatalf("expected bamboo/dots/character to be numeric")
	}
	if !Wind.IsHonor() || !Dragon.IsHonor() {
		t.Fatalf("expected wind/dragon to be honor suits")
	}
	if Bamboo.IsHonor() || Wind.IsNumeric() {
		t.Fatalf("numeric/honor classification overlaps incorrectly")
	}
}
