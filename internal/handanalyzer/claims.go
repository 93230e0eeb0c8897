package handanalyzer

import "mahjongd/internal/tiles"

func tileCount(hand []tiles.Tile, t tiles.Tile) int {
	count := 0
	for _, h := range hand {
		if h == t {
			count++
		}
	}
	return count
}

// CanMeldPung is true iff hand contains at least 2 tiles equal to discard
// (spec.md §4.B).
func CanMeldPung(hand []tiles.Tile, discard tiles.Tile) bool {
	return tileCount(hand, discard) >= 2
}

// CanMeldKong is true iff hand contains at least 3 tiles equal to discard
// (spec.md §4.B).
func CanMeldKong(hand []tiles.Tile, discard tiles.Tile) bool {
	return tileCount(hand, discard) >= 3
}

// chowOffsetPairs are the three ways a discard can anchor a chow: as the
// low, middle, or high tile of the run (original's get_all_chow_subsets).
var chowOffsetPairs = [3][2]int{{-2, -1}, {-1, 1}, {1, 2}}

// chowPartners returns, for each legal offset pair present in hand, the two
// hand tiles (ascending by kind) that complete a chow with discard.
func chowPartners(hand []tiles.Tile, discard tiles.Tile) [][2]tiles.Tile {
	if !discard.Suit.IsNumeric() {
		return nil
	}
	present := make(map[tiles.Tile]bool, len(hand))
	for _, t := range hand {
		present[t] = true
	}

	var out [][2]tiles.Tile
	for _, offsets := range chowOffsetPairs {
		k1, k2 := discard.Kind+offsets[0], discard.Kind+offsets[1]
		if k1 < 1 || k1 > 9 || k2 < 1 || k2 > 9 {
			continue
		}
		t1 := tiles.Tile{Suit: discard.Suit, Kind: k1}
		t2 := tiles.Tile{Suit: discard.Suit, Kind: k2}
		if present[t1] && present[t2] {
			if t1.Kind > t2.Kind {
				t1, t2 = t2, t1
			}
			out = append(out, [2]tiles.Tile{t1, t2})
		}
	}
	return out
}

// CanMeldChow is true iff discard is numeric and hand holds at least one of
// the three legal adjacent-pair combinations that complete a chow with it
// (spec.md §4.B).
func CanMeldChow(hand []tiles.Tile, discard tiles.Tile) bool {
	return len(chowPartners(hand, discard)) > 0
}

// ValidSubsetsForMeld returns the concrete hand-tile subsets a claimant can
// use to complete the meld, for UI disambiguation of chows (spec.md §4.B).
// PUNG and KONG each have exactly one subset (the discard repeated); CHOW has
// one subset per legal adjacent pair.
func ValidSubsetsForMeld(hand []tiles.Tile, discard tiles.Tile, claim ClaimType) [][]tiles.Tile {
	switch claim {
	case ClaimPung:
		return [][]tiles.Tile{{discard, discard}}
	case ClaimKong:
		return [][]tiles.Tile{{discard, discard, discard}}
	case ClaimChow:
		pairs := chowPartners(hand, discard)
		out := make([][]tiles.Tile, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, []tiles.Tile{p[0], p[1]})
		}
		return out
	default:
		return nil
	}
}

// RankClaim returns the claim-arbitration priority for meldType against
// discard: WIN=3, PUNG/KONG=2, CHOW=1 (only when isChowAllowed), else 0
// (spec.md §4.B, §4.D).
func RankClaim(hand []tiles.Tile, discard tiles.Tile, claim ClaimType, revealedMeldsCount int, isChowAllowed bool) int {
	switch claim {
	case ClaimWin:
		withDiscard := append(append([]tiles.Tile{}, hand...), discard)
		targetSets := SetsNeededToWin - revealedMeldsCount
		if CanMeldConcealedHand(withDiscard, targetSets) {
			return 3
		}
	case ClaimPung:
		if CanMeldPung(hand, discard) {
			return 2
		}
	case ClaimKong:
		if CanMeldKong(hand, discard) {
			return 2
		}
	case ClaimChow:
		if isChowAllowed && CanMeldChow(hand, discard) {
			return 1
		}
	}
	return 0
}
