package handanalyzer

import (
	"sort"

	"mahjongd/internal/tiles"
)

// numericSuitOrder fixes the iteration order across numeric suits so the
// single shared pair candidate is tried deterministically — the Go
// equivalent of the original's NUMERIC_SUITS constant tuple.
var numericSuitOrder = [3]tiles.Suit{tiles.Bamboo, tiles.Dots, tiles.Character}

// noPairKey is the sentinel "don't consume a pair" argument to resolveMelds,
// standing in for Python's pair_key=None.
const noPairKey = 0

// CanMeldConcealedHand is the central winning-hand recognizer. It returns
// true iff tiles can be partitioned into exactly targetSets melds (each a
// pung or chow) plus exactly one pair; honor tiles may not appear in chows
// (spec.md §4.B).
//
// Ported from original_source/mahjong_rules.py's can_meld_concealed_hand.
// One deliberate change from the source: Python's resolve_melds/
// resolve_chows/resolve_pongs overload 0 as both "resolved with zero melds"
// and "failed to resolve" — every resolution step here instead returns
// (int, bool) so failure and a legitimate zero-meld resolution can never be
// confused (see DESIGN.md).
func CanMeldConcealedHand(all []tiles.Tile, targetSets int) bool {
	honorCounts, numericCounts := splitByFamily(all)

	setCount := 0
	pairUsed := false
	for _, count := range honorCounts {
		switch {
		case count == 3:
			setCount++
		case count == 2 && !pairUsed:
			pairUsed = true
		default:
			return false
		}
	}

	for _, suit := range numericSuitOrder {
		counter := numericCounts[suit]
		if len(counter) == 0 {
			continue
		}

		if count, ok := resolveMelds(cloneCounts(counter), noPairKey); ok {
			setCount += count
			continue
		}

		if pairUsed {
			return false
		}

		resolved := false
		for _, kind := range sortedPairCandidates(counter) {
			if len(counter) == 1 && counter[kind] == 2 {
				pairUsed = true
				resolved = true
				break
			}
			if count, ok := resolveMelds(cloneCounts(counter), kind); ok {
				setCount += count
				pairUsed = true
				resolved = true
				break
			}
		}
		if !resolved {
			return false
		}
	}

	return pairUsed && setCount == targetSets
}

func splitByFamily(all []tiles.Tile) (honorCounts map[tiles.Tile]int, numericCounts map[tiles.Suit]map[int]int) {
	honorCounts = make(map[tiles.Tile]int)
	numericCounts = map[tiles.Suit]map[int]int{
		tiles.Bamboo:    {},
		tiles.Dots:      {},
		tiles.Character: {},
	}
	for _, t := range all {
		switch {
		case t.Suit.IsHonor():
			honorCounts[t]++
		case t.Suit.IsNumeric():
			numericCounts[t.Suit][t.Kind]++
		}
	}
	return honorCounts, numericCounts
}

func cloneCounts(counter map[int]int) map[int]int {
	out := make(map[int]int, len(counter))
	for k, v := range counter {
		out[k] = v
	}
	return out
}

func sortedPairCandidates(counter map[int]int) []int {
	var kinds []int
	for kind, count := range counter {
		if count >= 2 {
			kinds = append(kinds, kind)
		}
	}
	sort.Ints(kinds)
	return kinds
}

// resolveMelds consumes pairKey (if not noPairKey) from counter, then tries
// to resolve the remainder as chows followed by pungs. It reports the melds
// formed and whether the whole counter was consumed cleanly.
func resolveMelds(counter map[int]int, pairKey int) (int, bool) {
	if pairKey != noPairKey {
		counter[pairKey] -= 2
		if counter[pairKey] <= 0 {
			delete(counter, pairKey)
		}
	}

	chowCount, ok := resolveChows(counter)
	if !ok {
		return 0, false
	}
	if len(counter) == 0 {
		return chowCount, true
	}

	pongCount, ok := resolvePongs(counter)
	if !ok {
		return 0, false
	}
	if len(counter) != 0 {
		return 0, false
	}
	return chowCount + pongCount, true
}

// resolveChows scans kinds 1..7 in order: at each kind i, a count of
// {1,2,4} forces a chow (i,i+1,i+2) — fails if any of those three is
// missing. A count of 0 or 3 advances without forcing anything (spec.md
// §4.B step 4).
func resolveChows(counter map[int]int) (int, bool) {
	setCount := 0
	i := 1
	for i <= 7 && len(counter) > 0 {
		count, present := counter[i]
		if !present || (count != 1 && count != 2 && count != 4) {
			i++
			continue
		}
		if _, ok := counter[i+1]; !ok {
			return 0, false
		}
		if _, ok := counter[i+2]; !ok {
			return 0, false
		}
		setCount++
		for _, kind := range [3]int{i, i + 1, i + 2} {
			counter[kind]--
			if counter[kind] <= 0 {
				delete(counter, kind)
			}
		}
	}
	return setCount, true
}

// resolvePongs requires every remaining kind to have a count of exactly 3;
// any other residue is a failure (spec.md §4.B step 5). Consumed kinds are
// deleted so callers can use len(counter) == 0 to confirm nothing is left
// over.
func resolvePongs(counter map[int]int) (int, bool) {
	setCount := 0
	for kind, count := range counter {
		if count != 3 {
			return 0, false
		}
		setCount++
		delete(counter, kind)
	}
	return setCount, true
}
