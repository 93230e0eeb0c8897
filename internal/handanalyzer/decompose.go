package handanalyzer

import "mahjongd/internal/tiles"

// numItem is one (suit, kind) bucket with its remaining tile count, used by
// the backtracking decomposer below.
type numItem struct {
	suit  tiles.Suit
	kind  int
	count int
}

// DecomposeWinningHand returns an explicit list of melds (plus pair) for a
// winning hand, used at end-of-game display (spec.md §4.B). Search order:
// honor triples and pair first (consumed greedily, as in recognition), then
// a backtracking enumeration over the remaining numeric tiles trying (pair,
// pung, chow) in that order at the smallest remaining kind. Any complete
// decomposition is acceptable — ties are not broken (point scoring is a
// non-goal).
//
// Ported from original_source/mahjong_rules.py's get_melds/make_melds. The
// source's make_melds has a Python syntax bug in its pair/pung branches
// (`tuple(t[0], t[1] - 2)`, which tuple() cannot accept); this port
// implements the evidently intended semantics — a reduced-count candidate —
// directly, rather than reproducing that bug (see DESIGN.md).
func DecomposeWinningHand(all []tiles.Tile, targetSets int) ([]Meld, bool) {
	honorCounts, numericCounts := splitByFamily(all)

	var melds []Meld
	var pair *Meld
	for t, count := range honorCounts {
		switch {
		case count == 3:
			melds = append(melds, Meld{Kind: Pung, Tiles: repeatTile(t, 3)})
		case count == 2:
			if pair != nil {
				return nil, false
			}
			p := Meld{Kind: Pair, Tiles: repeatTile(t, 2)}
			pair = &p
		default:
			return nil, false
		}
	}

	var items []numItem
	for _, suit := range numericSuitOrder {
		for kind := 1; kind <= 9; kind++ {
			if count := numericCounts[suit][kind]; count > 0 {
				items = append(items, numItem{suit: suit, kind: kind, count: count})
			}
		}
	}

	pairsLeft := 0
	if pair == nil {
		pairsLeft = 1
	}

	numericMelds, ok := decomposeNumeric(items, pairsLeft)
	if !ok {
		return nil, false
	}
	for _, m := range numericMelds {
		if m.Kind == Pair {
			if pair != nil {
				return nil, false
			}
			found := m
			pair = &found
			continue
		}
		melds = append(melds, m)
	}

	if pair == nil || len(melds) != targetSets {
		return nil, false
	}
	melds = append(melds, *pair)
	return melds, true
}

// decomposeNumeric backtracks over items (sorted by suit, then kind),
// trying pair, pung, then chow at the head of the list, exactly the order
// spec.md §4.B prescribes. It returns the first complete decomposition
// found, since any valid one is acceptable.
func decomposeNumeric(items []numItem, pairsLeft int) ([]Meld, bool) {
	if len(items) == 0 {
		return nil, true
	}

	head := items[0]
	rest := items[1:]

	if pairsLeft > 0 && head.count >= 2 {
		if sub, ok := decomposeNumeric(reduceHead(head, 2, rest), pairsLeft-1); ok {
			pairMeld := Meld{Kind: Pair, Tiles: repeatTile(tiles.Tile{Suit: head.suit, Kind: head.kind}, 2)}
			return append([]Meld{pairMeld}, sub...), true
		}
	}

	if head.count >= 3 {
		if sub, ok := decomposeNumeric(reduceHead(head, 3, rest), pairsLeft); ok {
			pungMeld := Meld{Kind: Pung, Tiles: repeatTile(tiles.Tile{Suit: head.suit, Kind: head.kind}, 3)}
			return append([]Meld{pungMeld}, sub...), true
		}
	}

	if len(items) >= 3 {
		a, b, c := items[0], items[1], items[2]
		if a.suit == b.suit && b.suit == c.suit && b.kind == a.kind+1 && c.kind == a.kind+2 {
			if sub, ok := decomposeNumeric(consumeChow(items[:3], items[3:]), pairsLeft); ok {
				chowMeld := Meld{Kind: Chow, Tiles: []tiles.Tile{
					{Suit: a.suit, Kind: a.kind},
					{Suit: b.suit, Kind: b.kind},
					{Suit: c.suit, Kind: c.kind},
				}}
				return append([]Meld{chowMeld}, sub...), true
			}
		}
	}

	return nil, false
}

func reduceHead(head numItem, n int, rest []numItem) []numItem {
	if head.count == n {
		return rest
	}
	out := make([]numItem, 0, len(rest)+1)
	out = append(out, numItem{suit: head.suit, kind: head.kind, count: head.count - n})
	out = append(out, rest...)
	return out
}

func consumeChow(three []numItem, tail []numItem) []numItem {
	out := make([]numItem, 0, len(tail)+3)
	for _, it := range three {
		if it.count > 1 {
			out = append(out, numItem{suit: it.suit, kind: it.kind, count: it.count - 1})
		}
	}
	out = append(out, tail...)
	return out
}
