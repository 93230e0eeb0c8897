// Package handanalyzer implements the pure winning-hand recognizer: the
// functions that classify tile sets against meld targets (chow/pung/kong/
// win) and reconstruct a concrete meld decomposition of a winning hand
// (spec.md §4.B). Every exported function here is pure and side-effect
// free, and safe to call from any goroutine (spec.md §5).
package handanalyzer

import "mahjongd/internal/tiles"

// SetsNeededToWin is the number of melds (plus one pair) a standard hand
// needs to complete — the original's SETS_NEEDED_TO_WIN constant.
const SetsNeededToWin = 4

// ClaimType is the kind of meld a claimant is declaring against a discard.
type ClaimType int

const (
	ClaimChow ClaimType = iota
	ClaimPung
	ClaimKong
	ClaimWin
)

func (c ClaimType) String() string {
	switch c {
	case ClaimChow:
		return "CHOW"
	case ClaimPung:
		return "PUNG"
	case ClaimKong:
		return "KONG"
	case ClaimWin:
		return "WIN"
	default:
		return "UNKNOWN"
	}
}

// MeldKind identifies the shape of a decomposed meld. Pair is only produced
// by DecomposeWinningHand, never offered as a claim type.
type MeldKind int

const (
	Chow MeldKind = iota
	Pung
	Kong
	Pair
)

func (k MeldKind) String() string {
	switch k {
	case Chow:
		return "CHOW"
	case Pung:
		return "PUNG"
	case Kong:
		return "KONG"
	case Pair:
		return "PAIR"
	default:
		return "UNKNOWN"
	}
}

// Meld is a sorted group of identical-suit tiles: a triplet/quadruplet for
// pung/kong, three consecutive kinds for chow, or a pair.
type Meld struct {
	Kind  MeldKind
	Tiles []tiles.Tile
}

func repeatTile(t tiles.Tile, n int) []tiles.Tile {
	out := make([]tiles.Tile, n)
	for i := range out {
		out[i] = t
	}
	return out
}
