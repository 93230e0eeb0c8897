// Package gateway is the Client Gateway (spec.md §4.E): it terminates
// websocket connections, decodes named JSON events into internal/engine
// GameEvents, and encodes the Engine's OutboundEvents back onto the wire.
// Grounded on runtime/conn/worker.go's bucketed-connection shape, adapted
// from its NATS-routed multi-node topology to a single in-process
// engine.Manager, and on original_source/server.py's event names and
// payload shapes (the logical contract spec.md §6 distills from it).
package gateway

import (
	"fmt"

	"mahjongd/internal/handanalyzer"
	"mahjongd/internal/tiles"
)

// tileWire is the wire shape of a tile: original_source/server.py's
// {'suit': ..., 'type': ...} dict, renamed to match spec.md's glossary.
type tileWire struct {
	Suit string `json:"suit"`
	Kind int    `json:"kind"`
}

var suitNames = map[string]tiles.Suit{
	"bamboo":    tiles.Bamboo,
	"dots":      tiles.Dots,
	"character": tiles.Character,
	"wind":      tiles.Wind,
	"dragon":    tiles.Dragon,
	"flower":    tiles.Flower,
	"season":    tiles.Season,
}

func encodeTile(t tiles.Tile) tileWire {
	return tileWire{Suit: t.Suit.String(), Kind: t.Kind}
}

func encodeTiles(ts []tiles.Tile) []tileWire {
	out := make([]tileWire, len(ts))
	for i, t := range ts {
		out[i] = encodeTile(t)
	}
	return out
}

func encodeTileSets(sets [][]tiles.Tile) [][]tileWire {
	out := make([][]tileWire, len(sets))
	for i, s := range sets {
		out[i] = encodeTiles(s)
	}
	return out
}

func decodeTile(w tileWire) (tiles.Tile, error) {
	suit, ok := suitNames[w.Suit]
	if !ok {
		return tiles.Tile{}, fmt.Errorf("unknown suit %q", w.Suit)
	}
	return tiles.Tile{Suit: suit, Kind: w.Kind}, nil
}

func decodeTiles(ws []tileWire) ([]tiles.Tile, error) {
	out := make([]tiles.Tile, len(ws))
	for i, w := range ws {
		t, err := decodeTile(w)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// meldWire is the wire shape of a decomposed or revealed meld.
type meldWire struct {
	Kind  string     `json:"kind"`
	Tiles []tileWire `json:"tiles"`
}

func encodeMeld(m handanalyzer.Meld) meldWire {
	return meldWire{Kind: m.Kind.String(), Tiles: encodeTiles(m.Tiles)}
}

func encodeMelds(ms []handanalyzer.Meld) []meldWire {
	out := make([]meldWire, len(ms))
	for i, m := range ms {
		out[i] = encodeMeld(m)
	}
	return out
}

var claimTypeNames = map[string]handanalyzer.ClaimType{
	"CHOW": handanalyzer.ClaimChow,
	"PUNG": handanalyzer.ClaimPung,
	"KONG": handanalyzer.ClaimKong,
	"WIN":  handanalyzer.ClaimWin,
}

func decodeClaimType(s string) (handanalyzer.ClaimType, error) {
	c, ok := claimTypeNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown claim type %q", s)
	}
	return c, nil
}
