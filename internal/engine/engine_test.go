package engine

import (
	"testing"

	"mahjongd/internal/config"
	"mahjongd/internal/handanalyzer"
	"mahjongd/internal/roomstate"
	"mahjongd/internal/roomstore"
	"mahjongd/internal/tiles"
)

// fakeSink records every Emission so tests can assert on what the Engine
// told the Gateway to send, without needing a real transport.
type fakeSink struct {
	emissions []Emission
}

func (f *fakeSink) Emit(e Emission) { f.emissions = append(f.emissions, e) }

func (f *fakeSink) forPlayer(uuid string) []OutboundEvent {
	var out []OutboundEvent
	for _, e := range f.emissions {
		if e.Target.PlayerUUID == uuid {
			out = append(out, e.Event)
		}
	}
	return out
}

func (f *fakeSink) broadcastsToRoom(roomID string) []OutboundEvent {
	var out []OutboundEvent
	for _, e := range f.emissions {
		if e.Target.PlayerUUID == "" && e.Target.RoomID == roomID {
			out = append(out, e.Event)
		}
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		ClaimTimeoutMs: 5000,
		ClaimGraceMs:   2000,
		ClaimWatchdog:  false,
		RoomIDLength:   8,
	}
}

// newFourPlayerRoom seats four humans (mirroring four enter_game calls
// against the same room id) and returns the actor and Room ready for
// start_game.
func newFourPlayerRoom(t *testing.T) (*roomActor, *roomstate.Room, *fakeSink) {
	t.Helper()
	store := roomstore.New(8)
	roomID := store.SearchForRoom("p0")
	for _, uuid := range []string{"p0", "p1", "p2", "p3"} {
		if _, err := store.AddPlayer(roomID, uuid, uuid, false); err != nil {
			t.Fatalf("AddPlayer(%s): %v", uuid, err)
		}
	}
	sink := &fakeSink{}
	a := newRoomActor(roomID, store, testConfig(), sink)
	room, ok := store.GetRoom(roomID)
	if !ok {
		t.Fatal("room missing right after seating")
	}
	return a, room, sink
}

func hasEventType[T OutboundEvent](events []OutboundEvent) bool {
	for _, e := range events {
		if _, ok := e.(T); ok {
			return true
		}
	}
	return false
}

// Scenario 1 (spec.md §8): four-way join and dealer start.
func TestFourWayJoinAndDealerStart(t *testing.T) {
	a, room, sink := newFourPlayerRoom(t)
	a.process(StartGameEvent{base{UUID: "p0"}})

	if !room.InProgress {
		t.Fatal("expected room to be in progress after start_game")
	}
	if room.Players["p0"].State != roomstate.DiscardTile {
		t.Fatalf("expected dealer in DISCARD_TILE, got %s", room.Players["p0"].State)
	}
	for _, uuid := range []string{"p1", "p2", "p3"} {
		if room.Players[uuid].State != roomstate.NoAction {
			t.Fatalf("expected %s in NO_ACTION, got %s", uuid, room.Players[uuid].State)
		}
	}
	if len(room.Players["p0"].Hand) != 14 {
		t.Fatalf("expected dealer 14 tiles, got %d", len(room.Players["p0"].Hand))
	}
	for _, uuid := range []string{"p1", "p2", "p3"} {
		if len(room.Players[uuid].Hand) != 13 {
			t.Fatalf("expected %s 13 tiles, got %d", uuid, len(room.Players[uuid].Hand))
		}
	}
	if !hasEventType[UpdateTiles](sink.forPlayer("p0")) {
		t.Fatal("expected dealer to receive update_tiles")
	}
}

// Scenario 2 (spec.md §8): simple turn cycle, all three pass.
func TestSimpleTurnCyclePassThrough(t *testing.T) {
	a, room, sink := newFourPlayerRoom(t)
	a.process(StartGameEvent{base{UUID: "p0"}})

	discard := tiles.Tile{Suit: tiles.Character, Kind: 5}
	room.Players["p0"].Hand = append(room.Players["p0"].Hand[:13:13], discard)

	a.process(EndTurnEvent{base{UUID: "p0"}, discard})

	for _, uuid := range []string{"p1", "p2", "p3"} {
		if room.Players[uuid].State != roomstate.DeclareClaim {
			t.Fatalf("expected %s in DECLARE_CLAIM, got %s", uuid, room.Players[uuid].State)
		}
	}
	broadcasts := sink.broadcastsToRoom(room.ID)
	if !hasEventType[UpdateDiscardedTile](broadcasts) {
		t.Fatal("expected the discard to be broadcast")
	}

	for _, uuid := range []string{"p1", "p2", "p3"} {
		a.process(UpdateClaimStateEvent{base{UUID: uuid}, nil})
	}

	if room.Players["p1"].State != roomstate.DrawTile {
		t.Fatalf("expected seat 1 to draw next, got %s", room.Players["p1"].State)
	}
	if len(room.PastDiscards) != 1 || room.PastDiscards[0] != discard {
		t.Fatalf("expected the discard archived to pastDiscards, got %v", room.PastDiscards)
	}
	if room.CurrentDiscard != nil {
		t.Fatal("expected currentDiscard cleared once the turn advanced")
	}
}

// Scenario 3 (spec.md §8): chow is only legal for the seat right after the
// discarder; a farther seat's chow claim ranks zero.
func TestChowClaimRestrictedToNextSeat(t *testing.T) {
	a, room, _ := newFourPlayerRoom(t)
	a.process(StartGameEvent{base{UUID: "p0"}})

	discard := tiles.Tile{Suit: tiles.Bamboo, Kind: 4}
	chowPartners := []tiles.Tile{{Suit: tiles.Bamboo, Kind: 3}, {Suit: tiles.Bamboo, Kind: 5}}

	room.Players["p0"].Hand = append(room.Players["p0"].Hand[:13:13], discard)
	room.Players["p1"].Hand = append(room.Players["p1"].Hand[:11:11], chowPartners...)
	room.Players["p2"].Hand = append(room.Players["p2"].Hand[:11:11], chowPartners...)

	a.process(EndTurnEvent{base{UUID: "p0"}, discard})

	chow := handanalyzer.ClaimChow
	a.process(UpdateClaimStateEvent{base{UUID: "p1"}, &chow})
	a.process(UpdateClaimStateEvent{base{UUID: "p2"}, &chow})
	a.process(UpdateClaimStateEvent{base{UUID: "p3"}, nil})

	if room.Players["p1"].State != roomstate.RevealMeld {
		t.Fatalf("expected seat 1 (rel_pos 1) to win the chow, got state %s", room.Players["p1"].State)
	}
	if room.Players["p2"].State == roomstate.RevealMeld {
		t.Fatal("seat 2 (rel_pos 2) must not be allowed to chow")
	}
	if len(room.Players["p1"].ValidMeldSubsets) == 0 {
		t.Fatal("expected valid chow subsets for the winning claimant")
	}
}

// Scenario 4 (spec.md §8): WIN outranks PUNG, and among multiple WIN
// claimants the smallest rel_pos wins.
func TestWinBeatsPungWithPositionTiebreak(t *testing.T) {
	a, room, sink := newFourPlayerRoom(t)
	a.process(StartGameEvent{base{UUID: "p0"}})

	discard := tiles.Tile{Suit: tiles.Dragon, Kind: tiles.Red}
	winningHand := []tiles.Tile{
		{Suit: tiles.Character, Kind: 1}, {Suit: tiles.Character, Kind: 1}, {Suit: tiles.Character, Kind: 1},
		{Suit: tiles.Character, Kind: 2}, {Suit: tiles.Character, Kind: 2}, {Suit: tiles.Character, Kind: 2},
		{Suit: tiles.Character, Kind: 3}, {Suit: tiles.Character, Kind: 3}, {Suit: tiles.Character, Kind: 3},
		{Suit: tiles.Bamboo, Kind: 4}, {Suit: tiles.Bamboo, Kind: 4},
		{Suit: tiles.Dragon, Kind: tiles.Red}, {Suit: tiles.Dragon, Kind: tiles.Red},
	}

	room.Players["p0"].Hand = append(room.Players["p0"].Hand[:13:13], discard)
	room.Players["p1"].Hand = append([]tiles.Tile{}, winningHand...)
	room.Players["p3"].Hand = append([]tiles.Tile{}, winningHand...)
	room.Players["p2"].Hand = append(room.Players["p2"].Hand[:11:11],
		tiles.Tile{Suit: tiles.Dragon, Kind: tiles.Red}, tiles.Tile{Suit: tiles.Dragon, Kind: tiles.Red})

	a.process(EndTurnEvent{base{UUID: "p0"}, discard})

	win := handanalyzer.ClaimWin
	pung := handanalyzer.ClaimPung
	a.process(UpdateClaimStateEvent{base{UUID: "p1"}, &win})
	a.process(UpdateClaimStateEvent{base{UUID: "p2"}, &pung})
	a.process(UpdateClaimStateEvent{base{UUID: "p3"}, &win})

	if room.Players["p1"].State != roomstate.Win {
		t.Fatalf("expected seat 1 (rel_pos 1) to win over seat 3 (rel_pos 3), got %s", room.Players["p1"].State)
	}
	if room.Players["p3"].State != roomstate.Loss || room.Players["p2"].State != roomstate.Loss {
		t.Fatal("expected every non-winner to end in LOSS")
	}

	broadcasts := sink.broadcastsToRoom(room.ID)
	var endGame EndGame
	found := false
	for _, e := range broadcasts {
		if eg, ok := e.(EndGame); ok {
			endGame, found = eg, true
		}
	}
	if !found || endGame.WinnerUUID != "p1" {
		t.Fatalf("expected end_game naming seat 1 as winner, got %+v (found=%v)", endGame, found)
	}
}

// Scenario 5 (spec.md §8): completing a kong sends the player back to draw
// a replacement tile instead of discarding.
func TestKongCausesRedraw(t *testing.T) {
	a, room, _ := newFourPlayerRoom(t)
	a.process(StartGameEvent{base{UUID: "p0"}})

	kongTile := tiles.Tile{Suit: tiles.Dots, Kind: 7}
	hand := []tiles.Tile{
		{Suit: tiles.Character, Kind: 1}, {Suit: tiles.Character, Kind: 2}, {Suit: tiles.Character, Kind: 3},
		{Suit: tiles.Character, Kind: 4}, {Suit: tiles.Character, Kind: 5}, {Suit: tiles.Character, Kind: 6},
		{Suit: tiles.Character, Kind: 7}, {Suit: tiles.Character, Kind: 8}, {Suit: tiles.Character, Kind: 9},
		{Suit: tiles.Bamboo, Kind: 1},
		kongTile, kongTile, kongTile, kongTile,
	}
	room.Players["p0"].Hand = hand

	a.process(DeclareConcealedKongEvent{base{UUID: "p0"}})

	if room.Players["p0"].State != roomstate.DrawTile {
		t.Fatalf("expected DRAW_TILE after concealed kong, got %s", room.Players["p0"].State)
	}
	if len(room.Players["p0"].ConcealedKongs) != 1 {
		t.Fatalf("expected one recorded concealed kong, got %d", len(room.Players["p0"].ConcealedKongs))
	}

	wallBefore := room.Wall.Len()
	a.process(DrawTileEvent{base{UUID: "p0"}})
	if room.Wall.Len() != wallBefore-1 {
		t.Fatal("expected draw_tile to remove exactly one tile from the wall")
	}
	if room.Players["p0"].State != roomstate.DiscardTile {
		t.Fatalf("expected DISCARD_TILE after the replacement draw, got %s", room.Players["p0"].State)
	}
}

// Scenario 6 (spec.md §8): an emptied wall with no winner ends the hand in
// a draw for every seat.
func TestDrawGameOnEmptyWall(t *testing.T) {
	a, room, sink := newFourPlayerRoom(t)
	a.process(StartGameEvent{base{UUID: "p0"}})

	for room.Wall.Len() > 0 {
		room.Wall.Draw()
	}
	room.Players["p0"].State = roomstate.DrawTile

	a.process(DrawTileEvent{base{UUID: "p0"}})

	for _, uuid := range []string{"p0", "p1", "p2", "p3"} {
		if room.Players[uuid].State != roomstate.Draw {
			t.Fatalf("expected %s in DRAW, got %s", uuid, room.Players[uuid].State)
		}
	}
	if room.InProgress {
		t.Fatal("expected the room to be marked finished on a draw-game")
	}
	if !hasEventType[EndGame](sink.broadcastsToRoom(room.ID)) {
		t.Fatal("expected end_game to be broadcast on a draw-game")
	}
}

// TestRankClaimChowDisallowedIsZero is the invariant from spec.md §8 restated
// directly against the Hand Analyzer entry point the arbitrator calls.
func TestRankClaimChowDisallowedIsZero(t *testing.T) {
	hand := []tiles.Tile{{Suit: tiles.Bamboo, Kind: 3}, {Suit: tiles.Bamboo, Kind: 5}}
	discard := tiles.Tile{Suit: tiles.Bamboo, Kind: 4}
	if rank := handanalyzer.RankClaim(hand, discard, handanalyzer.ClaimChow, 0, false); rank != 0 {
		t.Fatalf("expected rank 0 when chow is disallowed, got %d", rank)
	}
}

// TestClaimTimeoutSynthesizesPasses covers the optional watchdog path
// (spec.md §4.D, §9): a seat that never answers is treated as a pass once
// the window's synthetic timeout fires.
func TestClaimTimeoutSynthesizesPasses(t *testing.T) {
	a, room, _ := newFourPlayerRoom(t)
	a.process(StartGameEvent{base{UUID: "p0"}})

	discard := tiles.Tile{Suit: tiles.Character, Kind: 5}
	room.Players["p0"].Hand = append(room.Players["p0"].Hand[:13:13], discard)
	a.process(EndTurnEvent{base{UUID: "p0"}, discard})

	a.process(claimTimeoutEvent{base: base{UUID: "p0"}})

	if room.Players["p1"].State != roomstate.DrawTile {
		t.Fatalf("expected the watchdog timeout to advance the turn, got seat1=%s", room.Players["p1"].State)
	}
}
