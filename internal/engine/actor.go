package engine

import (
	"math/rand"
	"time"

	"mahjongd/internal/ai"
	"mahjongd/internal/config"
	"mahjongd/internal/handanalyzer"
	"mahjongd/internal/logging"
	"mahjongd/internal/roomstate"
	"mahjongd/internal/roomstore"
	"mahjongd/internal/tiles"
)

// roomActor is the single goroutine that owns one Room's turn order. Every
// GameEvent for this room is funneled through mailbox and drained by run,
// so a mutation plus the outbound events it produces are atomic with
// respect to every other event aimed at the same room — the mailbox
// shape runtime/game/engines/mahjong/riichi_mahjong_4p_engine.go uses
// (actorLoop/NotifyEvent/processEvent), adapted from a prototype-cloned
// multi-game registry down to this spec's single fixed game.
type roomActor struct {
	roomID string
	store  *roomstore.Store
	cfg    *config.Config
	sink   OutboundSink
	onIdle func(roomID string)

	mailbox chan GameEvent
	rng     *rand.Rand

	watchdog claimWatchdog
	// claimTile is the discard the open claim window is arbitrating. It is
	// captured at window-open time because arbitrate clears
	// Room.CurrentDiscard the moment it hands a claimant to REVEAL_MELD
	// (spec.md §4.D transition table), but complete_new_meld still needs
	// the tile to build the finished meld.
	claimTile  tiles.Tile
	claimOrder []string
}

func newRoomActor(roomID string, store *roomstore.Store, cfg *config.Config, sink OutboundSink) *roomActor {
	return &roomActor{
		roomID:  roomID,
		store:   store,
		cfg:     cfg,
		sink:    sink,
		mailbox: make(chan GameEvent, 64),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (a *roomActor) enqueue(ev GameEvent) {
	a.mailbox <- ev
}

func (a *roomActor) run() {
	for ev := range a.mailbox {
		a.process(ev)
	}
}

func (a *roomActor) stop() {
	close(a.mailbox)
}

func (a *roomActor) emit(target Target, ev OutboundEvent) {
	a.sink.Emit(Emission{Target: target, Event: ev})
}

func (a *roomActor) unicast(uuid string, ev OutboundEvent) {
	a.emit(Target{PlayerUUID: uuid}, ev)
}

func (a *roomActor) broadcast(ev OutboundEvent) {
	a.emit(Target{RoomID: a.roomID}, ev)
}

// process dispatches one inbound event to its handler. Illegal-in-state and
// unknown-identity events are dropped with a log line, never an error
// response to the client (spec.md §7, taxonomy points 2-3).
func (a *roomActor) process(ev GameEvent) {
	room, ok := a.store.GetRoom(a.roomID)
	if !ok {
		logging.Warn("engine: event %s for vanished room %s", ev.EventType(), a.roomID)
		return
	}

	switch e := ev.(type) {
	case ReadyEvent:
		// Handled ahead of the actor by the Gateway's session bootstrap;
		// nothing room-scoped to do once a room already exists.
	case RejoinGameEvent:
		a.handleRejoin(room, e.UUID)
	case ReemitEventsEvent:
		a.handleReemit(room, e.UUID)
	case StartGameEvent:
		a.handleStartGame(room, e.UUID)
	case DrawTileEvent:
		a.handleDrawTile(room, e.UUID)
	case EndTurnEvent:
		a.handleEndTurn(room, e.UUID, e.DiscardedTile)
	case DeclareClaimStartEvent:
		a.handleDeclareClaimStart(room, e.UUID, e.StartTimeUnixMs)
	case UpdateClaimStateEvent:
		a.handleUpdateClaimState(room, e.UUID, e.DeclaredMeld)
	case CompleteNewMeldEvent:
		a.handleCompleteNewMeld(room, e.UUID, e.NewMeld)
	case DeclareConcealedKongEvent:
		a.handleDeclareConcealedKong(room, e.UUID)
	case DeclareWinEvent:
		a.handleDeclareWin(room, e.UUID)
	case TextMessageEvent:
		a.handleTextMessage(room, e.UUID, e.Message)
	case LeaveGameEvent:
		a.handleLeaveGame(room, e.UUID)
	case claimTimeoutEvent:
		a.handleClaimTimeout(room)
	default:
		logging.Warn("engine: unhandled event type %s", ev.EventType())
	}
}

func isActiveState(s roomstate.PlayerState) bool {
	return s == roomstate.DrawTile || s == roomstate.DiscardTile || s == roomstate.RevealMeld
}

// --- start_game -------------------------------------------------------

// handleStartGame fills any empty seats with AI (spec.md §9 "AI players"),
// builds and deals the wall, and opens the dealer's turn. Only the host may
// trigger it, and not while a game is already in progress.
func (a *roomActor) handleStartGame(room *roomstate.Room, uuid string) {
	host := room.Players[uuid]
	if host == nil || !host.IsHost {
		logging.Warn("engine: start_game from non-host %s in room %s", uuid, a.roomID)
		return
	}
	if room.InProgress {
		return
	}

	for seat := len(room.Seats); seat < 4; seat++ {
		if _, err := a.store.AddPlayer(a.roomID, ai.Username(seat), ai.UUID(a.roomID, seat), true); err != nil {
			logging.Error("engine: failed to seat AI for room %s: %v", a.roomID, err)
			return
		}
	}

	wall := tiles.BuildWall(a.cfg.IncludeBonus, a.rng)
	hands, ok := tiles.Deal(wall, len(room.Seats))
	if !ok {
		logging.Error("engine: room %s could not deal a fresh wall (invariant violation)", a.roomID)
		return
	}

	room.Wall = wall
	room.CurrentSeat = 0
	room.InProgress = true
	room.PastDiscards = nil
	room.CurrentDiscard = nil

	for seat, seatUUID := range room.Seats {
		p := room.Players[seatUUID]
		p.Hand = hands[seat]
		if seat == 0 {
			p.State = roomstate.DiscardTile
		} else {
			p.State = roomstate.NoAction
		}
		a.unicast(seatUUID, UpdateTiles{Hand: append([]tiles.Tile{}, p.Hand...)})
		a.unicast(seatUUID, UpdateCurrentState{State: p.State})
	}
	a.emitOpponents(room)
	a.driveAI(room)
}

// --- draw_tile ----------------------------------------------------------

func (a *roomActor) handleDrawTile(room *roomstate.Room, uuid string) {
	p := room.Players[uuid]
	if p == nil || p.State != roomstate.DrawTile {
		logging.Warn("engine: illegal draw_tile from %s in room %s", uuid, a.roomID)
		return
	}
	a.drawTile(room, uuid)
	a.driveAI(room)
}

// drawTile is the core draw logic, shared by the client-originated handler
// and driveAI's synthetic bot turns.
func (a *roomActor) drawTile(room *roomstate.Room, uuid string) (tiles.Tile, bool) {
	p := room.Players[uuid]
	t, ok := room.Wall.Draw()
	if !ok {
		a.endAsDraw(room)
		return tiles.Tile{}, false
	}
	p.Hand = append(p.Hand, t)
	tiles.SortTiles(p.Hand)
	p.State = roomstate.DiscardTile
	a.unicast(uuid, ExtendTiles{Added: []tiles.Tile{t}})
	a.unicast(uuid, UpdateCurrentState{State: p.State})
	return t, true
}

// --- end_turn (discard) --------------------------------------------------

func (a *roomActor) handleEndTurn(room *roomstate.Room, uuid string, discard tiles.Tile) {
	p := room.Players[uuid]
	if p == nil || p.State != roomstate.DiscardTile {
		logging.Warn("engine: illegal end_turn from %s in room %s", uuid, a.roomID)
		return
	}
	if !removeTile(&p.Hand, discard) {
		logging.Warn("engine: end_turn discard %v not in %s's hand", discard, uuid)
		return
	}
	a.discard(room, uuid, discard)
	a.driveAI(room)
}

// discard opens the claim window: the discarder goes idle, the other three
// seats move to DECLARE_CLAIM, and an optional watchdog is armed (spec.md
// §4.D, §9).
func (a *roomActor) discard(room *roomstate.Room, uuid string, discard tiles.Tile) {
	discarder := room.Players[uuid]
	discarder.State = roomstate.NoAction
	room.CurrentDiscard = &discard
	a.claimTile = discard
	a.claimOrder = nil
	room.Claimed = make(map[string]bool)

	a.broadcast(UpdateDiscardedTile{Tile: discard})
	a.unicast(uuid, UpdateCurrentState{State: discarder.State})

	for _, seatUUID := range room.Seats {
		if seatUUID == uuid {
			continue
		}
		other := room.Players[seatUUID]
		other.State = roomstate.DeclareClaim
		other.HasClaimStartTime = false
		other.DeclaredMeldType = nil
		a.unicast(seatUUID, UpdateCurrentState{State: other.State})
	}

	if a.cfg.ClaimWatchdog {
		window := time.Duration(a.cfg.ClaimTimeoutMs+a.cfg.ClaimGraceMs) * time.Millisecond
		a.watchdog.Arm(window, func() { a.enqueue(claimTimeoutEvent{base: base{UUID: uuid}}) })
	}
}

func removeTile(hand *[]tiles.Tile, t tiles.Tile) bool {
	for i, h := range *hand {
		if h == t {
			*hand = append((*hand)[:i], (*hand)[i+1:]...)
			return true
		}
	}
	return false
}

// --- declare_claim_start --------------------------------------------------

// handleDeclareClaimStart records the first client-reported start time for
// the current window (idempotent per window, spec.md §4.D "Start time
// semantics") and echoes back the canonical countdown so a client that
// reloaded mid-window can resume it.
func (a *roomActor) handleDeclareClaimStart(room *roomstate.Room, uuid string, startMs int64) {
	p := room.Players[uuid]
	if p == nil || p.State != roomstate.DeclareClaim {
		return
	}
	if !p.HasClaimStartTime {
		p.DeclareClaimStartTime = time.UnixMilli(startMs)
		p.HasClaimStartTime = true
	}
	a.unicast(uuid, DeclareClaimWithTimer{
		StartTimeUnixMs: p.DeclareClaimStartTime.UnixMilli(),
		MsDuration:      a.cfg.ClaimTimeoutMs,
	})
}

// --- update_claim_state / arbitration ------------------------------------

func (a *roomActor) handleUpdateClaimState(room *roomstate.Room, uuid string, declared *handanalyzer.ClaimType) {
	p := room.Players[uuid]
	if p == nil || p.State != roomstate.DeclareClaim {
		logging.Warn("engine: illegal update_claim_state from %s in room %s", uuid, a.roomID)
		return
	}
	a.submitClaim(room, uuid, declared)
	a.driveAI(room)
}

// submitClaim records one claimant's response and triggers arbitration once
// all three non-discarding seats have answered.
func (a *roomActor) submitClaim(room *roomstate.Room, uuid string, declared *handanalyzer.ClaimType) {
	p := room.Players[uuid]
	p.DeclaredMeldType = declared
	if !room.Claimed[uuid] {
		room.Claimed[uuid] = true
		a.claimOrder = append(a.claimOrder, uuid)
	}
	if len(room.Claimed) >= len(room.Seats)-1 {
		a.watchdog.Disarm()
		a.arbitrate(room)
	}
}

// handleClaimTimeout is the optional watchdog's callback (spec.md §4.D
// "Claim window timing", §9): any seat that never responded is treated as a
// pass, then arbitration runs with whatever was collected.
func (a *roomActor) handleClaimTimeout(room *roomstate.Room) {
	for _, uuid := range room.Seats {
		p := room.Players[uuid]
		if p != nil && p.State == roomstate.DeclareClaim && !room.Claimed[uuid] {
			room.Claimed[uuid] = true
			a.claimOrder = append(a.claimOrder, uuid)
		}
	}
	a.arbitrate(room)
	a.driveAI(room)
}

type claimCandidate struct {
	uuid    string
	relPos  int
	claim   handanalyzer.ClaimType
	rank    int
	ordinal int
}

// arbitrate runs spec.md §4.D's claim arbitration: rank each responder,
// take the highest non-zero rank bucket, break ties by smallest rel_pos for
// WIN and by submission order otherwise.
func (a *roomActor) arbitrate(room *roomstate.Room) {
	discard := a.claimTile
	discarderSeat := -1
	for i, uuid := range room.Seats {
		if room.Players[uuid].State != roomstate.DeclareClaim {
			discarderSeat = i
			break
		}
	}

	var candidates []claimCandidate
	for ord, uuid := range a.claimOrder {
		p := room.Players[uuid]
		if p.DeclaredMeldType == nil {
			continue
		}
		seat := room.SeatOf(uuid)
		relPos := roomstate.RelPos(discarderSeat, seat)
		isChowAllowed := relPos == 1
		rank := handanalyzer.RankClaim(p.Hand, discard, *p.DeclaredMeldType, len(p.RevealedMelds), isChowAllowed)
		if rank == 0 {
			continue
		}
		candidates = append(candidates, claimCandidate{uuid: uuid, relPos: relPos, claim: *p.DeclaredMeldType, rank: rank, ordinal: ord})
	}

	if len(candidates) == 0 {
		a.advanceTurn(room)
		return
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.rank > best.rank:
			best = c
		case c.rank == best.rank && c.rank == 3 && c.relPos < best.relPos:
			best = c
		}
	}

	for _, uuid := range room.Seats {
		room.Players[uuid].DeclaredMeldType = nil
	}

	if best.claim == handanalyzer.ClaimWin {
		a.winGame(room, best.uuid, discard)
		return
	}

	room.CurrentDiscard = nil
	winner := room.Players[best.uuid]
	winner.State = roomstate.RevealMeld
	winner.DeclaredMeldType = &best.claim
	winner.ValidMeldSubsets = handanalyzer.ValidSubsetsForMeld(winner.Hand, discard, best.claim)
	targetLen := 2
	if best.claim == handanalyzer.ClaimKong {
		targetLen = 3
	}

	for _, uuid := range room.Seats {
		p := room.Players[uuid]
		if uuid == best.uuid {
			continue
		}
		p.State = roomstate.NoAction
		a.unicast(uuid, UpdateCurrentState{State: p.State})
	}
	a.unicast(best.uuid, UpdateCurrentState{State: winner.State})
	a.unicast(best.uuid, ValidTileSetsForMeld{
		ValidMeldSubsets: winner.ValidMeldSubsets,
		NewMeldTargetLen: targetLen,
	})
}

// --- complete_new_meld ----------------------------------------------------

func (a *roomActor) handleCompleteNewMeld(room *roomstate.Room, uuid string, newMeld []tiles.Tile) {
	p := room.Players[uuid]
	if p == nil || p.State != roomstate.RevealMeld || p.DeclaredMeldType == nil {
		logging.Warn("engine: illegal complete_new_meld from %s in room %s", uuid, a.roomID)
		return
	}

	hand := append([]tiles.Tile{}, p.Hand...)
	for _, t := range newMeld {
		if !removeTile(&hand, t) {
			logging.Warn("engine: complete_new_meld subset not in %s's hand", uuid)
			return
		}
	}
	p.Hand = hand

	kind := claimToMeldKind(*p.DeclaredMeldType)
	meldTiles := append(append([]tiles.Tile{}, newMeld...), a.claimTile)
	tiles.SortTiles(meldTiles)
	p.RevealedMelds = append(p.RevealedMelds, handanalyzer.Meld{Kind: kind, Tiles: meldTiles})
	p.DeclaredMeldType = nil
	p.ValidMeldSubsets = nil

	if kind == handanalyzer.Kong {
		p.State = roomstate.DrawTile
	} else {
		p.State = roomstate.DiscardTile
	}

	a.unicast(uuid, UpdateTiles{Hand: append([]tiles.Tile{}, p.Hand...)})
	a.unicast(uuid, UpdateCurrentState{State: p.State})
	a.emitOpponents(room)
	a.driveAI(room)
}

func claimToMeldKind(c handanalyzer.ClaimType) handanalyzer.MeldKind {
	switch c {
	case handanalyzer.ClaimChow:
		return handanalyzer.Chow
	case handanalyzer.ClaimKong:
		return handanalyzer.Kong
	default:
		return handanalyzer.Pung
	}
}

// --- declare_concealed_kong -----------------------------------------------

func (a *roomActor) handleDeclareConcealedKong(room *roomstate.Room, uuid string) {
	p := room.Players[uuid]
	if p == nil || p.State != roomstate.DiscardTile {
		logging.Warn("engine: illegal declare_concealed_kong from %s in room %s", uuid, a.roomID)
		return
	}

	counts := make(map[tiles.Tile]int)
	for _, t := range p.Hand {
		counts[t]++
	}
	var kongTile tiles.Tile
	found := false
	for t, n := range counts {
		if n >= 4 {
			kongTile, found = t, true
			break
		}
	}
	if !found {
		logging.Warn("engine: declare_concealed_kong from %s with no four-of-a-kind", uuid)
		return
	}

	hand := append([]tiles.Tile{}, p.Hand...)
	for i := 0; i < 4; i++ {
		removeTile(&hand, kongTile)
	}
	p.Hand = hand
	p.ConcealedKongs = append(p.ConcealedKongs, repeatTileForKong(kongTile))
	p.State = roomstate.DrawTile

	a.unicast(uuid, UpdateTiles{Hand: append([]tiles.Tile{}, p.Hand...)})
	a.unicast(uuid, UpdateConcealedKongs{ConcealedKongs: p.ConcealedKongs})
	a.unicast(uuid, UpdateCurrentState{State: p.State})
	a.emitOpponents(room)
	a.driveAI(room)
}

func repeatTileForKong(t tiles.Tile) []tiles.Tile {
	return []tiles.Tile{t, t, t, t}
}

// --- declare_win (own turn) ------------------------------------------------

func (a *roomActor) handleDeclareWin(room *roomstate.Room, uuid string) {
	p := room.Players[uuid]
	if p == nil || p.State != roomstate.DiscardTile {
		logging.Warn("engine: illegal declare_win from %s in room %s", uuid, a.roomID)
		return
	}
	targetSets := handanalyzer.SetsNeededToWin - len(p.RevealedMelds) - len(p.ConcealedKongs)
	if !handanalyzer.CanMeldConcealedHand(p.Hand, targetSets) {
		logging.Warn("engine: declare_win rejected for %s (hand does not verify)", uuid)
		return
	}
	a.winGame(room, uuid, tiles.Tile{})
}

// --- end of hand ------------------------------------------------------------

// winGame realizes "winning state broadcast" (spec.md §4.D): the winner's
// concealed tiles are decomposed for display, every other seat loses, and
// the room is marked finished.
func (a *roomActor) winGame(room *roomstate.Room, winnerUUID string, claimedTile tiles.Tile) {
	winner := room.Players[winnerUUID]
	hand := append([]tiles.Tile{}, winner.Hand...)
	if claimedTile != (tiles.Tile{}) {
		hand = append(hand, claimedTile)
	}
	targetSets := handanalyzer.SetsNeededToWin - len(winner.RevealedMelds) - len(winner.ConcealedKongs)

	decompositions := make(map[string][]handanalyzer.Meld)
	if melds, ok := handanalyzer.DecomposeWinningHand(hand, targetSets); ok {
		winner.RevealedMelds = append(winner.RevealedMelds, melds...)
		decompositions[winnerUUID] = winner.RevealedMelds
	}
	winner.Hand = nil
	winner.State = roomstate.Win

	for _, uuid := range room.Seats {
		if uuid == winnerUUID {
			continue
		}
		room.Players[uuid].State = roomstate.Loss
	}

	room.InProgress = false
	room.CurrentDiscard = nil
	a.watchdog.Disarm()

	for _, uuid := range room.Seats {
		a.unicast(uuid, UpdateCurrentState{State: room.Players[uuid].State})
	}
	a.unicast(winnerUUID, UpdateTiles{Hand: nil})
	a.emitOpponents(room)
	a.broadcast(EndGame{WinnerUUID: winnerUUID, Decompositions: decompositions})
}

// endAsDraw realizes the draw-game transition: the wall emptied with no
// winner (spec.md §4.D advance_turn, §8 scenario 6).
func (a *roomActor) endAsDraw(room *roomstate.Room) {
	room.InProgress = false
	room.CurrentDiscard = nil
	a.watchdog.Disarm()
	for _, uuid := range room.Seats {
		room.Players[uuid].State = roomstate.Draw
		a.unicast(uuid, UpdateCurrentState{State: roomstate.Draw})
	}
	a.broadcast(EndGame{})
}

// advanceTurn realizes spec.md §4.D's advance_turn: no legal claim existed,
// so the discard is archived and play passes to the next seat, or the hand
// ends in a draw if the wall is already empty.
func (a *roomActor) advanceTurn(room *roomstate.Room) {
	for _, uuid := range room.Seats {
		p := room.Players[uuid]
		if p.State == roomstate.DeclareClaim {
			p.State = roomstate.NoAction
			a.unicast(uuid, UpdateCurrentState{State: p.State})
		}
	}

	if room.CurrentDiscard != nil {
		room.PastDiscards = append(room.PastDiscards, *room.CurrentDiscard)
		room.CurrentDiscard = nil
	}

	if room.Wall.Len() == 0 {
		a.endAsDraw(room)
		return
	}

	room.CurrentSeat = (room.CurrentSeat + 1) % len(room.Seats)
	next := room.Players[room.Seats[room.CurrentSeat]]
	next.State = roomstate.DrawTile
	a.unicast(room.Seats[room.CurrentSeat], UpdateCurrentState{State: next.State})
}

// --- chat / lifecycle -------------------------------------------------------

func (a *roomActor) handleTextMessage(room *roomstate.Room, uuid, text string) {
	p := room.Players[uuid]
	if p == nil {
		return
	}
	room.Messages = append(room.Messages, roomstate.ChatMessage{
		PlayerUUID: uuid,
		Username:   p.Username,
		Text:       text,
		SentAt:     time.Now(),
	})
	a.broadcast(TextMessage{MsgType: PlayerMsg, MsgText: p.Username + ": " + text})
}

func (a *roomActor) handleLeaveGame(room *roomstate.Room, uuid string) {
	a.store.RemovePlayer(uuid)
	if _, ok := a.store.GetRoom(a.roomID); !ok {
		if a.onIdle != nil {
			a.onIdle(a.roomID)
		}
		return
	}
	a.emitOpponents(room)
	a.broadcast(TextMessage{MsgType: ServerMsg, MsgText: uuid + " left the game"})
}

// --- rejoin / reemit ---------------------------------------------------------

// handleRejoin sends a full snapshot of a player's own state plus shared
// room context (spec.md §4.D "Rejoin").
func (a *roomActor) handleRejoin(room *roomstate.Room, uuid string) {
	p := room.Players[uuid]
	if p == nil {
		return
	}
	a.unicast(uuid, UpdateRoomID{RoomID: room.ID})
	a.unicast(uuid, UpdateTiles{Hand: append([]tiles.Tile{}, p.Hand...)})
	a.unicast(uuid, UpdateCurrentState{State: p.State})
	a.unicast(uuid, UpdateConcealedKongs{ConcealedKongs: p.ConcealedKongs})
	if room.CurrentDiscard != nil {
		a.unicast(uuid, UpdateDiscardedTile{Tile: *room.CurrentDiscard})
	}
	a.emitOpponentsTo(room, uuid)
	a.handleReemit(room, uuid)
}

// handleReemit re-sends the transient, state-dependent events a client may
// have missed across a reconnect: the claim countdown and, while in
// REVEAL_MELD, the valid meld subsets.
func (a *roomActor) handleReemit(room *roomstate.Room, uuid string) {
	p := room.Players[uuid]
	if p == nil {
		return
	}
	switch p.State {
	case roomstate.DeclareClaim:
		if p.HasClaimStartTime {
			a.unicast(uuid, DeclareClaimWithTimer{
				StartTimeUnixMs: p.DeclareClaimStartTime.UnixMilli(),
				MsDuration:      a.cfg.ClaimTimeoutMs,
			})
		}
	case roomstate.RevealMeld:
		a.unicast(uuid, ValidTileSetsForMeld{ValidMeldSubsets: p.ValidMeldSubsets})
	}
}

// --- opponent projection / AI driver ----------------------------------------

// emitOpponents sends every seated player their opponent projection
// (spec.md §6), grounded on original_source/server.py's update_opponents.
func (a *roomActor) emitOpponents(room *roomstate.Room) {
	for _, uuid := range room.Seats {
		a.emitOpponentsTo(room, uuid)
	}
}

func (a *roomActor) emitOpponentsTo(room *roomstate.Room, uuid string) {
	seat := room.SeatOf(uuid)
	if seat < 0 {
		return
	}
	opponents := make([]OpponentView, 0, len(room.Seats)-1)
	for step := 1; step < len(room.Seats); step++ {
		other := room.Seats[(seat+step)%len(room.Seats)]
		p := room.Players[other]
		if p == nil {
			continue
		}
		opponents = append(opponents, OpponentView{
			Name:           p.Username,
			RevealedMelds:  p.RevealedMelds,
			TileCount:      len(p.Hand),
			ConcealedKongs: len(p.ConcealedKongs),
			IsCurrentTurn:  isActiveState(p.State),
		})
	}
	a.unicast(uuid, UpdateOpponents{Opponents: opponents})
}

// driveAI sweeps every AI seat to a fixed point, letting bot turns cascade
// synchronously within the same mailbox event (spec.md §9 "AI players"):
// never claim, never declare win, always discard the tile a draw just
// extended the hand with. A bot found in DISCARD_TILE without a fresh draw
// discards the last tile of its sorted hand.
func (a *roomActor) driveAI(room *roomstate.Room) {
	for i := 0; i < 64; i++ {
		acted := false
		for _, uuid := range room.Seats {
			p := room.Players[uuid]
			if p == nil || !p.IsAI {
				continue
			}
			switch p.State {
			case roomstate.DrawTile:
				if t, ok := a.drawTile(room, uuid); ok {
					removeTile(&p.Hand, t)
					a.discard(room, uuid, t)
				}
				acted = true
			case roomstate.DiscardTile:
				if len(p.Hand) > 0 {
					t := p.Hand[len(p.Hand)-1]
					removeTile(&p.Hand, t)
					a.discard(room, uuid, t)
					acted = true
				}
			case roomstate.DeclareClaim:
				a.submitClaim(room, uuid, nil)
				acted = true
			}
		}
		if !acted {
			return
		}
	}
	logging.Error("engine: driveAI did not reach a fixed point in room %s", a.roomID)
}
