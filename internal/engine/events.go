package engine

import (
	"mahjongd/internal/handanalyzer"
	"mahjongd/internal/tiles"
)

// GameEvent is one inbound request routed to a room's actor loop, named
// after spec.md §6's inbound event table. Every concrete type carries the
// resolved player uuid — the Gateway has already turned a connection into
// an identity before handing the event to the Engine.
type GameEvent interface {
	PlayerUUID() string
	EventType() string
}

type base struct{ UUID string }

func (b base) PlayerUUID() string { return b.UUID }

type ReadyEvent struct{ base }

func (ReadyEvent) EventType() string { return "ready" }

type RejoinGameEvent struct{ base }

func (RejoinGameEvent) EventType() string { return "rejoin_game" }

type ReemitEventsEvent struct{ base }

func (ReemitEventsEvent) EventType() string { return "reemit_events" }

type EnterGameEvent struct {
	base
	Username        string
	RoomID          string // empty when ShouldCreateRoom or matchmaking
	ShouldCreateRoom bool
}

func (EnterGameEvent) EventType() string { return "enter_game" }

type StartGameEvent struct{ base }

func (StartGameEvent) EventType() string { return "start_game" }

type DrawTileEvent struct{ base }

func (DrawTileEvent) EventType() string { return "draw_tile" }

type EndTurnEvent struct {
	base
	DiscardedTile tiles.Tile
}

func (EndTurnEvent) EventType() string { return "end_turn" }

type DeclareClaimStartEvent struct {
	base
	StartTimeUnixMs int64
}

func (DeclareClaimStartEvent) EventType() string { return "declare_claim_start" }

// UpdateClaimStateEvent submits a claim response; DeclaredMeld == nil means
// the player passed on the discard.
type UpdateClaimStateEvent struct {
	base
	DeclaredMeld *handanalyzer.ClaimType
}

func (UpdateClaimStateEvent) EventType() string { return "update_claim_state" }

type CompleteNewMeldEvent struct {
	base
	NewMeld []tiles.Tile
}

func (CompleteNewMeldEvent) EventType() string { return "complete_new_meld" }

type DeclareConcealedKongEvent struct{ base }

func (DeclareConcealedKongEvent) EventType() string { return "declare_concealed_kong" }

type DeclareWinEvent struct{ base }

func (DeclareWinEvent) EventType() string { return "declare_win" }

type TextMessageEvent struct {
	base
	Message string
}

func (TextMessageEvent) EventType() string { return "text_message" }

type LeaveGameEvent struct{ base }

func (LeaveGameEvent) EventType() string { return "leave_game" }

// claimTimeoutEvent is a synthetic internal event produced by the optional
// watchdog (spec.md §4.D), never sent by a client.
type claimTimeoutEvent struct {
	base
	seat int
}

func (claimTimeoutEvent) EventType() string { return "claim_timeout" }
