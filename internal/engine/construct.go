package engine

import (
	"mahjongd/internal/handanalyzer"
	"mahjongd/internal/tiles"
)

// Constructors for every inbound GameEvent, exported so the Gateway (which
// lives in a different package and therefore cannot name the unexported
// embedded base field directly) can build them from a decoded payload.

func NewReadyEvent(uuid string) GameEvent { return ReadyEvent{base{UUID: uuid}} }

func NewRejoinGameEvent(uuid string) GameEvent { return RejoinGameEvent{base{UUID: uuid}} }

func NewReemitEventsEvent(uuid string) GameEvent { return ReemitEventsEvent{base{UUID: uuid}} }

func NewEnterGameEvent(uuid, username, roomID string) GameEvent {
	return EnterGameEvent{base: base{UUID: uuid}, Username: username, RoomID: roomID}
}

func NewStartGameEvent(uuid string) GameEvent { return StartGameEvent{base{UUID: uuid}} }

func NewDrawTileEvent(uuid string) GameEvent { return DrawTileEvent{base{UUID: uuid}} }

func NewEndTurnEvent(uuid string, discarded tiles.Tile) GameEvent {
	return EndTurnEvent{base: base{UUID: uuid}, DiscardedTile: discarded}
}

func NewDeclareClaimStartEvent(uuid string, startTimeUnixMs int64) GameEvent {
	return DeclareClaimStartEvent{base: base{UUID: uuid}, StartTimeUnixMs: startTimeUnixMs}
}

func NewUpdateClaimStateEvent(uuid string, declared *handanalyzer.ClaimType) GameEvent {
	return UpdateClaimStateEvent{base: base{UUID: uuid}, DeclaredMeld: declared}
}

func NewCompleteNewMeldEvent(uuid string, newMeld []tiles.Tile) GameEvent {
	return CompleteNewMeldEvent{base: base{UUID: uuid}, NewMeld: newMeld}
}

func NewDeclareConcealedKongEvent(uuid string) GameEvent {
	return DeclareConcealedKongEvent{base{UUID: uuid}}
}

func NewDeclareWinEvent(uuid string) GameEvent { return DeclareWinEvent{base{UUID: uuid}} }

func NewTextMessageEvent(uuid, message string) GameEvent {
	return TextMessageEvent{base: base{UUID: uuid}, Message: message}
}

func NewLeaveGameEvent(uuid string) GameEvent { return LeaveGameEvent{base{UUID: uuid}} }
