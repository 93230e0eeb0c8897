// Package engine implements the Room Engine state machine (spec.md §4.D):
// per-room turn progression, claim-window arbitration, meld completion, and
// win detection. Grounded on
// runtime/game/engines/mahjong/riichi_mahjong_4p_engine.go's mailbox/actor
// pattern and runtime/game/engines/engine.go's lifecycle contract, adapted
// from a prototype-cloned multi-engine registry to the single fixed game
// type this spec describes.
package engine

import (
	"sync"

	"mahjongd/internal/config"
	"mahjongd/internal/logging"
	"mahjongd/internal/roomstore"
)

// Manager owns one actor per active room and is the entry point the Gateway
// calls into. Room lookups go through the Store, per spec.md §5 ("the Room
// Store is consulted on every Engine call to locate the Room and player").
type Manager struct {
	store *roomstore.Store
	cfg   *config.Config
	sink  OutboundSink

	mu     sync.Mutex
	actors map[string]*roomActor

	// lobbyMu/lobby track identified connections that have not yet joined a
	// room (spec.md §6: ready "place[s] in lobby group" and text_message
	// broadcasts "to room or lobby"). The Room Store has no notion of these
	// players at all, so the Engine keeps its own roster rather than relying
	// on the Gateway's transport-level bucket for delivery routing.
	lobbyMu sync.Mutex
	lobby   map[string]bool
}

func NewManager(store *roomstore.Store, cfg *config.Config, sink OutboundSink) *Manager {
	return &Manager{
		store:  store,
		cfg:    cfg,
		sink:   sink,
		actors: make(map[string]*roomActor),
		lobby:  make(map[string]bool),
	}
}

// Dispatch routes one inbound event to the room holding its player, spawning
// the room's actor on first use. Pre-seating events that don't yet have a
// room (enter_game's matchmaking path, and ready/text_message/leave_game
// from a connection still in the lobby) are handled inline since there is
// nothing to serialize against yet.
func (m *Manager) Dispatch(ev GameEvent) {
	switch e := ev.(type) {
	case EnterGameEvent:
		m.leaveLobby(e.UUID)
		m.handleEnterGame(e)
		return
	case ReadyEvent:
		if _, ok := m.store.GetPlayerRoom(e.UUID); !ok {
			m.joinLobby(e.UUID)
			return
		}
	case TextMessageEvent:
		if _, ok := m.store.GetPlayerRoom(e.UUID); !ok {
			m.broadcastLobby(e.UUID, e.Message)
			return
		}
	case LeaveGameEvent:
		if _, ok := m.store.GetPlayerRoom(e.UUID); !ok {
			m.leaveLobby(e.UUID)
			return
		}
	}

	room, ok := m.store.GetPlayerRoom(ev.PlayerUUID())
	if !ok {
		logging.Warn("engine: event %s from unknown player %s", ev.EventType(), ev.PlayerUUID())
		return
	}

	actor := m.actorFor(room.ID)
	actor.enqueue(ev)
}

func (m *Manager) joinLobby(uuid string) {
	m.lobbyMu.Lock()
	m.lobby[uuid] = true
	m.lobbyMu.Unlock()
}

func (m *Manager) leaveLobby(uuid string) {
	m.lobbyMu.Lock()
	delete(m.lobby, uuid)
	m.lobbyMu.Unlock()
}

// broadcastLobby relays a pre-room chat message (spec.md §6's text_message,
// "broadcast to room or lobby") to every other connection the Gateway still
// has subscribed to the lobby. The Manager's own lobby roster only confirms
// the sender is a recognized lobby member; delivery fan-out is the Gateway's
// job since only it knows which live connections are still unseated.
func (m *Manager) broadcastLobby(uuid, message string) {
	m.lobbyMu.Lock()
	_, known := m.lobby[uuid]
	m.lobbyMu.Unlock()
	if !known {
		logging.Warn("engine: text_message from unrecognized lobby player %s", uuid)
		return
	}
	m.sink.Emit(Emission{
		Target: Target{Lobby: true, SkipUUID: uuid},
		Event:  TextMessage{MsgType: PlayerMsg, MsgText: message},
	})
}

func (m *Manager) actorFor(roomID string) *roomActor {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.actors[roomID]; ok {
		return a
	}
	a := newRoomActor(roomID, m.store, m.cfg, m.sink)
	a.onIdle = m.forgetActor
	m.actors[roomID] = a
	go a.run()
	return a
}

// forgetActor drops a room's actor from the registry once its last player
// has left, so a stale room id doesn't grow the map forever. The actor
// goroutine itself is left parked on an empty mailbox rather than torn
// down — cheap enough for a room that will never receive another event,
// and it sidesteps a close-after-send race against Dispatch.
func (m *Manager) forgetActor(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.actors, roomID)
}

// handleEnterGame resolves matchmaking (spec.md §4.C SearchForRoom), seats
// the player, and broadcasts the opponent projection. It mirrors
// original_source/server.py's enter_game handler: assign room, add player,
// update_room_id, update_opponents, announce join. Dealing only begins once
// the host sends an explicit start_game (spec.md §4.D's transition table
// requires both "4 seats" and "host.start"; a full room stays open in the
// lobby until the host triggers it, per §6's "start_game: host-only").
func (m *Manager) handleEnterGame(ev EnterGameEvent) {
	roomID := ev.RoomID
	if roomID == "" {
		roomID = m.store.SearchForRoom(ev.UUID)
	} else {
		m.store.GetOrCreateRoom(roomID)
	}

	player, err := m.store.AddPlayer(roomID, ev.Username, ev.UUID, false)
	if err != nil {
		logging.Error("engine: enter_game failed for %s: %v", ev.UUID, err)
		return
	}

	m.sink.Emit(Emission{Target: Target{PlayerUUID: ev.UUID}, Event: UpdateRoomID{RoomID: roomID}})
	m.broadcastOpponents(roomID)
	m.sink.Emit(Emission{
		Target: Target{RoomID: roomID},
		Event:  TextMessage{MsgType: ServerMsg, MsgText: player.Username + " joined the game"},
	})
}

// broadcastOpponents sends every seated player their opponent projection
// (spec.md §6 "Opponent projection"), grounded on
// original_source/server.py's update_opponents helper.
func (m *Manager) broadcastOpponents(roomID string) {
	room, ok := m.store.GetRoom(roomID)
	if !ok {
		return
	}
	for i, uuid := range room.Seats {
		opponents := make([]OpponentView, 0, len(room.Seats)-1)
		for step := 1; step < len(room.Seats); step++ {
			other := room.Seats[(i+step)%len(room.Seats)]
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
		m.sink.Emit(Emission{Target: Target{PlayerUUID: uuid}, Event: UpdateOpponents{Opponents: opponents}})
	}
}

// Shutdown closes every room actor's mailbox; each actor still processes the
// events already queued and then exits. Intended for process shutdown only.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.actors {
		a.stop()
	}
}
