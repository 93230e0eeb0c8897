package engine

import (
	"testing"
	"time"

	"mahjongd/internal/roomstore"
)

// waitForActor gives a room's actor goroutine a chance to drain its mailbox
// before the test inspects Store/Room state it mutated.
func waitForActor() { time.Sleep(10 * time.Millisecond) }

// A full room must not deal itself: spec.md §4.D's transition table
// requires both "4 seats" and an explicit host start_game, and §6 names
// start_game as host-only. enter_game alone must leave the room open.
func TestHandleEnterGameDoesNotAutoStart(t *testing.T) {
	store := roomstore.New(8)
	sink := &fakeSink{}
	m := NewManager(store, testConfig(), sink)

	roomID := ""
	for i, uuid := range []string{"p0", "p1", "p2", "p3"} {
		ev := EnterGameEvent{base: base{UUID: uuid}, Username: uuid, RoomID: roomID}
		m.Dispatch(ev)
		if i == 0 {
			room, ok := store.GetPlayerRoom(uuid)
			if !ok {
				t.Fatal("expected p0 to be seated after the first enter_game")
			}
			roomID = room.ID
		}
	}
	waitForActor()

	room, ok := store.GetRoom(roomID)
	if !ok {
		t.Fatal("room missing after seating four players")
	}
	if len(room.Seats) != 4 {
		t.Fatalf("expected 4 seats, got %d", len(room.Seats))
	}
	if room.InProgress {
		t.Fatal("expected a full room to stay in the lobby until the host sends start_game")
	}

	m.Dispatch(NewStartGameEvent("p0"))
	waitForActor()
	if !room.InProgress {
		t.Fatal("expected the explicit host start_game to begin the deal")
	}
}

// spec.md §6: text_message broadcasts "to room or lobby." Two players who
// have not yet joined a room must be able to chat with each other.
func TestDispatchBroadcastsLobbyTextMessage(t *testing.T) {
	store := roomstore.New(8)
	sink := &fakeSink{}
	m := NewManager(store, testConfig(), sink)

	m.Dispatch(NewReadyEvent("p0"))
	m.Dispatch(NewReadyEvent("p1"))

	m.Dispatch(NewTextMessageEvent("p0", "hello"))

	var delivered bool
	for _, e := range sink.emissions {
		if !e.Target.Lobby {
			continue
		}
		if e.Target.SkipUUID != "p0" {
			t.Fatalf("expected the sender to be skipped, got SkipUUID=%s", e.Target.SkipUUID)
		}
		msg, ok := e.Event.(TextMessage)
		if !ok {
			t.Fatalf("expected a TextMessage event, got %T", e.Event)
		}
		if msg.MsgText != "hello" {
			t.Fatalf("expected message text %q, got %q", "hello", msg.MsgText)
		}
		delivered = true
	}
	if !delivered {
		t.Fatal("expected a lobby-targeted TextMessage emission")
	}
}

// A lobby chat from a player the Manager never saw a ready for is rejected,
// not broadcast.
func TestDispatchRejectsTextMessageFromUnknownLobbyPlayer(t *testing.T) {
	store := roomstore.New(8)
	sink := &fakeSink{}
	m := NewManager(store, testConfig(), sink)

	m.Dispatch(NewTextMessageEvent("ghost", "hello"))

	for _, e := range sink.emissions {
		if e.Target.Lobby {
			t.Fatal("expected no lobby broadcast for an unrecognized sender")
		}
	}
}

// leave_game from a connection that never joined a room just drops it from
// the lobby roster; it must not be treated as an unknown-player warning
// path that somehow reaches a room actor.
func TestDispatchLeaveGameFromLobbyDropsRoster(t *testing.T) {
	store := roomstore.New(8)
	sink := &fakeSink{}
	m := NewManager(store, testConfig(), sink)

	m.Dispatch(NewReadyEvent("p0"))
	m.Dispatch(NewLeaveGameEvent("p0"))
	m.Dispatch(NewTextMessageEvent("p0", "too late"))

	for _, e := range sink.emissions {
		if e.Target.Lobby {
			t.Fatal("expected no lobby broadcast once the sender left the lobby")
		}
	}
}
