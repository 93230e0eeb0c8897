package gateway

import (
	"encoding/json"

	"mahjongd/internal/engine"
	"mahjongd/internal/logging"
)

// envelope is the framed event the transport carries: a name plus a
// JSON-object payload, per spec.md §4.E ("named events with a JSON-like
// payload").
type envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// requiredFields lists, for the inbound events that carry one, the payload
// keys that must be present — the Go equivalent of original_source/
// server.py's validate_payload_fields decorator, checked once up front
// instead of wrapping every handler.
var requiredFields = map[string][]string{
	"enter_game":          {"username", "player_uuid"},
	"end_turn":            {"discarded_tile"},
	"declare_claim_start": {"declareClaimStartTime"},
	"complete_new_meld":   {"new_meld"},
	"text_message":        {"message"},
}

// decodeEvent turns one envelope into a typed engine.GameEvent for the
// player identified by uuid, or returns ok=false after logging a
// spec.md §7 "malformed input" rejection. enter_game ignores uuid and takes
// the player uuid from its own player_uuid field.
func decodeEvent(uuid string, env envelope) (engine.GameEvent, bool) {
	var payload map[string]any
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			logging.Warn("gateway: payload for event=%s is not a JSON object: %v", env.Event, err)
			return nil, false
		}
	}
	if fields, ok := requiredFields[env.Event]; ok {
		for _, f := range fields {
			if _, present := payload[f]; !present {
				logging.Warn("gateway: event=%s missing required field=%s", env.Event, f)
				return nil, false
			}
		}
	}

	switch env.Event {
	case "ready":
		return engine.NewReadyEvent(uuid), true
	case "rejoin_game":
		return engine.NewRejoinGameEvent(uuid), true
	case "reemit_events":
		return engine.NewReemitEventsEvent(uuid), true
	case "enter_game":
		username, _ := payload["username"].(string)
		playerUUID, _ := payload["player_uuid"].(string)
		roomID, _ := payload["room_id"].(string)
		return engine.NewEnterGameEvent(playerUUID, username, roomID), true
	case "start_game":
		return engine.NewStartGameEvent(uuid), true
	case "draw_tile":
		return engine.NewDrawTileEvent(uuid), true
	case "end_turn":
		return decodeEndTurn(uuid, payload)
	case "declare_claim_start":
		return decodeDeclareClaimStart(uuid, payload)
	case "update_claim_state":
		return decodeUpdateClaimState(uuid, payload)
	case "complete_new_meld":
		return decodeCompleteNewMeld(uuid, payload)
	case "declare_concealed_kong":
		return engine.NewDeclareConcealedKongEvent(uuid), true
	case "declare_win":
		return engine.NewDeclareWinEvent(uuid), true
	case "text_message":
		message, _ := payload["message"].(string)
		return engine.NewTextMessageEvent(uuid, message), true
	case "leave_game":
		return engine.NewLeaveGameEvent(uuid), true
	default:
		logging.Warn("gateway: unknown event=%s", env.Event)
		return nil, false
	}
}

func decodeEndTurn(uuid string, payload map[string]any) (engine.GameEvent, bool) {
	raw, err := json.Marshal(payload["discarded_tile"])
	if err != nil {
		logging.Warn("gateway: end_turn discarded_tile not encodable: %v", err)
		return nil, false
	}
	var w tileWire
	if err := json.Unmarshal(raw, &w); err != nil {
		logging.Warn("gateway: end_turn discarded_tile malformed: %v", err)
		return nil, false
	}
	t, err := decodeTile(w)
	if err != nil {
		logging.Warn("gateway: end_turn discarded_tile: %v", err)
		return nil, false
	}
	return engine.NewEndTurnEvent(uuid, t), true
}

func decodeDeclareClaimStart(uuid string, payload map[string]any) (engine.GameEvent, bool) {
	ts, ok := payload["declareClaimStartTime"].(float64)
	if !ok {
		logging.Warn("gateway: declare_claim_start declareClaimStartTime not numeric")
		return nil, false
	}
	return engine.NewDeclareClaimStartEvent(uuid, int64(ts)), true
}

func decodeUpdateClaimState(uuid string, payload map[string]any) (engine.GameEvent, bool) {
	raw, ok := payload["declared_meld"]
	if !ok || raw == nil {
		return engine.NewUpdateClaimStateEvent(uuid, nil), true
	}
	s, ok := raw.(string)
	if !ok {
		logging.Warn("gateway: update_claim_state declared_meld not a string")
		return nil, false
	}
	claim, err := decodeClaimType(s)
	if err != nil {
		logging.Warn("gateway: update_claim_state: %v", err)
		return nil, false
	}
	return engine.NewUpdateClaimStateEvent(uuid, &claim), true
}

func decodeCompleteNewMeld(uuid string, payload map[string]any) (engine.GameEvent, bool) {
	raw, err := json.Marshal(payload["new_meld"])
	if err != nil {
		logging.Warn("gateway: complete_new_meld new_meld not encodable: %v", err)
		return nil, false
	}
	var ws []tileWire
	if err := json.Unmarshal(raw, &ws); err != nil {
		logging.Warn("gateway: complete_new_meld new_meld malformed: %v", err)
		return nil, false
	}
	ts, err := decodeTiles(ws)
	if err != nil {
		logging.Warn("gateway: complete_new_meld: %v", err)
		return nil, false
	}
	return engine.NewCompleteNewMeldEvent(uuid, ts), true
}
