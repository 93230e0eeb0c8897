package gateway

import "mahjongd/internal/engine"

// encodeOutbound turns one Engine OutboundEvent into the wire envelope
// named in spec.md §6's outbound event list. The event names and payload
// shapes mirror original_source/server.py's sio.emit calls.
func encodeOutbound(ev engine.OutboundEvent) (route string, payload any) {
	switch e := ev.(type) {
	case engine.UpdateTiles:
		return "update_tiles", encodeTiles(e.Hand)
	case engine.ExtendTiles:
		return "extend_tiles", encodeTiles(e.Added)
	case engine.UpdateCurrentState:
		return "update_current_state", e.State.String()
	case engine.UpdateDiscardedTile:
		return "update_discarded_tile", encodeTile(e.Tile)
	case engine.UpdateOpponents:
		return "update_opponents", encodeOpponents(e.Opponents)
	case engine.UpdateRoomID:
		return "update_room_id", e.RoomID
	case engine.UpdatePlayer:
		return "update_player", encodeUpdatePlayer(e)
	case engine.DeclareClaimWithTimer:
		return "declare_claim_with_timer", map[string]any{
			"startTime":  e.StartTimeUnixMs,
			"msDuration": e.MsDuration,
		}
	case engine.ValidTileSetsForMeld:
		return "valid_tile_sets_for_meld", map[string]any{
			"validMeldSubsets":    encodeTileSets(e.ValidMeldSubsets),
			"newMeld":             encodeTiles(e.NewMeld),
			"newMeldTargetLength": e.NewMeldTargetLen,
		}
	case engine.UpdateCanDeclareWin:
		return "update_can_declare_win", e.CanDeclareWin
	case engine.UpdateCanDeclareKong:
		return "update_can_declare_kong", e.CanDeclareKong
	case engine.UpdateConcealedKongs:
		return "update_concealed_kongs", encodeTileSets(e.ConcealedKongs)
	case engine.TextMessage:
		return "text_message", map[string]any{
			"msgType": encodeMessageType(e.MsgType),
			"msgText": e.MsgText,
		}
	case engine.EndGame:
		return "end_game", encodeEndGame(e)
	default:
		return "", nil
	}
}

func encodeOpponents(views []engine.OpponentView) []map[string]any {
	out := make([]map[string]any, len(views))
	for i, v := range views {
		out[i] = map[string]any{
			"name":           v.Name,
			"revealedMelds":  encodeMelds(v.RevealedMelds),
			"tileCount":      v.TileCount,
			"concealedKongs": v.ConcealedKongs,
			"isCurrentTurn":  v.IsCurrentTurn,
		}
	}
	return out
}

func encodeUpdatePlayer(e engine.UpdatePlayer) map[string]any {
	patch := map[string]any{}
	if e.Username != nil {
		patch["username"] = *e.Username
	}
	if e.IsHost != nil {
		patch["isHost"] = *e.IsHost
	}
	return patch
}

func encodeMessageType(t engine.MessageType) string {
	if t == engine.PlayerMsg {
		return "PLAYER_MSG"
	}
	return "SERVER_MSG"
}

func encodeEndGame(e engine.EndGame) map[string]any {
	decompositions := make(map[string][]meldWire, len(e.Decompositions))
	for uuid, melds := range e.Decompositions {
		decompositions[uuid] = encodeMelds(melds)
	}
	return map[string]any{
		"winnerUuid":     e.WinnerUUID,
		"decompositions": decompositions,
	}
}
