// Package ai models AI-controlled seats as ordinary roomstate.Player records
// distinguished only by the IsAI flag (spec.md §9 "AI players" design
// note). The source spawns a secondary transport client that reconnects to
// the same server to fill an empty seat; this package instead gives the
// Engine a seat it can drive directly in-process, avoiding that extra
// socket hop, per runtime/game/share/user_info.go's UserInfo shape (an AI
// seat simply never carries a live ConnectorNodeID).
package ai

import "fmt"

// Username returns the guest name assigned to an AI filling seat index seat.
func Username(seat int) string {
	return fmt.Sprintf("Table Bot %d", seat+1)
}

// UUID returns a stable synthetic identity for an AI seat, scoped to its
// room so two rooms' bots never collide in the Room Store's player index.
func UUID(roomID string, seat int) string {
	return fmt.Sprintf("ai:%s:%d", roomID, seat)
}
