package gateway

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"mahjongd/internal/config"
	"mahjongd/internal/engine"
	"mahjongd/internal/logging"
)

const (
	readDeadline  = 120 * time.Second
	writeDeadline = 10 * time.Second
	sendQueueSize = 256
	bucketCount   = 32
)

// client is one websocket connection and the session state spec.md §4.E
// asks for: which player it has been identified as, and which room (or the
// lobby) it is currently subscribed to.
type client struct {
	connID string
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	uuid   string
	roomID string // empty means "in the lobby"
}

func (c *client) setIdentity(uuid string) {
	c.mu.Lock()
	c.uuid = uuid
	c.mu.Unlock()
}

func (c *client) setRoom(roomID string) {
	c.mu.Lock()
	c.roomID = roomID
	c.mu.Unlock()
}

func (c *client) identity() (uuid, roomID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uuid, c.roomID
}

// bucket shards the live connection set, mirroring runtime/conn/worker.go's
// ClientBucket — one RWMutex per shard instead of one global lock.
type bucket struct {
	sync.RWMutex
	byConnID   map[string]*client
	byPlayerID map[string]*client
}

func newBucket() *bucket {
	return &bucket{byConnID: make(map[string]*client), byPlayerID: make(map[string]*client)}
}

// Gateway is the Client Gateway (spec.md §4.E): it owns every live
// connection and is the engine.OutboundSink the Manager emits through.
type Gateway struct {
	manager  *engine.Manager
	cfg      *config.Config
	upgrader websocket.Upgrader

	buckets    []*bucket
	bucketMask uint32
}

// New builds a Gateway with no Manager wired yet — call SetManager before
// serving any connection. The two are constructed in two steps because each
// needs a reference to the other (the Manager emits through the Gateway as
// an OutboundSink; the Gateway dispatches decoded events into the Manager).
func New(cfg *config.Config) *Gateway {
	g := &Gateway{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		buckets:    make([]*bucket, bucketCount),
		bucketMask: uint32(bucketCount - 1),
	}
	for i := range g.buckets {
		g.buckets[i] = newBucket()
	}
	return g
}

// SetManager wires the Manager this Gateway dispatches decoded events into.
func (g *Gateway) SetManager(manager *engine.Manager) { g.manager = manager }

func (g *Gateway) bucketFor(connID string) *bucket {
	h := fnv.New32a()
	h.Write([]byte(connID))
	return g.buckets[h.Sum32()&g.bucketMask]
}

// ServeHTTP upgrades the request to a websocket and runs the connection's
// read/write pumps until it closes. Identity is established later, by a
// ready/enter_game/rejoin_game event carrying player_uuid — unlike
// runtime/conn/worker.go's upgradeFunc, there is no bearer-token
// authentication step here (spec.md's Non-goals exclude account auth; the
// player uuid is opaque and client-supplied).
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("gateway: upgrade failed remote=%s err=%v", r.RemoteAddr, err)
		return
	}
	c := &client{connID: uuid.NewString(), conn: conn, send: make(chan []byte, sendQueueSize)}
	b := g.bucketFor(c.connID)
	b.Lock()
	b.byConnID[c.connID] = c
	b.Unlock()

	go g.writePump(c)
	g.readPump(c)
}

func (g *Gateway) readPump(c *client) {
	defer g.removeClient(c)
	for {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		g.handleFrame(c, data)
	}
}

// handleFrame decodes and dispatches one inbound frame. Exceptions never
// reach the transport: every failure path here logs and returns, matching
// original_source/server.py's log_exception decorator (spec.md §4.E/§7).
func (g *Gateway) handleFrame(c *client, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("gateway: panic handling frame from connID=%s: %v", c.connID, r)
		}
	}()

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logging.Warn("gateway: malformed frame from connID=%s: %v", c.connID, err)
		return
	}

	if env.Event == "disconnect" || env.Event == "connect" {
		return // transport-level, nothing for the Engine to do
	}

	uuid, _ := c.identity()
	if newUUID, ok := g.resolveIdentity(c, env); ok {
		uuid = newUUID
	}
	if uuid == "" {
		logging.Warn("gateway: event=%s from unidentified connID=%s", env.Event, c.connID)
		return
	}

	ev, ok := decodeEvent(uuid, env)
	if !ok {
		return
	}
	if _, isLeave := ev.(engine.LeaveGameEvent); isLeave {
		c.setRoom("")
	}
	g.manager.Dispatch(ev)
}

// resolveIdentity pulls player_uuid out of ready/rejoin_game/enter_game
// payloads and binds it to the connection, the way original_source/
// server.py's connect/enter_game handlers save sid -> player_uuid into the
// socket.io session.
func (g *Gateway) resolveIdentity(c *client, env envelope) (string, bool) {
	switch env.Event {
	case "ready", "rejoin_game", "enter_game":
	default:
		return "", false
	}
	var payload struct {
		PlayerUUID string `json:"player_uuid"`
	}
	if len(env.Payload) == 0 {
		return "", false
	}
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.PlayerUUID == "" {
		return "", false
	}
	g.bindIdentity(c, payload.PlayerUUID)
	return payload.PlayerUUID, true
}

func (g *Gateway) bindIdentity(c *client, playerUUID string) {
	c.setIdentity(playerUUID)
	b := g.bucketFor(c.connID)
	b.Lock()
	b.byPlayerID[playerUUID] = c
	b.Unlock()
}

func (g *Gateway) writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (g *Gateway) removeClient(c *client) {
	uuid, roomID := c.identity()
	b := g.bucketFor(c.connID)
	b.Lock()
	delete(b.byConnID, c.connID)
	if uuid != "" {
		delete(b.byPlayerID, uuid)
	}
	b.Unlock()
	close(c.send)

	if uuid != "" {
		g.manager.Dispatch(engine.NewLeaveGameEvent(uuid))
		logging.Info("gateway: connID=%s (uuid=%s, room=%s) disconnected", c.connID, uuid, roomID)
	}
}

// Emit implements engine.OutboundSink: it routes one Emission to a single
// connection or every connection currently subscribed to a room.
func (g *Gateway) Emit(e engine.Emission) {
	route, payload := encodeOutbound(e.Event)
	if route == "" {
		logging.Warn("gateway: no wire encoding for outbound event %T", e.Event)
		return
	}
	frame, err := json.Marshal(envelope{Event: route, Payload: mustMarshal(payload)})
	if err != nil {
		logging.Error("gateway: failed to encode outbound event=%s: %v", route, err)
		return
	}

	if e.Target.PlayerUUID != "" {
		if roomUpdate, ok := e.Event.(engine.UpdateRoomID); ok {
			g.setClientRoom(e.Target.PlayerUUID, roomUpdate.RoomID)
		}
		g.unicast(e.Target.PlayerUUID, frame)
		return
	}
	if e.Target.Lobby {
		g.broadcastLobby(e.Target.SkipUUID, frame)
		return
	}
	g.broadcastRoom(e.Target.RoomID, e.Target.SkipUUID, frame)
}

// setClientRoom records a player's current room subscription so
// broadcastRoom can find them. update_room_id is the Engine's own signal
// for this (emitted on enter_game and on rejoin_game); there is no separate "join room"
// transport call to hook.
func (g *Gateway) setClientRoom(playerUUID, roomID string) {
	for _, b := range g.buckets {
		b.RLock()
		c, ok := b.byPlayerID[playerUUID]
		b.RUnlock()
		if ok {
			c.setRoom(roomID)
			return
		}
	}
}

func (g *Gateway) unicast(playerUUID string, frame []byte) {
	for _, b := range g.buckets {
		b.RLock()
		c, ok := b.byPlayerID[playerUUID]
		b.RUnlock()
		if ok {
			g.deliver(c, frame)
			return
		}
	}
}

func (g *Gateway) broadcastRoom(roomID, skipUUID string, frame []byte) {
	for _, b := range g.buckets {
		b.RLock()
		targets := make([]*client, 0, len(b.byPlayerID))
		for uuid, c := range b.byPlayerID {
			if uuid == skipUUID {
				continue
			}
			if _, cRoom := c.identity(); cRoom == roomID {
				targets = append(targets, c)
			}
		}
		b.RUnlock()
		for _, c := range targets {
			g.deliver(c, frame)
		}
	}
}

// broadcastLobby delivers to every identified connection not currently
// subscribed to a room — the transport-side half of the lobby roster
// engine.Manager tracks for text_message routing.
func (g *Gateway) broadcastLobby(skipUUID string, frame []byte) {
	for _, b := range g.buckets {
		b.RLock()
		targets := make([]*client, 0, len(b.byPlayerID))
		for uuid, c := range b.byPlayerID {
			if uuid == skipUUID {
				continue
			}
			if _, cRoom := c.identity(); cRoom == "" {
				targets = append(targets, c)
			}
		}
		b.RUnlock()
		for _, c := range targets {
			g.deliver(c, frame)
		}
	}
}

func (g *Gateway) deliver(c *client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		logging.Warn("gateway: send queue full for connID=%s, dropping frame", c.connID)
	}
}

func mustMarshal(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		logging.Error("gateway: payload marshal failed: %v", err)
		return json.RawMessage("null")
	}
	return raw
}
