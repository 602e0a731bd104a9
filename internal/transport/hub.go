// Package transport adapts kuzh's wire frames onto gorilla/websocket
// connections. It is grounded on the teacher's internal/api/websocket.go
// Hub — the same clients-map-plus-mutex, buffered-broadcast-channel, and
// read-loop-for-disconnect shape — generalized from one-way JSON
// broadcast to the bidirectional, per-connection binary dispatch kuzh's
// wire protocol needs (spec.md §6).
package transport

import (
	"bytes"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Dispatcher handles one decoded client frame. It is implemented by the
// service wiring layer, which owns the room chain's Runner and each
// survey chain's Runner.
type Dispatcher interface {
	HandleRoomTransaction(from ids.IdentityID, payload []byte) error
	HandleSurveyTransaction(from ids.IdentityID, payload []byte) error
	HandlePeerMessage(msg wire.PeerMessage) error
}

type client struct {
	id       string
	conn     *websocket.Conn
	identity ids.IdentityID
	user     ids.UserID
	send     chan []byte
}

// outboundFrame pairs a tag-prefixed, ready-to-write frame with the
// recipients it should reach: nil means every connected client.
type outboundFrame struct {
	data  []byte
	users []ids.UserID
}

// Hub fans out sealed blocks to every connected client and routes
// EncryptedPeerMessage relays to their one intended recipient (spec.md
// §6 "EncryptedPeerMessage... routed through the server without it being
// able to read the contents").
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	relay   chan outboundFrame
}

// NewHub returns an idle Hub; call Run in its own goroutine to start
// fanning out relayed frames.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		relay:   make(chan outboundFrame, 256),
	}
}

// Run drains relayed frames until its channel is closed.
func (h *Hub) Run() {
	for frame := range h.relay {
		h.mu.Lock()
		targets := h.targetsLocked(frame.users)
		h.mu.Unlock()
		for _, c := range targets {
			select {
			case c.send <- frame.data:
			default:
				log.Printf("transport: dropping frame, client send buffer full")
			}
		}
	}
}

func (h *Hub) targetsLocked(users []ids.UserID) []*client {
	if users == nil {
		out := make([]*client, 0, len(h.clients))
		for _, c := range h.clients {
			out = append(out, c)
		}
		return out
	}
	var out []*client
	for _, c := range h.clients {
		for _, u := range users {
			if c.user.Equal(u) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// BroadcastBlock relays a sealed RoomBlock or SurveyBlock frame to every
// connected client.
func (h *Hub) BroadcastBlock(tag wire.Tag, payload []byte) error {
	var buf bytes.Buffer
	if err := wire.WriteFrame(&buf, tag, payload); err != nil {
		return err
	}
	h.relay <- outboundFrame{data: buf.Bytes()}
	return nil
}

// RelayPeerMessage forwards msg to its one recipient, re-wrapped under
// tag 0x83 (spec.md §6 "0x83 PeerMessageRelayed").
func (h *Hub) RelayPeerMessage(msg wire.PeerMessage) error {
	var buf bytes.Buffer
	if err := wire.WriteFrame(&buf, wire.TagPeerMessageRelayed, msg.Encode()); err != nil {
		return err
	}
	h.relay <- outboundFrame{data: buf.Bytes(), users: []ids.UserID{msg.To}}
	return nil
}

// Subscribe upgrades an HTTP request to a websocket connection bound to
// identity/user, then services it until the client disconnects. Decoded
// client frames are handed to dispatch; ErrUnknownTag and any dispatch
// error close the connection (spec.md §6 "Unknown tags are fatal at
// decode time").
func (h *Hub) Subscribe(c *gin.Context, identity ids.IdentityID, user ids.UserID, dispatch Dispatcher) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("transport: upgrade failed: %v", err)
		return
	}

	cl := &client{id: uuid.NewString(), conn: conn, identity: identity, user: user, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[conn] = cl
	h.mu.Unlock()
	log.Printf("transport: client %s connected (identity=%+v)", cl.id, cl.identity)

	go h.writePump(cl)
	h.readLoop(cl, dispatch)
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Printf("transport: write error: %v", err)
			return
		}
	}
}

func (h *Hub) readLoop(c *client, dispatch Dispatcher) {
	defer func() {
		h.mu.Lock()
		delete(h.clients, c.conn)
		h.mu.Unlock()
		close(c.send)
		c.conn.Close()
		log.Printf("transport: client %s disconnected", c.id)
	}()
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("transport: client %s read error: %v", c.id, err)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		if err := h.dispatchFrame(c, data, dispatch); err != nil {
			log.Printf("transport: client %s dispatch error, closing connection: %v", c.id, err)
			return
		}
	}
}

func (h *Hub) dispatchFrame(c *client, data []byte, dispatch Dispatcher) error {
	tag, payload, err := wire.ReadFrame(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if dispatch == nil {
		return nil
	}
	switch tag {
	case wire.TagRoomTransaction:
		return dispatch.HandleRoomTransaction(c.identity, payload)
	case wire.TagSurveyTransaction:
		return dispatch.HandleSurveyTransaction(c.identity, payload)
	case wire.TagPeerMessage:
		msg, err := wire.DecodePeerMessage(payload)
		if err != nil {
			return err
		}
		return dispatch.HandlePeerMessage(msg)
	default:
		return wire.ErrUnknownTag
	}
}
