package transport

import (
	"bytes"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rawblock/kuzh/internal/ids"
	"github.com/rawblock/kuzh/internal/wire"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	roomTxs  [][]byte
	peerMsgs []wire.PeerMessage
}

func (d *recordingDispatcher) HandleRoomTransaction(_ ids.IdentityID, payload []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roomTxs = append(d.roomTxs, payload)
	return nil
}

func (d *recordingDispatcher) HandleSurveyTransaction(_ ids.IdentityID, _ []byte) error { return nil }

func (d *recordingDispatcher) HandlePeerMessage(msg wire.PeerMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peerMsgs = append(d.peerMsgs, msg)
	return nil
}

func newTestServer(t *testing.T, h *Hub, dispatch Dispatcher) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ws", func(c *gin.Context) {
		u, _ := strconv.Atoi(c.Query("user"))
		user := ids.UserID(u)
		h.Subscribe(c, ids.UserIdentity(user), user, dispatch)
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user ids.UserID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=" + strconv.Itoa(int(user))
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubDispatchesRoomTransaction(t *testing.T) {
	h := NewHub()
	go h.Run()
	dispatch := &recordingDispatcher{}
	srv := newTestServer(t, h, dispatch)
	conn := dial(t, srv, ids.UserID(1))

	var buf bytes.Buffer
	wire.WriteFrame(&buf, wire.TagRoomTransaction, []byte("payload"))
	if err := conn.WriteMessage(websocket.BinaryMessage, buf.Bytes()); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		dispatch.mu.Lock()
		n := len(dispatch.roomTxs)
		dispatch.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	dispatch.mu.Lock()
	defer dispatch.mu.Unlock()
	if len(dispatch.roomTxs) != 1 || string(dispatch.roomTxs[0]) != "payload" {
		t.Fatalf("got %v, want one payload frame", dispatch.roomTxs)
	}
}

func TestHubBroadcastBlockReachesClient(t *testing.T) {
	h := NewHub()
	go h.Run()
	srv := newTestServer(t, h, &recordingDispatcher{})
	conn := dial(t, srv, ids.UserID(2))

	// give the server goroutine time to register the client before broadcast
	time.Sleep(50 * time.Millisecond)
	if err := h.BroadcastBlock(wire.TagRoomBlock, []byte("block-bytes")); err != nil {
		t.Fatalf("BroadcastBlock: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	tag, payload, err := wire.ReadFrame(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if tag != wire.TagRoomBlock || string(payload) != "block-bytes" {
		t.Fatalf("got tag=%x payload=%q", tag, payload)
	}
}

func TestHubRelayPeerMessageReachesOnlyRecipient(t *testing.T) {
	h := NewHub()
	go h.Run()
	srv := newTestServer(t, h, &recordingDispatcher{})
	recipient := dial(t, srv, ids.UserID(10))
	other := dial(t, srv, ids.UserID(11))
	_ = other

	time.Sleep(50 * time.Millisecond)
	msg := wire.PeerMessage{From: ids.UserIdentity(20), To: ids.UserID(10)}
	copy(msg.Ciphertext[:], []byte("hi"))
	if err := h.RelayPeerMessage(msg); err != nil {
		t.Fatalf("RelayPeerMessage: %v", err)
	}

	recipient.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := recipient.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	tag, payload, err := wire.ReadFrame(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if tag != wire.TagPeerMessageRelayed {
		t.Fatalf("got tag %x, want TagPeerMessageRelayed", tag)
	}
	got, err := wire.DecodePeerMessage(payload)
	if err != nil {
		t.Fatalf("DecodePeerMessage: %v", err)
	}
	if got.To != ids.UserID(10) {
		t.Fatalf("got To=%v, want 10", got.To)
	}
}
