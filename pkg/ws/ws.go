// Package ws pushes server events to connected clients over WebSocket.
//
// The hub is one-directional: the server addresses frames to a user id and
// every connection that user holds (tabs, devices) receives a copy. Inbound
// frames from clients are read only to keep the connection's close and pong
// handling alive, then discarded.
//
//	hub := ws.NewHub()
//	go hub.Run()
//	hub.SendToUser(42, payload)
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rewearhq/rewear/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingEvery  = (pongWait * 9) / 10
	maxInbound = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type conn struct {
	hub    *Hub
	sock   *websocket.Conn
	out    chan []byte
	userID uint
}

type push struct {
	userID uint
	data   []byte
}

// Hub owns every open connection and fans pushes out to them. All index
// mutation happens on the Run goroutine; SendToUser only posts to a channel
// and is safe from anywhere.
type Hub struct {
	conns  map[*conn]struct{}
	byUser map[uint]map[*conn]struct{}
	pushes chan push
	attach chan *conn
	detach chan *conn
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[*conn]struct{}),
		byUser: make(map[uint]map[*conn]struct{}),
		pushes: make(chan push, 256),
		attach: make(chan *conn),
		detach: make(chan *conn),
	}
}

// Run is the hub event loop; start it on its own goroutine before mounting
// the upgrade route.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.attach:
			h.conns[c] = struct{}{}
			if c.userID != 0 {
				if h.byUser[c.userID] == nil {
					h.byUser[c.userID] = make(map[*conn]struct{})
				}
				h.byUser[c.userID][c] = struct{}{}
			}
			logger.Info("ws: connected", "user_id", c.userID, "open", len(h.conns))

		case c := <-h.detach:
			if _, ok := h.conns[c]; ok {
				h.remove(c)
				logger.Info("ws: disconnected", "user_id", c.userID, "open", len(h.conns))
			}

		case p := <-h.pushes:
			for c := range h.byUser[p.userID] {
				select {
				case c.out <- p.data:
				default:
					// slow consumer
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *conn) {
	delete(h.conns, c)
	if peers := h.byUser[c.userID]; peers != nil {
		delete(peers, c)
		if len(peers) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	close(c.out)
}

// SendToUser queues data for every connection userID holds. A no-op for
// offline users; drops rather than blocks when the hub is backlogged.
func (h *Hub) SendToUser(userID uint, data []byte) {
	select {
	case h.pushes <- push{userID: userID, data: data}:
	default:
	}
}

// UpgradeUser turns the request into a WebSocket bound to userID and
// registers it with the hub.
func UpgradeUser(w http.ResponseWriter, r *http.Request, hub *Hub, userID uint) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	c := &conn{hub: hub, sock: sock, out: make(chan []byte, 256), userID: userID}
	hub.attach <- c
	go c.writeLoop()
	go c.readLoop()
}

// readLoop discards client frames; it exists to process pongs and notice the
// close.
func (c *conn) readLoop() {
	defer func() {
		c.hub.detach <- c
		c.sock.Close()
	}()
	c.sock.SetReadLimit(maxInbound)
	c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		c.sock.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.sock.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			return
		}
	}
}

func (c *conn) writeLoop() {
	ping := time.NewTicker(pingEvery)
	defer func() {
		ping.Stop()
		c.sock.Close()
	}()
	for {
		select {
		case data, ok := <-c.out:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
