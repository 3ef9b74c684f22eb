// Package stream pushes fresh market-summary snapshots to subscribed
// browsers over a websocket, so the landing ticker updates without the page
// re-polling.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/finboardhq/finboard-portal/internal/common"
)

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Hub fans each broadcast out to every connected subscriber. New subscribers
// immediately receive the latest snapshot.
type Hub struct {
	logger     *common.Logger
	upgrader   websocket.Upgrader
	register   chan *subscriber
	unregister chan *subscriber
	broadcast  chan []byte
	done       chan struct{}

	subscribers map[*subscriber]struct{}
	latest      []byte
}

// NewHub creates a hub. Run must be called before ServeHTTP accepts
// subscribers.
func NewHub(logger *common.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		broadcast:   make(chan []byte, 8),
		done:        make(chan struct{}),
		subscribers: make(map[*subscriber]struct{}),
	}
}

// Run is the hub loop. It owns the subscriber set; all mutation happens
// here.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			// Unblocks any register/unregister arriving after shutdown.
			close(h.done)
			for sub := range h.subscribers {
				delete(h.subscribers, sub)
				close(sub.send)
			}
			return

		case sub := <-h.register:
			h.subscribers[sub] = struct{}{}
			if h.latest != nil {
				sub.send <- h.latest
			}

		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub]; ok {
				delete(h.subscribers, sub)
				close(sub.send)
			}

		case message := <-h.broadcast:
			h.latest = message
			for sub := range h.subscribers {
				select {
				case sub.send <- message:
				default:
					// Subscriber too slow; drop it so the hub never blocks
					delete(h.subscribers, sub)
					close(sub.send)
				}
			}
		}
	}
}

// Broadcast marshals v and queues it for every subscriber.
func (h *Hub) Broadcast(v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn().Err(err).Msg("failed to marshal ticker broadcast")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Debug().Msg("ticker broadcast queue full, dropping snapshot")
	}
}

// ServeHTTP upgrades the connection and starts the read/write pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sub := &subscriber{hub: h, conn: conn, send: make(chan []byte, 4)}
	select {
	case h.register <- sub:
	case <-h.done:
		conn.Close()
		return
	}

	go sub.writePump()
	go sub.readPump()
}

type subscriber struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump discards client messages and acts as the connection watchdog.
func (s *subscriber) readPump() {
	defer func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
