package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Channel owns the write side of one session socket. All emits funnel
// through a single buffered channel so frames reach the wire in the
// order they were produced, token streams included.
type Channel struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewChannel(conn *websocket.Conn) *Channel {
	return &Channel{
		conn: conn,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
}

// WritePump drains the send queue onto the socket and keeps the
// connection alive with pings. Runs until the channel closes or a write
// fails. Must be the only goroutine writing to the connection.
func (c *Channel) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.done:
			// Flush anything still queued before the close frame.
			for {
				select {
				case message := <-c.send:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
						return
					}
				default:
					c.conn.SetWriteDeadline(time.Now().Add(writeWait))
					c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close stops the write pump. Safe to call more than once and safe to
// race with emits; the send channel is never closed, so a late emit is
// dropped instead of panicking.
func (c *Channel) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *Channel) emit(event string, data interface{}) {
	frame, err := json.Marshal(dto.OutboundFrame{Event: event, Data: data})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	default:
		select {
		case c.send <- frame:
		case <-c.done:
		}
	}
}

// EventSink implementation. Token frames go out as "<event> start" and
// the final text as "<event> end", matching what the client listens for.

func (c *Channel) Ready(payload dto.ReadyPayload) {
	c.emit(constant.SessionReadyEvent, payload)
}

func (c *Channel) Token(event string, token string) {
	c.emit(event+" start", token)
}

func (c *Channel) End(event string, final string) {
	c.emit(event+" end", final)
}

func (c *Channel) Error(message string) {
	c.emit(constant.SessionErrorEvent, dto.ErrorPayload{Message: message})
}
