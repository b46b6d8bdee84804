package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// A write that cannot finish within this window fails instead of blocking the
// writer behind a wedged peer forever.
const writeWait = 10 * time.Second

var errClosed = errors.New("connection is closed")

// Client wraps a websocket connection with a reader and a writer goroutine, so
// that callers never touch the connection concurrently.
type Client struct {
	Conn *websocket.Conn
	R    chan []byte
	W    chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		Conn: conn,
		R:    make(chan []byte, 128),
		W:    make(chan []byte, 128),
		done: make(chan struct{}),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer close(c.R)

	for {
		t, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		if t == websocket.CloseMessage {
			return
		}

		if t != websocket.TextMessage {
			continue
		}

		select {
		case c.R <- msg:
		case <-c.done:
			return
		}
	}
}

// runWriter owns the connection's write side. It closes done on exit so that
// blocked senders unblock once writes can no longer succeed.
func (c *Client) runWriter() {
	defer close(c.done)

	for msg := range c.W {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Write queues msg for delivery. It returns an error instead of blocking or
// panicking once the write side is gone.
func (c *Client) Write(msg []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errClosed
		}
	}()

	select {
	case c.W <- msg:
		return nil
	case <-c.done:
		return errClosed
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.W)
		if c.Conn != nil {
			c.Conn.Close()
		}
	})
}
