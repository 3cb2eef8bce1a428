package websocket

import (
	"context"
	"slices"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Client is one live-feed subscriber. An empty entity set means every entity.
type Client struct {
	hub      *Hub
	conn     *ws.Conn
	send     chan []byte
	entities map[string]bool
}

func NewClient(hub *Hub, conn *ws.Conn, entities []string) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	if len(entities) > 0 {
		c.entities = make(map[string]bool, len(entities))
		for _, e := range entities {
			c.entities[e] = true
		}
	}
	return c
}

func (c *Client) wants(entity string) bool {
	return len(c.entities) == 0 || c.entities[entity]
}

func (c *Client) filterList() []string {
	out := make([]string, 0, len(c.entities))
	for e := range c.entities {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Run registers the client and streams queued messages until the peer goes
// away, ctx ends, or the hub drops the client. The feed is one-way, so
// inbound frames are discarded.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx = c.conn.CloseRead(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.Close(ws.StatusNormalClosure, "")
				return
			}
			if err := c.writeFrame(ctx, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			c.conn.Close(ws.StatusGoingAway, "")
			return
		}
	}
}

func (c *Client) writeFrame(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, msg)
}

func (c *Client) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Ping(ctx)
}
