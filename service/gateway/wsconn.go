package gateway

import (
	"sync"
	"time"

	"CProject/module/collab"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Client wraps one websocket connection and implements collab.Sender.
// Writes are serialized with a mutex: engine fan-out and handler acks
// run on different goroutines, and gorilla allows one writer at a time.
type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu         sync.RWMutex
	userID     string
	username   string
	fileID     string
	authorized bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{conn: conn}
}

// Send implements collab.Sender.
func (c *Client) Send(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) SendEnvelope(env collab.Envelope) error {
	data, err := env.Marshal()
	if err != nil {
		return err
	}
	return c.Send(data)
}

func (c *Client) SendError(code int, msg string) {
	_ = c.SendEnvelope(collab.Envelope{
		Type: AckError,
		Data: map[string]any{"code": code, "msg": msg},
	})
}

func (c *Client) SetIdentity(userID, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = userID
	c.username = username
	c.authorized = true
}

func (c *Client) Identity() (userID, username string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID, c.username, c.authorized
}

func (c *Client) Authorized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authorized
}

func (c *Client) SetCurrentFile(fileID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fileID = fileID
}

func (c *Client) CurrentFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fileID
}
