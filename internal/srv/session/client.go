// Package session models the per-connection state of the daemon: clients,
// their screens and the widgets placed on those screens.
package session

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ClientState tracks the protocol handshake of a connection.
type ClientState int

const (
	// StateNew is the state before the client sent hello.
	StateNew ClientState = iota
	// StateActive is the state after a successful hello.
	StateActive
	// StateGone marks a client whose connection must be torn down.
	StateGone
)

// Backlight states, shared by clients, screens and drivers.
const (
	BacklightOff   = 0
	BacklightOn    = 1
	BacklightOpen  = 2
	BacklightBlink = 0x100
	BacklightFlash = 0x200
)

// Heartbeat states.
const (
	HeartbeatOff  = 0
	HeartbeatOn   = 1
	HeartbeatOpen = 2
)

// Writer sends a line of text back to the peer of a client. The socket layer
// plugs itself in here so that command handlers never touch file descriptors.
type Writer interface {
	Send(msg string) error
}

// Client is one accepted connection, from hello to teardown.
type Client struct {
	ID     int
	Writer Writer
	State  ClientState
	Name   string

	Backlight int
	Heartbeat int

	// Menu is owned by the menu subsystem; it stays opaque here to keep
	// the dependency one-way.
	Menu any

	messages []string
	screens  []*Screen
}

// NewClient returns a client in StateNew bound to the given connection slot.
func NewClient(id int, w Writer) *Client {
	return &Client{
		ID:        id,
		Writer:    w,
		State:     StateNew,
		Backlight: BacklightOpen,
		Heartbeat: HeartbeatOpen,
	}
}

// AddMessage queues one received line for the dispatcher.
func (c *Client) AddMessage(msg string) {
	c.messages = append(c.messages, msg)
}

// NextMessage pops the oldest queued line, or returns false when the queue
// is empty.
func (c *Client) NextMessage() (string, bool) {
	if len(c.messages) == 0 {
		return "", false
	}
	msg := c.messages[0]
	c.messages = c.messages[1:]
	return msg, true
}

// Send forwards a line to the peer. A failed send marks the client gone so
// the poll loop reaps it on the next cycle.
func (c *Client) Send(msg string) {
	if c.Writer == nil {
		return
	}
	if err := c.Writer.Send(msg); err != nil {
		logrus.WithError(err).WithField("client", c.ID).Debug("Send failed, dropping client")
		c.State = StateGone
	}
}

// Sendf formats and sends one line.
func (c *Client) Sendf(format string, args ...any) {
	c.Send(fmt.Sprintf(format, args...))
}

// Screens returns the client's screens in creation order.
func (c *Client) Screens() []*Screen {
	return c.screens
}

// FindScreen looks a screen up by its client-chosen id.
func (c *Client) FindScreen(id string) *Screen {
	for _, s := range c.screens {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// AddScreen attaches a screen to the client.
func (c *Client) AddScreen(s *Screen) {
	c.screens = append(c.screens, s)
}

// RemoveScreen detaches a screen; it reports whether the screen was found.
func (c *Client) RemoveScreen(s *Screen) bool {
	for i, cur := range c.screens {
		if cur == s {
			c.screens = append(c.screens[:i], c.screens[i+1:]...)
			return true
		}
	}
	return false
}
