// Package serverscreen maintains the daemon's built-in status screen. It
// shows client and screen counters, sits in the rotation or behind every
// client screen depending on its mode, and paints the goodbye text on
// shutdown.
package serverscreen

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/screenlist"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// Mode controls how the status screen takes part in the rotation.
type Mode int

const (
	// ModeOff keeps the screen at background priority, visible only when
	// no client screen exists.
	ModeOff Mode = iota
	// ModeOn rotates the screen along with the client screens.
	ModeOn
	// ModeBlank shows an empty background screen instead of the counters.
	ModeBlank
)

// ParseMode resolves the server_screen config value.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "off":
		return ModeOff, true
	case "on":
		return ModeOn, true
	case "blank":
		return ModeBlank, true
	}
	return ModeOff, false
}

// ScreenID is the rotation id of the status screen. The leading underscore
// keeps it out of the namespace clients use.
const ScreenID = "_server_screen"

// ServerScreen owns the status screen and refreshes its counters.
type ServerScreen struct {
	mode    Mode
	clients *session.List
	screen  *session.Screen
	width   int
	height  int
}

// New builds the status screen sized to the display and wires its line
// widgets. duration is the rotation time in frames.
func New(mode Mode, clients *session.List, props driver.DisplayProps, duration int) *ServerScreen {
	s := session.NewScreen(ScreenID, nil, props.Width, props.Height)
	s.Name = "Server screen"
	s.Duration = duration
	s.Priority = session.PriBackground
	if mode == ModeOn {
		s.Priority = session.PriInfo
	}
	if mode == ModeBlank {
		s.Heartbeat = session.HeartbeatOff
	}

	for i := 1; i <= props.Height; i++ {
		w := session.NewWidget(fmt.Sprintf("line%d", i), session.WidgetString, s)
		w.Y = i
		if i == 1 && mode != ModeBlank {
			w.Type = session.WidgetTitle
			w.Text = "charlcd Server"
		}
		s.AddWidget(w, "")
	}

	logrus.Debugf("Server screen created in mode %d", mode)

	return &ServerScreen{
		mode:    mode,
		clients: clients,
		screen:  s,
		width:   props.Width,
		height:  props.Height,
	}
}

// Screen exposes the underlying rotation screen so the caller can add it to
// the screen list.
func (ss *ServerScreen) Screen() *session.Screen {
	return ss.screen
}

// Update refreshes the client and screen counters. Small displays collapse
// both onto one line.
func (ss *ServerScreen) Update() {
	if ss.mode == ModeBlank {
		return
	}

	numClients := ss.clients.Len()
	numScreens := 0
	for _, c := range ss.clients.All() {
		numScreens += len(c.Screens())
	}

	if ss.height >= 3 {
		ss.setLine(2, fmt.Sprintf("Clients: %d", numClients))
		ss.setLine(3, fmt.Sprintf("Screens: %d", numScreens))
	} else {
		format := "C: %d  S: %d"
		if ss.width >= 16 {
			format = "Cli: %d  Scr: %d"
		}
		ss.setLine(2, fmt.Sprintf(format, numClients, numScreens))
	}
}

func (ss *ServerScreen) setLine(n int, text string) {
	if w := ss.screen.FindWidget(fmt.Sprintf("line%d", n)); w != nil {
		w.Text = text
	}
}

// Remove takes the status screen out of the rotation on shutdown.
func (ss *ServerScreen) Remove(screens *screenlist.List) {
	screens.Remove(ss.screen)
}

// Goodbye paints the farewell text centered on the display and flushes it.
func Goodbye(drivers *driver.Set) {
	props := drivers.Props()

	drivers.Clear()

	if props.Height >= 2 && props.Width >= 16 {
		xoffs := (props.Width - 16) / 2
		yoffs := (props.Height - 2) / 2
		drivers.String(1+xoffs, 1+yoffs, "Thanks for using")
		drivers.String(1+xoffs, 2+yoffs, "    charlcd!    ")
	}

	drivers.Cursor(1, 1, session.CursorOff)
	drivers.Flush()
}
