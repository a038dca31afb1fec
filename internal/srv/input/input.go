// Package input routes key presses coming out of the drivers: to the screen
// on display, to clients that reserved the key, or to the server's own
// screen-switching bindings.
package input

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/config"
	"github.com/tlegoff/charlcd/internal/srv/screenlist"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// ErrKeyTaken is returned when a reservation collides with an exclusive one.
var ErrKeyTaken = errors.New("input: key already reserved")

type reservation struct {
	key       string
	exclusive bool
	client    *session.Client
}

// MenuHook lets the menu subsystem steal keys while a menu is open.
type MenuHook interface {
	// WantsKey reports whether the menu consumes this key right now.
	WantsKey(key string, current *session.Screen) bool
	// HandleKey processes a consumed key.
	HandleKey(key string)
}

// Router owns the key reservations and the server key bindings.
type Router struct {
	Screens *screenlist.List
	Keys    config.KeysParam

	// Menu, when set, gets first refusal on unreserved keys.
	Menu MenuHook

	// ServerMsg flashes a short text on the display, as the server
	// screen does for "Rotate"/"Hold".
	ServerMsg func(text string, frames int)

	reservations []*reservation
}

// ReserveKey claims a key for a client. Exclusive reservations refuse any
// other claim on the same key, in either direction.
func (r *Router) ReserveKey(key string, exclusive bool, client *session.Client) error {
	for _, kr := range r.reservations {
		if kr.key == key && (kr.exclusive || exclusive) {
			return ErrKeyTaken
		}
	}
	r.reservations = append(r.reservations, &reservation{
		key:       key,
		exclusive: exclusive,
		client:    client,
	})
	logrus.Debugf("Key %q reserved %s by client %d", key,
		sharing(exclusive), clientID(client))
	return nil
}

// ReleaseKey drops one client's reservation of a key.
func (r *Router) ReleaseKey(key string, client *session.Client) {
	for i, kr := range r.reservations {
		if kr.client == client && kr.key == key {
			r.reservations = append(r.reservations[:i], r.reservations[i+1:]...)
			logrus.Debugf("Key %q released by client %d", key, clientID(client))
			return
		}
	}
}

// ReleaseClientKeys drops every reservation a client holds; called when the
// client disconnects.
func (r *Router) ReleaseClientKeys(client *session.Client) {
	kept := r.reservations[:0]
	for _, kr := range r.reservations {
		if kr.client != client {
			kept = append(kept, kr)
		}
	}
	r.reservations = kept
}

// Handle routes one key press.
func (r *Router) Handle(key string) {
	current := r.Screens.Current()

	// The visible screen's own key list wins.
	if current != nil && current.WantsKey(key) {
		current.Client.Sendf("key %s %s\n", key, current.ID)
		return
	}

	var currentClient *session.Client
	if current != nil {
		currentClient = current.Client
	}
	if kr := r.findReservation(key, currentClient); kr != nil {
		kr.client.Sendf("key %s\n", key)
		return
	}

	r.internalKey(key, current)
}

// findReservation returns the reservation a key should route to: an
// exclusive one always matches, a shared one only for the client owning the
// visible screen.
func (r *Router) findReservation(key string, current *session.Client) *reservation {
	for _, kr := range r.reservations {
		if kr.key == key && (kr.exclusive || kr.client == current) {
			return kr
		}
	}
	return nil
}

func (r *Router) internalKey(key string, current *session.Screen) {
	if r.Menu != nil && r.Menu.WantsKey(key, current) {
		r.Menu.HandleKey(key)
		return
	}

	switch key {
	case r.Keys.ToggleRotate:
		r.Screens.AutoRotate = !r.Screens.AutoRotate
		if r.Screens.AutoRotate {
			r.serverMsg("Rotate")
		} else {
			r.serverMsg("Hold")
		}
	case r.Keys.PrevScreen:
		r.Screens.GotoPrev()
		r.serverMsg("Prev")
	case r.Keys.NextScreen:
		r.Screens.GotoNext()
		r.serverMsg("Next")
	case r.Keys.ScrollUp, r.Keys.ScrollDown:
		// Reserved for scrolling the visible screen.
	default:
		logrus.Debugf("Ignoring unbound key %q", key)
	}
}

func (r *Router) serverMsg(text string) {
	if r.ServerMsg != nil {
		r.ServerMsg(text, 4)
	}
}

func sharing(exclusive bool) string {
	if exclusive {
		return "exclusively"
	}
	return "shared"
}

func clientID(c *session.Client) int {
	if c == nil {
		return -1
	}
	return c.ID
}
