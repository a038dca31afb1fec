// Package command implements the wire protocol: the keyword table, the
// handlers behind every command and the dispatcher that drains the client
// message queues once per server tick.
package command

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/input"
	"github.com/tlegoff/charlcd/internal/srv/menu"
	"github.com/tlegoff/charlcd/internal/srv/parse"
	"github.com/tlegoff/charlcd/internal/srv/render"
	"github.com/tlegoff/charlcd/internal/srv/screenlist"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// errNotActive is what a handler returns when the client skipped hello. The
// dispatcher turns it into the named function error on the wire.
var errNotActive = errors.New("client has not said hello")

// Context bundles everything the handlers operate on. One instance lives
// for the whole server run; all calls happen on the main loop goroutine.
type Context struct {
	Drivers *driver.Set
	Clients *session.List
	Screens *screenlist.List
	Input   *input.Router
	Render  *render.State
	Menus   *menu.Menus

	// DestroyClient tears the connection of a gone client down; the
	// socket layer plugs itself in here.
	DestroyClient func(c *session.Client)
}

type handlerFunc func(ctx *Context, c *session.Client, args []string) error

type command struct {
	keyword string
	fn      handlerFunc
}

var commands = []command{
	{"test_func", testFunc},

	{"hello", hello},
	{"client_set", clientSet},
	{"client_add_key", clientAddKey},
	{"client_del_key", clientDelKey},
	{"bye", bye},

	{"screen_add", screenAdd},
	{"screen_del", screenDel},
	{"screen_set", screenSet},

	{"key_add", keyAdd},
	{"key_del", keyDel},

	{"widget_add", widgetAdd},
	{"widget_del", widgetDel},
	{"widget_set", widgetSet},

	{"menu_add_item", menuAddItem},
	{"menu_del_item", menuDelItem},
	{"menu_set_item", menuSetItem},
	{"menu_goto", menuGoto},
	{"menu_set_main", menuSetMain},

	{"backlight", backlight},
	{"macro_leds", macroLeds},
	{"output", output},

	{"info", info},
	{"noop", noop},
}

func lookup(keyword string) handlerFunc {
	for _, cmd := range commands {
		if cmd.keyword == keyword {
			return cmd.fn
		}
	}
	return nil
}

// sendError replies with the protocol's error prefix.
func sendError(c *session.Client, msg string) {
	c.Send("huh? " + msg)
}

func sendErrorf(c *session.Client, format string, args ...any) {
	c.Sendf("huh? "+format, args...)
}

// Dispatch tokenizes one received line and runs its handler. Empty lines
// are dropped silently; every other failure is answered on the wire.
func (ctx *Context) Dispatch(c *session.Client, line string) {
	args, err := parse.Tokenize(line)
	if err != nil {
		sendError(c, "Could not parse command\n")
		return
	}
	if len(args) == 0 {
		return
	}

	fn := lookup(args[0])
	if fn == nil {
		sendErrorf(c, "Invalid command \"%.40s\"\n", args[0])
		logrus.Warnf("Invalid command from client %d: %.40s", c.ID, line)
		return
	}

	if err := fn(ctx, c, args); err != nil {
		sendErrorf(c, "Function returned error \"%.40s\"\n", args[0])
		logrus.Warnf("Command from client %d returned an error: %.40s", c.ID, line)
	}
}

// ParseAll drains every queued message of every client, in arrival order
// per client. A client that goes gone mid-drain is destroyed on the spot
// and its remaining messages are discarded.
func (ctx *Context) ParseAll() {
	clients := append([]*session.Client(nil), ctx.Clients.All()...)
	for _, c := range clients {
		for {
			msg, ok := c.NextMessage()
			if !ok {
				break
			}
			ctx.Dispatch(c, msg)

			if c.State == session.StateGone {
				if ctx.DestroyClient != nil {
					ctx.DestroyClient(c)
				}
				break
			}
		}
	}
}
