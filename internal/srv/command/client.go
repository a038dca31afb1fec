package command

import (
	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/session"
	"github.com/tlegoff/charlcd/internal/version"
)

// testFunc echoes its argument vector back, one line per argument. It is a
// debugging aid and works in any client state.
func testFunc(ctx *Context, c *session.Client, args []string) error {
	for i, arg := range args {
		logrus.Infof("test_func: %d -> %s", i, arg)
		c.Sendf("test_func:  %d -> %s\n", i, arg)
	}
	return nil
}

// hello activates the session and announces the display geometry.
func hello(ctx *Context, c *session.Client, args []string) error {
	if len(args) > 1 {
		sendError(c, "extra parameters ignored\n")
	}

	props := ctx.Drivers.Props()
	c.Sendf("connect charlcd %s protocol %s lcd wid %d hgt %d cellwid %d cellhgt %d\n",
		version.AppVersion.String(), version.ProtocolVersion,
		props.Width, props.Height, props.CellWidth, props.CellHeight)

	c.State = session.StateActive

	return nil
}

// bye marks the client gone; the dispatcher destroys the connection once
// this message is handled.
func bye(ctx *Context, c *session.Client, args []string) error {
	logrus.Debugf("Bye, %s", clientName(c))

	c.State = session.StateGone
	sendError(c, "\"bye\" is currently ignored\n")

	return nil
}

func clientSet(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 3 {
		sendError(c, "Usage: client_set -name <name>\n")
		return nil
	}

	p := args[1]
	if len(p) > 0 && p[0] == '-' {
		p = p[1:]
	}

	if p == "name" {
		logrus.Debugf("Client %d is now %q", c.ID, args[2])
		c.Name = args[2]
		c.Send("success\n")
	} else {
		sendErrorf(c, "invalid parameter (%s)\n", p)
	}

	return nil
}

func clientAddKey(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) < 2 {
		sendError(c, "Usage: client_add_key [-exclusively|-shared] {<key>}+\n")
		return nil
	}

	exclusively := false
	argnr := 1
	if len(args[argnr]) > 0 && args[argnr][0] == '-' {
		switch args[argnr] {
		case "-shared":
			exclusively = false
		case "-exclusively":
			exclusively = true
		default:
			sendErrorf(c, "Invalid option: %s\n", args[argnr])
		}
		argnr++
	}

	for ; argnr < len(args); argnr++ {
		if err := ctx.Input.ReserveKey(args[argnr], exclusively, c); err != nil {
			sendErrorf(c, "Could not reserve key \"%s\"\n", args[argnr])
		} else {
			c.Send("success\n")
		}
	}

	return nil
}

func clientDelKey(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) < 2 {
		sendError(c, "Usage: client_del_key {<key>}+\n")
		return nil
	}

	for _, key := range args[1:] {
		ctx.Input.ReleaseKey(key, c)
	}
	c.Send("success\n")

	return nil
}

// backlight sets the client-wide backlight wish; per-screen settings and
// the server override still take precedence over it.
func backlight(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 2 {
		sendError(c, "Usage: backlight {on|off|toggle|blink|flash}\n")
		return nil
	}

	switch args[1] {
	case "on":
		c.Backlight = session.BacklightOn
	case "off":
		c.Backlight = session.BacklightOff
	case "toggle":
		if c.Backlight == session.BacklightOn {
			c.Backlight = session.BacklightOff
		} else if c.Backlight == session.BacklightOff {
			c.Backlight = session.BacklightOn
		}
	case "blink":
		c.Backlight |= session.BacklightBlink
	case "flash":
		c.Backlight |= session.BacklightFlash
	}

	c.Send("success\n")

	return nil
}

func macroLeds(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 5 {
		sendError(c, "Usage: macro_leds <m1> <m2> <m3> <mr>\n")
		return nil
	}

	m1 := ledState(args[1])
	m2 := ledState(args[2])
	m3 := ledState(args[3])
	mr := ledState(args[4])

	if err := ctx.Drivers.MacroLeds(m1, m2, m3, mr); err != nil {
		sendError(c, "Failed to set macro LEDs\n")
	} else {
		c.Send("success\n")
	}

	return nil
}

// ledState treats "1" as lit and anything else as dark.
func ledState(s string) int {
	if s == "1" {
		return 1
	}
	return 0
}

func clientName(c *session.Client) string {
	if c.Name == "" {
		return "unknown client"
	}
	return c.Name
}
