package command

import (
	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/session"
)

func screenAdd(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 2 {
		sendError(c, "Usage: screen_add <screenid>\n")
		return nil
	}

	if c.FindScreen(args[1]) != nil {
		sendError(c, "Screen already exists\n")
		return nil
	}

	props := ctx.Drivers.Props()
	s := session.NewScreen(args[1], c, props.Width, props.Height)
	c.AddScreen(s)
	ctx.Screens.Add(s)
	c.Send("success\n")

	logrus.Infof("Client %d added screen %q", c.ID, s.ID)

	return nil
}

func screenDel(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 2 {
		sendError(c, "Usage: screen_del <screenid>\n")
		return nil
	}

	s := c.FindScreen(args[1])
	if s == nil {
		sendError(c, "Unknown screen id\n")
		return nil
	}

	ctx.Screens.Remove(s)
	c.RemoveScreen(s)
	c.Send("success\n")

	logrus.Infof("Client %d removed screen %q", c.ID, s.ID)

	return nil
}

// screenSet walks the option list, answering each recognized option with
// its own success or error line.
func screenSet(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) == 1 {
		sendError(c, "Usage: screen_set <id> [-name <name>]"+
			" [-wid <width>] [-hgt <height>] [-priority <prio>]"+
			" [-duration <int>] [-timeout <int>]"+
			" [-heartbeat <type>] [-backlight <type>]"+
			" [-cursor <type>]"+
			" [-cursor_x <xpos>] [-cursor_y <ypos>]\n")
		return nil
	}
	if len(args) == 2 {
		sendError(c, "What do you want to set?\n")
		return nil
	}

	s := c.FindScreen(args[1])
	if s == nil {
		sendError(c, "Unknown screen id\n")
		return nil
	}

	for i := 2; i < len(args); i++ {
		p := args[i]
		if len(p) > 0 && p[0] == '-' {
			p = p[1:]
		}

		value := ""
		hasValue := i+1 < len(args)
		if hasValue {
			value = args[i+1]
		}

		switch p {
		case "name":
			if !hasValue {
				sendError(c, "-name requires a parameter\n")
				continue
			}
			i++
			s.Name = value
			c.Send("success\n")

		case "priority":
			if !hasValue {
				sendError(c, "-priority requires a parameter\n")
				continue
			}
			i++
			if pri, ok := session.ParsePriority(value); ok {
				s.Priority = pri
				c.Send("success\n")
			} else {
				sendError(c, "invalid argument at -priority\n")
			}

		case "duration":
			if !hasValue {
				sendError(c, "-duration requires a parameter\n")
				continue
			}
			i++
			if n := atoi(value); n > 0 {
				s.Duration = n
			}
			c.Send("success\n")

		case "heartbeat":
			if !hasValue {
				sendError(c, "-heartbeat requires a parameter\n")
				continue
			}
			i++
			switch value {
			case "on":
				s.Heartbeat = session.HeartbeatOn
			case "off":
				s.Heartbeat = session.HeartbeatOff
			case "open":
				s.Heartbeat = session.HeartbeatOpen
			}
			c.Send("success\n")

		case "wid":
			if !hasValue {
				sendError(c, "-wid requires a parameter\n")
				continue
			}
			i++
			if n := atoi(value); n > 0 {
				s.Width = n
			}
			c.Send("success\n")

		case "hgt":
			if !hasValue {
				sendError(c, "-hgt requires a parameter\n")
				continue
			}
			i++
			if n := atoi(value); n > 0 {
				s.Height = n
			}
			c.Send("success\n")

		case "timeout":
			if !hasValue {
				sendError(c, "-timeout requires a parameter\n")
				continue
			}
			i++
			if n := atoi(value); n > 0 {
				s.Timeout = n
				logrus.Debugf("Timeout of screen %q set to %d frames", s.ID, n)
			}
			c.Send("success\n")

		case "backlight":
			if !hasValue {
				sendError(c, "-backlight requires a parameter\n")
				continue
			}
			i++
			switch value {
			case "on":
				s.Backlight = session.BacklightOn
			case "off":
				s.Backlight = session.BacklightOff
			case "toggle":
				if s.Backlight == session.BacklightOn {
					s.Backlight = session.BacklightOff
				} else if s.Backlight == session.BacklightOff {
					s.Backlight = session.BacklightOn
				}
			case "blink":
				s.Backlight |= session.BacklightBlink
			case "flash":
				s.Backlight |= session.BacklightFlash
			case "open":
				s.Backlight = session.BacklightOpen
			default:
				sendError(c, "unknown backlight mode\n")
			}
			c.Send("success\n")

		case "cursor":
			if !hasValue {
				sendError(c, "-cursor requires a parameter\n")
				continue
			}
			i++
			switch value {
			case "off":
				s.Cursor = session.CursorOff
			case "on":
				s.Cursor = session.CursorDefaultOn
			case "under":
				s.Cursor = session.CursorUnder
			case "block":
				s.Cursor = session.CursorBlock
			}
			c.Send("success\n")

		case "cursor_x":
			if !hasValue {
				sendError(c, "-cursor_x requires a parameter\n")
				continue
			}
			i++
			if n := atoi(value); n > 0 && n <= s.Width {
				s.CursorX = n
				c.Send("success\n")
			} else {
				sendError(c, "Cursor position outside screen\n")
			}

		case "cursor_y":
			if !hasValue {
				sendError(c, "-cursor_y requires a parameter\n")
				continue
			}
			i++
			if n := atoi(value); n > 0 && n <= s.Height {
				s.CursorY = n
				c.Send("success\n")
			} else {
				sendError(c, "Cursor position outside screen\n")
			}

		default:
			sendError(c, "invalid parameter\n")
		}
	}

	return nil
}

// keyAdd binds key names to a screen; the keys are delivered to the client
// while the screen is on display.
func keyAdd(ctx *Context, c *session.Client, args []string) error {
	if len(args) < 3 {
		sendError(c, "Usage: key_add screen_id {<key>}+\n")
		return nil
	}

	s := c.FindScreen(args[1])
	if s == nil {
		sendError(c, "Unknown screen id\n")
		return nil
	}

	s.AddKeys(args[2:]...)
	c.Send("success\n")

	return nil
}

func keyDel(ctx *Context, c *session.Client, args []string) error {
	if len(args) < 3 {
		sendError(c, "Usage: key_del screen_id {<key>}+\n")
		return nil
	}

	s := c.FindScreen(args[1])
	if s == nil {
		sendError(c, "Unknown screen id\n")
		return nil
	}

	for _, key := range args[2:] {
		if s.WantsKey(key) {
			s.DelKeys(key)
			c.Send("success\n")
		} else {
			sendError(c, "Key not requested\n")
		}
	}

	return nil
}
