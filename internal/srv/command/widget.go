package command

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// atoi parses the leading decimal digits of s, like C's atoi; callers guard
// the first character themselves where it matters.
func atoi(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func validDirection(s string) bool {
	return len(s) > 0 && (s[0] == 'h' || s[0] == 'v')
}

func widgetAdd(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) < 4 || len(args) > 6 {
		sendError(c, "Usage: widget_add <screenid> <widgetid> <widgettype> [-in <id>]\n")
		return nil
	}

	s := c.FindScreen(args[1])
	if s == nil {
		sendError(c, "Unknown screen id\n")
		return nil
	}

	wtype, ok := session.ParseWidgetType(args[3])
	if !ok {
		sendError(c, "Invalid widget type\n")
		return nil
	}

	frameID := ""
	if len(args) > 4 {
		p := args[4]
		if len(p) > 0 && p[0] == '-' {
			p = p[1:]
		}
		if p == "in" {
			if len(args) < 6 {
				sendError(c, "Specify a frame to place widget in\n")
				return nil
			}
			frameID = args[5]
		}
	}

	w := session.NewWidget(args[2], wtype, s)
	if !s.AddWidget(w, frameID) {
		sendError(c, "Error finding frame\n")
		return nil
	}
	c.Send("success\n")

	return nil
}

func widgetDel(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 3 {
		sendError(c, "Usage: widget_del <screenid> <widgetid>\n")
		return nil
	}

	logrus.Debugf("Deleting widget %s.%s", args[1], args[2])

	s := c.FindScreen(args[1])
	if s == nil {
		sendError(c, "Unknown screen id\n")
		return nil
	}

	if s.FindWidget(args[2]) == nil {
		sendError(c, "Unknown widget id\n")
		return nil
	}

	if s.RemoveWidget(args[2]) {
		c.Send("success\n")
	} else {
		sendError(c, "Error removing widget\n")
	}

	return nil
}

// widgetSet validates and stores the type-specific parameters of a widget.
func widgetSet(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) < 4 {
		sendError(c, "Usage: widget_set <screenid> <widgetid> <widget-SPECIFIC-data>\n")
		return nil
	}

	s := c.FindScreen(args[1])
	if s == nil {
		sendError(c, "Unknown screen id\n")
		return nil
	}

	w := s.FindWidget(args[2])
	if w == nil {
		sendError(c, "Unknown widget id\n")
		logrus.Warnf("Client %d set unknown widget %q on screen %q", c.ID, args[2], args[1])
		return nil
	}

	// The type-specific parameters start after the ids.
	v := args[3:]

	switch w.Type {
	case session.WidgetString:
		if len(v) != 3 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		if !startsWithDigit(v[0]) || !startsWithDigit(v[1]) {
			sendError(c, "Invalid coordinates\n")
			return nil
		}
		w.X = atoi(v[0])
		w.Y = atoi(v[1])
		w.Text = v[2]

	case session.WidgetHBar, session.WidgetVBar:
		if len(v) != 3 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		if !startsWithDigit(v[0]) || !startsWithDigit(v[1]) {
			sendError(c, "Invalid coordinates\n")
			return nil
		}
		w.X = atoi(v[0])
		w.Y = atoi(v[1])
		w.Length = atoi(v[2])

	case session.WidgetPBar:
		if len(v) < 4 || len(v) > 6 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		if !startsWithDigit(v[0]) || !startsWithDigit(v[1]) {
			sendError(c, "Invalid coordinates\n")
			return nil
		}
		w.BeginLabel = ""
		w.EndLabel = ""
		w.X = atoi(v[0])
		w.Y = atoi(v[1])
		w.Width = atoi(v[2])
		w.Promille = atoi(v[3])
		if len(v) >= 5 {
			w.BeginLabel = v[4]
		}
		if len(v) >= 6 {
			w.EndLabel = v[5]
		}

	case session.WidgetIcon:
		if len(v) != 3 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		if !startsWithDigit(v[0]) || !startsWithDigit(v[1]) {
			sendError(c, "Invalid coordinates\n")
			return nil
		}
		icon, ok := driver.ParseIcon(v[2])
		if !ok {
			sendError(c, "Invalid icon name\n")
			return nil
		}
		w.X = atoi(v[0])
		w.Y = atoi(v[1])
		w.Icon = icon

	case session.WidgetTitle:
		if len(v) != 1 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		w.Text = v[0]
		w.Width = ctx.Drivers.Props().Width

	case session.WidgetScroller:
		if len(v) != 7 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		if !startsWithDigit(v[0]) || !startsWithDigit(v[1]) ||
			!startsWithDigit(v[2]) || !startsWithDigit(v[3]) {
			sendError(c, "Invalid coordinates\n")
			return nil
		}
		if !validDirection(v[4]) && v[4] != "m" {
			sendError(c, "Invalid direction\n")
			return nil
		}
		w.Left = atoi(v[0])
		w.Top = atoi(v[1])
		w.Right = atoi(v[2])
		w.Bottom = atoi(v[3])
		w.Direction = v[4][0]
		w.Speed = atoi(v[5])
		w.Text = v[6]

	case session.WidgetFrame:
		if len(v) != 8 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		if !startsWithDigit(v[0]) || !startsWithDigit(v[1]) ||
			!startsWithDigit(v[2]) || !startsWithDigit(v[3]) ||
			!startsWithDigit(v[4]) || !startsWithDigit(v[5]) {
			sendError(c, "Invalid coordinates\n")
			return nil
		}
		if !validDirection(v[6]) {
			sendError(c, "Invalid direction\n")
			return nil
		}
		w.Left = atoi(v[0])
		w.Top = atoi(v[1])
		w.Right = atoi(v[2])
		w.Bottom = atoi(v[3])
		w.Width = atoi(v[4])
		w.Height = atoi(v[5])
		w.Direction = v[6][0]
		w.Speed = atoi(v[7])

	case session.WidgetNum:
		if len(v) != 2 {
			sendError(c, "Wrong number of arguments\n")
			return nil
		}
		if !startsWithDigit(v[0]) {
			sendError(c, "Invalid coordinates\n")
			return nil
		}
		if !startsWithDigit(v[1]) {
			sendError(c, "Invalid number\n")
			return nil
		}
		w.X = atoi(v[0])
		w.Y = atoi(v[1])

	default:
		sendError(c, "Widget has no type\n")
		return nil
	}

	c.Send("success\n")

	return nil
}
