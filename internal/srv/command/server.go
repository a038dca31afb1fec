package command

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/session"
)

// Output port states covering every port at once.
const (
	allOutputsOn  = -1
	allOutputsOff = 0
)

// output sets the state of the display's general purpose output ports. The
// renderer pushes the value to the drivers on every frame.
func output(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 2 {
		sendError(c, "Usage: output {on|off|<num>}\n")
		return nil
	}

	switch args[1] {
	case "on":
		ctx.Render.OutputState = allOutputsOn
	case "off":
		ctx.Render.OutputState = allOutputsOff
	default:
		// Base 0 accepts decimal, octal and hex bitmasks.
		out, err := strconv.ParseInt(args[1], 0, 64)
		if err != nil {
			sendError(c, "invalid parameter...\n")
			return nil
		}
		ctx.Render.OutputState = int(out)
	}

	c.Send("success\n")
	logrus.Debug("Output state changed")

	return nil
}

// info replies with the primary driver's self-description.
func info(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) > 1 {
		sendError(c, "Extra arguments ignored...\n")
	}

	c.Sendf("%s\n", ctx.Drivers.GetInfo())

	return nil
}

func noop(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	c.Send("noop complete\n")
	return nil
}
