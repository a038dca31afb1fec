// Package render draws a screen's widgets onto the loaded drivers once per
// frame: the backlight and heartbeat precedence chains, the widget renderers
// with their scroll timing, the cursor and the transient server message.
package render

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// Title scroll speed range. The configured speed is inverted into a frame
// delay, so TitleSpeedMax scrolls every frame and TitleSpeedNone not at all.
const (
	TitleSpeedNone = 0
	TitleSpeedMin  = 1
	TitleSpeedMax  = 10
)

// MaxServerMsgLen bounds the text a server message may carry.
const MaxServerMsgLen = 15

// State holds the server-wide rendering settings that sit above any single
// client: the backlight and heartbeat overrides, the output port state and
// the currently displayed server message.
type State struct {
	Drivers *driver.Set

	// Backlight and Heartbeat override every client and screen unless
	// left at Open. The fallbacks apply when nobody below claims them
	// either.
	Backlight         int
	Heartbeat         int
	BacklightFallback int
	HeartbeatFallback int

	TitleSpeed  int
	OutputState int

	msgText   string
	msgExpire int
}

// NewState returns render state with everything left to the clients.
func NewState(drivers *driver.Set) *State {
	return &State{
		Drivers:           drivers,
		Backlight:         session.BacklightOpen,
		Heartbeat:         session.HeartbeatOpen,
		BacklightFallback: session.BacklightOn,
		HeartbeatFallback: session.HeartbeatOn,
		TitleSpeed:        TitleSpeedMin,
	}
}

// ServerMsg schedules a short text in the bottom right corner of the display
// for the given number of frames, replacing any message still showing.
func (r *State) ServerMsg(text string, expire int) error {
	if len(text) > MaxServerMsgLen || expire <= 0 {
		return fmt.Errorf("invalid server message %q expire %d", text, expire)
	}

	r.msgText = "| " + text
	r.msgExpire = expire

	return nil
}

// Screen renders one full frame of the given screen and flushes it.
func (r *State) Screen(s *session.Screen, timer int) {
	if s == nil {
		return
	}

	logrus.Debugf("Rendering screen %s at frame %d", s.ID, timer)

	r.Drivers.Timer = timer
	r.Drivers.Clear()

	// Backlight precedence: server override, then client, then screen,
	// then the fallback.
	state := r.BacklightFallback
	if r.Backlight != session.BacklightOpen {
		state = r.Backlight
	} else if s.Client != nil && s.Client.Backlight != session.BacklightOpen {
		state = s.Client.Backlight
	} else if s.Backlight != session.BacklightOpen {
		state = s.Backlight
	}

	switch {
	case state&session.BacklightFlash != 0:
		r.Drivers.Backlight(onOff(state&session.BacklightOn != 0, timer&7 == 7))
	case state&session.BacklightBlink != 0:
		r.Drivers.Backlight(onOff(state&session.BacklightOn != 0, timer&14 == 14))
	default:
		r.Drivers.Backlight(state & session.BacklightOn)
	}

	r.Drivers.Output(r.OutputState)

	props := r.Drivers.Props()
	r.renderFrame(s.Widgets(), 0, 0, props.Width, props.Height,
		s.Width, s.Height, 'v', max(s.Duration/s.Height, 1), timer)

	r.Drivers.Cursor(s.CursorX, s.CursorY, s.Cursor)

	// Heartbeat resolves through the same chain.
	state = r.HeartbeatFallback
	if r.Heartbeat != session.HeartbeatOpen {
		state = r.Heartbeat
	} else if s.Client != nil && s.Client.Heartbeat != session.HeartbeatOpen {
		state = s.Client.Heartbeat
	} else if s.Heartbeat != session.HeartbeatOpen {
		state = s.Heartbeat
	}
	r.Drivers.Heartbeat(state)

	if r.msgExpire > 0 {
		r.Drivers.String(props.Width-len(r.msgText)+1, props.Height, r.msgText)
		r.msgExpire--
		if r.msgExpire == 0 {
			r.msgText = ""
		}
	}

	r.Drivers.Flush()
}

func onOff(on, toggle bool) int {
	if on != toggle {
		return session.BacklightOn
	}
	return session.BacklightOff
}

// renderFrame walks a widget list inside the given viewport. A vertically
// scrolling frame taller than its viewport shifts its content up by fy rows,
// advancing one row every fspeed frames and wrapping.
func (r *State) renderFrame(list []*session.Widget, left, top, right, bottom, fwid, fhgt int, fscroll byte, fspeed, timer int) {
	if len(list) == 0 || fhgt <= 0 {
		return
	}

	fy := 0
	if fscroll == 'v' && fspeed != 0 && fhgt > bottom-top {
		fyMax := fhgt - (bottom - top) + 1
		if fspeed > 0 {
			fy = (timer / fspeed) % fyMax
		} else {
			fy = (-fspeed * timer) % fyMax
		}
		fy = max(fy, 0)
	}

	for _, w := range list {
		switch w.Type {
		case session.WidgetString:
			r.renderString(w, left, top-fy, right, bottom, fy)

		case session.WidgetHBar:
			r.renderHBar(w, left, top-fy, right, bottom, fy)

		case session.WidgetVBar:
			r.renderVBar(w, left, top)

		case session.WidgetPBar:
			r.renderPBar(w, left, top-fy)

		case session.WidgetIcon:
			r.Drivers.Icon(w.X, w.Y, w.Icon)

		case session.WidgetTitle:
			r.renderTitle(w, left, top, right, timer)

		case session.WidgetScroller:
			r.renderScroller(w, timer)

		case session.WidgetFrame:
			newLeft := left + w.Left - 1
			newTop := top + w.Top - 1
			newRight := min(left+w.Right, right)
			newBottom := min(top+w.Bottom, bottom)
			if newLeft < right && newTop < bottom {
				r.renderFrame(w.Children(), newLeft, newTop, newRight, newBottom,
					w.Width, w.Height, w.Direction, w.Speed, timer)
			}

		case session.WidgetNum:
			if w.X > 0 && w.Y >= 0 && w.Y <= 10 {
				r.Drivers.Num(w.X+left, w.Y)
			}
		}
	}
}

func (r *State) renderString(w *session.Widget, left, top, right, bottom, fy int) {
	if w.Text == "" || w.X <= 0 || w.Y <= 0 || w.Y <= fy || w.Y > bottom-top {
		return
	}

	x := min(w.X, right-left)
	r.Drivers.String(x+left, w.Y+top, w.Text)
}

// renderHBar draws a bar whose length is given in pixels. A bar wider than
// the viewport is capped at full scale.
func (r *State) renderHBar(w *session.Widget, left, top, right, bottom, fy int) {
	if w.X <= 0 || w.Y <= 0 || w.Y <= fy || w.Y > bottom-top {
		return
	}
	if w.Length <= 0 {
		return
	}

	props := r.Drivers.Props()
	length := props.Width - w.X - left + 1
	promille := 1000
	if w.Length/props.CellWidth < right-left-w.X+1 {
		length = w.Length / props.CellWidth
		if w.Length%props.CellWidth != 0 {
			length++
		}
		promille = 1000 * w.Length / (props.CellWidth * length)
	}

	r.Drivers.HBar(w.X+left, w.Y+top, length, promille, driver.BarPatternFilled)
}

// renderVBar scales the pixel length against the full display height.
func (r *State) renderVBar(w *session.Widget, left, top int) {
	if w.X <= 0 || w.Y <= 0 || w.Length <= 0 {
		return
	}

	props := r.Drivers.Props()
	fullLen := props.Height
	promille := 1000 * w.Length / (props.CellHeight * fullLen)

	r.Drivers.VBar(w.X+left, w.Y+top, fullLen, promille, driver.BarPatternFilled)
}

func (r *State) renderPBar(w *session.Widget, left, top int) {
	if w.X <= 0 || w.Y <= 0 || w.Width <= 0 {
		return
	}

	r.Drivers.PBar(w.X+left, w.Y+top, w.Width, w.Promille, w.BeginLabel, w.EndLabel)
}

// renderTitle frames the text with filled blocks and bounces it when it does
// not fit. The configured speed is inverted into a per-step frame delay.
func (r *State) renderTitle(w *session.Widget, left, top, right, timer int) {
	visWidth := right - left
	if w.Text == "" || visWidth < 8 {
		return
	}

	width := visWidth - 6
	length := len(w.Text)

	delay := TitleSpeedNone
	if r.TitleSpeed > TitleSpeedNone {
		delay = max(TitleSpeedMin, TitleSpeedMax-r.TitleSpeed)
	}

	r.Drivers.Icon(w.X+left, w.Y+top, driver.IconBlockFilled)
	r.Drivers.Icon(w.X+left+1, w.Y+top, driver.IconBlockFilled)

	var str string
	var x int
	if length <= width || delay == 0 {
		length = min(length, width)
		str = w.Text[:length]
		x = length + 4
	} else {
		offset := timer
		if delay < length/(length-width) {
			offset /= delay
		}

		reverse := (offset / length) & 1

		offset %= length
		offset = max(offset, 0)

		if delay >= length/(length-width) {
			offset /= delay
		}
		offset = min(offset, length-width)

		if reverse != 0 {
			offset = (length - width) - offset
		}

		str = w.Text[offset : offset+width]
		x = visWidth - 2
	}

	r.Drivers.String(w.X+3+left, w.Y+top, str)

	for ; x < visWidth; x++ {
		r.Drivers.Icon(w.X+x+left, w.Y+top, driver.IconBlockFilled)
	}
}

// renderScroller moves text through the region between the widget's left and
// right columns. Direction 'm' wraps around marquee style, 'h' bounces
// horizontally and 'v' pages multi-line text vertically. Speed is frames per
// movement when positive, movements per frame when negative.
func (r *State) renderScroller(w *session.Widget, timer int) {
	if w.Text == "" || w.Right < w.Left {
		return
	}

	screenWidth := w.Right - w.Left + 1

	switch w.Direction {
	case 'm':
		length := len(w.Text)
		if length <= screenWidth {
			r.Drivers.String(w.Left, w.Top, w.Text)
			return
		}

		gap := screenWidth / 2
		length += gap

		var offset int
		if w.Speed > 0 {
			offset = (timer % (length * w.Speed)) / w.Speed
		} else if w.Speed < 0 {
			n := length / -w.Speed
			if n > 0 {
				offset = (timer % n) * -w.Speed
			}
		}

		if offset <= length {
			// The visible window slides over the text with a half
			// screen of padding before it wraps around.
			pad := strings.Repeat(" ", gap)
			track := pad + w.Text + pad + w.Text
			end := min(offset+screenWidth, len(track))
			r.Drivers.String(w.Left, w.Top, track[offset:end])
		}

	case 'h':
		length := len(w.Text) + 1
		if length <= screenWidth {
			r.Drivers.String(w.Left, w.Top, w.Text)
			return
		}

		effLength := length - screenWidth
		offset := bounceOffset(effLength, w.Speed, timer)

		if offset >= 0 && offset <= length {
			end := min(offset+screenWidth, len(w.Text))
			if offset < end {
				r.Drivers.String(w.Left, w.Top, w.Text[offset:end])
			}
		}

	case 'v':
		length := len(w.Text)
		if length <= screenWidth {
			r.Drivers.String(w.Left, w.Top, w.Text)
			return
		}

		linesRequired := length / screenWidth
		if length%screenWidth != 0 {
			linesRequired++
		}
		availableLines := w.Bottom - w.Top + 1

		if linesRequired <= availableLines {
			for i := 0; i < linesRequired; i++ {
				r.Drivers.String(w.Left, w.Top+i, scrollerLine(w.Text, i, screenWidth))
			}
			return
		}

		effLines := linesRequired - availableLines + 1
		begin := bounceOffset(effLines, w.Speed, timer)
		begin = max(begin, 0)
		begin = min(begin, effLines-1)

		for i := begin; i < begin+availableLines; i++ {
			r.Drivers.String(w.Left, w.Top+(i-begin), scrollerLine(w.Text, i, screenWidth))
		}
	}
}

// bounceOffset walks an offset from 0 to span-1 and back, advancing every
// speed frames when speed is positive and -speed steps per frame when
// negative.
func bounceOffset(span, speed, timer int) int {
	switch {
	case speed > 0:
		n := span * speed
		if (timer/n)%2 == 0 {
			return (timer % n) / speed
		}
		return -((timer%n - n + 1) / speed)

	case speed < 0:
		n := span / -speed
		if n <= 0 {
			return 0
		}
		if (timer/n)%2 == 0 {
			return (timer % n) * -speed
		}
		return -((timer%n)*-speed - span + 1)

	default:
		return 0
	}
}

func scrollerLine(text string, i, width int) string {
	start := i * width
	if start >= len(text) {
		return ""
	}
	return text[start:min(start+width, len(text))]
}
