package driver

import (
	"errors"

	"github.com/sirupsen/logrus"
)

// DisplayProps is the geometry every renderer works against. It comes from
// the first output driver and applies to all of them.
type DisplayProps struct {
	Width      int
	Height     int
	CellWidth  int
	CellHeight int
}

// Set holds every loaded driver and fans display operations out to all of
// them, substituting the Alt fallbacks where a driver lacks a slot.
type Set struct {
	drivers []*Driver
	output  *Driver
	props   *DisplayProps

	// Timer is the frame counter of the main loop; the blink fallbacks
	// key off it.
	Timer int
}

// Load binds one more driver into the set. The first driver that renders to
// a display becomes the primary one and fixes the display geometry.
func (s *Set) Load(req LoadRequest) (*Driver, error) {
	d, err := Load(req)
	if err != nil {
		return nil, err
	}
	s.drivers = append(s.drivers, d)

	if d.DoesOutput() && s.output == nil {
		s.output = d
		s.props = &DisplayProps{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			CellWidth:  DefaultCellWidth,
			CellHeight: DefaultCellHeight,
		}
		if d.Width != nil && d.Width() > 0 {
			s.props.Width = d.Width()
		}
		if d.Height != nil && d.Height() > 0 {
			s.props.Height = d.Height()
		}
		if d.CellWidth != nil && d.CellWidth() > 0 {
			s.props.CellWidth = d.CellWidth()
		}
		if d.CellHeight != nil && d.CellHeight() > 0 {
			s.props.CellHeight = d.CellHeight()
		}
		logrus.Infof("Display: %dx%d, cell %dx%d", s.props.Width, s.props.Height,
			s.props.CellWidth, s.props.CellHeight)
	}
	return d, nil
}

// UnloadAll shuts every driver down in reverse load order.
func (s *Set) UnloadAll() {
	for i := len(s.drivers) - 1; i >= 0; i-- {
		d := s.drivers[i]
		if err := d.Unload(); err != nil {
			logrus.Warnf("Driver %s: unload: %v", d.Name, err)
		}
	}
	s.drivers = nil
	s.output = nil
	s.props = nil
}

// Count returns the number of loaded drivers.
func (s *Set) Count() int { return len(s.drivers) }

// Drivers returns the loaded drivers in load order.
func (s *Set) Drivers() []*Driver { return s.drivers }

// Props returns the display geometry, or the compile-time defaults when no
// output driver is loaded.
func (s *Set) Props() DisplayProps {
	if s.props == nil {
		return DisplayProps{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			CellWidth:  DefaultCellWidth,
			CellHeight: DefaultCellHeight,
		}
	}
	return *s.props
}

// StayInForeground reports whether any driver forbids daemonizing.
func (s *Set) StayInForeground() bool {
	for _, d := range s.drivers {
		if d.StayInForeground() {
			return true
		}
	}
	return false
}

func (s *Set) Clear() {
	for _, d := range s.drivers {
		if d.Clear != nil {
			d.Clear()
		}
	}
}

func (s *Set) Flush() {
	for _, d := range s.drivers {
		if d.Flush != nil {
			d.Flush()
		}
	}
}

func (s *Set) String(x, y int, text string) {
	for _, d := range s.drivers {
		if d.String != nil {
			d.String(x, y, text)
		}
	}
}

func (s *Set) Chr(x, y int, c byte) {
	for _, d := range s.drivers {
		if d.Chr != nil {
			d.Chr(x, y, c)
		}
	}
}

func (s *Set) VBar(x, y, length, promille, options int) {
	for _, d := range s.drivers {
		if d.VBar != nil {
			d.VBar(x, y, length, promille, options)
		} else {
			AltVBar(d, x, y, length, promille, options)
		}
	}
}

func (s *Set) HBar(x, y, length, promille, options int) {
	for _, d := range s.drivers {
		if d.HBar != nil {
			d.HBar(x, y, length, promille, options)
		} else {
			AltHBar(d, x, y, length, promille, options)
		}
	}
}

// PBar draws a progress bar of the given total width, wrapped in the begin
// and end labels. Drivers without a native progress bar fall back to a
// plain horizontal bar between "[" and "]".
func (s *Set) PBar(x, y, width, promille int, beginLabel, endLabel string) {
	for _, d := range s.drivers {
		pbar(d, x, y, width, promille, beginLabel, endLabel)
	}
}

func pbar(d *Driver, x, y, width, promille int, beginLabel, endLabel string) {
	if d.Chr == nil || d.String == nil {
		return
	}

	if d.PBar == nil && beginLabel == "" && endLabel == "" {
		beginLabel, endLabel = "[", "]"
	}

	if len(beginLabel)+len(endLabel)+2 > width {
		beginLabel, endLabel = "", ""
	}
	length := width - len(beginLabel) - len(endLabel)

	if beginLabel != "" {
		d.String(x, y, beginLabel)
		x += len(beginLabel)
	}

	switch {
	case d.PBar != nil:
		d.PBar(x, y, length, promille)
	case d.HBar != nil:
		d.HBar(x, y, length, promille, BarPatternFilled)
	default:
		AltHBar(d, x, y, length, promille, BarPatternFilled)
	}
	x += length

	if endLabel != "" {
		d.String(x, y, endLabel)
	}
}

func (s *Set) Num(x, num int) {
	for _, d := range s.drivers {
		if d.Num != nil {
			d.Num(x, num)
		} else {
			AltNum(d, x, num)
		}
	}
}

func (s *Set) Heartbeat(state int) {
	for _, d := range s.drivers {
		if d.Heartbeat != nil {
			d.Heartbeat(state)
		} else {
			AltHeartbeat(d, state, s.Timer)
		}
	}
}

func (s *Set) Icon(x, y, icon int) {
	for _, d := range s.drivers {
		if d.Icon != nil {
			if d.Icon(x, y, icon) != nil {
				AltIcon(d, x, y, icon)
			}
		} else {
			AltIcon(d, x, y, icon)
		}
	}
}

func (s *Set) Cursor(x, y, state int) {
	for _, d := range s.drivers {
		if d.Cursor != nil {
			d.Cursor(x, y, state)
		} else {
			AltCursor(d, x, y, state, s.Timer)
		}
	}
}

func (s *Set) SetChar(n int, dat []byte) {
	for _, d := range s.drivers {
		if d.SetChar != nil {
			d.SetChar(n, dat)
		}
	}
}

// GetFreeChars returns the free custom characters of the primary driver.
func (s *Set) GetFreeChars() int {
	if s.output != nil && s.output.GetFreeChars != nil {
		return s.output.GetFreeChars()
	}
	return 0
}

// GetContrast returns the contrast of the first driver that reports one.
func (s *Set) GetContrast() int {
	for _, d := range s.drivers {
		if d.GetContrast != nil {
			return d.GetContrast()
		}
	}
	return -1
}

func (s *Set) SetContrast(promille int) {
	for _, d := range s.drivers {
		if d.SetContrast != nil {
			d.SetContrast(promille)
		}
	}
}

// GetBrightness returns the brightness for a backlight state from the first
// driver that reports one.
func (s *Set) GetBrightness(state int) int {
	for _, d := range s.drivers {
		if d.GetBrightness != nil {
			return d.GetBrightness(state)
		}
	}
	return -1
}

func (s *Set) SetBrightness(state, promille int) {
	for _, d := range s.drivers {
		if d.SetBrightness != nil {
			d.SetBrightness(state, promille)
		}
	}
}

func (s *Set) Backlight(on int) {
	for _, d := range s.drivers {
		if d.Backlight != nil {
			d.Backlight(on)
		}
	}
}

func (s *Set) Output(state int) {
	for _, d := range s.drivers {
		if d.OutputSlot != nil {
			d.OutputSlot(state)
		}
	}
}

// MacroLeds sets the four macro led states. It succeeds when at least one
// driver accepted them.
func (s *Set) MacroLeds(m1, m2, m3, mr int) error {
	err := errors.New("no driver accepted the macro leds")
	for _, d := range s.drivers {
		if d.SetMacroLeds != nil {
			if derr := d.SetMacroLeds(m1, m2, m3, mr); derr == nil {
				err = nil
			}
		}
	}
	return err
}

// GetKey polls every input driver and returns the first pending keystroke,
// or "" when none is pending.
func (s *Set) GetKey() string {
	for _, d := range s.drivers {
		if d.GetKey == nil {
			continue
		}
		if key := d.GetKey(); key != "" {
			logrus.Debugf("Driver %s generated keystroke %s", d.Name, key)
			return key
		}
	}
	return ""
}

// GetInfo returns the primary driver's self-description.
func (s *Set) GetInfo() string {
	if s.output != nil && s.output.GetInfo != nil {
		return s.output.GetInfo()
	}
	return ""
}
