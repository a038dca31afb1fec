package driver

// Fallback renderers for capabilities a driver left unbound. They only need
// the Chr slot (and Icon, where the driver has one) and draw with plain
// characters.

func altBar(d *Driver, x, y, length, promille int, c byte, dx, dy int) {
	if d.Chr == nil {
		return
	}
	for pos := 0; pos < length; pos++ {
		if 2*pos < promille*length/500+1 {
			d.Chr(x+pos*dx, y+pos*dy, c)
		}
	}
}

// AltVBar draws a vertical bar of '|' characters growing up from (x, y).
func AltVBar(d *Driver, x, y, length, promille, options int) {
	altBar(d, x, y, length, promille, '|', 0, -1)
}

// AltHBar draws a horizontal bar of '-' characters growing right from (x, y).
func AltHBar(d *Driver, x, y, length, promille, options int) {
	altBar(d, x, y, length, promille, '-', 1, 0)
}

// numMap holds 4-row character glyphs for the digits 0-9 plus a 1-column
// colon at index 10.
var numMap = [11][4]string{
	{" _ ", "| |", "|_|", "   "},
	{"   ", "  |", "  |", "   "},
	{" _ ", " _|", "|_ ", "   "},
	{" _ ", " _|", " _|", "   "},
	{"   ", "|_|", "  |", "   "},
	{" _ ", "|_ ", " _|", "   "},
	{" _ ", "|_ ", "|_|", "   "},
	{" _ ", "  |", "  |", "   "},
	{" _ ", "|_|", "|_|", "   "},
	{" _ ", "|_|", " _|", "   "},
	{" ", ".", ".", " "},
}

// AltNum draws a big number glyph with its top-left corner at (x, 1).
// num 0-9 selects a digit, 10 the colon.
func AltNum(d *Driver, x, num int) {
	if num < 0 || num > 10 {
		return
	}
	if d.Chr == nil {
		return
	}
	for y := 0; y < 4; y++ {
		row := numMap[num][y]
		for dx := 0; dx < len(row); dx++ {
			d.Chr(x+dx, y+1, row[dx])
		}
	}
}

// AltHeartbeat blinks a heart in the top right corner. The timer is the
// frame counter of the main loop.
func AltHeartbeat(d *Driver, state int, timer int) {
	if state == HeartbeatOff {
		return
	}
	if d.Width == nil {
		return
	}

	icon := IconHeartOpen
	if timer&5 != 0 {
		icon = IconHeartFilled
	}

	x := d.Width()
	if d.Icon != nil {
		if d.Icon(x, 1, icon) == nil {
			return
		}
	}
	AltIcon(d, x, 1, icon)
}

// altIconChars maps icon codes onto one or two plain characters.
var altIconChars = map[int][2]byte{
	IconBlockFilled:     {'#', 0},
	IconHeartOpen:       {'-', 0},
	IconHeartFilled:     {'#', 0},
	IconArrowUp:         {'^', 0},
	IconArrowDown:       {'v', 0},
	IconArrowLeft:       {'<', 0},
	IconArrowRight:      {'>', 0},
	IconCheckboxOff:     {'N', 0},
	IconCheckboxOn:      {'Y', 0},
	IconCheckboxGray:    {'o', 0},
	IconSelectorAtLeft:  {'>', 0},
	IconSelectorAtRight: {'<', 0},
	IconEllipsis:        {'_', 0},
	IconStop:            {'[', ']'},
	IconPause:           {'|', '|'},
	IconPlay:            {'>', ' '},
	IconPlayR:           {'<', ' '},
	IconFF:              {'>', '>'},
	IconFR:              {'<', '<'},
	IconNext:            {'>', '|'},
	IconPrev:            {'|', '<'},
	IconRec:             {'(', ')'},
}

// AltIcon substitutes an icon with plain characters at (x, y).
func AltIcon(d *Driver, x, y, icon int) {
	if d.Chr == nil {
		return
	}
	chars, ok := altIconChars[icon]
	if !ok {
		chars = [2]byte{'?', 0}
	}
	d.Chr(x, y, chars[0])
	if chars[1] != 0 {
		d.Chr(x+1, y, chars[1])
	}
}

// AltCursor blinks a block or underline cursor at (x, y).
func AltCursor(d *Driver, x, y, state int, timer int) {
	switch state {
	case CursorBlock, CursorDefaultOn:
		if timer&2 != 0 && d.Chr != nil {
			if d.Icon != nil && d.Icon(x, y, IconBlockFilled) == nil {
				return
			}
			AltIcon(d, x, y, IconBlockFilled)
		}
	case CursorUnder:
		if timer&2 != 0 && d.Chr != nil {
			d.Chr(x, y, '_')
		}
	}
}
