// Package driver loads display drivers, binds their capability slots and
// papers over missing capabilities with character-based fallbacks.
package driver

import "errors"

// APIVersion is the driver interface version this server binds against.
// A loaded module must export exactly this version.
const APIVersion = "0.3"

// ErrUnsupportedIcon is returned by a driver's Icon slot when it cannot
// render the requested icon; the caller then falls back to AltIcon.
var ErrUnsupportedIcon = errors.New("driver: unsupported icon")

// Bar option flags. Only BarPos and BarSeamless are acted on today; the
// rest are reserved on the wire.
const (
	BarPos            = 0x001
	BarNeg            = 0x002
	BarPosAndNeg      = 0x003
	BarPatternFilled  = 0x000
	BarPatternOpen    = 0x010
	BarPatternStriped = 0x020
	BarSeamless       = 0x040
	BarWithPercentage = 0x100
)

// Default display geometry, used until a driver reports its own.
const (
	DefaultWidth      = 20
	DefaultHeight     = 4
	DefaultCellWidth  = 5
	DefaultCellHeight = 8
)

// Backlight states passed to the Backlight slot.
const (
	BacklightOff  = 0
	BacklightOn   = 1
	BacklightOpen = 2
)

// Heartbeat states passed to the Heartbeat slot.
const (
	HeartbeatOff  = 0
	HeartbeatOn   = 1
	HeartbeatOpen = 2
)

// Cursor states passed to the Cursor slot.
const (
	CursorOff       = 0
	CursorDefaultOn = 1
	CursorBlock     = 4
	CursorUnder     = 5
)

// Icon codes. The low byte is a hint for drivers that map icons onto a
// character set; codes above 0x1ff take two cells.
const (
	IconBlockFilled = 0x100

	IconHeartOpen   = 0x108
	IconHeartFilled = 0x109

	IconArrowUp    = 0x110
	IconArrowDown  = 0x111
	IconArrowLeft  = 0x112
	IconArrowRight = 0x113

	IconCheckboxOff  = 0x120
	IconCheckboxOn   = 0x121
	IconCheckboxGray = 0x122

	IconSelectorAtLeft  = 0x128
	IconSelectorAtRight = 0x129

	IconEllipsis = 0x130

	IconStop  = 0x200
	IconPause = 0x201
	IconPlay  = 0x202
	IconPlayR = 0x203
	IconFF    = 0x204
	IconFR    = 0x205
	IconNext  = 0x206
	IconPrev  = 0x207
	IconRec   = 0x208
)

var iconNames = map[int]string{
	IconBlockFilled:     "BLOCK_FILLED",
	IconHeartOpen:       "HEART_OPEN",
	IconHeartFilled:     "HEART_FILLED",
	IconArrowUp:         "ARROW_UP",
	IconArrowDown:       "ARROW_DOWN",
	IconArrowLeft:       "ARROW_LEFT",
	IconArrowRight:      "ARROW_RIGHT",
	IconCheckboxOff:     "CHECKBOX_OFF",
	IconCheckboxOn:      "CHECKBOX_ON",
	IconCheckboxGray:    "CHECKBOX_GRAY",
	IconSelectorAtLeft:  "SELECTOR_AT_LEFT",
	IconSelectorAtRight: "SELECTOR_AT_RIGHT",
	IconEllipsis:        "ELLIPSIS",
	IconStop:            "STOP",
	IconPause:           "PAUSE",
	IconPlay:            "PLAY",
	IconPlayR:           "PLAYR",
	IconFF:              "FF",
	IconFR:              "FR",
	IconNext:            "NEXT",
	IconPrev:            "PREV",
	IconRec:             "REC",
}

// IconName returns the protocol name of an icon code, or "" when unknown.
func IconName(icon int) string {
	return iconNames[icon]
}

// ParseIcon resolves a protocol icon name to its code.
func ParseIcon(name string) (int, bool) {
	for code, n := range iconNames {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// Options gives a driver read access to its configuration section.
type Options interface {
	GetString(key string, def string) string
	GetInt(key string, def int) int
	GetBool(key string, def bool) bool
}

// Driver is one bound display driver. The function fields are its
// capability slots: nil means the driver does not implement the capability
// and callers must either skip it or use the Alt fallbacks.
type Driver struct {
	Name string

	apiVersion       string
	stayInForeground bool
	supportsMultiple bool
	symbolPrefix     string
	module           Module

	// Configure runs before Init with the driver's configuration section.
	Configure func(Options)

	// Init brings the hardware up. A bound driver has run it successfully.
	Init func() error

	// CloseSlot shuts the hardware down again.
	CloseSlot func()

	Width  func() int
	Height func() int

	Clear func()
	Flush func()

	String func(x, y int, text string)
	Chr    func(x, y int, c byte)

	VBar func(x, y, length, promille, options int)
	HBar func(x, y, length, promille, options int)
	PBar func(x, y, length, promille int)
	Num  func(x, num int)

	Heartbeat func(state int)
	Icon      func(x, y, icon int) error
	Cursor    func(x, y, state int)

	SetChar      func(n int, dat []byte)
	GetFreeChars func() int
	CellWidth    func() int
	CellHeight   func() int

	GetContrast   func() int
	SetContrast   func(promille int)
	GetBrightness func(state int) int
	SetBrightness func(state, promille int)

	Backlight    func(on int)
	OutputSlot   func(state int)
	SetMacroLeds func(m1, m2, m3, mr int) error

	GetKey  func() string
	GetInfo func() string
}

// StayInForeground reports whether the driver forbids daemonizing.
func (d *Driver) StayInForeground() bool { return d.stayInForeground }

// SupportsMultiple reports whether more drivers may be loaded alongside.
func (d *Driver) SupportsMultiple() bool { return d.supportsMultiple }

// SymbolPrefix returns the prefix the driver declares for its symbols.
func (d *Driver) SymbolPrefix() string { return d.symbolPrefix }

// DoesOutput reports whether the driver renders to a display.
func (d *Driver) DoesOutput() bool {
	return d.Width != nil || d.Height != nil || d.Clear != nil ||
		d.String != nil || d.Chr != nil
}

// DoesInput reports whether the driver can produce key presses.
func (d *Driver) DoesInput() bool { return d.GetKey != nil }

// Unload shuts the driver down and releases its module.
func (d *Driver) Unload() error {
	if d.CloseSlot != nil {
		d.CloseSlot()
	}
	if d.module != nil {
		return d.module.Close()
	}
	return nil
}
