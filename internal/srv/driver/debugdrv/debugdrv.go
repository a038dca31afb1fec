// Package debugdrv is a display driver without hardware: it renders into an
// in-memory character grid and logs each flushed frame. It backs the
// simulation mode and the end-to-end tests.
package debugdrv

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/driver"
)

const (
	defaultWidth  = 20
	defaultHeight = 4
	cellWidth     = 5
	cellHeight    = 8
)

type debugDriver struct {
	width  int
	height int

	cells []byte

	contrast   int
	brightness map[int]int
	backlight  int
	output     int

	mu       sync.Mutex
	lastGood []string
}

// current is the most recently initialized instance; Snapshot reads it.
var (
	currentMu sync.Mutex
	current   *debugDriver
)

func init() {
	driver.RegisterBuiltin("debug", NewModule)
}

// NewModule returns a fresh debug driver as a loadable module.
func NewModule() driver.Module {
	d := &debugDriver{
		width:      defaultWidth,
		height:     defaultHeight,
		contrast:   500,
		brightness: map[int]int{driver.BacklightOn: 1000, driver.BacklightOff: 0},
		backlight:  driver.BacklightOn,
	}

	apiVersion := driver.APIVersion
	foreground := false
	multiple := true

	return &driver.SymbolMap{
		Symbols: map[string]any{
			"DebugApiVersion":       &apiVersion,
			"DebugStayInForeground": &foreground,
			"DebugSupportsMultiple": &multiple,
			"DebugSymbolPrefix":     "Debug",
			"DebugConfigure":        d.configure,
			"DebugInit":             d.initDriver,
			"DebugClose":            d.close,
			"DebugWidth":            func() int { return d.width },
			"DebugHeight":           func() int { return d.height },
			"DebugCellWidth":        func() int { return cellWidth },
			"DebugCellHeight":       func() int { return cellHeight },
			"DebugClear":            d.clear,
			"DebugFlush":            d.flush,
			"DebugString":           d.str,
			"DebugChr":              d.chr,
			"DebugGetContrast":      func() int { return d.contrast },
			"DebugSetContrast":      func(promille int) { d.contrast = promille },
			"DebugGetBrightness":    d.getBrightness,
			"DebugSetBrightness":    d.setBrightness,
			"DebugBacklight":        d.setBacklight,
			"DebugOutput":           d.setOutput,
			"DebugGetInfo":          d.info,
		},
	}
}

func (d *debugDriver) configure(opts driver.Options) {
	size := opts.GetString("size", fmt.Sprintf("%dx%d", defaultWidth, defaultHeight))
	var w, h int
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil || w < 1 || h < 1 {
		logrus.Warnf("Driver debug: bad size %q, using %dx%d", size, defaultWidth, defaultHeight)
		w, h = defaultWidth, defaultHeight
	}
	d.width, d.height = w, h
	d.contrast = opts.GetInt("contrast", d.contrast)
}

func (d *debugDriver) initDriver() error {
	d.cells = make([]byte, d.width*d.height)
	d.clear()

	currentMu.Lock()
	current = d
	currentMu.Unlock()

	logrus.Debugf("Driver debug: %dx%d framebuffer ready", d.width, d.height)
	return nil
}

func (d *debugDriver) close() {
	currentMu.Lock()
	if current == d {
		current = nil
	}
	currentMu.Unlock()
}

func (d *debugDriver) clear() {
	for i := range d.cells {
		d.cells[i] = ' '
	}
}

func (d *debugDriver) flush() {
	rows := make([]string, d.height)
	for y := 0; y < d.height; y++ {
		rows[y] = string(d.cells[y*d.width : (y+1)*d.width])
	}

	d.mu.Lock()
	d.lastGood = rows
	d.mu.Unlock()

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		border := "+" + strings.Repeat("-", d.width) + "+"
		logrus.Debug(border)
		for _, row := range rows {
			logrus.Debugf("|%s|", row)
		}
		logrus.Debug(border)
	}
}

func (d *debugDriver) str(x, y int, text string) {
	for i := 0; i < len(text); i++ {
		d.chr(x+i, y, text[i])
	}
}

func (d *debugDriver) chr(x, y int, c byte) {
	if x < 1 || x > d.width || y < 1 || y > d.height {
		return
	}
	d.cells[(y-1)*d.width+(x-1)] = c
}

func (d *debugDriver) getBrightness(state int) int {
	return d.brightness[state]
}

func (d *debugDriver) setBrightness(state, promille int) {
	d.brightness[state] = promille
}

func (d *debugDriver) setBacklight(on int) {
	if on != d.backlight {
		logrus.Debugf("Driver debug: backlight %d", on)
		d.backlight = on
	}
}

func (d *debugDriver) setOutput(state int) {
	logrus.Debugf("Driver debug: output 0x%x", state)
	d.output = state
}

func (d *debugDriver) info() string {
	return fmt.Sprintf("debug driver, %dx%d in-memory framebuffer", d.width, d.height)
}

// Snapshot returns the rows of the last flushed frame, or nil when no debug
// driver is active. Safe to call from other goroutines.
func Snapshot() []string {
	currentMu.Lock()
	d := current
	currentMu.Unlock()
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.lastGood))
	copy(out, d.lastGood)
	return out
}
