// Package oled drives an ssd1306 OLED over I²C as a character-cell display.
// Text is rasterized with a bitmap font, so the display behaves like a
// 21x5 character LCD to the rest of the server.
package oled

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/bitmapfont/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/tlegoff/charlcd/internal/srv/driver"
)

const (
	pixelWidth  = 128
	pixelHeight = 64

	// bitmapfont glyphs are 6x12 pixels.
	cellWidth  = 6
	cellHeight = 12

	columns = pixelWidth / cellWidth
	rows    = pixelHeight / cellHeight
)

var fontColor = image.NewUniform(color.RGBA{255, 255, 255, 255})

type oledDriver struct {
	bus     string
	rotated bool

	cells []byte

	i2cBus  i2c.BusCloser
	display *ssd1306.Dev
}

func init() {
	driver.RegisterBuiltin("oled", NewModule)
}

// NewModule returns a fresh oled driver as a loadable module.
func NewModule() driver.Module {
	d := &oledDriver{}

	apiVersion := driver.APIVersion
	foreground := true
	multiple := true

	return &driver.SymbolMap{
		Symbols: map[string]any{
			"OledApiVersion":       &apiVersion,
			"OledStayInForeground": &foreground,
			"OledSupportsMultiple": &multiple,
			"OledSymbolPrefix":     "Oled",
			"OledConfigure":        d.configure,
			"OledInit":             d.initDriver,
			"OledClose":            d.close,
			"OledWidth":            func() int { return columns },
			"OledHeight":           func() int { return rows },
			"OledCellWidth":        func() int { return cellWidth },
			"OledCellHeight":       func() int { return cellHeight },
			"OledClear":            d.clear,
			"OledFlush":            d.flush,
			"OledString":           d.str,
			"OledChr":              d.chr,
			"OledSetContrast":      d.setContrast,
			"OledBacklight":        d.backlight,
			"OledGetInfo":          d.info,
		},
	}
}

func (d *oledDriver) configure(opts driver.Options) {
	d.bus = opts.GetString("bus", "")
	d.rotated = opts.GetBool("rotated", false)
}

func (d *oledDriver) initDriver() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}

	// Open a handle to the configured I²C bus (first available by default):
	i2cBus, err := i2creg.Open(d.bus)
	if err != nil {
		return fmt.Errorf("open i2c bus: %w", err)
	}

	opts := ssd1306.DefaultOpts
	opts.W = pixelWidth
	opts.H = pixelHeight
	opts.Rotated = d.rotated

	display, err := ssd1306.NewI2C(i2cBus, &opts)
	if err != nil {
		i2cBus.Close()
		return fmt.Errorf("initialize oled display: %w", err)
	}
	display.SetContrast(1)

	d.i2cBus = i2cBus
	d.display = display
	d.cells = make([]byte, columns*rows)
	d.clear()

	logrus.Debugf("Driver oled: ssd1306 on bus %q, %dx%d characters", d.bus, columns, rows)
	return nil
}

func (d *oledDriver) close() {
	if d.display != nil {
		d.display.Halt()
	}
	if d.i2cBus != nil {
		d.i2cBus.Close()
	}
}

func (d *oledDriver) clear() {
	for i := range d.cells {
		d.cells[i] = ' '
	}
}

func (d *oledDriver) flush() {
	img := image.NewRGBA(image.Rect(0, 0, pixelWidth, pixelHeight))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  fontColor,
		Face: bitmapfont.Face,
	}
	for y := 0; y < rows; y++ {
		drawer.Dot = fixed.P(0, y*cellHeight+cellHeight-2)
		drawer.DrawString(string(d.cells[y*columns : (y+1)*columns]))
	}

	if err := d.display.Draw(d.display.Bounds(), img, image.Point{}); err != nil {
		logrus.Warnf("Driver oled: draw: %v", err)
	}
}

func (d *oledDriver) str(x, y int, text string) {
	for i := 0; i < len(text); i++ {
		d.chr(x+i, y, text[i])
	}
}

func (d *oledDriver) chr(x, y int, c byte) {
	if x < 1 || x > columns || y < 1 || y > rows {
		return
	}
	d.cells[(y-1)*columns+(x-1)] = c
}

func (d *oledDriver) setContrast(promille int) {
	if promille < 0 {
		promille = 0
	} else if promille > 1000 {
		promille = 1000
	}
	if err := d.display.SetContrast(byte(promille * 255 / 1000)); err != nil {
		logrus.Warnf("Driver oled: set contrast: %v", err)
	}
}

func (d *oledDriver) backlight(on int) {
	if on == driver.BacklightOff {
		if err := d.display.Halt(); err != nil {
			logrus.Warnf("Driver oled: halt: %v", err)
		}
		return
	}
	// Forcing the contrast wakes the panel up again; a plain Draw() does
	// not.
	d.display.SetContrast(1)
	d.flush()
}

func (d *oledDriver) info() string {
	return fmt.Sprintf("ssd1306 oled driver, %dx%d characters on a %dx%d panel",
		columns, rows, pixelWidth, pixelHeight)
}
