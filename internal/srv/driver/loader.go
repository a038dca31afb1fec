package driver

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// slot describes one entry point of the driver interface. Binding walks the
// table, resolves each symbol and stores it into a scratch Driver; the
// scratch only becomes visible once every required slot bound and Init
// succeeded, so a failed load leaves no half-bound driver behind.
type slot struct {
	name     string
	required bool
	bind     func(d *Driver, v any) bool
}

func fn[T any](assign func(*Driver, T)) func(*Driver, any) bool {
	return func(d *Driver, v any) bool {
		f, ok := v.(T)
		if !ok {
			return false
		}
		assign(d, f)
		return true
	}
}

func symString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case *string:
		return *s, true
	}
	return "", false
}

func symBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case *bool:
		return *b, true
	case int:
		return b != 0, true
	case *int:
		return *b != 0, true
	}
	return false, false
}

func stringSlot(assign func(*Driver, string)) func(*Driver, any) bool {
	return func(d *Driver, v any) bool {
		s, ok := symString(v)
		if !ok {
			return false
		}
		assign(d, s)
		return true
	}
}

func boolSlot(assign func(*Driver, bool)) func(*Driver, any) bool {
	return func(d *Driver, v any) bool {
		b, ok := symBool(v)
		if !ok {
			return false
		}
		assign(d, b)
		return true
	}
}

var slotTable = []slot{
	{"ApiVersion", true, stringSlot(func(d *Driver, s string) { d.apiVersion = s })},
	{"StayInForeground", true, boolSlot(func(d *Driver, b bool) { d.stayInForeground = b })},
	{"SupportsMultiple", true, boolSlot(func(d *Driver, b bool) { d.supportsMultiple = b })},
	{"SymbolPrefix", true, stringSlot(func(d *Driver, s string) { d.symbolPrefix = s })},
	{"Init", true, fn(func(d *Driver, f func() error) { d.Init = f })},
	{"Close", true, fn(func(d *Driver, f func()) { d.CloseSlot = f })},

	{"Configure", false, fn(func(d *Driver, f func(Options)) { d.Configure = f })},
	{"Width", false, fn(func(d *Driver, f func() int) { d.Width = f })},
	{"Height", false, fn(func(d *Driver, f func() int) { d.Height = f })},
	{"Clear", false, fn(func(d *Driver, f func()) { d.Clear = f })},
	{"Flush", false, fn(func(d *Driver, f func()) { d.Flush = f })},
	{"String", false, fn(func(d *Driver, f func(int, int, string)) { d.String = f })},
	{"Chr", false, fn(func(d *Driver, f func(int, int, byte)) { d.Chr = f })},
	{"Vbar", false, fn(func(d *Driver, f func(int, int, int, int, int)) { d.VBar = f })},
	{"Hbar", false, fn(func(d *Driver, f func(int, int, int, int, int)) { d.HBar = f })},
	{"Pbar", false, fn(func(d *Driver, f func(int, int, int, int)) { d.PBar = f })},
	{"Num", false, fn(func(d *Driver, f func(int, int)) { d.Num = f })},
	{"Heartbeat", false, fn(func(d *Driver, f func(int)) { d.Heartbeat = f })},
	{"Icon", false, fn(func(d *Driver, f func(int, int, int) error) { d.Icon = f })},
	{"Cursor", false, fn(func(d *Driver, f func(int, int, int)) { d.Cursor = f })},
	{"SetChar", false, fn(func(d *Driver, f func(int, []byte)) { d.SetChar = f })},
	{"GetFreeChars", false, fn(func(d *Driver, f func() int) { d.GetFreeChars = f })},
	{"CellWidth", false, fn(func(d *Driver, f func() int) { d.CellWidth = f })},
	{"CellHeight", false, fn(func(d *Driver, f func() int) { d.CellHeight = f })},
	{"GetContrast", false, fn(func(d *Driver, f func() int) { d.GetContrast = f })},
	{"SetContrast", false, fn(func(d *Driver, f func(int)) { d.SetContrast = f })},
	{"GetBrightness", false, fn(func(d *Driver, f func(int) int) { d.GetBrightness = f })},
	{"SetBrightness", false, fn(func(d *Driver, f func(int, int)) { d.SetBrightness = f })},
	{"Backlight", false, fn(func(d *Driver, f func(int)) { d.Backlight = f })},
	{"Output", false, fn(func(d *Driver, f func(int)) { d.OutputSlot = f })},
	{"SetMacroLeds", false, fn(func(d *Driver, f func(int, int, int, int) error) { d.SetMacroLeds = f })},
	{"GetKey", false, fn(func(d *Driver, f func() string) { d.GetKey = f })},
	{"GetInfo", false, fn(func(d *Driver, f func() string) { d.GetInfo = f })},
}

// LoadRequest names a driver and where its code comes from.
type LoadRequest struct {
	Name string

	// ModulePath locates a plugin on disk; empty means a builtin driver
	// registered under Name.
	ModulePath string

	// SymbolPrefix overrides the prefix used during symbol resolution.
	// Empty derives the prefix from Name.
	SymbolPrefix string

	Options Options
}

// Load opens the driver's module, binds its slots and initializes it. On any
// failure the module is released again and the error tells why; no partially
// bound driver ever escapes.
func Load(req LoadRequest) (*Driver, error) {
	var (
		module Module
		err    error
	)
	if req.ModulePath != "" {
		module, err = OpenPlugin(req.ModulePath)
	} else {
		module, err = OpenBuiltin(req.Name)
	}
	if err != nil {
		return nil, err
	}

	d, err := bind(req, module)
	if err != nil {
		if cerr := module.Close(); cerr != nil {
			logrus.Warnf("Driver %s: close after failed load: %v", req.Name, cerr)
		}
		return nil, err
	}
	return d, nil
}

func bind(req LoadRequest, module Module) (*Driver, error) {
	prefix := req.SymbolPrefix
	if prefix == "" {
		prefix = defaultPrefix(req.Name)
	}

	d := &Driver{Name: req.Name, module: module}

	for _, sl := range slotTable {
		sym, err := module.Lookup(prefix + sl.name)
		if err != nil {
			sym, err = module.Lookup(sl.name)
		}
		if err != nil {
			if sl.required {
				return nil, fmt.Errorf("driver %s: required symbol %s missing", req.Name, sl.name)
			}
			continue
		}
		if !sl.bind(d, sym) {
			return nil, fmt.Errorf("driver %s: symbol %s has the wrong type", req.Name, sl.name)
		}
	}

	if d.apiVersion != APIVersion {
		return nil, fmt.Errorf("driver %s: API version %q, expected %q", req.Name, d.apiVersion, APIVersion)
	}

	if d.Configure != nil && req.Options != nil {
		d.Configure(req.Options)
	}

	if err := d.Init(); err != nil {
		return nil, fmt.Errorf("driver %s: init: %w", req.Name, err)
	}

	logrus.Debugf("Driver %s bound and initialized", req.Name)
	return d, nil
}

// defaultPrefix turns a configured driver name like "oled" into the symbol
// prefix "Oled".
func defaultPrefix(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
