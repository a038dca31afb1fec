package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	BindAddress     string         `yaml:"bind_address"`
	Port            int64          `yaml:"port"`
	FrameIntervalUs int64          `yaml:"frame_interval_us"`
	Backlight       string         `yaml:"backlight"`
	Heartbeat       string         `yaml:"heartbeat"`
	ServerScreen    string         `yaml:"server_screen"`
	AutoRotate      bool           `yaml:"auto_rotate"`
	Drivers         []*DriverParam `yaml:"drivers"`
	Keys            KeysParam      `yaml:"keys"`
	Menu            MenuKeysParam  `yaml:"menu"`
	ApiParam        ApiParam       `yaml:"api"`
}

type DriverParam struct {
	Name string `yaml:"name"`

	// Module is the path of a compiled driver plugin. Drivers built into
	// the binary leave it empty.
	Module string `yaml:"module,omitempty"`

	// SymbolPrefix overrides the driver's own symbol prefix when looking
	// up entry points in a plugin.
	SymbolPrefix string `yaml:"symbol_prefix,omitempty"`

	Options map[string]string `yaml:"options,omitempty"`
}

type KeysParam struct {
	ToggleRotate string `yaml:"toggle_rotate"`
	PrevScreen   string `yaml:"prev_screen"`
	NextScreen   string `yaml:"next_screen"`
	ScrollUp     string `yaml:"scroll_up"`
	ScrollDown   string `yaml:"scroll_down"`
}

type MenuKeysParam struct {
	Menu  string `yaml:"menu"`
	Enter string `yaml:"enter"`
	Up    string `yaml:"up"`
	Down  string `yaml:"down"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}
