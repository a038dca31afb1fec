package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultParamFile(t *testing.T) {
	param := &ServerParam{}
	require.NoError(t, yaml.Unmarshal(ParamDefaultFile, param))

	assert.Equal(t, "127.0.0.1", param.BindAddress)
	assert.Equal(t, int64(13666), param.Port)
	assert.Equal(t, int64(125000), param.FrameIntervalUs)
	assert.Equal(t, "open", param.Backlight)
	assert.Equal(t, "on", param.ServerScreen)
	assert.True(t, param.AutoRotate)
	require.Len(t, param.Drivers, 1)
	assert.Equal(t, "debug", param.Drivers[0].Name)
	assert.Equal(t, "Enter", param.Keys.ToggleRotate)
	assert.Equal(t, "Menu", param.Menu.Menu)
	assert.False(t, param.ApiParam.Enabled)
}

func TestNewServerConfigCreatesDefaults(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "charlcd")

	sc := NewServerConfig(configDir, false, true)
	require.NotNil(t, sc.ServerParam)
	assert.Equal(t, 125*time.Millisecond, sc.FrameInterval())

	// The default param file must have been written out.
	_, err := os.Stat(sc.GetCompleteParamFilename())
	assert.NoError(t, err)
}

func TestNewServerConfigReadsExisting(t *testing.T) {
	configDir := t.TempDir()
	raw := []byte("bind_address: 0.0.0.0\nport: 4242\nframe_interval_us: 250000\n")
	require.NoError(t, ioutil.WriteFile(filepath.Join(configDir, paramFilename), raw, 0660))

	sc := NewServerConfig(configDir, false, false)
	assert.Equal(t, "0.0.0.0", sc.BindAddress)
	assert.Equal(t, int64(4242), sc.Port)
	assert.Equal(t, 250*time.Millisecond, sc.FrameInterval())
}

func TestDriverOptions(t *testing.T) {
	sc := &ServerConfig{ServerParam: &ServerParam{
		Drivers: []*DriverParam{
			{Name: "oled", Options: map[string]string{
				"contrast": "700",
				"flip":     "true",
				"bus":      "1",
				"bad":      "not-a-number",
			}},
		},
	}}

	do := sc.OptionsFor("oled")
	assert.Equal(t, 700, do.GetInt("contrast", 500))
	assert.Equal(t, 500, do.GetInt("missing", 500))
	assert.Equal(t, 500, do.GetInt("bad", 500))
	assert.True(t, do.GetBool("flip", false))
	assert.Equal(t, "1", do.GetString("bus", "0"))

	// Unknown driver names still yield a working accessor.
	none := sc.OptionsFor("ghost")
	assert.Equal(t, "dflt", none.GetString("anything", "dflt"))
}
