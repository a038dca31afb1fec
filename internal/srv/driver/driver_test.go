package driver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testModule builds a SymbolMap exporting a minimal valid driver under the
// given symbol prefix, tracking module closes and init calls.
type testModule struct {
	*SymbolMap
	closed int
	inited int
}

func newTestModule(prefix string) *testModule {
	tm := &testModule{}
	apiVersion := APIVersion
	foreground := false
	multiple := true
	tm.SymbolMap = &SymbolMap{
		Symbols: map[string]any{
			prefix + "ApiVersion":       &apiVersion,
			prefix + "StayInForeground": &foreground,
			prefix + "SupportsMultiple": &multiple,
			prefix + "SymbolPrefix":     prefix,
			prefix + "Init":             func() error { tm.inited++; return nil },
			prefix + "Close":            func() {},
		},
		OnClose: func() error { tm.closed++; return nil },
	}
	return tm
}

func loadFrom(t *testing.T, tm *testModule, req LoadRequest) (*Driver, error) {
	t.Helper()
	d, err := bind(req, tm.SymbolMap)
	if err != nil {
		require.NoError(t, tm.Close())
	}
	return d, err
}

func TestBindMinimalDriver(t *testing.T) {
	tm := newTestModule("Fake")
	d, err := loadFrom(t, tm, LoadRequest{Name: "fake"})
	require.NoError(t, err)

	assert.Equal(t, 1, tm.inited)
	assert.Equal(t, "Fake", d.SymbolPrefix())
	assert.True(t, d.SupportsMultiple())
	assert.False(t, d.StayInForeground())
	assert.False(t, d.DoesOutput())
	assert.False(t, d.DoesInput())
	assert.Nil(t, d.Clear)
}

func TestBindUnprefixedFallback(t *testing.T) {
	// Symbols without the derived "Fake" prefix must still resolve.
	tm := newTestModule("")
	tm.Symbols["Width"] = func() int { return 16 }

	d, err := loadFrom(t, tm, LoadRequest{Name: "fake"})
	require.NoError(t, err)
	require.NotNil(t, d.Width)
	assert.Equal(t, 16, d.Width())
	assert.True(t, d.DoesOutput())
}

func TestBindMissingRequiredSymbol(t *testing.T) {
	tm := newTestModule("Fake")
	delete(tm.Symbols, "FakeInit")

	_, err := loadFrom(t, tm, LoadRequest{Name: "fake"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Init")
	assert.Equal(t, 0, tm.inited)
	assert.Equal(t, 1, tm.closed)
}

func TestBindApiVersionMismatch(t *testing.T) {
	tm := newTestModule("Fake")
	old := "0.2"
	tm.Symbols["FakeApiVersion"] = &old

	_, err := loadFrom(t, tm, LoadRequest{Name: "fake"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API version")
	// Init must never run on a version mismatch.
	assert.Equal(t, 0, tm.inited)
	assert.Equal(t, 1, tm.closed)
}

func TestBindWrongSymbolType(t *testing.T) {
	tm := newTestModule("Fake")
	tm.Symbols["FakeWidth"] = "twenty"

	_, err := loadFrom(t, tm, LoadRequest{Name: "fake"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong type")
	assert.Equal(t, 1, tm.closed)
}

func TestBindInitFailure(t *testing.T) {
	tm := newTestModule("Fake")
	tm.Symbols["FakeInit"] = func() error { return errors.New("no such device") }

	_, err := loadFrom(t, tm, LoadRequest{Name: "fake"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such device")
	assert.Equal(t, 1, tm.closed)
}

type fakeOptions map[string]string

func (o fakeOptions) GetString(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}
func (o fakeOptions) GetInt(key string, def int) int { return def }

func (o fakeOptions) GetBool(key string, def bool) bool { return def }

func TestBindConfigureRunsBeforeInit(t *testing.T) {
	tm := newTestModule("Fake")
	var got string
	tm.Symbols["FakeConfigure"] = func(opts Options) {
		got = opts.GetString("device", "")
	}
	tm.Symbols["FakeInit"] = func() error {
		if got == "" {
			return errors.New("configure did not run first")
		}
		tm.inited++
		return nil
	}

	_, err := loadFrom(t, tm, LoadRequest{Name: "fake", Options: fakeOptions{"device": "/dev/i2c-1"}})
	require.NoError(t, err)
	assert.Equal(t, "/dev/i2c-1", got)
	assert.Equal(t, 1, tm.inited)
}

func TestLoadUnknownBuiltin(t *testing.T) {
	_, err := Load(LoadRequest{Name: "no-such-driver"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no builtin")
}

func TestDefaultPrefix(t *testing.T) {
	assert.Equal(t, "Oled", defaultPrefix("oled"))
	assert.Equal(t, "Debug", defaultPrefix("debug"))
	assert.Equal(t, "", defaultPrefix(""))
}

// grid records every character a fallback renderer draws.
type grid map[[2]int]byte

func gridDriver(width int) (*Driver, grid) {
	g := grid{}
	d := &Driver{
		Chr: func(x, y int, c byte) { g[[2]int{x, y}] = c },
	}
	if width > 0 {
		d.Width = func() int { return width }
	}
	return d, g
}

func (g grid) row(y, from, to int) string {
	out := make([]byte, 0, to-from+1)
	for x := from; x <= to; x++ {
		c, ok := g[[2]int{x, y}]
		if !ok {
			c = ' '
		}
		out = append(out, c)
	}
	return string(out)
}

func TestAltVBarFill(t *testing.T) {
	for _, tc := range []struct {
		promille int
		cells    int
	}{
		{0, 1},
		{500, 6},
		{1000, 10},
	} {
		d, g := gridDriver(0)
		AltVBar(d, 3, 10, 10, tc.promille, 0)
		assert.Len(t, g, tc.cells, "promille %d", tc.promille)
	}

	// Bars grow upward from the base cell.
	d, g := gridDriver(0)
	AltVBar(d, 3, 10, 10, 1000, 0)
	assert.Equal(t, byte('|'), g[[2]int{3, 10}])
	assert.Equal(t, byte('|'), g[[2]int{3, 1}])
}

func TestAltHBarFill(t *testing.T) {
	d, g := gridDriver(0)
	AltHBar(d, 1, 2, 10, 1000, 0)
	assert.Equal(t, "----------", g.row(2, 1, 10))

	d, g = gridDriver(0)
	AltHBar(d, 1, 2, 10, 500, 0)
	assert.Equal(t, "------", g.row(2, 1, 6))
	assert.NotContains(t, g, [2]int{7, 2})
}

func TestAltNumDigits(t *testing.T) {
	d, g := gridDriver(0)
	AltNum(d, 1, 0)
	assert.Equal(t, " _ ", g.row(1, 1, 3))
	assert.Equal(t, "| |", g.row(2, 1, 3))
	assert.Equal(t, "|_|", g.row(3, 1, 3))
	assert.Equal(t, "   ", g.row(4, 1, 3))

	// The colon glyph is a single column.
	d, g = gridDriver(0)
	AltNum(d, 5, 10)
	assert.Len(t, g, 4)
	assert.Equal(t, byte('.'), g[[2]int{5, 2}])
	assert.Equal(t, byte('.'), g[[2]int{5, 3}])

	// Out-of-range glyphs draw nothing.
	d, g = gridDriver(0)
	AltNum(d, 1, 11)
	AltNum(d, 1, -1)
	assert.Empty(t, g)
}

func TestAltIcon(t *testing.T) {
	d, g := gridDriver(0)
	AltIcon(d, 2, 1, IconHeartFilled)
	assert.Equal(t, byte('#'), g[[2]int{2, 1}])
	assert.Len(t, g, 1)

	// Wide icons take two cells.
	d, g = gridDriver(0)
	AltIcon(d, 2, 1, IconNext)
	assert.Equal(t, ">|", g.row(1, 2, 3))

	// Unknown codes degrade to a question mark.
	d, g = gridDriver(0)
	AltIcon(d, 1, 1, 0x3ff)
	assert.Equal(t, byte('?'), g[[2]int{1, 1}])
}

func TestAltHeartbeat(t *testing.T) {
	d, g := gridDriver(20)
	AltHeartbeat(d, HeartbeatOn, 1)
	assert.Equal(t, byte('#'), g[[2]int{20, 1}])

	d, g = gridDriver(20)
	AltHeartbeat(d, HeartbeatOn, 2)
	assert.Equal(t, byte('-'), g[[2]int{20, 1}])

	d, g = gridDriver(20)
	AltHeartbeat(d, HeartbeatOff, 1)
	assert.Empty(t, g)
}

func TestAltCursor(t *testing.T) {
	d, g := gridDriver(0)
	AltCursor(d, 4, 2, CursorBlock, 2)
	assert.Equal(t, byte('#'), g[[2]int{4, 2}])

	// The off phase of the blink draws nothing.
	d, g = gridDriver(0)
	AltCursor(d, 4, 2, CursorBlock, 0)
	assert.Empty(t, g)

	d, g = gridDriver(0)
	AltCursor(d, 4, 2, CursorUnder, 2)
	assert.Equal(t, byte('_'), g[[2]int{4, 2}])

	d, g = gridDriver(0)
	AltCursor(d, 4, 2, CursorOff, 2)
	assert.Empty(t, g)
}

func TestIconNames(t *testing.T) {
	code, ok := ParseIcon("HEART_FILLED")
	require.True(t, ok)
	assert.Equal(t, IconHeartFilled, code)
	assert.Equal(t, "HEART_FILLED", IconName(code))

	_, ok = ParseIcon("UNICORN")
	assert.False(t, ok)
	assert.Equal(t, "", IconName(0x3ff))
}
