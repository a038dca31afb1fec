package debugdrv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlegoff/charlcd/internal/srv/driver"
)

type options map[string]string

func (o options) GetString(key, def string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return def
}

func (o options) GetInt(key string, def int) int { return def }

func (o options) GetBool(key string, def bool) bool { return def }

func TestLoadDebugDriver(t *testing.T) {
	var s driver.Set
	d, err := s.Load(driver.LoadRequest{Name: "debug", Options: options{"size": "16x2"}})
	require.NoError(t, err)
	defer s.UnloadAll()

	props := s.Props()
	assert.Equal(t, 16, props.Width)
	assert.Equal(t, 2, props.Height)
	assert.Equal(t, 5, props.CellWidth)
	assert.Equal(t, 8, props.CellHeight)
	assert.True(t, d.DoesOutput())
	assert.False(t, d.DoesInput())
	assert.False(t, s.StayInForeground())
}

func TestFramebufferRoundTrip(t *testing.T) {
	var s driver.Set
	_, err := s.Load(driver.LoadRequest{Name: "debug", Options: options{"size": "10x2"}})
	require.NoError(t, err)
	defer s.UnloadAll()

	s.Clear()
	s.String(1, 1, "hello")
	s.Chr(10, 2, '!')
	// Out-of-range writes are discarded.
	s.Chr(11, 2, 'X')
	s.Chr(0, 1, 'X')
	s.Flush()

	rows := Snapshot()
	require.Len(t, rows, 2)
	assert.Equal(t, "hello     ", rows[0])
	assert.Equal(t, "         !", rows[1])
}

func TestSnapshotTracksFlushOnly(t *testing.T) {
	var s driver.Set
	_, err := s.Load(driver.LoadRequest{Name: "debug", Options: options{"size": "5x1"}})
	require.NoError(t, err)

	s.String(1, 1, "one")
	s.Flush()
	s.Clear()
	s.String(1, 1, "two")

	// Unflushed writes stay invisible.
	assert.Equal(t, []string{"one  "}, Snapshot())

	s.UnloadAll()
	assert.Nil(t, Snapshot())
}

func TestBadSizeFallsBack(t *testing.T) {
	var s driver.Set
	_, err := s.Load(driver.LoadRequest{Name: "debug", Options: options{"size": "huge"}})
	require.NoError(t, err)
	defer s.UnloadAll()

	props := s.Props()
	assert.Equal(t, 20, props.Width)
	assert.Equal(t, 4, props.Height)
}

func TestContrastAndBrightness(t *testing.T) {
	var s driver.Set
	_, err := s.Load(driver.LoadRequest{Name: "debug"})
	require.NoError(t, err)
	defer s.UnloadAll()

	s.SetContrast(700)
	assert.Equal(t, 700, s.GetContrast())

	s.SetBrightness(driver.BacklightOff, 150)
	assert.Equal(t, 150, s.GetBrightness(driver.BacklightOff))
	assert.Equal(t, 1000, s.GetBrightness(driver.BacklightOn))
}
