package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLoadBuiltin(t *testing.T) {
	RegisterBuiltin("settest", func() Module {
		tm := newTestModule("Settest")
		tm.Symbols["SettestWidth"] = func() int { return 16 }
		tm.Symbols["SettestHeight"] = func() int { return 2 }
		return tm.SymbolMap
	})

	var s Set
	d, err := s.Load(LoadRequest{Name: "settest"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Count())
	assert.Same(t, d, s.output)

	props := s.Props()
	assert.Equal(t, 16, props.Width)
	assert.Equal(t, 2, props.Height)
	// Cell geometry falls back to the character-cell defaults.
	assert.Equal(t, DefaultCellWidth, props.CellWidth)
	assert.Equal(t, DefaultCellHeight, props.CellHeight)

	s.UnloadAll()
	assert.Equal(t, 0, s.Count())
}

func TestSetPropsWithoutDrivers(t *testing.T) {
	var s Set
	props := s.Props()
	assert.Equal(t, DefaultWidth, props.Width)
	assert.Equal(t, DefaultHeight, props.Height)
}

func TestSetFansOutWithFallback(t *testing.T) {
	native, nativeGrid := gridDriver(20)
	nativeCalls := 0
	native.VBar = func(x, y, length, promille, options int) { nativeCalls++ }

	fallback, fallbackGrid := gridDriver(20)

	s := Set{drivers: []*Driver{native, fallback}}
	s.VBar(1, 4, 4, 1000, 0)

	assert.Equal(t, 1, nativeCalls)
	assert.Empty(t, nativeGrid)
	assert.Len(t, fallbackGrid, 4)
}

func TestSetPBarLabels(t *testing.T) {
	d, g := gridDriver(20)
	d.String = func(x, y int, text string) {
		for i := 0; i < len(text); i++ {
			g[[2]int{x + i, y}] = text[i]
		}
	}

	s := Set{drivers: []*Driver{d}}
	s.PBar(1, 1, 10, 1000, "", "")

	assert.Equal(t, "[--------]", g.row(1, 1, 10))
}

func TestSetGetKeyPollsInOrder(t *testing.T) {
	silent := &Driver{GetKey: func() string { return "" }}
	noisy := &Driver{GetKey: func() string { return "Enter" }}
	blind := &Driver{}

	s := Set{drivers: []*Driver{blind, silent, noisy}}
	assert.Equal(t, "Enter", s.GetKey())

	s = Set{drivers: []*Driver{blind, silent}}
	assert.Equal(t, "", s.GetKey())
}

func TestSetStayInForeground(t *testing.T) {
	s := Set{drivers: []*Driver{{}, {stayInForeground: true}}}
	assert.True(t, s.StayInForeground())

	s = Set{drivers: []*Driver{{}, {}}}
	assert.False(t, s.StayInForeground())
}

func TestSetIconFallbackOnError(t *testing.T) {
	d, g := gridDriver(20)
	d.Icon = func(x, y, icon int) error { return ErrUnsupportedIcon }

	s := Set{drivers: []*Driver{d}}
	s.Icon(1, 1, IconArrowUp)
	assert.Equal(t, byte('^'), g[[2]int{1, 1}])
}
