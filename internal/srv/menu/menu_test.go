package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlegoff/charlcd/internal/srv/config"
	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

type pushWriter struct {
	sent []string
}

func (w *pushWriter) Send(msg string) error {
	w.sent = append(w.sent, msg)
	return nil
}

var testKeys = config.MenuKeysParam{
	Menu:  "Menu",
	Enter: "Enter",
	Up:    "Up",
	Down:  "Down",
	Left:  "Left",
	Right: "Right",
}

func newMenus() *Menus {
	return New(testKeys, driver.DisplayProps{Width: 20, Height: 4, CellWidth: 5, CellHeight: 8})
}

func TestParseItemType(t *testing.T) {
	for name, want := range map[string]ItemType{
		"menu":     TypeMenu,
		"action":   TypeAction,
		"checkbox": TypeCheckbox,
		"ring":     TypeRing,
		"slider":   TypeSlider,
		"numeric":  TypeNumeric,
	} {
		got, ok := ParseItemType(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	_, ok := ParseItemType("lever")
	assert.False(t, ok)
}

func TestMenuNavigationWraps(t *testing.T) {
	m := NewItem("root", TypeMenu, "Root", nil)
	for _, id := range []string{"a", "b", "c"} {
		m.AddItem(NewItem(id, TypeAction, id, nil))
	}

	assert.Equal(t, "a", m.SelectedItem().ID)

	m.ProcessInput(TokenDown, 4)
	assert.Equal(t, "b", m.SelectedItem().ID)

	m.ProcessInput(TokenDown, 4)
	m.ProcessInput(TokenDown, 4)
	assert.Equal(t, "a", m.SelectedItem().ID, "down past the end wraps to the top")

	m.ProcessInput(TokenUp, 4)
	assert.Equal(t, "c", m.SelectedItem().ID, "up from the top wraps to the bottom")
}

func TestMenuEnterOnSubmenu(t *testing.T) {
	m := NewItem("root", TypeMenu, "Root", nil)
	m.AddItem(NewItem("sub", TypeMenu, "Sub", nil))

	assert.Equal(t, ResultEnter, m.ProcessInput(TokenEnter, 4))
	assert.Equal(t, ResultEnter, m.ProcessInput(TokenRight, 4))
	assert.Equal(t, ResultClose, m.ProcessInput(TokenMenu, 4))
}

func TestActionSelectFiresEvent(t *testing.T) {
	var events []EventType
	m := NewItem("root", TypeMenu, "Root", nil)
	action := NewItem("go", TypeAction, "Go", nil)
	action.OnEvent = func(item *Item, e EventType) { events = append(events, e) }
	m.AddItem(action)

	assert.Equal(t, ResultNone, m.ProcessInput(TokenEnter, 4))
	assert.Equal(t, []EventType{EventSelect}, events)

	action.SuccessorID = IDQuit
	assert.Equal(t, ResultQuit, m.ProcessInput(TokenEnter, 4))
}

func TestCheckboxCycles(t *testing.T) {
	m := NewItem("root", TypeMenu, "Root", nil)
	box := NewItem("box", TypeCheckbox, "Box", nil)
	m.AddItem(box)

	m.ProcessInput(TokenEnter, 4)
	assert.Equal(t, CheckboxOn, box.Checkbox)
	m.ProcessInput(TokenEnter, 4)
	assert.Equal(t, CheckboxOff, box.Checkbox, "two states without allow_gray")

	box.AllowGray = true
	m.ProcessInput(TokenRight, 4)
	m.ProcessInput(TokenRight, 4)
	assert.Equal(t, CheckboxGray, box.Checkbox)
	m.ProcessInput(TokenLeft, 4)
	assert.Equal(t, CheckboxOn, box.Checkbox)
}

func TestRingCycles(t *testing.T) {
	m := NewItem("root", TypeMenu, "Root", nil)
	ring := NewItem("ring", TypeRing, "Mode", nil)
	ring.Strings = []string{"slow", "fast", "turbo"}
	m.AddItem(ring)

	m.ProcessInput(TokenRight, 4)
	assert.Equal(t, "fast", ring.RingText())

	m.ProcessInput(TokenLeft, 4)
	m.ProcessInput(TokenLeft, 4)
	assert.Equal(t, "turbo", ring.RingText(), "left from the first entry wraps")
}

func TestSliderStepsAndClamps(t *testing.T) {
	var events []EventType
	s := NewItem("vol", TypeSlider, "Volume", nil)
	s.OnEvent = func(item *Item, e EventType) { events = append(events, e) }
	s.Min, s.Max, s.Step, s.Value = 0, 10, 4, 8

	assert.Equal(t, ResultNone, s.ProcessInput(TokenRight, 4))
	assert.Equal(t, 10, s.Value, "clamped at max")

	s.ProcessInput(TokenDown, 4)
	assert.Equal(t, 6, s.Value)

	assert.Equal(t, []EventType{EventPlus, EventMinus}, events)
	assert.Equal(t, ResultClose, s.ProcessInput(TokenEnter, 4))
}

func TestMenusWantsKey(t *testing.T) {
	m := newMenus()

	assert.True(t, m.WantsKey("Menu", nil), "menu key is always consumed")
	assert.False(t, m.WantsKey("Up", nil), "navigation keys pass through while closed")

	m.HandleKey("Menu")
	assert.NotNil(t, m.Active())
	assert.True(t, m.WantsKey("Up", nil))
	assert.False(t, m.WantsKey("X", nil))
}

func TestMenusOpenAndQuit(t *testing.T) {
	m := newMenus()
	assert.Equal(t, session.PriHidden, m.Screen().Priority)

	m.HandleKey("Menu")
	assert.Equal(t, m.Main(), m.Active())
	assert.Equal(t, session.PriInput, m.Screen().Priority)

	// The menu key closes the empty main menu again.
	m.HandleKey("Menu")
	assert.Nil(t, m.Active())
	assert.Equal(t, session.PriHidden, m.Screen().Priority)
}

func TestMenusEnterSubmenuAndClose(t *testing.T) {
	m := newMenus()
	sub := NewItem("sub", TypeMenu, "Sub", nil)
	m.Main().AddItem(sub)
	m.Main().AddItem(NewItem("noop", TypeAction, "Noop", nil))

	m.HandleKey("Menu")
	m.HandleKey("Enter")
	assert.Equal(t, sub, m.Active())

	m.HandleKey("Menu")
	assert.Equal(t, m.Main(), m.Active(), "closing a submenu returns to the parent")
}

func TestClientMenuLifecycle(t *testing.T) {
	m := newMenus()
	w := &pushWriter{}
	c := session.NewClient(1, w)
	c.Name = "test"
	c.State = session.StateActive

	root := m.ClientMenu(c)
	require.NotNil(t, root)
	assert.Same(t, root, m.ClientMenu(c), "second call reuses the subtree")
	assert.Contains(t, m.Main().Items(), root)

	box := NewItem("box", TypeCheckbox, "Box", c)
	m.AttachClientEvents(box)
	root.AddItem(box)

	m.Goto(root)
	m.HandleKey("Enter")
	assert.Equal(t, []string{"menuevent enter _client_menu_\n", "menuevent update box on\n"}, w.sent)

	m.DropClientMenu(c)
	assert.Nil(t, c.Menu)
	assert.NotContains(t, m.Main().Items(), root)
	assert.Equal(t, m.Main(), m.Active(), "dropping the shown subtree falls back to its parent")
}

func TestMenusFollowSuccessorLink(t *testing.T) {
	m := newMenus()
	w := &pushWriter{}
	c := session.NewClient(1, w)
	c.Name = "test"

	root := m.ClientMenu(c)
	action := NewItem("go", TypeAction, "Go", c)
	action.SuccessorID = "target"
	target := NewItem("target", TypeNumeric, "Target", c)
	root.AddItem(action)
	root.AddItem(target)

	m.Goto(root)
	m.HandleKey("Enter")
	assert.Equal(t, target, m.Active(), "the action's successor opens")
}

func TestBuildScreenMenu(t *testing.T) {
	m := newMenus()
	root := m.Main()
	root.AddItem(NewItem("a", TypeAction, "First", nil))
	ring := NewItem("r", TypeRing, "Mode", nil)
	ring.Strings = []string{"auto"}
	root.AddItem(ring)
	box := NewItem("b", TypeCheckbox, "Flag", nil)
	box.Checkbox = CheckboxOn
	root.AddItem(box)

	m.Goto(root)

	s := m.Screen()
	title := s.FindWidget("title")
	require.NotNil(t, title)
	assert.Equal(t, session.WidgetTitle, title.Type)
	assert.Equal(t, "charlcd Menu", title.Text)

	sel := s.FindWidget("selector")
	require.NotNil(t, sel)
	assert.Equal(t, 2, sel.Y, "first entry is selected")

	assert.Equal(t, "First", s.FindWidget("line1").Text)
	assert.Equal(t, "Mode           auto", s.FindWidget("line2").Text, "ring value right aligned")
	assert.Equal(t, driver.IconCheckboxOn, s.FindWidget("box3").Icon)
}

func TestBuildScreenSlider(t *testing.T) {
	m := newMenus()
	slider := NewItem("vol", TypeSlider, "Volume", nil)
	slider.MinText, slider.MaxText = "lo", "hi"
	slider.Value = 50
	m.Main().AddItem(slider)

	m.Goto(slider)

	s := m.Screen()
	assert.Equal(t, "lo", s.FindWidget("min").Text)
	assert.Equal(t, "hi", s.FindWidget("max").Text)
	assert.Equal(t, 19, s.FindWidget("max").X)

	bar := s.FindWidget("bar")
	require.NotNil(t, bar)
	assert.Equal(t, 3, bar.X)
	assert.Equal(t, 40, bar.Length, "half of 16 cells at cell width 5")

	assert.Equal(t, "50", s.FindWidget("value").Text)
}
