package menu

import (
	"fmt"

	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// buildScreen rebuilds the menu screen's widgets for the active item. The
// screen is rendered like any other, so everything the menu shows is
// expressed as ordinary widgets.
func (m *Menus) buildScreen() {
	s := m.screen
	s.ClearWidgets()

	item := m.active
	if item == nil {
		return
	}

	title := session.NewWidget("title", session.WidgetTitle, s)
	title.Text = item.Text
	s.AddWidget(title, "")

	switch item.Type {
	case TypeMenu:
		m.buildMenuLines(item)
	case TypeSlider:
		m.buildSlider(item)
	case TypeNumeric:
		m.buildNumeric(item)
	}
}

// buildMenuLines lays out the visible children with a selector arrow in the
// first column and checkbox/ring values against the right edge.
func (m *Menus) buildMenuLines(item *Item) {
	s := m.screen
	visible := item.visibleItems()
	lines := m.height - 1

	for row := 0; row < lines; row++ {
		idx := item.scroll + row
		if idx >= len(visible) {
			break
		}
		child := visible[idx]
		y := row + 2

		if idx == item.selected {
			sel := session.NewWidget("selector", session.WidgetIcon, s)
			sel.X, sel.Y = 1, y
			sel.Icon = driver.IconSelectorAtLeft
			s.AddWidget(sel, "")
		}

		line := session.NewWidget(fmt.Sprintf("line%d", row+1), session.WidgetString, s)
		line.X, line.Y = 2, y
		line.Text = m.lineText(child)
		s.AddWidget(line, "")

		if child.Type == TypeCheckbox {
			box := session.NewWidget(fmt.Sprintf("box%d", row+1), session.WidgetIcon, s)
			box.X, box.Y = m.width, y
			box.Icon = checkboxIcon(child.Checkbox)
			s.AddWidget(box, "")
		}
	}
}

// lineText composes a child's line, right-aligning a ring's current choice
// when it fits.
func (m *Menus) lineText(child *Item) string {
	text := child.Text
	avail := m.width - 1

	if child.Type == TypeRing {
		val := child.RingText()
		pad := avail - len(text) - len(val)
		if pad >= 1 {
			return fmt.Sprintf("%s%*s", text, pad+len(val), val)
		}
	}
	if len(text) > avail {
		text = text[:avail]
	}
	return text
}

func checkboxIcon(v CheckboxValue) int {
	switch v {
	case CheckboxOn:
		return driver.IconCheckboxOn
	case CheckboxGray:
		return driver.IconCheckboxGray
	}
	return driver.IconCheckboxOff
}

// buildSlider shows the end labels with a bar between them and the value
// underneath.
func (m *Menus) buildSlider(item *Item) {
	s := m.screen

	minText := session.NewWidget("min", session.WidgetString, s)
	minText.X, minText.Y = 1, 2
	minText.Text = item.MinText
	s.AddWidget(minText, "")

	maxText := session.NewWidget("max", session.WidgetString, s)
	maxText.X, maxText.Y = max(1, m.width-len(item.MaxText)+1), 2
	maxText.Text = item.MaxText
	s.AddWidget(maxText, "")

	barX := len(item.MinText) + 1
	barCells := m.width - len(item.MinText) - len(item.MaxText)
	if barCells > 0 && item.Max > item.Min {
		bar := session.NewWidget("bar", session.WidgetHBar, s)
		bar.X, bar.Y = barX, 2
		bar.Length = (item.Value - item.Min) * barCells * m.cellWidth / (item.Max - item.Min)
		s.AddWidget(bar, "")
	}

	if m.height >= 3 {
		value := session.NewWidget("value", session.WidgetString, s)
		value.X, value.Y = 1, 3
		value.Text = fmt.Sprintf("%d", item.Value)
		s.AddWidget(value, "")
	}
}

// buildNumeric shows the value being edited.
func (m *Menus) buildNumeric(item *Item) {
	s := m.screen

	value := session.NewWidget("value", session.WidgetString, s)
	value.X, value.Y = 1, 2
	value.Text = fmt.Sprintf("%d", item.Value)
	s.AddWidget(value, "")
}
