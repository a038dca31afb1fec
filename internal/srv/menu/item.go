// Package menu holds the client-defined menu trees and the screen that lets
// the display's local keys walk and edit them. Clients build items over the
// wire and get menuevent pushes back when values change.
package menu

import (
	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/session"
)

// ItemType classifies a menu entry.
type ItemType int

const (
	TypeMenu ItemType = iota
	TypeAction
	TypeCheckbox
	TypeRing
	TypeSlider
	TypeNumeric
)

var itemTypeNames = map[ItemType]string{
	TypeMenu:     "menu",
	TypeAction:   "action",
	TypeCheckbox: "checkbox",
	TypeRing:     "ring",
	TypeSlider:   "slider",
	TypeNumeric:  "numeric",
}

func (t ItemType) String() string {
	return itemTypeNames[t]
}

// ParseItemType resolves an item type name from the wire.
func ParseItemType(s string) (ItemType, bool) {
	for t, name := range itemTypeNames {
		if name == s {
			return t, true
		}
	}
	return TypeMenu, false
}

// CheckboxValue is the tristate of a checkbox item.
type CheckboxValue int

const (
	CheckboxOff CheckboxValue = iota
	CheckboxOn
	CheckboxGray
)

func (v CheckboxValue) String() string {
	switch v {
	case CheckboxOn:
		return "on"
	case CheckboxGray:
		return "gray"
	}
	return "off"
}

// ParseCheckboxValue resolves a checkbox value name from the wire.
func ParseCheckboxValue(s string) (CheckboxValue, bool) {
	switch s {
	case "off":
		return CheckboxOff, true
	case "on":
		return CheckboxOn, true
	case "gray":
		return CheckboxGray, true
	}
	return CheckboxOff, false
}

// EventType names the menuevent pushes sent to the owning client.
type EventType int

const (
	EventSelect EventType = iota
	EventUpdate
	EventPlus
	EventMinus
	EventEnter
	EventLeave
)

func (e EventType) String() string {
	switch e {
	case EventSelect:
		return "select"
	case EventUpdate:
		return "update"
	case EventPlus:
		return "plus"
	case EventMinus:
		return "minus"
	case EventEnter:
		return "enter"
	}
	return "leave"
}

// Result tells the menu screen what to do after a key was processed.
type Result int

const (
	ResultNone Result = iota
	ResultEnter
	ResultClose
	ResultQuit
	ResultPredecessor
	ResultSuccessor
	ResultError
)

// Token is a navigation key translated from its configured name.
type Token int

const (
	TokenOther Token = iota
	TokenMenu
	TokenEnter
	TokenUp
	TokenDown
	TokenLeft
	TokenRight
)

// Reserved ids usable as predecessor or successor of an item instead of a
// real item id.
const (
	IDNone  = "_none_"
	IDClose = "_close_"
	IDQuit  = "_quit_"
	IDMain  = "_main_"
)

// EventFunc receives the events an item emits while the user operates it.
type EventFunc func(item *Item, event EventType)

// Item is one node of a menu tree. Which fields matter depends on Type; a
// TypeMenu item carries children and a selection cursor.
type Item struct {
	ID     string
	Type   ItemType
	Text   string
	Client *session.Client
	Parent *Item
	Hidden bool

	// PredecessorID and SuccessorID name where left/escape and enter
	// lead; empty means the default, and the reserved ids short-circuit.
	PredecessorID string
	SuccessorID   string

	OnEvent EventFunc

	items    []*Item
	selected int
	scroll   int

	Checkbox  CheckboxValue
	AllowGray bool

	// Strings are the ring's choices, RingValue the current index.
	Strings   []string
	RingValue int

	Value   int
	Min     int
	Max     int
	Step    int
	MinText string
	MaxText string
}

// NewItem returns an item with the wire protocol's defaults for its type.
func NewItem(id string, t ItemType, text string, client *session.Client) *Item {
	it := &Item{
		ID:     id,
		Type:   t,
		Text:   text,
		Client: client,
	}
	switch t {
	case TypeSlider:
		it.Min, it.Max, it.Step, it.Value = 0, 100, 1, 25
	case TypeNumeric:
		it.Min, it.Max = 0, 100
	}
	return it
}

// AddItem appends a child to a menu item.
func (it *Item) AddItem(child *Item) {
	child.Parent = it
	it.items = append(it.items, child)
}

// RemoveItem detaches a direct child.
func (it *Item) RemoveItem(child *Item) bool {
	for i, c := range it.items {
		if c == child {
			it.items = append(it.items[:i], it.items[i+1:]...)
			child.Parent = nil
			if it.selected >= len(it.items) && it.selected > 0 {
				it.selected--
			}
			return true
		}
	}
	return false
}

// Items returns the direct children.
func (it *Item) Items() []*Item {
	return it.items
}

// FindItem searches the subtree, including the item itself, by id.
func (it *Item) FindItem(id string) *Item {
	if it == nil {
		return nil
	}
	if it.ID == id {
		return it
	}
	for _, c := range it.items {
		if found := c.FindItem(id); found != nil {
			return found
		}
	}
	return nil
}

// visibleItems returns the children shown on screen.
func (it *Item) visibleItems() []*Item {
	visible := make([]*Item, 0, len(it.items))
	for _, c := range it.items {
		if !c.Hidden {
			visible = append(visible, c)
		}
	}
	return visible
}

// SelectedItem returns the child under the cursor.
func (it *Item) SelectedItem() *Item {
	visible := it.visibleItems()
	if it.selected < 0 || it.selected >= len(visible) {
		return nil
	}
	return visible[it.selected]
}

// SelectItem moves the cursor to the named child if it is visible.
func (it *Item) SelectItem(id string) {
	for i, c := range it.visibleItems() {
		if c.ID == id {
			it.selected = i
			return
		}
	}
}

// Reset puts the cursor back on the first entry.
func (it *Item) Reset() {
	it.selected = 0
	it.scroll = 0
}

func (it *Item) fire(event EventType) {
	if it.OnEvent != nil {
		it.OnEvent(it, event)
	}
}

func predecessorResult(id string, def Result) Result {
	switch id {
	case "":
		return def
	case IDQuit:
		return ResultQuit
	case IDClose:
		return ResultClose
	case IDNone:
		return ResultNone
	}
	return ResultPredecessor
}

func successorResult(id string, def Result) Result {
	switch id {
	case "":
		return def
	case IDQuit:
		return ResultQuit
	case IDClose:
		return ResultClose
	case IDNone:
		return ResultNone
	}
	return ResultSuccessor
}

// ProcessInput feeds one navigation key to the item. height is the number of
// menu lines the display can show, used for scrolling.
func (it *Item) ProcessInput(token Token, height int) Result {
	switch it.Type {
	case TypeMenu:
		return it.processMenuInput(token, height)
	case TypeSlider, TypeNumeric:
		return it.processValueInput(token)
	}

	logrus.Errorf("Menu item %s of type %s cannot be active", it.ID, it.Type)
	return ResultError
}

func (it *Item) processMenuInput(token Token, height int) Result {
	switch token {
	case TokenMenu:
		item := it
		if sub := it.SelectedItem(); sub != nil && sub.PredecessorID != "" {
			item = sub
		}
		return predecessorResult(item.PredecessorID, ResultClose)

	case TokenEnter:
		sub := it.SelectedItem()
		if sub == nil {
			return ResultError
		}
		switch sub.Type {
		case TypeAction:
			sub.fire(EventSelect)
			return successorResult(sub.SuccessorID, ResultNone)

		case TypeCheckbox:
			if sub.SuccessorID == "" {
				sub.cycleCheckbox(1)
			}
			return successorResult(sub.SuccessorID, ResultNone)

		case TypeRing:
			if sub.SuccessorID == "" {
				sub.cycleRing(1)
			}
			return successorResult(sub.SuccessorID, ResultNone)

		default:
			return ResultEnter
		}

	case TokenUp:
		visible := len(it.visibleItems())
		if it.selected > 0 {
			if it.selected <= it.scroll {
				it.scroll--
			}
			it.selected--
		} else if visible > 0 {
			it.selected = visible - 1
			it.scroll = 0
			if visible >= height {
				it.scroll = it.selected + 2 - height
			}
		}
		return ResultNone

	case TokenDown:
		if it.selected < len(it.visibleItems())-1 {
			it.selected++
			if it.selected-it.scroll+2 > height {
				it.scroll++
			}
		} else {
			it.selected = 0
			it.scroll = 0
		}
		return ResultNone

	case TokenLeft:
		switch sub := it.SelectedItem(); {
		case sub == nil:
		case sub.Type == TypeCheckbox:
			sub.cycleCheckbox(-1)
		case sub.Type == TypeRing:
			sub.cycleRing(-1)
		}
		return ResultNone

	case TokenRight:
		sub := it.SelectedItem()
		switch {
		case sub == nil:
		case sub.Type == TypeCheckbox:
			sub.cycleCheckbox(1)
		case sub.Type == TypeRing:
			sub.cycleRing(1)
		case sub.Type == TypeMenu:
			return ResultEnter
		}
		return ResultNone
	}

	return ResultNone
}

// processValueInput edits sliders and numerics: up/right raises the value,
// down/left lowers it, enter leaves through the successor.
func (it *Item) processValueInput(token Token) Result {
	step := it.Step
	if step == 0 {
		step = 1
	}

	switch token {
	case TokenMenu:
		return predecessorResult(it.PredecessorID, ResultClose)

	case TokenEnter:
		return successorResult(it.SuccessorID, ResultClose)

	case TokenUp, TokenRight:
		it.Value = min(it.Max, it.Value+step)
		it.fire(EventPlus)
		return ResultNone

	case TokenDown, TokenLeft:
		it.Value = max(it.Min, it.Value-step)
		it.fire(EventMinus)
		return ResultNone
	}

	return ResultNone
}

// ClampValue pulls a slider value back into its range after the bounds moved.
func (it *Item) ClampValue() {
	if it.Value < it.Min {
		it.Value = it.Min
	}
	if it.Value > it.Max {
		it.Value = it.Max
	}
}

func (it *Item) cycleCheckbox(dir int) {
	states := 2
	if it.AllowGray {
		states = 3
	}
	it.Checkbox = CheckboxValue((int(it.Checkbox) + dir + states) % states)
	it.fire(EventUpdate)
}

func (it *Item) cycleRing(dir int) {
	if len(it.Strings) == 0 {
		return
	}
	it.RingValue = (it.RingValue + dir + len(it.Strings)) % len(it.Strings)
	it.fire(EventUpdate)
}

// RingText returns the current ring choice.
func (it *Item) RingText() string {
	if it.RingValue < 0 || it.RingValue >= len(it.Strings) {
		return ""
	}
	return it.Strings[it.RingValue]
}
