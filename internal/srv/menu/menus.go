package menu

import (
	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/config"
	"github.com/tlegoff/charlcd/internal/srv/driver"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// MenuScreenID is the rotation id of the menu screen.
const MenuScreenID = "_menu_screen"

// Menus is the menu subsystem: the main menu tree, the per-client subtrees
// hanging off it, the hidden screen that shows the active item and the key
// handling that drives it. It satisfies the input router's menu hook.
type Menus struct {
	Keys config.MenuKeysParam

	main      *Item
	entry     *Item
	active    *Item
	screen    *session.Screen
	width     int
	height    int
	cellWidth int
}

// New builds the menu subsystem with an empty main menu and a hidden screen
// sized to the display.
func New(keys config.MenuKeysParam, props driver.DisplayProps) *Menus {
	screen := session.NewScreen(MenuScreenID, nil, props.Width, props.Height)
	screen.Name = "Menu screen"
	screen.Priority = session.PriHidden
	screen.Heartbeat = session.HeartbeatOff

	return &Menus{
		Keys:      keys,
		main:      NewItem("mainmenu", TypeMenu, "charlcd Menu", nil),
		screen:    screen,
		width:     props.Width,
		height:    props.Height,
		cellWidth: props.CellWidth,
	}
}

// Screen exposes the menu screen so the caller can add it to the rotation.
func (m *Menus) Screen() *session.Screen {
	return m.screen
}

// Main returns the root of the menu tree.
func (m *Menus) Main() *Item {
	return m.main
}

// Active returns the item currently on screen, nil when the menu is closed.
func (m *Menus) Active() *Item {
	return m.active
}

// ClientMenu returns the client's menu subtree, creating and attaching it on
// first use.
func (m *Menus) ClientMenu(c *session.Client) *Item {
	if root, ok := c.Menu.(*Item); ok && root != nil {
		return root
	}

	logrus.Infof("Client [%d] is using the menu", c.ID)
	root := NewItem("_client_menu_", TypeMenu, c.Name, c)
	root.OnEvent = m.clientEvent
	c.Menu = root
	m.main.AddItem(root)
	return root
}

// DropClientMenu detaches a client's subtree, closing the menu screen if it
// was showing part of it.
func (m *Menus) DropClientMenu(c *session.Client) {
	root, ok := c.Menu.(*Item)
	if !ok || root == nil {
		return
	}

	m.InformItemDestruction(root)
	m.main.RemoveItem(root)
	m.InformItemModified(m.main)
	c.Menu = nil
}

// Search resolves an item id within a client's subtree.
func (m *Menus) Search(id string, c *session.Client) *Item {
	if root, ok := c.Menu.(*Item); ok && root != nil {
		return root.FindItem(id)
	}
	return nil
}

// InformItemDestruction closes the screen back to the parent when the item
// about to go away is on the active path.
func (m *Menus) InformItemDestruction(item *Item) {
	for i := m.active; i != nil; i = i.Parent {
		if i == item {
			m.switchItem(item.Parent)
			return
		}
	}
}

// InformItemModified redraws the screen when the changed item is visible.
func (m *Menus) InformItemModified(item *Item) {
	if m.active == nil || item == nil {
		return
	}
	if m.active == item || m.active == item.Parent {
		m.buildScreen()
	}
}

// Goto opens the menu screen at the given item; nil closes it.
func (m *Menus) Goto(item *Item) {
	m.switchItem(item)
}

// SetMain replaces the entry point used when the menu key opens the menu;
// nil restores the built-in main menu.
func (m *Menus) SetMain(item *Item) {
	if item == nil {
		item = m.main
	}
	m.entry = item
}

// WantsKey consumes the menu key always, and the navigation keys while the
// menu screen is open.
func (m *Menus) WantsKey(key string, current *session.Screen) bool {
	if key == m.Keys.Menu && key != "" {
		return true
	}
	if m.active == nil {
		return false
	}
	switch key {
	case m.Keys.Enter, m.Keys.Up, m.Keys.Down, m.Keys.Left, m.Keys.Right:
		return key != ""
	}
	return false
}

// HandleKey walks the menu with one key press.
func (m *Menus) HandleKey(key string) {
	if m.active == nil {
		entry := m.entry
		if entry == nil {
			entry = m.main
		}
		logrus.Debugf("Activating menu screen")
		m.switchItem(entry)
		return
	}

	switch m.active.ProcessInput(m.token(key), m.height) {
	case ResultNone:
		m.buildScreen()

	case ResultEnter:
		m.switchItem(m.active.SelectedItem())

	case ResultClose:
		if m.active == m.entryItem() {
			m.switchItem(nil)
		} else {
			m.switchItem(m.active.Parent)
		}

	case ResultQuit:
		m.switchItem(nil)

	case ResultPredecessor:
		m.followLink(m.linkSource().PredecessorID)

	case ResultSuccessor:
		m.followLink(m.linkSource().SuccessorID)

	case ResultError:
		logrus.Errorf("Menu could not process key %s", key)
	}
}

func (m *Menus) token(key string) Token {
	switch key {
	case m.Keys.Menu:
		return TokenMenu
	case m.Keys.Enter:
		return TokenEnter
	case m.Keys.Up:
		return TokenUp
	case m.Keys.Down:
		return TokenDown
	case m.Keys.Left:
		return TokenLeft
	case m.Keys.Right:
		return TokenRight
	}
	return TokenOther
}

func (m *Menus) entryItem() *Item {
	if m.entry != nil {
		return m.entry
	}
	return m.main
}

// linkSource is the item whose predecessor or successor id fired: the
// selected child of an open menu, or the active value editor itself.
func (m *Menus) linkSource() *Item {
	if m.active.Type == TypeMenu {
		if sub := m.active.SelectedItem(); sub != nil {
			return sub
		}
	}
	return m.active
}

// followLink jumps to the item a predecessor or successor id names. Leaf
// items are selected inside their parent menu, submenus and editors open.
func (m *Menus) followLink(id string) {
	client := m.active.Client
	var target *Item
	if client != nil {
		target = m.Search(id, client)
	}
	if target == nil {
		target = m.main.FindItem(id)
	}
	if target == nil {
		logrus.Errorf("Cannot find menu item %q", id)
		return
	}

	switch target.Type {
	case TypeAction, TypeCheckbox, TypeRing:
		if m.active != target.Parent {
			m.switchItem(target.Parent)
		}
		if m.active != nil {
			m.active.SelectItem(target.ID)
			m.buildScreen()
		}
	default:
		if target.Parent != nil && target.Parent.Type == TypeMenu {
			target.Parent.SelectItem(target.ID)
		}
		m.switchItem(target)
	}
}

// switchItem changes the item on screen, firing leave/enter events and
// raising or hiding the menu screen.
func (m *Menus) switchItem(item *Item) {
	old := m.active
	m.active = item

	switch {
	case old == nil && item == nil:

	case old != nil && item == nil:
		m.screen.Priority = session.PriHidden

	case old == nil:
		item.Reset()
		m.buildScreen()
		m.screen.Priority = session.PriInput

	default:
		if old.Parent != item {
			item.Reset()
		}
		m.buildScreen()
	}

	if old != nil {
		old.fire(EventLeave)
	}
	if item != nil {
		item.fire(EventEnter)
	}
}

// clientEvent pushes a menuevent line to the client that owns the item.
// Value-changing events carry the new value.
func (m *Menus) clientEvent(item *Item, event EventType) {
	c := item.Client
	if c == nil {
		logrus.Errorf("Could not find client of menu item %q", item.ID)
		return
	}

	switch event {
	case EventUpdate, EventPlus, EventMinus:
		switch item.Type {
		case TypeCheckbox:
			c.Sendf("menuevent %s %.40s %s\n", event, item.ID, item.Checkbox)
		case TypeRing:
			c.Sendf("menuevent %s %.40s %d\n", event, item.ID, item.RingValue)
		case TypeSlider, TypeNumeric:
			c.Sendf("menuevent %s %.40s %d\n", event, item.ID, item.Value)
		default:
			c.Sendf("menuevent %s %.40s\n", event, item.ID)
		}
	default:
		c.Sendf("menuevent %s %.40s\n", event, item.ID)
	}
}

// AttachClientEvents wires the push handler into an item created over the
// wire.
func (m *Menus) AttachClientEvents(item *Item) {
	item.OnEvent = m.clientEvent
}
