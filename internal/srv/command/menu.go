package command

import (
	"strconv"
	"strings"

	"github.com/tlegoff/charlcd/internal/srv/menu"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// clientMenuOf returns the client's menu subtree without creating it.
func clientMenuOf(c *session.Client) *menu.Item {
	cm, _ := c.Menu.(*menu.Item)
	return cm
}

func reservedID(id string) bool {
	return id == menu.IDNone || id == menu.IDClose || id == menu.IDQuit
}

func menuAddItem(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if c.Name == "" {
		sendError(c, "You need to give your client a name first\n")
		return nil
	}

	if len(args) < 4 {
		sendError(c, "Usage: menu_add_item <menuid> <newitemid> <type> [<text>] [<option>]+\n")
		return nil
	}

	cm := ctx.Menus.ClientMenu(c)

	parent := cm
	if args[1] != "" {
		parent = cm.FindItem(args[1])
	}
	if parent == nil || parent.Type != menu.TypeMenu {
		sendError(c, "Cannot find menu id\n")
		return nil
	}

	if cm.FindItem(args[2]) != nil {
		sendErrorf(c, "Item id '%s' already in use\n", args[2])
		return nil
	}

	itemType, ok := menu.ParseItemType(args[3])
	if !ok {
		sendError(c, "Invalid menuitem type\n")
		return nil
	}

	text := ""
	hasText := len(args) >= 5 && !strings.HasPrefix(args[4], "-")
	if hasText {
		text = args[4]
	}

	item := menu.NewItem(args[2], itemType, text, c)
	ctx.Menus.AttachClientEvents(item)
	parent.AddItem(item)
	ctx.Menus.InformItemModified(parent)

	// Trailing options are handed to menu_set_item in one go.
	if len(args) > 5 || (len(args) == 5 && !hasText) {
		setArgs := []string{"menu_set_item", args[1], args[2]}
		rest := args[4:]
		if hasText {
			rest = args[5:]
		}
		setArgs = append(setArgs, rest...)
		return menuSetItem(ctx, c, setArgs)
	}

	c.Send("success\n")

	return nil
}

func menuDelItem(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 2 && len(args) != 3 {
		sendError(c, "Usage: menu_del_item [ignored] <itemid>\n")
		return nil
	}

	itemID := args[len(args)-1]

	cm := clientMenuOf(c)
	if cm == nil {
		sendError(c, "Client has no menu\n")
		return nil
	}

	item := cm.FindItem(itemID)
	if item == nil {
		sendError(c, "Cannot find item\n")
		return nil
	}

	parent := item.Parent
	ctx.Menus.InformItemDestruction(item)
	parent.RemoveItem(item)
	ctx.Menus.InformItemModified(parent)

	if len(cm.Items()) == 0 {
		ctx.Menus.DropClientMenu(c)
	}

	c.Send("success\n")

	return nil
}

// menuOptions maps option names to the item types they apply to; nil means
// any type.
var menuOptions = map[string][]menu.ItemType{
	"text":      nil,
	"is_hidden": nil,
	"prev":      nil,
	"next":      nil,

	"menu_result": {menu.TypeAction},
	"allow_gray":  {menu.TypeCheckbox},
	"strings":     {menu.TypeRing},

	"value":    {menu.TypeCheckbox, menu.TypeRing, menu.TypeSlider, menu.TypeNumeric},
	"minvalue": {menu.TypeSlider, menu.TypeNumeric},
	"maxvalue": {menu.TypeSlider, menu.TypeNumeric},
	"stepsize": {menu.TypeSlider},
	"mintext":  {menu.TypeSlider},
	"maxtext":  {menu.TypeSlider},
}

func optionValidFor(t menu.ItemType, name string) bool {
	types, known := menuOptions[name]
	if !known {
		return false
	}
	if types == nil {
		return true
	}
	for _, valid := range types {
		if valid == t {
			return true
		}
	}
	return false
}

func menuSetItem(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) < 4 {
		sendError(c, "Usage: menu_set_item  <itemid> {<option>}+\n")
		return nil
	}

	var item *menu.Item
	if cm := clientMenuOf(c); cm != nil {
		item = cm.FindItem(args[2])
	}
	if item == nil {
		sendError(c, "Cannot find item\n")
		return nil
	}

	for argnr := 3; argnr < len(args); argnr++ {
		opt := args[argnr]
		if !strings.HasPrefix(opt, "-") {
			sendErrorf(c, "Found non-option: \"%.40s\"\n", opt)
			continue
		}
		name := opt[1:]

		if _, known := menuOptions[name]; !known {
			sendErrorf(c, "Unknown option: \"%.40s\"\n", opt)
			continue
		}
		if !optionValidFor(item.Type, name) {
			sendErrorf(c, "Option not valid for menuitem type: \"%.40s\"\n", opt)
			continue
		}
		if argnr+1 >= len(args) {
			sendErrorf(c, "Missing value at option: \"%.40s\"\n", opt)
			continue
		}
		value := args[argnr+1]
		argnr++

		if applyMenuOption(ctx, c, item, name, opt, value) {
			ctx.Menus.InformItemModified(item)
		}
	}

	c.Send("success\n")

	return nil
}

// applyMenuOption stores one option value; it reports whether the item
// changed. Errors are answered on the wire directly.
func applyMenuOption(ctx *Context, c *session.Client, item *menu.Item, name, opt, value string) bool {
	switch name {
	case "text":
		item.Text = value

	case "is_hidden":
		b, ok := parseBool(value)
		if !ok {
			sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
			return false
		}
		item.Hidden = b

	case "prev":
		return setPredecessor(ctx, c, item, value)

	case "next":
		return setSuccessor(ctx, c, item, value)

	case "menu_result":
		switch value {
		case "none":
			return setSuccessor(ctx, c, item, menu.IDNone)
		case "close":
			return setSuccessor(ctx, c, item, menu.IDClose)
		case "quit":
			return setSuccessor(ctx, c, item, menu.IDQuit)
		default:
			sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
			return false
		}

	case "allow_gray":
		b, ok := parseBool(value)
		if !ok {
			sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
			return false
		}
		item.AllowGray = b

	case "strings":
		item.Strings = strings.Split(value, "\t")
		item.RingValue %= len(item.Strings)

	case "value":
		switch item.Type {
		case menu.TypeCheckbox:
			v, ok := menu.ParseCheckboxValue(value)
			if !ok {
				sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
				return false
			}
			item.Checkbox = v

		case menu.TypeRing:
			n, ok := parseInt(value)
			if !ok {
				sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
				return false
			}
			if len(item.Strings) > 0 {
				n %= len(item.Strings)
			}
			item.RingValue = n

		default:
			n, ok := parseInt(value)
			if !ok {
				sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
				return false
			}
			item.Value = n
			item.ClampValue()
		}

	case "minvalue":
		n, ok := parseInt(value)
		if !ok {
			sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
			return false
		}
		item.Min = n
		item.ClampValue()

	case "maxvalue":
		n, ok := parseInt(value)
		if !ok {
			sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
			return false
		}
		item.Max = n
		item.ClampValue()

	case "stepsize":
		n, ok := parseInt(value)
		if !ok {
			sendErrorf(c, "Could not interpret value at option: \"%.40s\"\n", opt)
			return false
		}
		item.Step = n

	case "mintext":
		item.MinText = value

	case "maxtext":
		item.MaxText = value
	}

	return true
}

func setPredecessor(ctx *Context, c *session.Client, item *menu.Item, id string) bool {
	if !reservedID(id) && ctx.Menus.Search(id, c) == nil {
		sendErrorf(c, "Cannot find predecessor '%s' for item '%s'\n", id, item.ID)
		return false
	}
	item.PredecessorID = id
	return true
}

func setSuccessor(ctx *Context, c *session.Client, item *menu.Item, id string) bool {
	if !reservedID(id) && ctx.Menus.Search(id, c) == nil {
		sendErrorf(c, "Cannot find successor '%s' for item '%s'\n", id, item.ID)
		return false
	}
	if item.Type == menu.TypeMenu {
		sendErrorf(c, "Cannot set successor of '%s': wrong type '%s'\n", item.ID, item.Type)
		return false
	}
	item.SuccessorID = id
	return true
}

func menuGoto(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) < 2 || len(args) > 3 {
		sendError(c, "Usage: menu_goto <menuid> [<predecessor_id>]\n")
		return nil
	}

	if args[1] == menu.IDQuit {
		ctx.Menus.Goto(nil)
		c.Send("success\n")
		return nil
	}

	var target *menu.Item
	if args[1] == "" {
		target = clientMenuOf(c)
	} else {
		target = ctx.Menus.Search(args[1], c)
	}
	if target == nil {
		sendError(c, "Cannot find menu id\n")
		return nil
	}

	if len(args) > 2 {
		setPredecessor(ctx, c, target, args[2])
	}

	ctx.Menus.Goto(target)
	c.Send("success\n")

	return nil
}

func menuSetMain(ctx *Context, c *session.Client, args []string) error {
	if c.State != session.StateActive {
		return errNotActive
	}

	if len(args) != 2 {
		sendError(c, "Usage: menu_set_main <menuid>\n")
		return nil
	}

	var target *menu.Item
	switch args[1] {
	case "":
		target = clientMenuOf(c)
	case menu.IDMain:
		target = nil
	default:
		if cm := clientMenuOf(c); cm != nil {
			target = cm.FindItem(args[1])
		}
		if target == nil {
			sendError(c, "Cannot find menu id\n")
			return nil
		}
	}

	ctx.Menus.SetMain(target)
	c.Send("success\n")

	return nil
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
