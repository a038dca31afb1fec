package session

import "strconv"

// Priority orders screens on the rotation. Higher values win.
type Priority int

const (
	PriHidden Priority = iota
	PriBackground
	PriInfo
	PriForeground
	PriAlert
	PriInput
)

var priorityNames = map[Priority]string{
	PriHidden:     "hidden",
	PriBackground: "background",
	PriInfo:       "info",
	PriForeground: "foreground",
	PriAlert:      "alert",
	PriInput:      "input",
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// ParsePriority resolves a priority name. Bare numbers are accepted for
// compatibility with the old protocol, where low numbers meant urgent.
func ParsePriority(s string) (Priority, bool) {
	for pri, name := range priorityNames {
		if name == s {
			return pri, true
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		switch {
		case n <= 64:
			return PriForeground, true
		case n <= 192:
			return PriInfo, true
		default:
			return PriBackground, true
		}
	}
	return 0, false
}

// Cursor states.
const (
	CursorOff       = 0
	CursorDefaultOn = 1
	CursorBlock     = 4
	CursorUnder     = 5
)

// DefaultDuration is how many rendering frames a screen stays on the
// rotation before the next one is due, unless the client overrides it.
const DefaultDuration = 32

// Screen is one page of content owned by a client.
type Screen struct {
	ID       string
	Name     string
	Client   *Client
	Priority Priority

	Width  int
	Height int

	Duration int

	// Timeout counts down in frames once the screen is visible; -1 means
	// the screen never expires.
	Timeout int

	Heartbeat int
	Backlight int

	Cursor  int
	CursorX int
	CursorY int

	// Keys lists the key names this screen wants delivered while it is
	// visible.
	Keys []string

	widgets []*Widget
}

// NewScreen returns a screen with the rotation defaults, sized to the
// display dimensions passed in.
func NewScreen(id string, client *Client, width, height int) *Screen {
	return &Screen{
		ID:        id,
		Name:      id,
		Client:    client,
		Priority:  PriInfo,
		Width:     width,
		Height:    height,
		Duration:  DefaultDuration,
		Timeout:   -1,
		Heartbeat: HeartbeatOpen,
		Backlight: BacklightOpen,
		Cursor:    CursorOff,
		CursorX:   1,
		CursorY:   1,
	}
}

// AddKeys records key names the screen wants while visible, skipping
// duplicates.
func (s *Screen) AddKeys(keys ...string) {
	for _, key := range keys {
		if !s.WantsKey(key) {
			s.Keys = append(s.Keys, key)
		}
	}
}

// DelKeys removes key names from the screen's wanted set.
func (s *Screen) DelKeys(keys ...string) {
	for _, key := range keys {
		for i, cur := range s.Keys {
			if cur == key {
				s.Keys = append(s.Keys[:i], s.Keys[i+1:]...)
				break
			}
		}
	}
}

// WantsKey reports whether the screen asked for a key.
func (s *Screen) WantsKey(key string) bool {
	for _, cur := range s.Keys {
		if cur == key {
			return true
		}
	}
	return false
}

// Widgets returns the screen's widgets in creation order.
func (s *Screen) Widgets() []*Widget {
	return s.widgets
}

// FindWidget looks a widget up by id, descending into frames.
func (s *Screen) FindWidget(id string) *Widget {
	return findWidget(s.widgets, id)
}

func findWidget(list []*Widget, id string) *Widget {
	for _, w := range list {
		if w.ID == id {
			return w
		}
		if w.Type == WidgetFrame {
			if found := findWidget(w.children, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// AddWidget places a widget on the screen, or inside one of its frames when
// frameID is non-empty. It reports whether the destination exists.
func (s *Screen) AddWidget(w *Widget, frameID string) bool {
	if frameID == "" {
		s.widgets = append(s.widgets, w)
		return true
	}
	frame := s.FindWidget(frameID)
	if frame == nil || frame.Type != WidgetFrame {
		return false
	}
	frame.children = append(frame.children, w)
	return true
}

// ClearWidgets drops every widget from the screen.
func (s *Screen) ClearWidgets() {
	s.widgets = nil
}

// RemoveWidget deletes a widget from the screen or any of its frames.
func (s *Screen) RemoveWidget(id string) bool {
	return removeWidget(&s.widgets, id)
}

func removeWidget(list *[]*Widget, id string) bool {
	for i, w := range *list {
		if w.ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
		if w.Type == WidgetFrame && removeWidget(&w.children, id) {
			return true
		}
	}
	return false
}
