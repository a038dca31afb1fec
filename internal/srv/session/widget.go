package session

// WidgetType selects the renderer for a widget.
type WidgetType int

const (
	WidgetNone WidgetType = iota
	WidgetString
	WidgetHBar
	WidgetVBar
	WidgetPBar
	WidgetIcon
	WidgetTitle
	WidgetScroller
	WidgetFrame
	WidgetNum
)

var widgetTypeNames = map[WidgetType]string{
	WidgetString:   "string",
	WidgetHBar:     "hbar",
	WidgetVBar:     "vbar",
	WidgetPBar:     "pbar",
	WidgetIcon:     "icon",
	WidgetTitle:    "title",
	WidgetScroller: "scroller",
	WidgetFrame:    "frame",
	WidgetNum:      "num",
}

func (t WidgetType) String() string {
	if name, ok := widgetTypeNames[t]; ok {
		return name
	}
	return "none"
}

// ParseWidgetType resolves a widget type name from the wire.
func ParseWidgetType(s string) (WidgetType, bool) {
	for wt, name := range widgetTypeNames {
		if name == s {
			return wt, true
		}
	}
	return WidgetNone, false
}

// Widget is one element on a screen. Which fields are meaningful depends on
// the type; widget_set validates per type and the renderer reads the rest.
type Widget struct {
	ID     string
	Type   WidgetType
	Screen *Screen

	X, Y int

	// Frame geometry and scroller endpoints.
	Left, Top, Right, Bottom int

	Width, Height int
	Length        int

	// Speed in frames per movement for scrollers and frames.
	Speed int

	// Direction is 'h' or 'v', plus 'm' (marquee) for scrollers.
	Direction byte

	// Icon is the code an icon widget displays.
	Icon int

	// Promille and the labels belong to progress bar widgets.
	Promille   int
	BeginLabel string
	EndLabel   string

	Text string

	children []*Widget
}

// NewWidget returns a widget of the given type placed at the top left.
func NewWidget(id string, t WidgetType, screen *Screen) *Widget {
	return &Widget{
		ID:     id,
		Type:   t,
		Screen: screen,
		X:      1,
		Y:      1,
	}
}

// Children returns the widgets inside a frame.
func (w *Widget) Children() []*Widget {
	return w.children
}
