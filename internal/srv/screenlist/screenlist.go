// Package screenlist decides which screen is visible: it keeps all screens
// sorted by priority and rotates through the ones that share the top
// priority band.
package screenlist

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/session"
)

// List is the screen rotation. All methods run on the main loop goroutine.
type List struct {
	// AutoRotate pauses rotation when false; high priority screens still
	// preempt.
	AutoRotate bool

	// OnExpire is called when a visible screen's timeout ran out; the
	// owner detaches and discards the screen.
	OnExpire func(s *session.Screen)

	screens   []*session.Screen
	current   *session.Screen
	startTime int
	timer     int
}

// Add inserts a screen into the rotation.
func (l *List) Add(s *session.Screen) {
	l.screens = append(l.screens, s)
}

// Remove takes a screen out of the rotation, advancing past it first when
// it is the one on display.
func (l *List) Remove(s *session.Screen) {
	if s == l.current {
		l.GotoNext()
		if s == l.current {
			l.current = nil
		}
	}
	for i, cur := range l.screens {
		if cur == s {
			l.screens = append(l.screens[:i], l.screens[i+1:]...)
			break
		}
	}
	if l.current == nil {
		l.GotoNext()
	}
}

// Current returns the screen on display, or nil.
func (l *List) Current() *session.Screen {
	return l.current
}

// Screens returns the rotation in priority order.
func (l *List) Screens() []*session.Screen {
	return l.screens
}

// Process advances the rotation by one frame: it expires the visible
// screen's timeout, lets higher priority screens preempt and rotates within
// the current priority band once the visible screen's duration has passed.
func (l *List) Process(timer int) {
	l.timer = timer

	l.sortByPriority()
	if len(l.screens) == 0 {
		l.current = nil
		return
	}
	first := l.screens[0]

	s := l.current
	if s == nil {
		l.Switch(first)
		return
	}

	if s.Timeout != -1 {
		s.Timeout--
		if s.Timeout <= 0 {
			logrus.Debugf("Removing expired screen %s", s.ID)
			if l.OnExpire != nil {
				l.OnExpire(s)
			} else {
				l.Remove(s)
			}
			return
		}
	}

	if first.Priority > s.Priority {
		l.Switch(first)
		return
	}

	if l.AutoRotate && l.timer-l.startTime >= s.Duration &&
		s.Priority > session.PriBackground && s.Priority <= session.PriForeground {
		l.GotoNext()
	}
}

// Switch makes a screen the visible one and tells the owning clients with
// ignore/listen pushes.
func (l *List) Switch(s *session.Screen) {
	if s == nil || s == l.current {
		return
	}

	if l.current != nil && l.current.Client != nil {
		l.current.Client.Sendf("ignore %s\n", l.current.ID)
	}

	if s.Client != nil {
		s.Client.Sendf("listen %s\n", s.ID)
	}

	logrus.Debugf("Switched to screen %s", s.ID)
	l.current = s
	l.startTime = l.timer
}

// GotoNext advances to the next screen, wrapping to the front when the end
// of the current priority band is reached.
func (l *List) GotoNext() {
	if l.current == nil || len(l.screens) == 0 {
		if len(l.screens) > 0 {
			l.Switch(l.screens[0])
		}
		return
	}

	idx := l.indexOf(l.current)
	var next *session.Screen
	if idx >= 0 && idx+1 < len(l.screens) {
		next = l.screens[idx+1]
	}
	if next == nil || next.Priority < l.current.Priority {
		next = l.screens[0]
	}
	l.Switch(next)
}

// GotoPrev steps back to the previous screen, wrapping to the end of the
// top priority band.
func (l *List) GotoPrev() {
	if l.current == nil || len(l.screens) == 0 {
		return
	}

	idx := l.indexOf(l.current)
	var prev *session.Screen
	if idx > 0 {
		prev = l.screens[idx-1]
	}
	if prev == nil {
		first := l.screens[0]
		prev = first
		for _, s := range l.screens[1:] {
			if s.Priority != first.Priority {
				break
			}
			prev = s
		}
	}
	l.Switch(prev)
}

func (l *List) indexOf(s *session.Screen) int {
	for i, cur := range l.screens {
		if cur == s {
			return i
		}
	}
	return -1
}

func (l *List) sortByPriority() {
	sort.SliceStable(l.screens, func(i, j int) bool {
		return l.screens[i].Priority > l.screens[j].Priority
	})
}
