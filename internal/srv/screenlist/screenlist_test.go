package screenlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlegoff/charlcd/internal/srv/session"
)

type pushWriter struct {
	lines []string
}

func (w *pushWriter) Send(msg string) error {
	w.lines = append(w.lines, msg)
	return nil
}

func newScreen(id string, w *pushWriter, pri session.Priority) *session.Screen {
	c := session.NewClient(1, w)
	c.State = session.StateActive
	s := session.NewScreen(id, c, 20, 4)
	s.Priority = pri
	return s
}

func TestFirstScreenBecomesCurrent(t *testing.T) {
	var l List
	w := &pushWriter{}
	s := newScreen("one", w, session.PriInfo)
	l.Add(s)

	l.Process(0)
	assert.Equal(t, s, l.Current())
	assert.Equal(t, []string{"listen one\n"}, w.lines)
}

func TestHigherPriorityPreempts(t *testing.T) {
	var l List
	w := &pushWriter{}
	info := newScreen("info", w, session.PriInfo)
	l.Add(info)
	l.Process(0)
	require.Equal(t, info, l.Current())

	alert := newScreen("alert", w, session.PriAlert)
	l.Add(alert)
	l.Process(1)
	assert.Equal(t, alert, l.Current())
	assert.Contains(t, w.lines, "ignore info\n")
	assert.Contains(t, w.lines, "listen alert\n")
}

func TestAutoRotateAfterDuration(t *testing.T) {
	l := List{AutoRotate: true}
	w := &pushWriter{}
	a := newScreen("a", w, session.PriInfo)
	a.Duration = 4
	b := newScreen("b", w, session.PriInfo)
	b.Duration = 4
	l.Add(a)
	l.Add(b)

	l.Process(0)
	first := l.Current()
	require.NotNil(t, first)

	// Within the duration window nothing moves.
	l.Process(3)
	assert.Equal(t, first, l.Current())

	l.Process(4)
	assert.NotEqual(t, first, l.Current())
}

func TestNoRotationWhenDisabled(t *testing.T) {
	l := List{AutoRotate: false}
	w := &pushWriter{}
	a := newScreen("a", w, session.PriInfo)
	a.Duration = 1
	b := newScreen("b", w, session.PriInfo)
	l.Add(a)
	l.Add(b)

	l.Process(0)
	first := l.Current()
	l.Process(100)
	assert.Equal(t, first, l.Current())
}

func TestBackgroundNeverRotatesIn(t *testing.T) {
	l := List{AutoRotate: true}
	w := &pushWriter{}
	fg := newScreen("fg", w, session.PriForeground)
	fg.Duration = 1
	bg := newScreen("bg", w, session.PriBackground)
	l.Add(fg)
	l.Add(bg)

	l.Process(0)
	require.Equal(t, fg, l.Current())

	// Rotation wraps back to the foreground screen, never down to
	// background.
	for timer := 1; timer < 10; timer++ {
		l.Process(timer)
		assert.Equal(t, fg, l.Current())
	}
}

func TestTimeoutExpiresScreen(t *testing.T) {
	var expired *session.Screen
	var l List
	l.OnExpire = func(s *session.Screen) { expired = s; l.Remove(s) }
	w := &pushWriter{}
	s := newScreen("gone-soon", w, session.PriInfo)
	s.Timeout = 2
	l.Add(s)

	l.Process(0)
	require.Equal(t, s, l.Current())

	l.Process(1)
	require.Nil(t, expired)
	l.Process(2)
	assert.Equal(t, s, expired)
	assert.Nil(t, l.Current())
	assert.Empty(t, l.Screens())
}

func TestRemoveCurrentAdvances(t *testing.T) {
	var l List
	w := &pushWriter{}
	a := newScreen("a", w, session.PriInfo)
	b := newScreen("b", w, session.PriInfo)
	l.Add(a)
	l.Add(b)

	l.Process(0)
	require.Equal(t, a, l.Current())

	l.Remove(a)
	assert.Equal(t, b, l.Current())
	assert.Len(t, l.Screens(), 1)
}

func TestGotoPrevWrapsWithinBand(t *testing.T) {
	var l List
	w := &pushWriter{}
	a := newScreen("a", w, session.PriInfo)
	b := newScreen("b", w, session.PriInfo)
	bg := newScreen("bg", w, session.PriBackground)
	l.Add(a)
	l.Add(b)
	l.Add(bg)

	l.Process(0)
	require.Equal(t, a, l.Current())

	// Stepping back from the band's first screen lands on its last.
	l.GotoPrev()
	assert.Equal(t, b, l.Current())

	l.GotoPrev()
	assert.Equal(t, a, l.Current())
}
