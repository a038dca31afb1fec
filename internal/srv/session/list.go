package session

// List holds every live client. The poll loop, dispatcher and renderer all
// run on one goroutine, so no locking is needed here.
type List struct {
	clients []*Client
}

// Add registers a freshly accepted client.
func (l *List) Add(c *Client) {
	l.clients = append(l.clients, c)
}

// Remove unregisters a client; it reports whether the client was present.
func (l *List) Remove(c *Client) bool {
	for i, cur := range l.clients {
		if cur == c {
			l.clients = append(l.clients[:i], l.clients[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns the client bound to a connection slot, or nil.
func (l *List) FindByID(id int) *Client {
	for _, c := range l.clients {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// All returns the clients in registration order. The returned slice is the
// list's own backing store; callers iterating while removing should copy it.
func (l *List) All() []*Client {
	return l.clients
}

// Len returns the number of registered clients.
func (l *List) Len() int {
	return len(l.clients)
}
