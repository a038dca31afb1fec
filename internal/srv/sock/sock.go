// Package sock owns the client socket layer: a listening TCP socket, a
// bounded pool of connection slots and a single-goroutine poll that never
// blocks. Complete lines are queued on the owning client; the rendering loop
// stays in charge at all times.
package sock

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tlegoff/charlcd/internal/srv/ring"
	"github.com/tlegoff/charlcd/internal/srv/session"
)

// MaxClients bounds the connection slot pool.
const MaxClients = 1024

// recvSize is the per-poll read chunk and the capacity of the shared
// receive ring.
const recvSize = 8192

// sendTimeout bounds a write to a slow peer before the client is dropped.
const sendTimeout = time.Second

type conn struct {
	id     int
	c      *net.TCPConn
	client *session.Client
}

// Send writes one line to the peer, bounded by sendTimeout.
func (cn *conn) Send(msg string) error {
	if err := cn.c.SetWriteDeadline(time.Now().Add(sendTimeout)); err != nil {
		return err
	}
	_, err := io.WriteString(cn.c, msg)
	return err
}

// Server multiplexes every client connection over one polling goroutine.
type Server struct {
	listener *net.TCPListener
	clients  *session.List

	// Incoming bytes pass through one shared ring; it is cleared on every
	// accept and after every per-client drain, so a slot never sees
	// another slot's partial line.
	recvRing *ring.Buffer
	buf      []byte

	freeSlots []int
	conns     map[int]*conn

	stalls int

	// OnDestroy, when set, runs before a client's slot is freed so the
	// owner can release screens, keys and menus the client held.
	OnDestroy func(c *session.Client)
}

// NewServer binds the listening socket. The client list is shared with the
// dispatcher, which walks it to consume queued messages.
func NewServer(bindAddr string, port int, clients *session.List) (*Server, error) {
	addr := net.JoinHostPort(bindAddr, fmt.Sprintf("%d", port))
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", addr, err)
	}
	listener, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	s := &Server{
		listener: listener,
		clients:  clients,
		recvRing: ring.New(recvSize),
		buf:      make([]byte, recvSize),
		conns:    make(map[int]*conn),
	}
	for id := MaxClients; id >= 1; id-- {
		s.freeSlots = append(s.freeSlots, id)
	}

	logrus.Infof("Listening for queries on %s", listener.Addr())
	return s, nil
}

// Addr returns the bound listening address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// StallCount returns how often a poll hit a full receive ring and had to
// drop an oversized line.
func (s *Server) StallCount() int {
	return s.stalls
}

// PollOnce accepts pending connections and drains readable sockets, without
// ever blocking. Clients whose connection died are destroyed here.
func (s *Server) PollOnce() {
	s.acceptPending()

	// Iterate over a snapshot: destroying a client mutates s.conns.
	ids := make([]int, 0, len(s.conns))
	for id := range s.conns {
		ids = append(ids, id)
	}
	for _, id := range ids {
		cn, ok := s.conns[id]
		if !ok {
			continue
		}
		if !s.readFrom(cn) {
			s.destroy(cn)
		}
	}
}

func (s *Server) acceptPending() {
	for {
		if err := s.listener.SetDeadline(time.Now()); err != nil {
			logrus.Warnf("Listener deadline: %v", err)
			return
		}
		c, err := s.listener.AcceptTCP()
		if err != nil {
			if !errors.Is(err, os.ErrDeadlineExceeded) {
				logrus.Errorf("Accept error: %v", err)
			}
			return
		}

		if len(s.freeSlots) == 0 {
			logrus.Errorf("Connection slots exhausted (%d clients), refusing %s",
				MaxClients, c.RemoteAddr())
			c.Close()
			continue
		}
		id := s.freeSlots[len(s.freeSlots)-1]
		s.freeSlots = s.freeSlots[:len(s.freeSlots)-1]

		logrus.Infof("Connect from host %s on slot %d", c.RemoteAddr(), id)

		// A new connection must never inherit another slot's bytes.
		s.recvRing.Clear()

		cn := &conn{id: id, c: c}
		cn.client = session.NewClient(id, cn)
		s.conns[id] = cn
		s.clients.Add(cn.client)
	}
}

// readFrom drains one socket into the shared ring and hands complete lines
// to the client. It reports false when the connection is dead.
func (s *Server) readFrom(cn *conn) bool {
	defer func() {
		if s.recvRing.Available() > 0 {
			logrus.Warnf("Slot %d: dropping incomplete line", cn.id)
			s.recvRing.Clear()
		}
	}()

	for {
		if err := cn.c.SetReadDeadline(time.Now()); err != nil {
			return false
		}

		max := s.recvRing.FreeSpace()
		if max == 0 {
			// The ring is full with no newline in sight: the line can
			// never complete. The deferred clear drops it; the client
			// stays connected.
			s.stalls++
			logrus.Warnf("Slot %d: receive ring full, dropping oversized line", cn.id)
			return true
		}
		if max > len(s.buf) {
			max = len(s.buf)
		}

		n, err := cn.c.Read(s.buf[:max])
		if n > 0 {
			if werr := s.recvRing.Write(s.buf[:n]); werr != nil {
				logrus.Errorf("Slot %d: receive ring write: %v", cn.id, werr)
				return false
			}
			for {
				line, ok := s.recvRing.ReadString()
				if !ok {
					break
				}
				cn.client.AddMessage(line)
			}
		}
		if err != nil {
			// A deadline error is just "nothing more to read".
			return errors.Is(err, os.ErrDeadlineExceeded)
		}
		if n == 0 {
			return false
		}
	}
}

// DestroyClient tears the client's connection down and frees its slot.
func (s *Server) DestroyClient(c *session.Client) {
	if cn, ok := s.conns[c.ID]; ok {
		s.destroy(cn)
	}
}

func (s *Server) destroy(cn *conn) {
	logrus.Infof("Client on slot %d disconnected", cn.id)
	if s.OnDestroy != nil {
		s.OnDestroy(cn.client)
	}
	cn.c.Close()
	delete(s.conns, cn.id)
	s.freeSlots = append(s.freeSlots, cn.id)
	s.clients.Remove(cn.client)
	cn.client.State = session.StateGone
}

// Close shuts the listener and every connection down.
func (s *Server) Close() error {
	for _, cn := range s.conns {
		cn.c.Close()
	}
	s.conns = map[int]*conn{}
	return s.listener.Close()
}

// VerifyIPv4 reports whether addr is a valid dotted-quad IPv4 address.
func VerifyIPv4(addr string) bool {
	ip := net.ParseIP(addr)
	return ip != nil && ip.To4() != nil
}

// VerifyIPv6 reports whether addr is a valid IPv6 address.
func VerifyIPv6(addr string) bool {
	ip := net.ParseIP(addr)
	return ip != nil && ip.To4() == nil && ip.To16() != nil
}
