// Package ring implements the circular byte buffer used to assemble
// newline-delimited protocol messages from partial socket reads.
//
// The buffer follows the "always keep one byte open" strategy: storage is one
// byte larger than the requested capacity so that readPos == writePos always
// means empty, never full. It is not safe for concurrent use; one buffer is
// owned by the single poll goroutine.
package ring

import "errors"

// ErrInsufficientSpace is returned by Write when the data does not fit.
// Writes are all-or-nothing: nothing is stored on error.
var ErrInsufficientSpace = errors.New("ring: insufficient space")

// Buffer is a fixed-capacity circular byte buffer.
type Buffer struct {
	data     []byte
	size     int // len(data), capacity+1
	writePos int
	readPos  int
}

// New creates a buffer able to hold capacity bytes.
func New(capacity int) *Buffer {
	return &Buffer{
		data: make([]byte, capacity+1),
		size: capacity + 1,
	}
}

// Clear resets both positions and wipes the storage. Connections share a
// buffer, so stale bytes must never survive a reset.
func (b *Buffer) Clear() {
	b.writePos = 0
	b.readPos = 0
	for i := range b.data {
		b.data[i] = 0
	}
}

// distance computes the span between two positions, handling wraparound.
// reserve is 1 for write space (one byte stays open) and 0 for readable data.
func (b *Buffer) distance(from, to, reserve int) int {
	var d int
	switch {
	case from == to:
		if reserve > 0 {
			d = b.size - reserve
		}
	case from < to:
		d = to - from - reserve
	default:
		d = (b.size - from) + to - reserve
	}
	if d < 0 {
		return 0
	}
	return d
}

// FreeSpace returns the number of bytes that can currently be written.
func (b *Buffer) FreeSpace() int {
	return b.distance(b.writePos, b.readPos, 1)
}

// Available returns the number of bytes that can currently be read.
func (b *Buffer) Available() int {
	return b.distance(b.readPos, b.writePos, 0)
}

// Write stores src in the buffer. If src does not fit completely, nothing is
// written and ErrInsufficientSpace is returned.
func (b *Buffer) Write(src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if len(src) > b.FreeSpace() {
		return ErrInsufficientSpace
	}

	// At most two contiguous copies: up to the physical end, then from the
	// start.
	if b.writePos+len(src) < b.size {
		copy(b.data[b.writePos:], src)
		b.writePos += len(src)
	} else {
		first := b.size - b.writePos
		copy(b.data[b.writePos:], src[:first])
		copy(b.data, src[first:])
		b.writePos = len(src) - first
	}
	return nil
}

// Read copies up to len(dst) bytes into dst and returns how many were read.
// Partial reads are normal when less data is available.
func (b *Buffer) Read(dst []byte) int {
	n := len(dst)
	if avail := b.Available(); n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}

	if b.readPos+n < b.size {
		copy(dst, b.data[b.readPos:b.readPos+n])
		b.readPos += n
	} else {
		first := b.size - b.readPos
		copy(dst, b.data[b.readPos:])
		copy(dst[first:], b.data[:n-first])
		b.readPos = n - first
	}
	return n
}

// ReadString extracts the next delimiter-terminated string. Delimiters are
// '\r', '\n' and NUL; the delimiter is consumed but not returned. When no
// delimiter is found within the available data, ReadString returns "", false
// and leaves the read position untouched so the caller can retry after more
// data arrives.
func (b *Buffer) ReadString() (string, bool) {
	n := b.Available()
	p := b.readPos
	found := -1
	for i := 0; i < n; i++ {
		c := b.data[p]
		if c == '\r' || c == '\n' || c == 0 {
			found = i
			break
		}
		p++
		if p == b.size {
			p = 0
		}
	}
	if found < 0 {
		return "", false
	}

	dst := make([]byte, found+1)
	b.Read(dst)
	return string(dst[:found]), true
}
