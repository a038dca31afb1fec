package ring

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	b := New(16)
	require.NotNil(t, b)
	assert.Equal(t, 16, b.FreeSpace())
	assert.Equal(t, 0, b.Available())
}

func TestBuffer_WriteRead(t *testing.T) {
	t.Run("round trip preserves order", func(t *testing.T) {
		b := New(32)
		require.NoError(t, b.Write([]byte("hello ")))
		require.NoError(t, b.Write([]byte("world")))

		dst := make([]byte, 11)
		n := b.Read(dst)
		assert.Equal(t, 11, n)
		assert.Equal(t, "hello world", string(dst))
		assert.Equal(t, 0, b.Available())
	})

	t.Run("partial read is clamped", func(t *testing.T) {
		b := New(32)
		require.NoError(t, b.Write([]byte("abc")))

		dst := make([]byte, 10)
		n := b.Read(dst)
		assert.Equal(t, 3, n)
		assert.Equal(t, "abc", string(dst[:n]))
	})

	t.Run("write larger than free space fails without side effect", func(t *testing.T) {
		b := New(8)
		require.NoError(t, b.Write([]byte("abcdef")))
		assert.Equal(t, 2, b.FreeSpace())

		err := b.Write([]byte("xyz"))
		assert.ErrorIs(t, err, ErrInsufficientSpace)
		assert.Equal(t, 2, b.FreeSpace())

		dst := make([]byte, 6)
		b.Read(dst)
		assert.Equal(t, "abcdef", string(dst))
	})

	t.Run("usable capacity is exactly the requested one", func(t *testing.T) {
		b := New(4)
		require.NoError(t, b.Write([]byte("1234")))
		assert.Equal(t, 0, b.FreeSpace())
		assert.ErrorIs(t, b.Write([]byte("5")), ErrInsufficientSpace)
	})
}

func TestBuffer_ReadString(t *testing.T) {
	t.Run("extracts delimited strings in order", func(t *testing.T) {
		b := New(64)
		require.NoError(t, b.Write([]byte("abc\ndef\n")))

		s, ok := b.ReadString()
		require.True(t, ok)
		assert.Equal(t, "abc", s)

		s, ok = b.ReadString()
		require.True(t, ok)
		assert.Equal(t, "def", s)

		_, ok = b.ReadString()
		assert.False(t, ok)
		assert.Equal(t, 0, b.Available())
	})

	t.Run("no delimiter leaves data untouched", func(t *testing.T) {
		b := New(64)
		require.NoError(t, b.Write([]byte("incomplete")))

		_, ok := b.ReadString()
		assert.False(t, ok)
		assert.Equal(t, 10, b.Available())

		require.NoError(t, b.Write([]byte("\n")))
		s, ok := b.ReadString()
		require.True(t, ok)
		assert.Equal(t, "incomplete", s)
	})

	t.Run("carriage return and NUL terminate too", func(t *testing.T) {
		b := New(64)
		require.NoError(t, b.Write([]byte("one\rtwo\x00")))

		s, ok := b.ReadString()
		require.True(t, ok)
		assert.Equal(t, "one", s)

		s, ok = b.ReadString()
		require.True(t, ok)
		assert.Equal(t, "two", s)
	})

	t.Run("empty line yields empty string", func(t *testing.T) {
		b := New(64)
		require.NoError(t, b.Write([]byte("\n")))

		s, ok := b.ReadString()
		require.True(t, ok)
		assert.Equal(t, "", s)
	})
}

func TestBuffer_Clear(t *testing.T) {
	b := New(16)
	require.NoError(t, b.Write([]byte("stale data\n")))
	b.Clear()
	assert.Equal(t, 0, b.Available())
	assert.Equal(t, 16, b.FreeSpace())
	_, ok := b.ReadString()
	assert.False(t, ok)
}

// Wraparound behaviour must be indistinguishable from a plain FIFO. Drive the
// ring and a reference bytes.Buffer with the same random operations and
// compare the output streams.
func TestBuffer_WraparoundModel(t *testing.T) {
	const capacity = 17
	b := New(capacity)
	var model bytes.Buffer
	var got, want bytes.Buffer

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		if rng.Intn(2) == 0 {
			chunk := make([]byte, rng.Intn(capacity+3))
			rng.Read(chunk)
			if len(chunk) <= b.FreeSpace() {
				require.NoError(t, b.Write(chunk))
				model.Write(chunk)
			} else {
				assert.ErrorIs(t, b.Write(chunk), ErrInsufficientSpace)
			}
		} else {
			dst := make([]byte, rng.Intn(capacity+3))
			n := b.Read(dst)
			got.Write(dst[:n])
			ref := make([]byte, n)
			model.Read(ref)
			want.Write(ref)
		}
	}
	assert.Equal(t, want.Bytes(), got.Bytes())
}
