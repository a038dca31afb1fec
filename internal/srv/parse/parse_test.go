package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSimple(t *testing.T) {
	args, err := Tokenize("screen_add one\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"screen_add", "one"}, args)
}

func TestTokenizeWithoutNewline(t *testing.T) {
	args, err := Tokenize("hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, args)
}

func TestTokenizeCollapsesWhitespace(t *testing.T) {
	args, err := Tokenize("  widget_set \t s  w   1 1 text \n")
	require.NoError(t, err)
	assert.Equal(t, []string{"widget_set", "s", "w", "1", "1", "text"}, args)
}

func TestTokenizeEmptyLine(t *testing.T) {
	args, err := Tokenize("\n")
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = Tokenize("   \t  \n")
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestTokenizeBraceQuoting(t *testing.T) {
	args, err := Tokenize("client_set -name {My Client}\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"client_set", "-name", "My Client"}, args)
}

func TestTokenizeDoubleQuoting(t *testing.T) {
	args, err := Tokenize(`screen_set s -name "Big  Screen"` + "\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"screen_set", "s", "-name", "Big  Screen"}, args)
}

func TestTokenizeQuoteCharactersMix(t *testing.T) {
	// A double quote inside braces, and vice versa, is plain data.
	args, err := Tokenize("a {say \"hi\"} \"x{y}z\"\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", `say "hi"`, "x{y}z"}, args)
}

func TestTokenizeEscapes(t *testing.T) {
	args, err := Tokenize(`w \n \r \t \\ \q` + "\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"w", "\n", "\r", "\t", `\`, "q"}, args)
}

func TestTokenizeEscapeInsideQuote(t *testing.T) {
	args, err := Tokenize(`a {line\none}` + "\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "line\none"}, args)
}

func TestTokenizeTrailingBackslash(t *testing.T) {
	_, err := Tokenize("oops \\")
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestTokenizeOpenQuote(t *testing.T) {
	_, err := Tokenize("a {never closed\n")
	assert.ErrorIs(t, err, ErrUnbalanced)

	_, err = Tokenize("a \"never closed\n")
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestTokenizeArgumentLimit(t *testing.T) {
	fields := make([]string, MaxArguments)
	for i := range fields {
		fields[i] = "x"
	}
	args, err := Tokenize(strings.Join(fields, " ") + "\n")
	require.NoError(t, err)
	assert.Len(t, args, MaxArguments)

	_, err = Tokenize(strings.Join(append(fields, "x"), " ") + "\n")
	assert.ErrorIs(t, err, ErrTooManyArguments)
}
