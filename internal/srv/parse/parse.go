// Package parse tokenizes one line of client input into an argument vector.
//
// The grammar matches the wire protocol: whitespace separates arguments,
// "..." and {...} quote an argument (quote characters are dropped), backslash
// escapes \n, \r and \t and copies any other escaped character literally.
package parse

import "errors"

// MaxArguments bounds the argument vector of a single command. Exceeding the
// bound rejects the whole command; arguments are never silently truncated.
const MaxArguments = 40

var (
	// ErrTooManyArguments is returned when a line holds more than
	// MaxArguments tokens.
	ErrTooManyArguments = errors.New("parse: too many arguments")

	// ErrUnbalanced is returned for an unterminated quote or a trailing
	// backslash.
	ErrUnbalanced = errors.New("parse: unbalanced quote or escape")
)

type state int

const (
	stInitial state = iota
	stWhitespace
	stArgument
	stFinal
)

func isWhitespace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

func isFinal(c byte) bool { return c == '\n' || c == 0 }

func isOpeningQuote(c, quote byte) bool {
	return quote == 0 && (c == '"' || c == '{')
}

func isClosingQuote(c, quote byte) bool {
	return (quote == '{' && c == '}') || (quote == '"' && c == '"')
}

// Tokenize splits one protocol line into its arguments. The line may or may
// not carry its terminating newline; a NUL byte terminates it as well.
func Tokenize(line string) ([]string, error) {
	var (
		args  []string
		cur   []byte
		quote byte
		st    = stInitial
		pos   int
	)

	// The 0..len range deliberately reads one past the end: the virtual NUL
	// finalizes a line that lacks a trailing newline.
	at := func(i int) byte {
		if i < len(line) {
			return line[i]
		}
		return 0
	}

	finalize := func() error {
		if len(args) >= MaxArguments {
			return ErrTooManyArguments
		}
		args = append(args, string(cur))
		cur = cur[:0]
		return nil
	}

	for st != stFinal {
		ch := at(pos)
		pos++

		switch st {
		case stInitial, stWhitespace:
			if isWhitespace(ch) {
				continue
			}
			if isFinal(ch) {
				st = stFinal
				continue
			}
			st = stArgument
			fallthrough

		case stArgument:
			switch {
			case isFinal(ch):
				if quote != 0 {
					return nil, ErrUnbalanced
				}
				if err := finalize(); err != nil {
					return nil, err
				}
				st = stFinal

			case ch == '\\':
				next := at(pos)
				if next == 0 {
					return nil, ErrUnbalanced
				}
				switch next {
				case 'n':
					cur = append(cur, '\n')
				case 'r':
					cur = append(cur, '\r')
				case 't':
					cur = append(cur, '\t')
				default:
					cur = append(cur, next)
				}
				pos++

			case isOpeningQuote(ch, quote):
				quote = ch

			case isClosingQuote(ch, quote):
				quote = 0
				if err := finalize(); err != nil {
					return nil, err
				}
				st = stWhitespace

			case isWhitespace(ch) && quote == 0:
				if err := finalize(); err != nil {
					return nil, err
				}
				st = stWhitespace

			default:
				cur = append(cur, ch)
			}
		}
	}

	return args, nil
}
