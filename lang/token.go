package lang

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved words that may never be used as identifiers.
const (
	keywordPart1 = "part_1"
	keywordPart2 = "part_2"
	keywordTrue  = "true"
	keywordFalse = "false"
)

func isReserved(word string) bool {
	switch word {
	case keywordPart1, keywordPart2, keywordTrue, keywordFalse:
		return true
	}

	return false
}

// cursor is a position within program source.
// It is a value type so that the parser can save and restore it freely
// when it needs to backtrack.
type cursor struct {
	pos  int
	line int
	col  int
}

// scanner holds the source text and the current cursor.
type scanner struct {
	input string
	cursor
}

func newScanner(input string) scanner {
	return scanner{
		input:  input,
		cursor: cursor{pos: 0, line: 1, col: 1},
	}
}

func (s *scanner) position() Position {
	return Position{Offset: s.pos, Line: s.line, Column: s.col}
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}

	return s.input[s.pos]
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.input) {
		return 0
	}

	return s.input[s.pos+n]
}

func (s *scanner) hasPrefix(lit string) bool {
	return strings.HasPrefix(s.input[s.pos:], lit)
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	if s.input[s.pos] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	s.pos++
}

func (s *scanner) advanceN(n int) {
	for range n {
		s.advance()
	}
}

// skipSpace skips whitespace and block comments.
// It returns an error only for an unterminated comment.
func (s *scanner) skipSpace() error {
	for !s.eof() {
		switch ch := s.peek(); {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' ||
			ch == '\f' || ch == '\v':
			s.advance()

		case ch == '/' && s.peekAt(1) == '*':
			start := s.position()

			s.advanceN(2)

			for !s.hasPrefix("*/") {
				if s.eof() {
					return s.errorAt(start, "unterminated comment")
				}

				s.advance()
			}

			s.advanceN(2)

		default:
			return nil
		}
	}

	return nil
}

// matchLiteral consumes lit after leading space if it appears next.
func (s *scanner) matchLiteral(lit string) (bool, error) {
	if err := s.skipSpace(); err != nil {
		return false, err
	}

	if !s.hasPrefix(lit) {
		return false, nil
	}

	s.advanceN(len(lit))

	return true, nil
}

// expectLiteral is matchLiteral that fails when lit is absent.
func (s *scanner) expectLiteral(lit string) error {
	ok, err := s.matchLiteral(lit)
	if err != nil {
		return err
	}

	if !ok {
		return s.errorf("expected %s, got %s", strconv.Quote(lit), s.describe())
	}

	return nil
}

// matchKeyword consumes word if it appears next and is not the prefix of a
// longer identifier.
func (s *scanner) matchKeyword(word string) (bool, error) {
	if err := s.skipSpace(); err != nil {
		return false, err
	}

	if !s.hasPrefix(word) || isIdentContinue(s.peekAt(len(word))) {
		return false, nil
	}

	s.advanceN(len(word))

	return true, nil
}

// scanWord consumes and returns an identifier-shaped word, or "" if the next
// token does not start one. Reserved words are returned like any other.
func (s *scanner) scanWord() string {
	if !isIdentStart(s.peek()) {
		return ""
	}

	start := s.pos

	for !s.eof() && isIdentContinue(s.peek()) {
		s.advance()
	}

	return s.input[start:s.pos]
}

// scanNumber consumes digits with optional '_' separators and an optional
// fractional part. It returns ok == false without consuming anything if the
// next token is not a number.
func (s *scanner) scanNumber() (float64, bool, error) {
	if !isDigit(s.peek()) {
		return 0, false, nil
	}

	start := s.position()

	var digits strings.Builder

	s.scanDigits(&digits)

	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		digits.WriteByte('.')
		s.advance()
		s.scanDigits(&digits)
	}

	f, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false, s.errorAt(start, "invalid number: "+err.Error())
	}

	return f, true, nil
}

func (s *scanner) scanDigits(sb *strings.Builder) {
	for !s.eof() {
		switch ch := s.peek(); {
		case isDigit(ch):
			sb.WriteByte(ch)
		case ch == '_':
		default:
			return
		}

		s.advance()
	}
}

// scanString consumes a single- or double-quoted string literal.
func (s *scanner) scanString() (string, bool, error) {
	quote := s.peek()
	if quote != '"' && quote != '\'' {
		return "", false, nil
	}

	start := s.position()

	s.advance()

	var sb strings.Builder

	for {
		if s.eof() {
			return "", false, s.errorAt(start, "unterminated string")
		}

		ch := s.peek()
		s.advance()

		switch ch {
		case quote:
			return sb.String(), true, nil

		case '\\':
			if s.eof() {
				return "", false, s.errorAt(start, "unterminated string")
			}

			esc := s.peek()
			s.advance()

			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(esc)
			}

		default:
			sb.WriteByte(ch)
		}
	}
}

// describe names the next token for error messages.
func (s *scanner) describe() string {
	if s.eof() {
		return "end of input"
	}

	probe := *s
	if word := probe.scanWord(); word != "" {
		return "`" + word + "`"
	}

	return strconv.QuoteRune(rune(s.peek()))
}

func (s *scanner) errorf(format string, args ...any) *ParseError {
	return s.errorAt(s.position(), fmt.Sprintf(format, args...))
}

func (s *scanner) errorAt(pos Position, msg string) *ParseError {
	return &ParseError{Message: msg, Position: pos, Source: s.input}
}

// Character classification

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }
