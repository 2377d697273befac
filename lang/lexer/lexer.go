// Package lexer converts tz source text into a stream of tokens.
package lexer

import (
	"iter"
	"log/slog"
	"unicode"

	"github.com/ardnew/tzlang/lang/token"
	"github.com/ardnew/tzlang/pkg"
)

// Lexical errors.
var (
	ErrUnterminatedString  = pkg.ErrLex.Sub("unterminated string")
	ErrInvalidNumber       = pkg.ErrLex.Sub("invalid number")
	ErrUnexpectedCharacter = pkg.ErrLex.Sub("unexpected character")
)

// eof is returned by [Lexer.Peek] past the end of input.
const eof rune = 0

// Lexer is a single-rune lookahead scanner. Tokens are produced on demand by
// [Lexer.NextToken]; nothing is tokenized ahead of time.
type Lexer struct {
	src       []rune
	pos       int
	line, col int
}

// Mark is a saved lexer position, restored with [Lexer.Restore].
type Mark struct {
	pos, line, col int
}

// New returns a lexer positioned at the start of source.
func New(source string) *Lexer {
	l := new(Lexer)
	l.SetSource(source)

	return l
}

// SetSource replaces the input and rewinds to its start.
func (l *Lexer) SetSource(source string) {
	l.src = []rune(source)
	l.Reset()
}

// Reset rewinds to the start of the current input.
func (l *Lexer) Reset() {
	l.pos, l.line, l.col = 0, 1, 1
}

// Mark returns the current position.
func (l *Lexer) Mark() Mark { return Mark{l.pos, l.line, l.col} }

// Restore moves back (or forward) to a position returned by [Lexer.Mark].
func (l *Lexer) Restore(m Mark) { l.pos, l.line, l.col = m.pos, m.line, m.col }

// Peek returns the rune offset positions past the cursor without consuming
// anything. It returns 0 outside the input.
func (l *Lexer) Peek(offset int) rune {
	i := l.pos + offset
	if i < 0 || i >= len(l.src) {
		return eof
	}

	return l.src[i]
}

// All returns an iterator over the remaining tokens. The sequence ends after
// the EOF token or the first error.
func (l *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := l.NextToken()
			if !yield(tok, err) || err != nil || tok.Kind == token.EOF {
				return
			}
		}
	}
}

// NextToken scans and returns the next token. At the end of input it returns
// an EOF token, and keeps doing so on every further call.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipBlank()

	start := l.here()
	c := l.Peek(0)

	switch {
	case l.pos >= len(l.src):
		return token.New(token.EOF, "", start), nil

	case c == '\n':
		l.advance()

		return token.New(token.Newline, "\n", start), nil

	case isIdentStart(c):
		return l.identifier(start), nil

	case isDigit(c):
		return l.number(start)

	case c == '"' || c == '\'' || c == '`':
		return l.quoted(start)
	}

	return l.operator(start)
}

func (l *Lexer) here() token.Pos {
	return token.Pos{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return eof
	}

	c := l.src[l.pos]
	l.pos++

	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return c
}

// skipBlank skips spaces, tabs, carriage returns and comments. Newlines are
// significant and left in place.
func (l *Lexer) skipBlank() {
	for {
		switch l.Peek(0) {
		case ' ', '\t', '\r':
			l.advance()
		case '#':
			for l.pos < len(l.src) && l.Peek(0) != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) text(from int) string { return string(l.src[from:l.pos]) }

func (l *Lexer) identifier(start token.Pos) token.Token {
	for isIdentPart(l.Peek(0)) {
		l.advance()
	}

	return token.New(token.Identifier, l.text(start.Offset), start)
}

func (l *Lexer) quoted(start token.Pos) (token.Token, error) {
	quote := l.advance()

	for l.pos < len(l.src) {
		if l.Peek(0) == quote {
			text := string(l.src[start.Offset+1 : l.pos])
			l.advance()

			return token.New(token.String, text, start), nil
		}

		l.advance()
	}

	return token.Token{}, ErrUnterminatedString.With(
		posAttrs(start, slog.String("quote", string(quote)))...,
	)
}

// number scans a numeric literal. The literal's text is kept verbatim; its
// value is computed by the evaluator using the recorded specialization.
func (l *Lexer) number(start token.Pos) (token.Token, error) {
	spec := &token.Specialization{Class: token.Integer, Encoding: token.Decimal}

	if l.Peek(0) == '0' {
		switch l.Peek(1) {
		case 'x', 'X':
			spec.Encoding = token.Hex
		case 'b', 'B':
			spec.Encoding = token.Binary
		}
	}

	if spec.Encoding != token.Decimal {
		valid := isHexDigit
		if spec.Encoding == token.Binary {
			valid = isBinaryDigit
		}

		l.advance()
		l.advance()

		if !l.digits(valid) {
			return l.invalidNumber(start)
		}

		return l.finishNumber(start, spec)
	}

	// A leading zero may only be followed by a fraction or exponent.
	if l.Peek(0) == '0' && isDigit(l.Peek(1)) {
		return l.invalidNumber(start)
	}

	l.digits(isDigit)

	if l.Peek(0) == '.' {
		l.advance()

		if !l.digits(isDigit) {
			return l.invalidNumber(start)
		}

		spec.Class = token.Real
	}

	if c := l.Peek(0); c == 'e' || c == 'E' {
		l.advance()

		if c := l.Peek(0); c == '+' || c == '-' {
			l.advance()
		}

		if !l.digits(isDigit) {
			return l.invalidNumber(start)
		}

		spec.Class = token.Real
		spec.Encoding = token.Scientific
	}

	return l.finishNumber(start, spec)
}

// finishNumber rejects literals running directly into identifier characters,
// such as "12ab" or "0b102".
func (l *Lexer) finishNumber(
	start token.Pos,
	spec *token.Specialization,
) (token.Token, error) {
	if isIdentPart(l.Peek(0)) {
		return l.invalidNumber(start)
	}

	tok := token.New(token.Number, l.text(start.Offset), start)
	tok.Spec = spec

	return tok, nil
}

func (l *Lexer) invalidNumber(start token.Pos) (token.Token, error) {
	for isIdentPart(l.Peek(0)) || l.Peek(0) == '.' {
		l.advance()
	}

	return token.Token{}, ErrInvalidNumber.With(
		posAttrs(start, slog.String("text", l.text(start.Offset)))...,
	)
}

// digits consumes a run of runes satisfying valid and reports whether there
// was at least one.
func (l *Lexer) digits(valid func(rune) bool) bool {
	n := 0
	for valid(l.Peek(0)) {
		l.advance()
		n++
	}

	return n > 0
}

func (l *Lexer) operator(start token.Pos) (token.Token, error) {
	c := l.advance()

	// two returns the double-rune kind if the next rune is second.
	two := func(second rune, double, single token.Kind) token.Kind {
		if l.Peek(0) == second {
			l.advance()

			return double
		}

		return single
	}

	var kind token.Kind

	switch c {
	case '(':
		kind = token.LeftParen
	case ')':
		kind = token.RightParen
	case '{':
		kind = token.LeftBrace
	case '}':
		kind = token.RightBrace
	case '[':
		kind = token.LeftBracket
	case ']':
		kind = token.RightBracket
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '=':
		switch l.Peek(0) {
		case '=':
			l.advance()

			kind = token.Equal
		case '>':
			l.advance()

			kind = token.Arrow
		default:
			kind = token.Assign
		}
	case '<':
		kind = two('=', token.LessEqual, token.Less)
	case '>':
		kind = two('=', token.GreaterEqual, token.Greater)
	case '&':
		kind = two('&', token.AmpAmp, token.Amp)
	case '|':
		kind = two('|', token.PipePipe, token.Pipe)
	default:
		return token.Token{}, ErrUnexpectedCharacter.With(
			posAttrs(start, slog.String("char", string(c)))...,
		)
	}

	return token.New(kind, l.text(start.Offset), start), nil
}

func posAttrs(p token.Pos, extra ...slog.Attr) []slog.Attr {
	return append([]slog.Attr{
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	}, extra...)
}

func isIdentStart(c rune) bool { return c == '_' || unicode.IsLetter(c) }

func isIdentPart(c rune) bool { return isIdentStart(c) || unicode.IsDigit(c) }

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isBinaryDigit(c rune) bool { return c == '0' || c == '1' }

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
