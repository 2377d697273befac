// Package token defines the lexical tokens of the tz language.
package token

import (
	"strconv"
)

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Newline

	Identifier
	Number
	String

	LeftParen    // (
	RightParen   // )
	LeftBrace    // {
	RightBrace   // }
	LeftBracket  // [
	RightBracket // ]
	Comma        // ,
	Dot          // .
	Colon        // :
	Semicolon    // ;

	Plus         // +
	Minus        // -
	Star         // *
	Slash        // /
	Assign       // =
	Equal        // ==
	Less         // <
	LessEqual    // <=
	Greater      // >
	GreaterEqual // >=
	Amp          // &
	AmpAmp       // &&
	Pipe         // |
	PipePipe     // ||
	Arrow        // =>
)

var kindName = [...]string{
	EOF:          "EOF",
	Newline:      "newline",
	Identifier:   "identifier",
	Number:       "number",
	String:       "string",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	LeftBracket:  "[",
	RightBracket: "]",
	Comma:        ",",
	Dot:          ".",
	Colon:        ":",
	Semicolon:    ";",
	Plus:         "+",
	Minus:        "-",
	Star:         "*",
	Slash:        "/",
	Assign:       "=",
	Equal:        "==",
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	Amp:          "&",
	AmpAmp:       "&&",
	Pipe:         "|",
	PipePipe:     "||",
	Arrow:        "=>",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Binding precedences of the binary operators. Higher binds tighter;
// non-operator tokens have precedence 0.
const (
	AssignmentPrecedence     = 1
	LogicalOrPrecedence      = 4
	LogicalAndPrecedence     = 5
	BitwiseOrPrecedence      = 6
	BitwiseAndPrecedence     = 7
	EqualityPrecedence       = 8
	RelationalPrecedence     = 9
	AdditivePrecedence       = 10
	MultiplicativePrecedence = 20
)

// Precedence returns the binding precedence of an operator kind.
func (k Kind) Precedence() int {
	switch k {
	case Assign:
		return AssignmentPrecedence
	case PipePipe:
		return LogicalOrPrecedence
	case AmpAmp:
		return LogicalAndPrecedence
	case Pipe:
		return BitwiseOrPrecedence
	case Amp:
		return BitwiseAndPrecedence
	case Equal:
		return EqualityPrecedence
	case Less, LessEqual, Greater, GreaterEqual:
		return RelationalPrecedence
	case Plus, Minus:
		return AdditivePrecedence
	case Star, Slash:
		return MultiplicativePrecedence
	default:
		return 0
	}
}

// Class is the numeric class of a number literal.
type Class int

const (
	Integer Class = iota
	Real
)

func (c Class) String() string {
	if c == Real {
		return "real"
	}

	return "integer"
}

// Encoding is the textual encoding of a number literal.
type Encoding int

const (
	Decimal Encoding = iota
	Hex
	Binary
	Scientific
)

func (e Encoding) String() string {
	switch e {
	case Hex:
		return "hex"
	case Binary:
		return "binary"
	case Scientific:
		return "scientific"
	default:
		return "decimal"
	}
}

// Base returns the radix of integer literals in encoding e.
func (e Encoding) Base() int {
	switch e {
	case Hex:
		return 16
	case Binary:
		return 2
	default:
		return 10
	}
}

// Specialization describes how a number literal is written.
type Specialization struct {
	Class    Class    `json:"class"    yaml:"class"`
	Encoding Encoding `json:"encoding" yaml:"encoding"`
}

// Pos is a location in source text. Line and Column are 1-based; Column
// counts runes.
type Pos struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a classified lexical unit.
type Token struct {
	Spec       *Specialization
	Text       string
	Pos        Pos
	Kind       Kind
	Precedence int
}

// New returns a token of kind k with its precedence filled in.
func New(k Kind, text string, pos Pos) Token {
	return Token{Kind: k, Text: text, Pos: pos, Precedence: k.Precedence()}
}

// Is reports whether t is an identifier spelled text. Keywords are
// recognized this way; the lexer does not distinguish them.
func (t Token) Is(text string) bool {
	return t.Kind == Identifier && t.Text == text
}

// String returns a short description of t for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case Identifier, Number:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	case String:
		return "string " + strconv.Quote(t.Text)
	case EOF, Newline:
		return t.Kind.String()
	default:
		return strconv.Quote(t.Kind.String())
	}
}
