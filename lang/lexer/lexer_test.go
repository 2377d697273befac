package lexer

import (
	"errors"
	"testing"

	"github.com/ardnew/tzlang/lang/token"
	"github.com/ardnew/tzlang/pkg"
)

func collect(t *testing.T, source string) []token.Token {
	t.Helper()

	var toks []token.Token

	for tok, err := range New(source).All() {
		if err != nil {
			t.Fatalf("lex %q: %v", source, err)
		}

		toks = append(toks, tok)
	}

	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}

	return ks
}

func TestNextToken_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"blank", " \t\r ", []token.Kind{token.EOF}},
		{
			"punctuation", "( ) { } [ ] , . : ;",
			[]token.Kind{
				token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
				token.LeftBracket, token.RightBracket, token.Comma, token.Dot,
				token.Colon, token.Semicolon, token.EOF,
			},
		},
		{
			"single operators", "+ - * / = < > & |",
			[]token.Kind{
				token.Plus, token.Minus, token.Star, token.Slash, token.Assign,
				token.Less, token.Greater, token.Amp, token.Pipe, token.EOF,
			},
		},
		{
			"double operators", "== <= >= && || =>",
			[]token.Kind{
				token.Equal, token.LessEqual, token.GreaterEqual,
				token.AmpAmp, token.PipePipe, token.Arrow, token.EOF,
			},
		},
		{
			"no spaces", "a==b=>c=d",
			[]token.Kind{
				token.Identifier, token.Equal, token.Identifier, token.Arrow,
				token.Identifier, token.Assign, token.Identifier, token.EOF,
			},
		},
		{
			"newlines are tokens", "a\n\nb",
			[]token.Kind{
				token.Identifier, token.Newline, token.Newline, token.Identifier, token.EOF,
			},
		},
		{
			"comment runs to end of line", "a # b c\nd",
			[]token.Kind{token.Identifier, token.Newline, token.Identifier, token.EOF},
		},
		{
			"keywords are identifiers", "let if else for return",
			[]token.Kind{
				token.Identifier, token.Identifier, token.Identifier,
				token.Identifier, token.Identifier, token.EOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(collect(t, tt.input))
			if len(got) != len(tt.want) {
				t.Fatalf("kinds = %v, want %v", got, tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("kinds = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestNextToken_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"=", 1},
		{"||", 4},
		{"&&", 5},
		{"|", 6},
		{"&", 7},
		{"==", 8},
		{"<", 9},
		{"<=", 9},
		{">", 9},
		{">=", 9},
		{"+", 10},
		{"-", 10},
		{"*", 20},
		{"/", 20},
		{"=>", 0},
		{"(", 0},
		{"x", 0},
		{"1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := collect(t, tt.input)[0]
			if tok.Precedence != tt.want {
				t.Errorf("precedence of %q = %d, want %d", tt.input, tok.Precedence, tt.want)
			}
		})
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		input    string
		class    token.Class
		encoding token.Encoding
	}{
		{"0", token.Integer, token.Decimal},
		{"42", token.Integer, token.Decimal},
		{"3.25", token.Real, token.Decimal},
		{"0.5", token.Real, token.Decimal},
		{"1e10", token.Real, token.Scientific},
		{"2.5E-3", token.Real, token.Scientific},
		{"6e+2", token.Real, token.Scientific},
		{"0e3", token.Real, token.Scientific},
		{"0x1f1f", token.Integer, token.Hex},
		{"0XFF", token.Integer, token.Hex},
		{"0b1010", token.Integer, token.Binary},
		{"0B1", token.Integer, token.Binary},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := collect(t, tt.input)
			if len(toks) != 2 {
				t.Fatalf("got %d tokens, want number and EOF", len(toks))
			}

			tok := toks[0]
			if tok.Kind != token.Number || tok.Text != tt.input {
				t.Fatalf("token = %v, want number %q", tok, tt.input)
			}

			if tok.Spec == nil {
				t.Fatal("number without specialization")
			}

			if tok.Spec.Class != tt.class || tok.Spec.Encoding != tt.encoding {
				t.Errorf("spec = %v/%v, want %v/%v",
					tok.Spec.Class, tok.Spec.Encoding, tt.class, tt.encoding)
			}
		})
	}
}

func TestNextToken_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'single'`, "single"},
		{"`back`", "back"},
		{`""`, ""},
		{`"it's"`, "it's"},
		{`'say "hi"'`, `say "hi"`},
		{"\"two\nlines\"", "two\nlines"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := collect(t, tt.input)[0]
			if tok.Kind != token.String || tok.Text != tt.want {
				t.Errorf("token = %v, want string %q", tok, tt.want)
			}
		})
	}
}

func TestNextToken_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"unterminated double", `"abc`, ErrUnterminatedString},
		{"unterminated mismatched", `'abc"`, ErrUnterminatedString},
		{"unterminated backtick", "`abc", ErrUnterminatedString},
		{"leading zero", "012", ErrInvalidNumber},
		{"empty hex", "0x", ErrInvalidNumber},
		{"empty binary", "0b", ErrInvalidNumber},
		{"bad binary digit", "0b102", ErrInvalidNumber},
		{"bad hex digit", "0x1g", ErrInvalidNumber},
		{"trailing dot", "1.", ErrInvalidNumber},
		{"empty exponent", "1e", ErrInvalidNumber},
		{"signed empty exponent", "1e+", ErrInvalidNumber},
		{"letters after digits", "12ab", ErrInvalidNumber},
		{"unknown character", "a @ b", ErrUnexpectedCharacter},
		{"bang", "!", ErrUnexpectedCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error

			for _, e := range New(tt.input).All() {
				err = e
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, pkg.ErrLex) {
				t.Errorf("error %v is not a lex error", err)
			}
		})
	}
}

func TestNextToken_ErrorPosition(t *testing.T) {
	l := New("a\n  @")

	var err error
	for _, e := range l.All() {
		err = e
	}

	var perr *pkg.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *pkg.Error", err)
	}

	line, _ := perr.Attr("line")
	col, _ := perr.Attr("column")

	if line.Int64() != 2 || col.Int64() != 3 {
		t.Errorf("position = %d:%d, want 2:3", line.Int64(), col.Int64())
	}
}

func TestNextToken_Positions(t *testing.T) {
	toks := collect(t, "let x\n  = 10")

	want := []token.Pos{
		{Offset: 0, Line: 1, Column: 1},
		{Offset: 4, Line: 1, Column: 5},
		{Offset: 5, Line: 1, Column: 6},
		{Offset: 8, Line: 2, Column: 3},
		{Offset: 10, Line: 2, Column: 5},
	}

	for i, w := range want {
		if toks[i].Pos != w {
			t.Errorf("token %d (%v) at %+v, want %+v", i, toks[i], toks[i].Pos, w)
		}
	}
}

func TestNextToken_EOFIsIdempotent(t *testing.T) {
	l := New("x")

	if tok, _ := l.NextToken(); tok.Kind != token.Identifier {
		t.Fatalf("first token = %v", tok)
	}

	for range 3 {
		tok, err := l.NextToken()
		if err != nil || tok.Kind != token.EOF {
			t.Fatalf("token past end = %v, %v; want EOF", tok, err)
		}
	}
}

func TestPeekAndReset(t *testing.T) {
	l := New("ab")

	if l.Peek(0) != 'a' || l.Peek(1) != 'b' || l.Peek(2) != 0 || l.Peek(-1) != 0 {
		t.Fatalf("Peek = %q %q %q %q", l.Peek(0), l.Peek(1), l.Peek(2), l.Peek(-1))
	}

	if tok, _ := l.NextToken(); tok.Text != "ab" {
		t.Fatalf("token = %v", tok)
	}

	l.Reset()

	if tok, _ := l.NextToken(); tok.Text != "ab" {
		t.Errorf("after Reset token = %v", tok)
	}

	l.SetSource("c")

	if tok, _ := l.NextToken(); tok.Text != "c" {
		t.Errorf("after SetSource token = %v", tok)
	}
}

func TestMarkRestore(t *testing.T) {
	l := New("a\nb")
	_, _ = l.NextToken()

	m := l.Mark()

	if tok, _ := l.NextToken(); tok.Kind != token.Newline {
		t.Fatalf("token = %v", tok)
	}

	l.Restore(m)

	if tok, _ := l.NextToken(); tok.Kind != token.Newline || tok.Pos.Line != 1 {
		t.Errorf("after Restore token = %v at %v", tok, tok.Pos)
	}
}

func FuzzNextToken(f *testing.F) {
	for _, seed := range []string{
		"let x = 1", "0x1f", "'a'", "if (a < b) { c }", "0b2", "\"", "a@b",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		n := 0

		for tok, err := range New(input).All() {
			if err != nil {
				if !errors.Is(err, pkg.ErrLex) {
					t.Fatalf("non-lex error %v", err)
				}

				return
			}

			if n++; n > len(input)+1 {
				t.Fatalf("more tokens than input runes at %v", tok)
			}
		}
	})
}
