package lang

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ardnew/tzlang/lang/lexer"
	"github.com/ardnew/tzlang/lang/parser"
	"github.com/ardnew/tzlang/lang/token"
	"github.com/ardnew/tzlang/pkg"
)

// Position returns the line and column recorded on err, if any.
func Position(err error) (line, column int, ok bool) {
	var e *pkg.Error
	if !errors.As(err, &e) {
		return 0, 0, false
	}

	l, lok := e.Attr("line")
	c, cok := e.Attr("column")

	if !lok || !cok {
		return 0, 0, false
	}

	return int(l.Int64()), int(c.Int64()), true
}

// Snippet formats err for display. When err records a position inside
// source, the offending line is quoted with a caret under the column:
//
//	syntax error at line 2, column 5: unexpected token (...)
//	  2 | let = 1
//	    |     ^
//
// Otherwise the result is err.Error().
func Snippet(source string, err error) string {
	if err == nil {
		return ""
	}

	line, col, ok := Position(err)
	lines := strings.Split(source, "\n")

	if !ok || line < 1 || line > len(lines) {
		return err.Error()
	}

	var sb strings.Builder

	sb.WriteString(category(err))
	sb.WriteString(" at line ")
	sb.WriteString(strconv.Itoa(line))
	sb.WriteString(", column ")
	sb.WriteString(strconv.Itoa(col))
	sb.WriteString(": ")
	sb.WriteString(err.Error())
	sb.WriteByte('\n')

	text := strings.TrimSuffix(lines[line-1], "\r")
	num := strconv.Itoa(line)
	gutter := strings.Repeat(" ", len(num))

	sb.WriteString("  " + num + " | " + text + "\n")
	sb.WriteString("  " + gutter + " | ")

	// Keep tabs so the caret lines up with the quoted text.
	for i, r := range []rune(text) {
		if i >= col-1 {
			break
		}

		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}

	sb.WriteString("^\n")

	return sb.String()
}

// Incomplete reports whether err was caused by source ending inside an
// unclosed block, argument list, group or string. Appending more lines may
// complete such a program.
func Incomplete(source string, err error) bool {
	if errors.Is(err, lexer.ErrUnterminatedString) {
		return true
	}

	var e *pkg.Error
	if !errors.As(err, &e) || !errors.Is(err, parser.ErrUnexpectedToken) {
		return false
	}

	if got, _ := e.Attr("got"); got.String() != token.EOF.String() {
		return false
	}

	depth := 0

	for tok, err := range lexer.New(source).All() {
		if err != nil {
			return false
		}

		switch tok.Kind {
		case token.LeftParen, token.LeftBrace:
			depth++
		case token.RightParen, token.RightBrace:
			depth--
		}
	}

	return depth > 0
}

func category(err error) string {
	switch {
	case errors.Is(err, pkg.ErrLex):
		return pkg.ErrLex.Message()
	case errors.Is(err, pkg.ErrSyntax):
		return pkg.ErrSyntax.Message()
	case errors.Is(err, pkg.ErrRuntime):
		return pkg.ErrRuntime.Message()
	default:
		return "error"
	}
}
