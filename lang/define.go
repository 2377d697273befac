package lang

import (
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/tzlang/lang/lexer"
	"github.com/ardnew/tzlang/lang/parser"
	"github.com/ardnew/tzlang/lang/runtime"
	"github.com/ardnew/tzlang/lang/token"
	"github.com/ardnew/tzlang/pkg"
)

// ParseDefine parses a host definition of the form NAME=EXPR. EXPR is an
// expr-lang expression evaluated in [ExprEnv]; its result must convert to a
// tz value with [FromNative].
func ParseDefine(def string) (string, runtime.Value, error) {
	name, source, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)

	if !ok || !IsName(name) {
		return "", nil, pkg.ErrInvalidDefine.With(slog.String("define", def))
	}

	out, err := expr.Eval(source, ExprEnv())
	if err != nil {
		return "", nil, pkg.ErrInvalidDefine.Wrap(err).With(slog.String("name", name))
	}

	v, err := FromNative(out)
	if err != nil {
		return "", nil, pkg.ErrInvalidDefine.Wrap(err).With(slog.String("name", name))
	}

	return name, v, nil
}

// ParseDefines parses each definition with [ParseDefine]. Later
// definitions of a name replace earlier ones.
func ParseDefines(defs []string) (map[string]runtime.Value, error) {
	globals := make(map[string]runtime.Value, len(defs))

	for _, def := range defs {
		name, v, err := ParseDefine(def)
		if err != nil {
			return nil, err
		}

		globals[name] = v
	}

	return globals, nil
}

// IsName reports whether s is a valid variable name: a single identifier
// token that is not a keyword.
func IsName(s string) bool {
	tok, err := lexer.New(s).NextToken()
	if err != nil {
		return false
	}

	return tok.Kind == token.Identifier && tok.Text == s && !parser.IsKeyword(s)
}
