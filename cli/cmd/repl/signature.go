package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/tzlang/lang/runtime"
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string // callee identifier
	argIndex int    // 0-based index of the argument at the cursor
	inCall   bool   // whether the cursor is inside an argument list
}

// detectFunctionCall finds the innermost unclosed "name(" before cursor and
// counts the arguments preceding the cursor.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	open := -1
	depth := 0

	for i := cursor; i > 0 && open < 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 || inString(input, open) {
		return functionCall{}
	}

	name, start, _ := wordBounds(input, open)
	if name == "" || start+len(name) != open {
		return functionCall{}
	}

	call := functionCall{name: name, inCall: true}

	depth = 0

	for _, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				call.argIndex++
			}
		}
	}

	return call
}

// signature returns the display signature of the function bound to name in
// env, and its parameter names. Native functions take any number of
// arguments and are shown with a single variadic parameter.
func signature(env *runtime.Environment, name string) (string, []string) {
	v, err := env.Lookup(name)
	if err != nil {
		return "", nil
	}

	var params []string

	switch fn := v.(type) {
	case *runtime.Function:
		params = fn.ParamNames()
	case *runtime.NativeFunction:
		params = []string{"...values"}
	default:
		return "", nil
	}

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders name(params) with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		current := argIndex == i ||
			(strings.HasPrefix(param, "...") && argIndex >= i)

		if current {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if argIndex >= len(params) && !hasVariadic(params) {
		b.WriteString(hintStyle.Render("  extra arguments are ignored"))
	}

	return b.String()
}

func hasVariadic(params []string) bool {
	return len(params) > 0 && strings.HasPrefix(params[len(params)-1], "...")
}
