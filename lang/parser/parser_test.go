package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/tzlang/lang/ast"
	"github.com/ardnew/tzlang/lang/lexer"
	"github.com/ardnew/tzlang/pkg"
)

// sexpr renders a tree compactly for comparison in tests.
func sexpr(n ast.Node) string {
	var sb strings.Builder
	writeSexpr(&sb, n)

	return sb.String()
}

func writeSexpr(sb *strings.Builder, n ast.Node) {
	list := func(head string, items ...ast.Node) {
		sb.WriteString("(" + head)

		for _, it := range items {
			sb.WriteByte(' ')

			if it == nil {
				sb.WriteString("_")

				continue
			}

			writeSexpr(sb, it)
		}

		sb.WriteByte(')')
	}

	switch n := n.(type) {
	case *ast.Identifier:
		sb.WriteString(n.Name)
	case *ast.NumericLiteral:
		sb.WriteString(n.Text)
	case *ast.StringLiteral:
		sb.WriteString(`"` + n.Value + `"`)
	case *ast.BinaryExpression:
		list(n.Operator.Text, n.Left, n.Right)
	case *ast.UnaryExpression:
		list(n.Operator.Text, n.Operand)
	case *ast.AssignmentExpression:
		list("=", n.Target, n.Value)
	case *ast.VariableDeclaration:
		list("let", n.Name, n.Init)
	case *ast.CallExpression:
		list("call", append([]ast.Node{n.Callee}, n.Args...)...)
	case *ast.FunctionExpression:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}

		list("fn ["+strings.Join(params, " ")+"]", n.Body)
	case *ast.BlockStatement:
		list("block", n.Statements...)
	case *ast.IfStatement:
		list("if", n.Cond, n.Then, n.Else)
	case *ast.ForStatement:
		list("for", n.Cond, n.Body)
	default:
		sb.WriteString("?")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "(block)"},
		{"only separators", "\n;\n\n", "(block)"},
		{"number", "42", "(block 42)"},
		{"string", "'hi'", `(block "hi")`},
		{"precedence", "2 + 3 * 4", "(block (+ 2 (* 3 4)))"},
		{"grouping", "(2 + 3) * 4", "(block (* (+ 2 3) 4))"},
		{"left associative", "1 - 2 - 3", "(block (- (- 1 2) 3))"},
		{"division chain", "8 / 4 / 2", "(block (/ (/ 8 4) 2))"},
		{"comparison below additive", "a + 1 < b * 2", "(block (< (+ a 1) (* b 2)))"},
		{"equality below comparison", "a < b == c", "(block (== (< a b) c))"},
		{
			"logical ladder", "a || b && c | d & e",
			"(block (|| a (&& b (| c (& d e)))))",
		},
		{"assignment", "a = 1", "(block (= a 1))"},
		{"assignment chain", "a = b = 5", "(block (= a (= b 5)))"},
		{"assignment of expression", "a = b + 1", "(block (= a (+ b 1)))"},
		{"unary minus", "-a * b", "(block (* (- a) b))"},
		{"unary binds tighter than additive", "1 - -2", "(block (- 1 (- 2)))"},
		{"let", "let x", "(block (let x _))"},
		{"let init", "let x = 1 + 2", "(block (let x (+ 1 2)))"},
		{"let chain", "let a; let b; a = b = 5", "(block (let a _) (let b _) (= a (= b 5)))"},
		{"call", "f()", "(block (call f))"},
		{"call args", "f(1, a + b)", "(block (call f 1 (+ a b)))"},
		{"call multiline args", "f(\n1,\n2\n)", "(block (call f 1 2))"},
		{"curried call", "f(1)(2)", "(block (call (call f 1) 2))"},
		{"call in expression", "1 + f(2) * 3", "(block (+ 1 (* (call f 2) 3)))"},
		{"function", "() => {}", "(block (fn [] (block)))"},
		{"function params", "(a, b) => { a + b }", "(block (fn [a b] (block (+ a b))))"},
		{
			"function body lines", "let f = (x) => {\n  let y = x\n  y * 2\n}",
			"(block (let f (fn [x] (block (let y x) (* y 2)))))",
		},
		{"grouped identifier", "(a)", "(block a)"},
		{"grouped then arrow-less", "(a) + 1", "(block (+ a 1))"},
		{"if", "if (a) b", "(block (if a b _))"},
		{"if block", "if (a < 1) { b = 2 }", "(block (if (< a 1) (block (= b 2)) _))"},
		{"if else", "if (a) { b } else { c }", "(block (if a (block b) (block c)))"},
		{"if else single", "if (a) b else c", "(block (if a b c))"},
		{"else on next line", "if (a) {\n b\n}\nelse {\n c\n}", "(block (if a (block b) (block c)))"},
		{"else if", "if (a) b else if (c) d else e", "(block (if a b (if c d e)))"},
		{"if then statement", "if (a) b\nc", "(block (if a b _) c)"},
		{"for", "for (i < 3) { i = i + 1 }", "(block (for (< i 3) (block (= i (+ i 1)))))"},
		{"for single", "for (a) a = false", "(block (for a (= a false)))"},
		{"semicolons", "a; b;c", "(block a b c)"},
		{"comments", "# leading\na # trailing\n# last", "(block a)"},
		{"nested blocks", "{ { a } }", "(block (block (block a)))"},
		{"block separators", "{\n\n a \n\n b \n}", "(block (block a b))"},
		{"empty standalone block", "{}", "(block (block))"},
		{"block after statement", "let x = 1\n{ x = 2 }\nx", "(block (let x 1) (block (= x 2)) x)"},
		{"function multiline params", "(a,\n b) => { a }", "(block (fn [a b] (block a)))"},
		{"function params on own lines", "(\n a,\n b\n) => { b }", "(block (fn [a b] (block b)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}

			if s := sexpr(got); s != tt.want {
				t.Errorf("Parse(%q)\n got %s\nwant %s", tt.input, s, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing operand", "1 +", ErrUnexpectedToken},
		{"unclosed group", "(1 + 2", ErrUnexpectedToken},
		{"unclosed block", "{ a", ErrUnexpectedToken},
		{"stray close", "}", ErrUnexpectedToken},
		{"missing separator", "a b", ErrUnexpectedToken},
		{"let without name", "let = 1", ErrUnexpectedToken},
		{"let keyword name", "let if = 1", ErrReservedWord},
		{"if without paren", "if a { b }", ErrUnexpectedToken},
		{"for without condition", "for () { }", ErrUnexpectedToken},
		{"stray else", "else { a }", ErrReservedWord},
		{"return", "return 1", ErrReservedWord},
		{"return in block", "let f = () => { return 1 }", ErrReservedWord},
		{"assign to literal", "1 = 2", ErrAssignmentTarget},
		{"assign to sum", "a + b = c", ErrAssignmentTarget},
		{"assign to call", "f() = 1", ErrAssignmentTarget},
		{"arrow without block", "(a) => a", ErrUnexpectedToken},
		{"bad parameter", "(a, 1) => { a }", ErrUnexpectedToken},
		{"trailing comma in call", "f(1,)", ErrUnexpectedToken},
		{"unsupported prefix", "* 2", ErrUnexpectedToken},
		{"lexical error", "let s = 'oops", lexer.ErrUnterminatedString},
		{"bad number", "let n = 09", lexer.ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestParseErrorCategories(t *testing.T) {
	_, err := Parse("1 +")
	if !errors.Is(err, pkg.ErrSyntax) || errors.Is(err, pkg.ErrLex) {
		t.Errorf("syntax error %v has wrong category", err)
	}

	_, err = Parse("@")
	if !errors.Is(err, pkg.ErrLex) || errors.Is(err, pkg.ErrSyntax) {
		t.Errorf("lex error %v has wrong category", err)
	}
}

func TestParseErrorAttrs(t *testing.T) {
	_, err := Parse("let x = (1 + 2\nx")

	var perr *pkg.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a *pkg.Error", err)
	}

	checks := map[string]string{
		"expected": ")",
		"got":      "newline",
		"line":     "1",
		"column":   "15",
	}

	for key, want := range checks {
		v, ok := perr.Attr(key)
		if !ok {
			t.Errorf("missing attribute %q", key)

			continue
		}

		if got := v.String(); got != want {
			t.Errorf("attribute %q = %q, want %q", key, got, want)
		}
	}
}

func TestParserContinuesLexer(t *testing.T) {
	l := lexer.New("1 + 1")

	first, err := New(l).Parse()
	if err != nil {
		t.Fatal(err)
	}

	l.SetSource("2 * 2")

	second, err := New(l).Parse()
	if err != nil {
		t.Fatal(err)
	}

	if sexpr(first) == sexpr(second) {
		t.Errorf("parsers over a reused lexer returned the same tree %s", sexpr(first))
	}
}

func TestPositions(t *testing.T) {
	prog, err := Parse("let x = 1\nif (x) {\n  f(x)\n}")
	if err != nil {
		t.Fatal(err)
	}

	stmt := prog.Statements[1].(*ast.IfStatement)
	if p := stmt.Pos(); p.Line != 2 || p.Column != 1 {
		t.Errorf("if at %v, want 2:1", p)
	}

	call := stmt.Then.(*ast.BlockStatement).Statements[0]
	if p := call.Pos(); p.Line != 3 || p.Column != 3 {
		t.Errorf("call at %v, want 3:3", p)
	}
}

func TestKeywords(t *testing.T) {
	for _, k := range Keywords() {
		if !IsKeyword(k) {
			t.Errorf("IsKeyword(%q) = false", k)
		}
	}

	for _, name := range []string{"true", "null", "print", "lets", "x"} {
		if IsKeyword(name) {
			t.Errorf("IsKeyword(%q) = true", name)
		}
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		"let a = 1\na = a + 2 * 3",
		"if (a < b) { c } else d",
		"for (i < 3) { i = i + 1 }",
		"let f = (a, b) => { a(b) }",
		"((1)",
		"a = = b",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		prog, err := Parse(input)
		if err != nil {
			if !errors.Is(err, pkg.ErrSyntax) && !errors.Is(err, pkg.ErrLex) {
				t.Fatalf("unclassified error %v", err)
			}

			return
		}

		for n := range ast.All(prog) {
			if n == nil {
				t.Fatal("nil node in tree")
			}
		}
	})
}
