package lang

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tzlang/lang/ast"
	"github.com/ardnew/tzlang/lang/token"
	"github.com/ardnew/tzlang/pkg"
)

// Format selects a syntax tree rendering.
type Format int

const (
	// FormatNative renders tz source.
	FormatNative Format = iota
	// FormatJSON renders the tree as JSON objects.
	FormatJSON
	// FormatYAML renders the tree as YAML mappings.
	FormatYAML
	// FormatRepr renders the tree as Go values.
	FormatRepr
)

var formatName = [...]string{
	FormatNative: "native",
	FormatJSON:   "json",
	FormatYAML:   "yaml",
	FormatRepr:   "repr",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatName) {
		return formatName[f]
	}

	return "unknown"
}

// Formats lists the names accepted by [ParseFormat].
func Formats() []string { return slices.Clone(formatName[:]) }

// ParseFormat returns the format with the given name.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatName {
		if strings.EqualFold(n, name) {
			return Format(f), nil
		}
	}

	return 0, pkg.ErrInvalidFormat.With(
		slog.String("format", name),
		slog.String("valid", strings.Join(formatName[:], ",")),
	)
}

// Write renders n to w in format f. Indent is the number of spaces per
// nesting level; 0 selects the most compact layout the format has.
func Write(ctx context.Context, w io.Writer, n ast.Node, f Format, indent int) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, n, indent)
	case FormatYAML:
		return WriteYAML(ctx, w, n, indent)
	case FormatRepr:
		return WriteRepr(w, n, indent)
	case FormatNative:
		return WriteNative(w, n, indent)
	}

	return pkg.ErrInvalidFormat.With(slog.String("format", f.String()))
}

// WriteJSON writes n as JSON followed by a newline.
func WriteJSON(w io.Writer, n ast.Node, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToMap(n), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToMap(n))
	}

	if err != nil {
		return pkg.ErrJSONMarshal.Wrap(err)
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

// WriteYAML writes n as YAML. An indent of 0 selects flow style.
func WriteYAML(ctx context.Context, w io.Writer, n ast.Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToMap(n), opts...)
	if err != nil {
		return pkg.ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

// WriteRepr writes n as a Go composite literal.
func WriteRepr(w io.Writer, n ast.Node, indent int) error {
	opts := []repr.Option{repr.OmitEmpty(true)}
	if indent > 0 {
		opts = append(opts, repr.Indent(strings.Repeat(" ", indent)))
	}

	_, err := io.WriteString(w, repr.String(n, opts...)+"\n")

	return err
}

// WriteNative writes n as tz source that parses back to an equivalent
// tree. With indent 0, blocks are written on one line.
func WriteNative(w io.Writer, n ast.Node, indent int) error {
	p := printer{indent: indent}

	if prog, ok := n.(*ast.BlockStatement); ok {
		p.statements(prog.Statements, p.separator())
	} else {
		p.node(n)
	}

	p.sb.WriteByte('\n')

	_, err := io.WriteString(w, p.sb.String())

	return err
}

// Source returns n as tz source. See [WriteNative].
func Source(n ast.Node, indent int) string {
	var sb strings.Builder

	_ = WriteNative(&sb, n, indent)

	return strings.TrimSuffix(sb.String(), "\n")
}

type printer struct {
	sb     strings.Builder
	indent int
	depth  int
}

// primary binds tighter than any operator.
const primary = token.MultiplicativePrecedence + 1

func precedence(n ast.Node) int {
	switch n := n.(type) {
	case *ast.AssignmentExpression:
		return token.AssignmentPrecedence
	case *ast.BinaryExpression:
		return n.Operator.Kind.Precedence()
	}

	return primary
}

func (p *printer) separator() string {
	if p.indent > 0 {
		return "\n" + strings.Repeat(" ", p.depth*p.indent)
	}

	return "; "
}

func (p *printer) statements(stmts []ast.Node, sep string) {
	for i, s := range stmts {
		if i > 0 {
			p.sb.WriteString(sep)
		}

		p.node(s)
	}
}

// operand writes n, parenthesized when it binds looser than minPrec.
func (p *printer) operand(n ast.Node, minPrec int) {
	if precedence(n) < minPrec {
		p.sb.WriteByte('(')
		p.node(n)
		p.sb.WriteByte(')')

		return
	}

	p.node(n)
}

func (p *printer) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Identifier:
		p.sb.WriteString(n.Name)

	case *ast.NumericLiteral:
		p.sb.WriteString(n.Text)

	case *ast.StringLiteral:
		p.sb.WriteString(quote(n.Value))

	case *ast.BooleanLiteral:
		if n.Value {
			p.sb.WriteString("true")
		} else {
			p.sb.WriteString("false")
		}

	case *ast.NullLiteral:
		p.sb.WriteString("null")

	case *ast.BinaryExpression:
		prec := n.Operator.Kind.Precedence()

		// Operators are left-associative, so an equal-precedence right
		// operand needs parentheses.
		p.operand(n.Left, prec)
		p.sb.WriteString(" " + n.Operator.Kind.String() + " ")
		p.operand(n.Right, prec+1)

	case *ast.UnaryExpression:
		p.sb.WriteString(n.Operator.Kind.String())
		p.operand(n.Operand, primary)

	case *ast.AssignmentExpression:
		p.operand(n.Target, primary)
		p.sb.WriteString(" = ")
		p.node(n.Value)

	case *ast.VariableDeclaration:
		p.sb.WriteString("let " + n.Name.Name)

		if n.Init != nil {
			p.sb.WriteString(" = ")
			p.node(n.Init)
		}

	case *ast.CallExpression:
		switch n.Callee.(type) {
		case *ast.Identifier, *ast.CallExpression:
			p.node(n.Callee)
		default:
			p.sb.WriteByte('(')
			p.node(n.Callee)
			p.sb.WriteByte(')')
		}

		p.sb.WriteByte('(')

		for i, a := range n.Args {
			if i > 0 {
				p.sb.WriteString(", ")
			}

			p.node(a)
		}

		p.sb.WriteByte(')')

	case *ast.FunctionExpression:
		p.sb.WriteByte('(')

		for i, param := range n.Params {
			if i > 0 {
				p.sb.WriteString(", ")
			}

			p.sb.WriteString(param.Name)
		}

		p.sb.WriteString(") => ")
		p.block(n.Body)

	case *ast.BlockStatement:
		p.block(n)

	case *ast.IfStatement:
		p.sb.WriteString("if (")
		p.node(n.Cond)
		p.sb.WriteString(") ")

		// An else would bind to a nested if without one.
		if _, nested := n.Then.(*ast.IfStatement); nested && n.Else != nil {
			p.block(&ast.BlockStatement{Statements: []ast.Node{n.Then}})
		} else {
			p.node(n.Then)
		}

		if n.Else != nil {
			p.sb.WriteString(" else ")
			p.node(n.Else)
		}

	case *ast.ForStatement:
		p.sb.WriteString("for (")
		p.node(n.Cond)
		p.sb.WriteString(") ")
		p.node(n.Body)
	}
}

func (p *printer) block(b *ast.BlockStatement) {
	if len(b.Statements) == 0 {
		p.sb.WriteString("{}")

		return
	}

	if p.indent == 0 {
		p.sb.WriteString("{ ")
		p.statements(b.Statements, "; ")
		p.sb.WriteString(" }")

		return
	}

	p.depth++
	p.sb.WriteString("{" + p.separator())
	p.statements(b.Statements, p.separator())
	p.depth--
	p.sb.WriteString(p.separator() + "}")
}

// quote delimits s with the first quote character it does not contain.
func quote(s string) string {
	for _, q := range []string{`"`, `'`, "`"} {
		if !strings.Contains(s, q) {
			return q + s + q
		}
	}

	return `"` + s + `"`
}
