package lang

import (
	"github.com/ardnew/tzlang/lang/ast"
)

// ToMap converts a syntax tree to nested maps and slices suitable for
// generic encoders. Every node becomes a map with at least "kind" and "pos"
// keys; absent optional children are omitted.
func ToMap(n ast.Node) map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{
		"kind": n.Kind().String(),
		"pos":  n.Pos().String(),
	}

	set := func(key string, child ast.Node) {
		if child != nil {
			m[key] = ToMap(child)
		}
	}

	list := func(nodes []ast.Node) []any {
		out := make([]any, len(nodes))
		for i, c := range nodes {
			out[i] = ToMap(c)
		}

		return out
	}

	switch n := n.(type) {
	case *ast.Identifier:
		m["name"] = n.Name

	case *ast.NumericLiteral:
		m["text"] = n.Text
		m["class"] = n.Spec.Class.String()
		m["encoding"] = n.Spec.Encoding.String()

	case *ast.StringLiteral:
		m["value"] = n.Value

	case *ast.BooleanLiteral:
		m["value"] = n.Value

	case *ast.BinaryExpression:
		m["operator"] = n.Operator.Kind.String()
		set("left", n.Left)
		set("right", n.Right)

	case *ast.UnaryExpression:
		m["operator"] = n.Operator.Kind.String()
		set("operand", n.Operand)

	case *ast.AssignmentExpression:
		set("target", n.Target)
		set("value", n.Value)

	case *ast.VariableDeclaration:
		m["name"] = n.Name.Name
		set("init", n.Init)

	case *ast.CallExpression:
		set("callee", n.Callee)
		m["args"] = list(n.Args)

	case *ast.FunctionExpression:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}

		m["params"] = params
		set("body", n.Body)

	case *ast.BlockStatement:
		m["statements"] = list(n.Statements)

	case *ast.IfStatement:
		set("cond", n.Cond)
		set("then", n.Then)
		set("else", n.Else)

	case *ast.ForStatement:
		set("cond", n.Cond)
		set("body", n.Body)
	}

	return m
}
