package ast

import "iter"

// Children returns the direct children of n in source order. Absent optional
// children (a missing initializer or else branch) are skipped.
func Children(n Node) []Node {
	var out []Node

	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}

	switch n := n.(type) {
	case *BinaryExpression:
		add(n.Left)
		add(n.Right)
	case *UnaryExpression:
		add(n.Operand)
	case *AssignmentExpression:
		add(n.Target)
		add(n.Value)
	case *VariableDeclaration:
		add(n.Name)
		add(n.Init)
	case *CallExpression:
		add(n.Callee)

		for _, a := range n.Args {
			add(a)
		}
	case *FunctionExpression:
		for _, p := range n.Params {
			add(p)
		}

		add(n.Body)
	case *BlockStatement:
		for _, s := range n.Statements {
			add(s)
		}
	case *IfStatement:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *ForStatement:
		add(n.Cond)
		add(n.Body)
	}

	return out
}

// Inspect traverses the tree rooted at n depth-first, calling fn for each
// node. Children of a node are visited only if fn returns true for it.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// All returns a depth-first iterator over every node in the tree rooted at n.
func All(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if n == nil {
		return true
	}

	if !yield(n) {
		return false
	}

	for _, c := range Children(n) {
		if !walk(c, yield) {
			return false
		}
	}

	return true
}
