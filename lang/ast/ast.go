// Package ast declares the syntax tree produced by the parser.
//
// The set of node types is closed: every type implementing [Node] is declared
// in this package. Nodes are built once by the parser and never modified
// afterward; a child is owned by exactly one parent.
package ast

import (
	"github.com/ardnew/tzlang/lang/token"
)

// Kind tags each node type.
type Kind int

const (
	KindIdentifier Kind = iota
	KindNumericLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindBinaryExpression
	KindUnaryExpression
	KindAssignmentExpression
	KindVariableDeclaration
	KindCallExpression
	KindFunctionExpression
	KindBlockStatement
	KindIfStatement
	KindForStatement
)

var kindName = [...]string{
	KindIdentifier:           "Identifier",
	KindNumericLiteral:       "NumericLiteral",
	KindStringLiteral:        "StringLiteral",
	KindBooleanLiteral:       "BooleanLiteral",
	KindNullLiteral:          "NullLiteral",
	KindBinaryExpression:     "BinaryExpression",
	KindUnaryExpression:      "UnaryExpression",
	KindAssignmentExpression: "AssignmentExpression",
	KindVariableDeclaration:  "VariableDeclaration",
	KindCallExpression:       "CallExpression",
	KindFunctionExpression:   "FunctionExpression",
	KindBlockStatement:       "BlockStatement",
	KindIfStatement:          "IfStatement",
	KindForStatement:         "ForStatement",
}

// String returns the node type name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Unknown"
}

// Node is implemented by every syntax tree node.
type Node interface {
	Kind() Kind
	Pos() token.Pos

	node()
}

// Identifier is a reference to a name.
type Identifier struct {
	Name  string
	Start token.Pos
}

// NumericLiteral is a number exactly as written in source. Its value is
// computed during evaluation from Text and Spec.
type NumericLiteral struct {
	Spec  token.Specialization
	Text  string
	Start token.Pos
}

// StringLiteral is a quoted string; Value excludes the quotes.
type StringLiteral struct {
	Value string
	Start token.Pos
}

// BooleanLiteral is a boolean constant. The parser never produces one (true
// and false are bound as global constants) but hosts building trees may.
type BooleanLiteral struct {
	Start token.Pos
	Value bool
}

// NullLiteral is the null constant. Like [BooleanLiteral] it exists for
// hand-built trees.
type NullLiteral struct {
	Start token.Pos
}

// BinaryExpression applies an infix operator.
type BinaryExpression struct {
	Left     Node
	Right    Node
	Operator token.Token
}

// UnaryExpression applies a prefix operator.
type UnaryExpression struct {
	Operand  Node
	Operator token.Token
}

// AssignmentExpression stores Value into Target. The parser only produces
// Identifier targets.
type AssignmentExpression struct {
	Target Node
	Value  Node
	Start  token.Pos
}

// VariableDeclaration introduces Name in the current scope. Init is nil when
// no initializer was given.
type VariableDeclaration struct {
	Init  Node
	Name  *Identifier
	Start token.Pos
}

// CallExpression invokes Callee with Args.
type CallExpression struct {
	Callee Node
	Args   []Node
}

// FunctionExpression creates a closure.
type FunctionExpression struct {
	Body   *BlockStatement
	Params []*Identifier
	Start  token.Pos
}

// BlockStatement is a sequence of statements evaluated in a new scope.
type BlockStatement struct {
	Statements []Node
	Start      token.Pos
}

// IfStatement evaluates Then when Cond is true, else Else (which may be nil).
type IfStatement struct {
	Cond  Node
	Then  Node
	Else  Node
	Start token.Pos
}

// ForStatement evaluates Body while Cond is true.
type ForStatement struct {
	Cond  Node
	Body  Node
	Start token.Pos
}

func (*Identifier) Kind() Kind           { return KindIdentifier }
func (*NumericLiteral) Kind() Kind       { return KindNumericLiteral }
func (*StringLiteral) Kind() Kind        { return KindStringLiteral }
func (*BooleanLiteral) Kind() Kind       { return KindBooleanLiteral }
func (*NullLiteral) Kind() Kind          { return KindNullLiteral }
func (*BinaryExpression) Kind() Kind     { return KindBinaryExpression }
func (*UnaryExpression) Kind() Kind      { return KindUnaryExpression }
func (*AssignmentExpression) Kind() Kind { return KindAssignmentExpression }
func (*VariableDeclaration) Kind() Kind  { return KindVariableDeclaration }
func (*CallExpression) Kind() Kind       { return KindCallExpression }
func (*FunctionExpression) Kind() Kind   { return KindFunctionExpression }
func (*BlockStatement) Kind() Kind       { return KindBlockStatement }
func (*IfStatement) Kind() Kind          { return KindIfStatement }
func (*ForStatement) Kind() Kind         { return KindForStatement }

func (n *Identifier) Pos() token.Pos           { return n.Start }
func (n *NumericLiteral) Pos() token.Pos       { return n.Start }
func (n *StringLiteral) Pos() token.Pos        { return n.Start }
func (n *BooleanLiteral) Pos() token.Pos       { return n.Start }
func (n *NullLiteral) Pos() token.Pos          { return n.Start }
func (n *BinaryExpression) Pos() token.Pos     { return n.Left.Pos() }
func (n *UnaryExpression) Pos() token.Pos      { return n.Operator.Pos }
func (n *AssignmentExpression) Pos() token.Pos { return n.Start }
func (n *VariableDeclaration) Pos() token.Pos  { return n.Start }
func (n *CallExpression) Pos() token.Pos       { return n.Callee.Pos() }
func (n *FunctionExpression) Pos() token.Pos   { return n.Start }
func (n *BlockStatement) Pos() token.Pos       { return n.Start }
func (n *IfStatement) Pos() token.Pos          { return n.Start }
func (n *ForStatement) Pos() token.Pos         { return n.Start }

func (*Identifier) node()           {}
func (*NumericLiteral) node()       {}
func (*StringLiteral) node()        {}
func (*BooleanLiteral) node()       {}
func (*NullLiteral) node()          {}
func (*BinaryExpression) node()     {}
func (*UnaryExpression) node()      {}
func (*AssignmentExpression) node() {}
func (*VariableDeclaration) node()  {}
func (*CallExpression) node()       {}
func (*FunctionExpression) node()   {}
func (*BlockStatement) node()       {}
func (*IfStatement) node()          {}
func (*ForStatement) node()         {}
