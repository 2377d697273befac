// Package runtime evaluates tz syntax trees.
//
// Evaluation walks the tree recursively against a chain of [Environment]
// scopes. Every block, branch, loop iteration and function call gets a fresh
// scope. Binary operands are always both evaluated, left first; && and ||
// do not short-circuit.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"

	"github.com/ardnew/tzlang/lang/ast"
	"github.com/ardnew/tzlang/lang/token"
	"github.com/ardnew/tzlang/log"
	"github.com/ardnew/tzlang/pkg"
)

// ErrInvalidLiteral reports a numeric literal whose text does not match its
// recorded encoding. Only hand-built trees can contain one.
var ErrInvalidLiteral = pkg.ErrRuntime.Sub("invalid numeric literal")

// DefaultMaxDepth bounds the function call depth of an [Evaluator] created
// without [WithMaxDepth].
const DefaultMaxDepth = 10000

// Evaluator walks syntax trees. It tracks call depth, so a single Evaluator
// must not be used by more than one goroutine at a time.
type Evaluator struct {
	ctx      context.Context
	logger   log.Logger
	maxDepth int
	depth    int
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithLogger sets the logger receiving trace events for statements and
// calls. The zero Logger discards everything.
func WithLogger(l log.Logger) Option {
	return func(ev *Evaluator) { ev.logger = l }
}

// WithMaxDepth limits nested function calls. A limit of 0 or less removes
// the bound.
func WithMaxDepth(n int) Option {
	return func(ev *Evaluator) { ev.maxDepth = n }
}

// WithContext makes loops and calls stop with [pkg.ErrInterrupted] once ctx
// is done. Without it, an endless loop runs forever.
func WithContext(ctx context.Context) Option {
	return func(ev *Evaluator) {
		if ctx != nil {
			ev.ctx = ctx
		}
	}
}

// NewEvaluator returns an evaluator configured by opts.
func NewEvaluator(opts ...Option) *Evaluator {
	ev := &Evaluator{ctx: context.Background(), maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(ev)
	}

	return ev
}

// Evaluate evaluates n in env and returns its value.
func (ev *Evaluator) Evaluate(n ast.Node, env *Environment) (Value, error) {
	return ev.eval(n, env)
}

// EvaluateProgram evaluates the statements of prog directly in env, without
// opening a new scope, so top-level declarations remain in env afterward.
// It returns the value of the last statement, or Null.
func (ev *Evaluator) EvaluateProgram(
	prog *ast.BlockStatement,
	env *Environment,
) (Value, error) {
	return ev.statements(prog.Statements, env)
}

func (ev *Evaluator) statements(stmts []ast.Node, env *Environment) (Value, error) {
	var last Value = Null{}

	for _, stmt := range stmts {
		ev.logger.TraceContext(ev.ctx, "evaluate",
			slog.String("node", stmt.Kind().String()),
			slog.String("pos", stmt.Pos().String()),
		)

		v, err := ev.eval(stmt, env)
		if err != nil {
			return nil, err
		}

		last = v
	}

	return last, nil
}

func (ev *Evaluator) eval(n ast.Node, env *Environment) (Value, error) {
	switch n := n.(type) {
	case *ast.BlockStatement:
		return ev.statements(n.Statements, env.Child())

	case *ast.VariableDeclaration:
		return ev.declare(n, env)

	case *ast.AssignmentExpression:
		return ev.assign(n, env)

	case *ast.IfStatement:
		return ev.ifStatement(n, env)

	case *ast.ForStatement:
		return ev.forStatement(n, env)

	case *ast.BinaryExpression:
		return ev.binary(n, env)

	case *ast.UnaryExpression:
		return ev.unary(n, env)

	case *ast.CallExpression:
		return ev.call(n, env)

	case *ast.FunctionExpression:
		return &Function{Params: n.Params, Body: n.Body, Env: env}, nil

	case *ast.Identifier:
		return ev.lookup(n, env)

	case *ast.NumericLiteral:
		return numeric(n)

	case *ast.StringLiteral:
		return String(n.Value), nil

	case *ast.BooleanLiteral:
		return Boolean(n.Value), nil

	case *ast.NullLiteral:
		return Null{}, nil
	}

	panic(fmt.Sprintf("runtime: unhandled node type %T", n))
}

func (ev *Evaluator) declare(n *ast.VariableDeclaration, env *Environment) (Value, error) {
	var v Value = Null{}

	if n.Init != nil {
		var err error
		if v, err = ev.eval(n.Init, env); err != nil {
			return nil, err
		}
	}

	if err := env.Define(n.Name.Name, v); err != nil {
		return nil, at(err, n.Pos())
	}

	return v, nil
}

func (ev *Evaluator) assign(n *ast.AssignmentExpression, env *Environment) (Value, error) {
	target, ok := n.Target.(*ast.Identifier)
	if !ok {
		return nil, at(pkg.ErrInvalidAssignmentTarget.With(
			slog.String("target", n.Target.Kind().String()),
		), n.Pos())
	}

	v, err := ev.eval(n.Value, env)
	if err != nil {
		return nil, err
	}

	if err := env.Assign(target.Name, v); err != nil {
		return nil, at(err, target.Pos())
	}

	return v, nil
}

func (ev *Evaluator) lookup(n *ast.Identifier, env *Environment) (Value, error) {
	v, err := env.Lookup(n.Name)
	if err != nil {
		return nil, at(err, n.Pos())
	}

	return v, nil
}

// condition evaluates cond in a fresh scope and requires a Boolean.
func (ev *Evaluator) condition(cond ast.Node, env *Environment) (bool, error) {
	v, err := ev.eval(cond, env.Child())
	if err != nil {
		return false, err
	}

	b, ok := v.(Boolean)
	if !ok {
		return false, at(pkg.ErrType.With(
			slog.String("reason", "condition must be boolean"),
			slog.String("got", v.Kind().String()),
		), cond.Pos())
	}

	return bool(b), nil
}

func (ev *Evaluator) ifStatement(n *ast.IfStatement, env *Environment) (Value, error) {
	ok, err := ev.condition(n.Cond, env)
	if err != nil {
		return nil, err
	}

	switch {
	case ok:
		return ev.eval(n.Then, env.Child())
	case n.Else != nil:
		return ev.eval(n.Else, env.Child())
	}

	return Null{}, nil
}

// forStatement returns the value of the last iteration's body, or Null if
// the body never ran.
func (ev *Evaluator) forStatement(n *ast.ForStatement, env *Environment) (Value, error) {
	var last Value = Null{}

	for {
		if err := ev.interrupted(n.Pos()); err != nil {
			return nil, err
		}

		ok, err := ev.condition(n.Cond, env)
		if err != nil {
			return nil, err
		}

		if !ok {
			return last, nil
		}

		if last, err = ev.eval(n.Body, env.Child()); err != nil {
			return nil, err
		}
	}
}

func (ev *Evaluator) binary(n *ast.BinaryExpression, env *Environment) (Value, error) {
	left, err := ev.eval(n.Left, env)
	if err != nil {
		return nil, err
	}

	right, err := ev.eval(n.Right, env)
	if err != nil {
		return nil, err
	}

	v, err := operate(n.Operator.Kind, left, right)
	if err != nil {
		return nil, at(err, n.Operator.Pos)
	}

	return v, nil
}

func operate(op token.Kind, left, right Value) (Value, error) {
	lf, lok := left.(Float)
	rf, rok := right.(Float)
	floats := lok && rok

	switch op {
	case token.Plus:
		if ls, ok := left.(String); ok {
			if rs, ok := right.(String); ok {
				return ls + rs, nil
			}
		}

		if floats {
			return lf + rf, nil
		}

	case token.Minus:
		if floats {
			return lf - rf, nil
		}

	case token.Star:
		if floats {
			return lf * rf, nil
		}

	case token.Slash:
		if floats {
			return lf / rf, nil
		}

	case token.Less:
		if floats {
			return Boolean(lf < rf), nil
		}

	case token.LessEqual:
		if floats {
			return Boolean(lf <= rf), nil
		}

	case token.Greater:
		if floats {
			return Boolean(lf > rf), nil
		}

	case token.GreaterEqual:
		if floats {
			return Boolean(lf >= rf), nil
		}

	case token.Equal, token.Amp, token.AmpAmp, token.Pipe, token.PipePipe:
		// Recognized but without semantics for any operand type.
		if left.Kind() == right.Kind() {
			return nil, pkg.ErrUnsupported.With(
				slog.String("operator", op.String()),
				slog.String("operand", left.Kind().String()),
			)
		}

	default:
		return nil, pkg.ErrUnsupported.With(slog.String("operator", op.String()))
	}

	return nil, pkg.ErrType.With(
		slog.String("operator", op.String()),
		slog.String("left", left.Kind().String()),
		slog.String("right", right.Kind().String()),
	)
}

func (ev *Evaluator) unary(n *ast.UnaryExpression, env *Environment) (Value, error) {
	v, err := ev.eval(n.Operand, env)
	if err != nil {
		return nil, err
	}

	if n.Operator.Kind != token.Minus {
		return nil, at(pkg.ErrUnsupported.With(
			slog.String("operator", n.Operator.Kind.String()),
		), n.Pos())
	}

	f, ok := v.(Float)
	if !ok {
		return nil, at(pkg.ErrType.With(
			slog.String("operator", "unary -"),
			slog.String("operand", v.Kind().String()),
		), n.Pos())
	}

	return -f, nil
}

func (ev *Evaluator) call(n *ast.CallExpression, env *Environment) (Value, error) {
	callee, err := ev.eval(n.Callee, env)
	if err != nil {
		return nil, err
	}

	args := make([]Value, len(n.Args))
	for i, arg := range n.Args {
		if args[i], err = ev.eval(arg, env); err != nil {
			return nil, err
		}
	}

	if err := ev.interrupted(n.Pos()); err != nil {
		return nil, err
	}

	ev.logger.TraceContext(ev.ctx, "call",
		slog.String("callee", callee.String()),
		slog.Int("args", len(args)),
		slog.Int("depth", ev.depth),
	)

	switch fn := callee.(type) {
	case *Function:
		if ev.maxDepth > 0 && ev.depth >= ev.maxDepth {
			return nil, at(pkg.ErrMaxDepthExceeded.With(
				slog.Int("limit", ev.maxDepth),
			), n.Pos())
		}

		ev.depth++
		defer func() { ev.depth-- }()

		scope := fn.Env.Child()

		for i, param := range fn.Params {
			// Missing arguments are null; extra arguments are ignored.
			var v Value = Null{}
			if i < len(args) {
				v = args[i]
			}

			if err := scope.Define(param.Name, v); err != nil {
				return nil, at(err, param.Pos())
			}
		}

		return ev.eval(fn.Body, scope)

	case *NativeFunction:
		return fn.Fn(args)
	}

	return nil, at(pkg.ErrNotCallable.With(
		slog.String("kind", callee.Kind().String()),
	), n.Pos())
}

func (ev *Evaluator) interrupted(pos token.Pos) error {
	if err := ev.ctx.Err(); err != nil {
		return at(pkg.ErrInterrupted.Wrap(err), pos)
	}

	return nil
}

// numeric converts a literal to a Float using its recorded encoding. Hex and
// binary integers of any length are rounded to the nearest float.
func numeric(n *ast.NumericLiteral) (Value, error) {
	invalid := func(err error) (Value, error) {
		return nil, at(ErrInvalidLiteral.Wrap(err).With(
			slog.String("text", n.Text),
		), n.Pos())
	}

	switch enc := n.Spec.Encoding; enc {
	case token.Hex, token.Binary:
		if len(n.Text) < 3 {
			return invalid(nil)
		}

		i, ok := new(big.Int).SetString(n.Text[2:], enc.Base())
		if !ok {
			return invalid(nil)
		}

		f, _ := new(big.Float).SetInt(i).Float64()

		return Float(f), nil
	}

	// Out-of-range decimals saturate to infinity.
	f, err := strconv.ParseFloat(n.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return invalid(err)
	}

	return Float(f), nil
}

// at attaches a source position to a runtime error.
func at(err error, pos token.Pos) error {
	return pkg.WrapError(err).With(
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
}
