// Package parser builds a syntax tree from tz source using precedence
// climbing (Pratt parsing).
//
// Every operator token carries its binding precedence from the lexer, so
// [Parser.parseExpression] needs no table of its own. Statements are
// recognized by their leading keyword; anything else is an expression
// statement. The first error aborts the parse.
package parser

import (
	"log/slog"

	"github.com/ardnew/tzlang/lang/ast"
	"github.com/ardnew/tzlang/lang/lexer"
	"github.com/ardnew/tzlang/lang/token"
	"github.com/ardnew/tzlang/pkg"
)

// Syntax errors.
var (
	ErrUnexpectedToken  = pkg.ErrSyntax.Sub("unexpected token")
	ErrReservedWord     = pkg.ErrSyntax.Sub("reserved word")
	ErrAssignmentTarget = pkg.ErrSyntax.Sub("cannot assign to expression")
)

// Keywords recognized at statement level. They cannot be used as names.
const (
	KeywordLet    = "let"
	KeywordIf     = "if"
	KeywordElse   = "else"
	KeywordFor    = "for"
	KeywordReturn = "return"
)

// Keywords lists every reserved word.
func Keywords() []string {
	return []string{KeywordLet, KeywordIf, KeywordElse, KeywordFor, KeywordReturn}
}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool {
	switch name {
	case KeywordLet, KeywordIf, KeywordElse, KeywordFor, KeywordReturn:
		return true
	}

	return false
}

// Parser holds one token of lookahead over a [lexer.Lexer].
type Parser struct {
	lex *lexer.Lexer
	cur token.Token
}

type mark struct {
	lex lexer.Mark
	cur token.Token
}

// Parse parses source as a whole program.
func Parse(source string) (*ast.BlockStatement, error) {
	return New(lexer.New(source)).Parse()
}

// New returns a parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	return &Parser{lex: l}
}

// Parse parses the remaining input of the lexer as a program: a block
// without braces that ends at end of input.
func (p *Parser) Parse() (*ast.BlockStatement, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	return p.block(true)
}

func (p *Parser) advance() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}

	p.cur = tok

	return nil
}

func (p *Parser) mark() mark { return mark{p.lex.Mark(), p.cur} }

func (p *Parser) restore(m mark) {
	p.lex.Restore(m.lex)
	p.cur = m.cur
}

// eat consumes a token of kind k and returns it.
func (p *Parser) eat(k token.Kind) (token.Token, error) {
	tok := p.cur
	if tok.Kind != k {
		return tok, unexpected(tok, k.String())
	}

	return tok, p.advance()
}

func (p *Parser) skipNewlines() error {
	for p.cur.Kind == token.Newline {
		if err := p.advance(); err != nil {
			return err
		}
	}

	return nil
}

func isSeparator(k token.Kind) bool {
	return k == token.Newline || k == token.Semicolon
}

func (p *Parser) skipSeparators() error {
	for isSeparator(p.cur.Kind) {
		if err := p.advance(); err != nil {
			return err
		}
	}

	return nil
}

// block parses statements up to the closing brace, or up to end of input
// for the global block. Consecutive statements must be separated by at least
// one newline or semicolon.
func (p *Parser) block(global bool) (*ast.BlockStatement, error) {
	b := &ast.BlockStatement{Start: p.cur.Pos}

	end := token.RightBrace
	if global {
		end = token.EOF
	} else if _, err := p.eat(token.LeftBrace); err != nil {
		return nil, err
	}

	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}

		if p.cur.Kind == end {
			break
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		b.Statements = append(b.Statements, stmt)

		if p.cur.Kind != end && !isSeparator(p.cur.Kind) {
			return nil, unexpected(p.cur, "newline or ;")
		}
	}

	if !global {
		if _, err := p.eat(token.RightBrace); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// statement dispatches on the leading keyword.
func (p *Parser) statement() (ast.Node, error) {
	switch {
	case p.cur.Is(KeywordLet):
		return p.letStatement()
	case p.cur.Is(KeywordIf):
		return p.ifStatement()
	case p.cur.Is(KeywordFor):
		return p.forStatement()
	case p.cur.Is(KeywordReturn):
		return nil, reserved(p.cur)
	case p.cur.Kind == token.LeftBrace:
		return p.block(false)
	}

	return p.parseExpression(0)
}

// branch parses the body of an if, else or for: a block when it opens with
// a brace, else a single statement.
func (p *Parser) branch() (ast.Node, error) {
	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	if p.cur.Kind == token.LeftBrace {
		return p.block(false)
	}

	return p.statement()
}

// condition parses a parenthesized condition.
func (p *Parser) condition() (ast.Node, error) {
	if _, err := p.eat(token.LeftParen); err != nil {
		return nil, err
	}

	cond, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.RightParen); err != nil {
		return nil, err
	}

	return cond, nil
}

func (p *Parser) letStatement() (ast.Node, error) {
	decl := &ast.VariableDeclaration{Start: p.cur.Pos}

	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.name()
	if err != nil {
		return nil, err
	}

	decl.Name = name

	if p.cur.Kind != token.Assign {
		return decl, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	if decl.Init, err = p.parseExpression(0); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *Parser) ifStatement() (ast.Node, error) {
	stmt := &ast.IfStatement{Start: p.cur.Pos}

	if err := p.advance(); err != nil {
		return nil, err
	}

	var err error

	if stmt.Cond, err = p.condition(); err != nil {
		return nil, err
	}

	if stmt.Then, err = p.branch(); err != nil {
		return nil, err
	}

	// else may start on a following line. If it does not, put the newlines
	// back so they terminate the if statement.
	m := p.mark()

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	if !p.cur.Is(KeywordElse) {
		p.restore(m)

		return stmt, nil
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	if stmt.Else, err = p.branch(); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *Parser) forStatement() (ast.Node, error) {
	stmt := &ast.ForStatement{Start: p.cur.Pos}

	if err := p.advance(); err != nil {
		return nil, err
	}

	var err error

	if stmt.Cond, err = p.condition(); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.branch(); err != nil {
		return nil, err
	}

	return stmt, nil
}

// name consumes an identifier that is not a keyword.
func (p *Parser) name() (*ast.Identifier, error) {
	tok := p.cur

	if tok.Kind != token.Identifier {
		return nil, unexpected(tok, token.Identifier.String())
	}

	if IsKeyword(tok.Text) {
		return nil, reserved(tok)
	}

	return &ast.Identifier{Name: tok.Text, Start: tok.Pos}, p.advance()
}

// parseExpression parses a prefix term, then folds in every infix operator
// binding tighter than minPrec.
func (p *Parser) parseExpression(minPrec int) (ast.Node, error) {
	left, err := p.nud()
	if err != nil {
		return nil, err
	}

	for p.cur.Precedence > minPrec {
		if left, err = p.led(left); err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) led(left ast.Node) (ast.Node, error) {
	op := p.cur

	if err := p.advance(); err != nil {
		return nil, err
	}

	if op.Kind == token.Assign {
		if _, ok := left.(*ast.Identifier); !ok {
			return nil, ErrAssignmentTarget.With(
				slog.String("target", left.Kind().String()),
				slog.Int("line", op.Pos.Line),
				slog.Int("column", op.Pos.Column),
			)
		}

		// Right-associative: a = b = c is a = (b = c).
		value, err := p.parseExpression(token.AssignmentPrecedence - 1)
		if err != nil {
			return nil, err
		}

		return &ast.AssignmentExpression{Target: left, Value: value, Start: op.Pos}, nil
	}

	right, err := p.parseExpression(op.Precedence)
	if err != nil {
		return nil, err
	}

	return &ast.BinaryExpression{Operator: op, Left: left, Right: right}, nil
}

func (p *Parser) nud() (ast.Node, error) {
	tok := p.cur

	switch tok.Kind {
	case token.Identifier:
		id, err := p.name()
		if err != nil {
			return nil, err
		}

		return p.calls(id)

	case token.Number:
		lit := &ast.NumericLiteral{Text: tok.Text, Start: tok.Pos}
		if tok.Spec != nil {
			lit.Spec = *tok.Spec
		}

		return lit, p.advance()

	case token.String:
		return &ast.StringLiteral{Value: tok.Text, Start: tok.Pos}, p.advance()

	case token.Minus:
		if err := p.advance(); err != nil {
			return nil, err
		}

		operand, err := p.parseExpression(token.MultiplicativePrecedence)
		if err != nil {
			return nil, err
		}

		return &ast.UnaryExpression{Operator: tok, Operand: operand}, nil

	case token.LeftParen:
		ok, err := p.atFunction()
		if err != nil {
			return nil, err
		}

		if ok {
			return p.function()
		}

		return p.group()
	}

	return nil, unexpected(tok, "expression")
}

// calls wraps callee in a call expression for each argument list that
// follows it, so f(1)(2) calls the result of f(1).
func (p *Parser) calls(callee ast.Node) (ast.Node, error) {
	for p.cur.Kind == token.LeftParen {
		call := &ast.CallExpression{Callee: callee}

		err := p.list(func() error {
			arg, err := p.parseExpression(0)
			if err == nil {
				call.Args = append(call.Args, arg)
			}

			return err
		})
		if err != nil {
			return nil, err
		}

		callee = call
	}

	return callee, nil
}

// list parses a parenthesized, comma-separated list, calling item for each
// element. Newlines are allowed around elements.
func (p *Parser) list(item func() error) error {
	if _, err := p.eat(token.LeftParen); err != nil {
		return err
	}

	if err := p.skipNewlines(); err != nil {
		return err
	}

	for p.cur.Kind != token.RightParen {
		if err := item(); err != nil {
			return err
		}

		if err := p.skipNewlines(); err != nil {
			return err
		}

		if p.cur.Kind != token.Comma {
			break
		}

		if err := p.advance(); err != nil {
			return err
		}

		if err := p.skipNewlines(); err != nil {
			return err
		}

		// An element must follow every comma.
		if p.cur.Kind == token.RightParen {
			return unexpected(p.cur, "expression")
		}
	}

	_, err := p.eat(token.RightParen)

	return err
}

// atFunction reports whether the parenthesis at the cursor opens a
// parameter list, that is, whether it matches "( [name {, name}] ) =>".
// Newlines may appear around names as they may in [Parser.list]. The cursor
// is left unchanged.
func (p *Parser) atFunction() (bool, error) {
	m := p.mark()
	defer p.restore(m)

	if err := p.advance(); err != nil {
		return false, err
	}

	if err := p.skipNewlines(); err != nil {
		return false, err
	}

	for p.cur.Kind == token.Identifier {
		if err := p.advance(); err != nil {
			return false, err
		}

		if err := p.skipNewlines(); err != nil {
			return false, err
		}

		if p.cur.Kind != token.Comma {
			break
		}

		if err := p.advance(); err != nil {
			return false, err
		}

		if err := p.skipNewlines(); err != nil {
			return false, err
		}
	}

	if p.cur.Kind != token.RightParen {
		return false, nil
	}

	if err := p.advance(); err != nil {
		return false, err
	}

	return p.cur.Kind == token.Arrow, nil
}

func (p *Parser) function() (ast.Node, error) {
	fn := &ast.FunctionExpression{Start: p.cur.Pos}

	err := p.list(func() error {
		param, err := p.name()
		if err == nil {
			fn.Params = append(fn.Params, param)
		}

		return err
	})
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.Arrow); err != nil {
		return nil, err
	}

	if err := p.skipNewlines(); err != nil {
		return nil, err
	}

	if fn.Body, err = p.block(false); err != nil {
		return nil, err
	}

	return fn, nil
}

func (p *Parser) group() (ast.Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.RightParen); err != nil {
		return nil, err
	}

	return expr, nil
}

func unexpected(got token.Token, expected string) error {
	return ErrUnexpectedToken.With(
		slog.String("expected", expected),
		slog.String("got", got.String()),
		slog.Int("line", got.Pos.Line),
		slog.Int("column", got.Pos.Column),
	)
}

func reserved(tok token.Token) error {
	return ErrReservedWord.With(
		slog.String("word", tok.Text),
		slog.Int("line", tok.Pos.Line),
		slog.Int("column", tok.Pos.Column),
	)
}
