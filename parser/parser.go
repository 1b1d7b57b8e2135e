// Package parser is a recursive descent parser for rill.
package parser

import (
	"fmt"

	"github.com/takoeight0821/rill/ast"
	"github.com/takoeight0821/rill/token"
	"github.com/takoeight0821/rill/utils"
)

type Parser struct {
	tokens  []token.Token
	current int
	// depth of enclosing function bodies; return is legal only when positive.
	funcDepth int
}

// NewParser creates a parser over tokens. A trailing EOF token is optional.
func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseProgram parses statements until EOF.
// On error the returned program is nil.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	// program = stmt* EOF ;
	stmts := []ast.Stmt{}
	for !p.IsAtEnd() {
		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}

	return &ast.Program{Stmts: stmts}, nil
}

// ParseExpr parses a single expression that must span all tokens.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	expr, err := p.expr()
	if err != nil {
		return nil, err
	}
	if !p.IsAtEnd() {
		return nil, unexpectedToken(token.EOF, p.peek())
	}

	return expr, nil
}

// stmt = letStmt | printStmt | ifStmt | funcDecl | returnStmt | callStmt | assignStmt ;
func (p *Parser) stmt() (ast.Stmt, error) {
	//exhaustive:ignore
	switch p.peek().Kind {
	case token.LET:
		return p.letStmt()
	case token.PRINT:
		return p.printStmt()
	case token.IF:
		return p.ifStmt()
	case token.FUNC:
		return p.funcDecl()
	case token.RETURN:
		return p.returnStmt()
	case token.IDENT:
		if p.matchNth(1, token.LEFTPAREN) {
			return p.callStmt()
		}
		return p.assignStmt()
	default:
		return nil, unexpectedToken(token.INVALID, p.peek())
	}
}

// letStmt = "let" IDENT "=" expr ";" ;
func (p *Parser) letStmt() (*ast.Decl, error) {
	if _, err := p.consume(token.LET); err != nil {
		return nil, err
	}
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.Decl{Name: name, Value: value}, nil
}

// assignStmt = IDENT "=" expr ";" ;
func (p *Parser) assignStmt() (*ast.Assign, error) {
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.Assign{Name: name, Value: value}, nil
}

// printStmt = "print" expr ";" ;
func (p *Parser) printStmt() (*ast.Print, error) {
	keyword, err := p.consume(token.PRINT)
	if err != nil {
		return nil, err
	}
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.Print{Keyword: keyword, Value: value}, nil
}

// callStmt = IDENT "(" args ")" ";" ;
func (p *Parser) callStmt() (*ast.CallStmt, error) {
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}
	call, err := p.callTail(name)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.CallStmt{Call: call}, nil
}

// ifStmt = "if" "(" expr ")" block ("else" block)? ;
func (p *Parser) ifStmt() (ast.Stmt, error) {
	keyword, err := p.consume(token.IF)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}
	then, err := p.block()
	if err != nil {
		return nil, err
	}

	if !p.match(token.ELSE) {
		return &ast.If{Keyword: keyword, Cond: cond, Then: then}, nil
	}
	p.advance()
	els, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.IfElse{Keyword: keyword, Cond: cond, Then: then, Else: els}, nil
}

// funcDecl = "func" IDENT "(" params ")" block ;
// params = (IDENT ("," IDENT)*)? ;
func (p *Parser) funcDecl() (*ast.FuncDecl, error) {
	if _, err := p.consume(token.FUNC); err != nil {
		return nil, err
	}
	name, err := p.consume(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	params := []token.Token{}
	if !p.match(token.RIGHTPAREN) {
		param, err := p.consume(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		for p.match(token.COMMA) {
			p.advance()
			param, err := p.consume(token.IDENT)
			if err != nil {
				return nil, err
			}
			params = append(params, param)
		}
	}
	if _, err := p.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}

	p.funcDepth++
	body, err := p.block()
	p.funcDepth--
	if err != nil {
		return nil, err
	}

	return &ast.FuncDecl{Name: name, Params: params, Body: body}, nil
}

// returnStmt = "return" expr? ";" ;
func (p *Parser) returnStmt() (*ast.Return, error) {
	keyword, err := p.consume(token.RETURN)
	if err != nil {
		return nil, err
	}
	if p.funcDepth == 0 {
		return nil, &ReturnOutsideFunctionError{Where: keyword}
	}

	var value ast.Expr
	if !p.match(token.SEMICOLON) {
		value, err = p.expr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON); err != nil {
		return nil, err
	}

	return &ast.Return{Keyword: keyword, Value: value}, nil
}

// block = "{" stmt* "}" ;
func (p *Parser) block() ([]ast.Stmt, error) {
	if _, err := p.consume(token.LEFTBRACE); err != nil {
		return nil, err
	}
	stmts := []ast.Stmt{}
	for !p.match(token.RIGHTBRACE) && !p.IsAtEnd() {
		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(token.RIGHTBRACE); err != nil {
		return nil, err
	}

	return stmts, nil
}

// expr = comparison ;
func (p *Parser) expr() (ast.Expr, error) {
	return p.comparison()
}

// comparison = additive ((">" | "<") additive)* ;
func (p *Parser) comparison() (ast.Expr, error) {
	return p.binary(p.additive, token.GREATER, token.LESS)
}

// additive = term (("+" | "-") term)* ;
func (p *Parser) additive() (ast.Expr, error) {
	return p.binary(p.term, token.PLUS, token.MINUS)
}

// term = factor (("*" | "/") factor)* ;
func (p *Parser) term() (ast.Expr, error) {
	return p.binary(p.factor, token.ASTERISK, token.SLASH)
}

// binary folds a left-associative chain of operand separated by ops.
func (p *Parser) binary(operand func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(ops...) {
		op := p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr, nil
}

// factor = NUMBER | STRING | "(" expr ")" | ("+" | "-") factor | IDENT callTail? ;
func (p *Parser) factor() (ast.Expr, error) {
	//exhaustive:ignore
	switch tok := p.peek(); tok.Kind {
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{Token: tok}, nil
	case token.LEFTPAREN:
		p.advance()
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHTPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.PLUS, token.MINUS:
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: tok, Operand: operand}, nil
	case token.IDENT:
		p.advance()
		if p.match(token.LEFTPAREN) {
			return p.callTail(tok)
		}
		return &ast.Var{Name: tok}, nil
	default:
		return nil, unexpectedToken(token.NUMBER, tok)
	}
}

// callTail = "(" ")" | "(" expr ("," expr)* ")" ;
func (p *Parser) callTail(name token.Token) (*ast.Call, error) {
	if _, err := p.consume(token.LEFTPAREN); err != nil {
		return nil, err
	}
	args := []ast.Expr{}
	if !p.match(token.RIGHTPAREN) {
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		for p.match(token.COMMA) {
			p.advance()
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}
	if _, err := p.consume(token.RIGHTPAREN); err != nil {
		return nil, err
	}

	return &ast.Call{Name: name, Args: args}, nil
}

// peek returns the current token, or a synthetic EOF past the end of the slice.
func (p Parser) peek() token.Token {
	return p.peekNth(0)
}

func (p Parser) peekNth(n int) token.Token {
	if p.current+n >= len(p.tokens) {
		line := 0
		if len(p.tokens) > 0 {
			line = p.tokens[len(p.tokens)-1].Line
		}
		return token.Token{Kind: token.EOF, Lexeme: "", Line: line}
	}
	return p.tokens[p.current+n]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if !p.IsAtEnd() {
		p.current++
	}

	return tok
}

func (p Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p Parser) match(kinds ...token.Kind) bool {
	if p.IsAtEnd() {
		return false
	}
	for _, kind := range kinds {
		if p.peek().Kind == kind {
			return true
		}
	}

	return false
}

func (p Parser) matchNth(n int, kind token.Kind) bool {
	return p.peekNth(n).Kind == kind
}

func (p *Parser) consume(kind token.Kind) (token.Token, error) {
	if p.match(kind) {
		return p.advance(), nil
	}

	return p.peek(), unexpectedToken(kind, p.peek())
}

// ParseError reports a token of the wrong kind.
// Expected is INVALID when no single kind fits, e.g. at the start of a statement.
type ParseError struct {
	Expected token.Kind
	Found    token.Token
}

func (e *ParseError) Error() string {
	if e.Expected == token.INVALID {
		return utils.MsgAt(e.Found, fmt.Sprintf("unexpected token %v: expected statement", e.Found.Kind))
	}
	return utils.MsgAt(e.Found, fmt.Sprintf("unexpected token %v: expected %v", e.Found.Kind, e.Expected))
}

func unexpectedToken(expected token.Kind, found token.Token) error {
	return &ParseError{Expected: expected, Found: found}
}

type ReturnOutsideFunctionError struct {
	Where token.Token
}

func (e *ReturnOutsideFunctionError) Error() string {
	return utils.MsgAt(e.Where, "return outside of function body")
}
