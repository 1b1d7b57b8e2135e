package ast

import (
	"fmt"
	"strings"

	"github.com/takoeight0821/rill/token"
)

// AST

type Node interface {
	fmt.Stringer
	Base() token.Token
}

// Expr is an expression node: Literal, Var, Binary, Unary or Call.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node: Decl, Assign, CallStmt, If, IfElse, FuncDecl, Return or Print.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of the tree.
type Program struct {
	Stmts []Stmt
}

func (p Program) String() string {
	var b strings.Builder
	for _, stmt := range p.Stmts {
		b.WriteString(stmt.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Expressions

// Literal holds the raw text of a number or string literal.
// It is resolved to a value at evaluation time.
type Literal struct {
	token.Token
}

func (l Literal) String() string {
	if l.Kind == token.STRING {
		return parenthesize("literal", text(fmt.Sprintf("%q", l.Lexeme))).String()
	}
	return parenthesize("literal", text(l.Lexeme)).String()
}

func (l *Literal) Base() token.Token {
	return l.Token
}

func (*Literal) exprNode() {}

var _ Expr = &Literal{}

type Var struct {
	Name token.Token
}

func (v Var) String() string {
	return parenthesize("var", text(v.Name.Lexeme)).String()
}

func (v *Var) Base() token.Token {
	return v.Name
}

func (*Var) exprNode() {}

var _ Expr = &Var{}

type Binary struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (b Binary) String() string {
	return parenthesize("binary", b.Left, text(b.Op.Lexeme), b.Right).String()
}

func (b *Binary) Base() token.Token {
	return b.Op
}

func (*Binary) exprNode() {}

var _ Expr = &Binary{}

type Unary struct {
	Op      token.Token
	Operand Expr
}

func (u Unary) String() string {
	return parenthesize("unary", text(u.Op.Lexeme), u.Operand).String()
}

func (u *Unary) Base() token.Token {
	return u.Op
}

func (*Unary) exprNode() {}

var _ Expr = &Unary{}

type Call struct {
	Name token.Token
	Args []Expr
}

func (c Call) String() string {
	return parenthesize("call", text(c.Name.Lexeme), concat(c.Args)).String()
}

func (c *Call) Base() token.Token {
	return c.Name
}

func (*Call) exprNode() {}

var _ Expr = &Call{}

// Statements

// Decl is `let name = value;`.
type Decl struct {
	Name  token.Token
	Value Expr
}

func (d Decl) String() string {
	return parenthesize("let", text(d.Name.Lexeme), d.Value).String()
}

func (d *Decl) Base() token.Token {
	return d.Name
}

func (*Decl) stmtNode() {}

var _ Stmt = &Decl{}

// Assign is `name = value;`.
type Assign struct {
	Name  token.Token
	Value Expr
}

func (a Assign) String() string {
	return parenthesize("assign", text(a.Name.Lexeme), a.Value).String()
}

func (a *Assign) Base() token.Token {
	return a.Name
}

func (*Assign) stmtNode() {}

var _ Stmt = &Assign{}

// CallStmt is a call whose result is discarded.
type CallStmt struct {
	Call *Call
}

func (c CallStmt) String() string {
	return parenthesize("do", c.Call).String()
}

func (c *CallStmt) Base() token.Token {
	return c.Call.Base()
}

func (*CallStmt) stmtNode() {}

var _ Stmt = &CallStmt{}

type If struct {
	Keyword token.Token
	Cond    Expr
	Then    []Stmt
}

func (i If) String() string {
	return parenthesize("if", i.Cond, block(i.Then)).String()
}

func (i *If) Base() token.Token {
	return i.Keyword
}

func (*If) stmtNode() {}

var _ Stmt = &If{}

type IfElse struct {
	Keyword token.Token
	Cond    Expr
	Then    []Stmt
	Else    []Stmt
}

func (i IfElse) String() string {
	return parenthesize("if", i.Cond, block(i.Then), block(i.Else)).String()
}

func (i *IfElse) Base() token.Token {
	return i.Keyword
}

func (*IfElse) stmtNode() {}

var _ Stmt = &IfElse{}

type FuncDecl struct {
	Name   token.Token
	Params []token.Token
	Body   []Stmt
}

func (f FuncDecl) String() string {
	params := make([]fmt.Stringer, len(f.Params))
	for i, param := range f.Params {
		params[i] = text(param.Lexeme)
	}
	return parenthesize("func", text(f.Name.Lexeme), parenthesize("", params...), block(f.Body)).String()
}

func (f *FuncDecl) Base() token.Token {
	return f.Name
}

func (*FuncDecl) stmtNode() {}

var _ Stmt = &FuncDecl{}

// Return is `return [value];`. Value is nil when omitted.
type Return struct {
	Keyword token.Token
	Value   Expr
}

func (r Return) String() string {
	if r.Value == nil {
		return parenthesize("return").String()
	}
	return parenthesize("return", r.Value).String()
}

func (r *Return) Base() token.Token {
	return r.Keyword
}

func (*Return) stmtNode() {}

var _ Stmt = &Return{}

type Print struct {
	Keyword token.Token
	Value   Expr
}

func (p Print) String() string {
	return parenthesize("print", p.Value).String()
}

func (p *Print) Base() token.Token {
	return p.Keyword
}

func (*Print) stmtNode() {}

var _ Stmt = &Print{}

type text string

func (t text) String() string {
	return string(t)
}

// block renders a statement list as a parenthesized group; an empty body prints as "(block)".
func block(stmts []Stmt) fmt.Stringer {
	return parenthesize("block", concat(stmts))
}

// parenthesize takes a head string and a variadic number of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is parenthesized and separated by a space.
// If the head string is not empty, it is added at the beginning of the string.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		// ignore empty string
		// e.g. concat({}) == ""
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}
