package eval

import (
	"strconv"

	"github.com/takoeight0821/rill/ast"
	"github.com/takoeight0821/rill/token"
)

// Value is a runtime value: Int, String or Bool.
// String returns the text written by print.
type Value interface {
	Kind() string
	String() string
	Truthy() bool
	value()
}

type Int int64

func (i Int) Kind() string {
	return "Integer"
}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (i Int) Truthy() bool {
	return i != 0
}

func (Int) value() {}

var _ Value = Int(0)

type String string

func (s String) Kind() string {
	return "String"
}

func (s String) String() string {
	return string(s)
}

func (s String) Truthy() bool {
	return s != ""
}

func (String) value() {}

var _ Value = String("")

type Bool bool

func (b Bool) Kind() string {
	return "Bool"
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (b Bool) Truthy() bool {
	return bool(b)
}

func (Bool) value() {}

var _ Value = Bool(false)

// literalValue resolves the raw text of a literal: integers first, strings otherwise.
func literalValue(raw string) Value {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int(n)
	}
	return String(raw)
}

// negatedLiteral resolves -N for a number literal N as one integer,
// which is the only way to write math.MinInt64.
func negatedLiteral(e *ast.Unary) (Int, bool) {
	lit, ok := e.Operand.(*ast.Literal)
	if !ok || e.Op.Kind != token.MINUS || lit.Kind != token.NUMBER {
		return 0, false
	}
	n, err := strconv.ParseInt("-"+lit.Lexeme, 10, 64)
	if err != nil {
		return 0, false
	}
	return Int(n), true
}
