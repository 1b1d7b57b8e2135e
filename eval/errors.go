package eval

import (
	"fmt"

	"github.com/takoeight0821/rill/token"
	"github.com/takoeight0821/rill/utils"
)

type UndefinedVariableError struct {
	Name token.Token
}

func (e *UndefinedVariableError) Error() string {
	return utils.MsgAt(e.Name, fmt.Sprintf("undefined variable %s", e.Name.Lexeme))
}

type UndefinedFunctionError struct {
	Name token.Token
}

func (e *UndefinedFunctionError) Error() string {
	return utils.MsgAt(e.Name, fmt.Sprintf("undefined function %s", e.Name.Lexeme))
}

// TypeMismatchError reports operands an operator does not accept.
// Left is empty for unary operators.
type TypeMismatchError struct {
	Op    token.Token
	Left  string
	Right string
}

func (e *TypeMismatchError) Error() string {
	if e.Left == "" {
		return utils.MsgAt(e.Op, fmt.Sprintf("type mismatch: %s%s", e.Op.Lexeme, e.Right))
	}
	return utils.MsgAt(e.Op, fmt.Sprintf("type mismatch: %s %s %s", e.Left, e.Op.Lexeme, e.Right))
}

type ArithmeticError struct {
	Op     token.Token
	Reason string
}

func (e *ArithmeticError) Error() string {
	return utils.MsgAt(e.Op, e.Reason)
}

type CallDepthError struct {
	Name  token.Token
	Limit int
}

func (e *CallDepthError) Error() string {
	return utils.MsgAt(e.Name, fmt.Sprintf("call depth exceeded %d", e.Limit))
}
