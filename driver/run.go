package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/takoeight0821/rill/ast"
	"github.com/takoeight0821/rill/eval"
	"github.com/takoeight0821/rill/lexer"
	"github.com/takoeight0821/rill/parser"
)

// Runner parses sources and executes them on one evaluator,
// so declarations from earlier sources stay visible to later ones.
type Runner struct {
	Evaluator *eval.Evaluator
}

// NewRunner creates a runner printing to out.
func NewRunner(out io.Writer) *Runner {
	return &Runner{Evaluator: eval.NewEvaluator(out)}
}

// Parse lexes and parses source.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	program, err := parser.NewParser(tokens).ParseProgram()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return program, nil
}

// RunSource parses the source code and executes it.
// Nothing is executed when lexing or parsing fails.
func (r *Runner) RunSource(source string) error {
	program, err := Parse(source)
	if err != nil {
		return err
	}

	if err := r.Evaluator.Run(program); err != nil {
		return fmt.Errorf("eval: %w", err)
	}

	return nil
}

// RunLine runs source like RunSource. A source that is not a program but a single
// expression is evaluated in the current frame and its value returned;
// otherwise the returned value is nil.
func (r *Runner) RunLine(source string) (eval.Value, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}

	program, err := parser.NewParser(tokens).ParseProgram()
	if err != nil {
		expr, exprErr := parser.NewParser(tokens).ParseExpr()
		if exprErr != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		v, err := r.Evaluator.Eval(expr)
		if err != nil {
			return nil, fmt.Errorf("eval: %w", err)
		}
		return v, nil
	}

	if err := r.Evaluator.Run(program); err != nil {
		return nil, fmt.Errorf("eval: %w", err)
	}

	return nil, nil
}

// RunFile reads the whole file at path and runs it.
func (r *Runner) RunFile(path string) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return r.RunSource(string(bytes))
}
