package eval

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/takoeight0821/rill/ast"
	"github.com/takoeight0821/rill/token"
)

// DefaultMaxCallDepth bounds the call nesting of a run.
const DefaultMaxCallDepth = 10000

// Evaluator executes programs. It owns the scope stack and the function registry,
// so independent evaluators never share state.
//
// Scoping is flat: every variable access goes to the innermost frame only,
// a function body cannot see the caller's or the global variables.
type Evaluator struct {
	*EvEnv
	functions map[string]*ast.FuncDecl
	out       io.Writer
	depth     int

	// MaxCallDepth limits nested calls; zero or less disables the check.
	MaxCallDepth int
}

// NewEvaluator creates an evaluator that prints to out. A nil out means os.Stdout.
func NewEvaluator(out io.Writer) *Evaluator {
	if out == nil {
		out = os.Stdout
	}
	return &Evaluator{
		EvEnv:        newEvEnv(nil),
		functions:    make(map[string]*ast.FuncDecl),
		out:          out,
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Run executes the statements of program in order and stops at the first error.
// Bindings and functions persist across calls on the same evaluator.
func (ev *Evaluator) Run(program *ast.Program) error {
	for _, stmt := range program.Stmts {
		if err := ev.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the binding of name in the innermost frame.
func (ev *Evaluator) Lookup(name string) (Value, bool) {
	v, ok := ev.values[name]
	return v, ok
}

// Function returns the registered declaration of name.
func (ev *Evaluator) Function(name string) (*ast.FuncDecl, bool) {
	f, ok := ev.functions[name]
	return f, ok
}

func (ev *Evaluator) exec(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Decl:
		return ev.bind(s.Name, s.Value)
	case *ast.Assign:
		return ev.bind(s.Name, s.Value)
	case *ast.Print:
		v, err := ev.Eval(s.Value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ev.out, v.String())
		return err
	case *ast.FuncDecl:
		ev.functions[s.Name.Lexeme] = s
		return nil
	case *ast.Return:
		// only meaningful at the top level of a function body, see call
		return nil
	case *ast.If:
		cond, err := ev.Eval(s.Cond)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return ev.execBlock(s.Then)
		}
		return nil
	case *ast.IfElse:
		cond, err := ev.Eval(s.Cond)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return ev.execBlock(s.Then)
		}
		return ev.execBlock(s.Else)
	case *ast.CallStmt:
		_, err := ev.call(s.Call)
		return err
	default:
		panic(fmt.Sprintf("unreachable: unknown statement %T", stmt))
	}
}

// execBlock runs stmts in the current frame.
func (ev *Evaluator) execBlock(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := ev.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) bind(name token.Token, expr ast.Expr) error {
	v, err := ev.Eval(expr)
	if err != nil {
		return err
	}
	ev.set(name.Lexeme, v)
	return nil
}

// Eval evaluates expr in the current frame.
func (ev *Evaluator) Eval(expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalValue(e.Lexeme), nil
	case *ast.Var:
		if v, ok := ev.values[e.Name.Lexeme]; ok {
			return v, nil
		}
		return nil, &UndefinedVariableError{Name: e.Name}
	case *ast.Binary:
		left, err := ev.Eval(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.Eval(e.Right)
		if err != nil {
			return nil, err
		}
		return binary(e.Op, left, right)
	case *ast.Unary:
		if n, ok := negatedLiteral(e); ok {
			return n, nil
		}
		operand, err := ev.Eval(e.Operand)
		if err != nil {
			return nil, err
		}
		return unary(e.Op, operand)
	case *ast.Call:
		return ev.call(e)
	default:
		panic(fmt.Sprintf("unreachable: unknown expression %T", expr))
	}
}

// call runs a registered function in a fresh frame holding only its parameters.
// The body runs to the end: the last top-level return sets the result, default 0.
// A return nested in an if body does not affect the result.
func (ev *Evaluator) call(c *ast.Call) (Value, error) {
	fn, ok := ev.functions[c.Name.Lexeme]
	if !ok {
		return nil, &UndefinedFunctionError{Name: c.Name}
	}
	if ev.MaxCallDepth > 0 && ev.depth >= ev.MaxCallDepth {
		return nil, &CallDepthError{Name: c.Name, Limit: ev.MaxCallDepth}
	}

	args := make([]Value, len(c.Args))
	for i, arg := range c.Args {
		var err error
		args[i], err = ev.Eval(arg)
		if err != nil {
			return nil, err
		}
	}

	frame := newEvEnv(ev.EvEnv)
	for i, param := range fn.Params {
		if i >= len(args) {
			break
		}
		frame.set(param.Lexeme, args[i])
	}

	ev.EvEnv = frame
	ev.depth++
	defer func() {
		ev.EvEnv = frame.parent
		ev.depth--
	}()

	var result Value = Int(0)
	for _, stmt := range fn.Body {
		if ret, ok := stmt.(*ast.Return); ok {
			if ret.Value == nil {
				result = Int(0)
				continue
			}
			v, err := ev.Eval(ret.Value)
			if err != nil {
				return nil, err
			}
			result = v
			continue
		}
		if err := ev.exec(stmt); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func binary(op token.Token, left, right Value) (Value, error) {
	switch l := left.(type) {
	case Int:
		if r, ok := right.(Int); ok {
			return intBinary(op, l, r)
		}
	case String:
		if r, ok := right.(String); ok && op.Kind == token.PLUS {
			return l + r, nil
		}
	}

	return nil, &TypeMismatchError{Op: op, Left: left.Kind(), Right: right.Kind()}
}

func intBinary(op token.Token, l, r Int) (Value, error) {
	//exhaustive:ignore
	switch op.Kind {
	case token.PLUS:
		return l + r, nil
	case token.MINUS:
		return l - r, nil
	case token.ASTERISK:
		return l * r, nil
	case token.SLASH:
		if r == 0 {
			return nil, &ArithmeticError{Op: op, Reason: "division by zero"}
		}
		return l / r, nil
	case token.GREATER:
		return Bool(l > r), nil
	case token.LESS:
		return Bool(l < r), nil
	default:
		return nil, &TypeMismatchError{Op: op, Left: l.Kind(), Right: r.Kind()}
	}
}

func unary(op token.Token, operand Value) (Value, error) {
	if n, ok := operand.(Int); ok {
		//exhaustive:ignore
		switch op.Kind {
		case token.MINUS:
			return -n, nil
		case token.PLUS:
			return n, nil
		}
	}

	return nil, &TypeMismatchError{Op: op, Right: operand.Kind()}
}

// EvEnv is one scope frame. Frames are linked to their caller only to restore
// it after a call; lookups never follow parent.
type EvEnv struct {
	parent *EvEnv
	values map[string]Value
}

func newEvEnv(parent *EvEnv) *EvEnv {
	return &EvEnv{
		parent: parent,
		values: make(map[string]Value),
	}
}

// String dumps the frame chain innermost first, names sorted within a frame.
func (env *EvEnv) String() string {
	names := make([]string, 0, len(env.values))
	for name := range env.values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{")
	for _, name := range names {
		b.WriteString(fmt.Sprintf(" %s:%v", name, env.values[name]))
	}
	b.WriteString(" }")
	if env.parent != nil {
		b.WriteString("\n\t&")
		b.WriteString(env.parent.String())
	}
	return b.String()
}

func (env *EvEnv) set(name string, v Value) {
	env.values[name] = v
}
