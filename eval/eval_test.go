package eval_test

import (
	"errors"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/rill/ast"
	"github.com/takoeight0821/rill/eval"
	"github.com/takoeight0821/rill/lexer"
	"github.com/takoeight0821/rill/parser"
	"github.com/takoeight0821/rill/token"
	"github.com/takoeight0821/rill/utils"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	tokens, err := lexer.Lex(input)
	if err != nil {
		t.Fatalf("Lex returned error: %v", err)
	}
	program, err := parser.NewParser(tokens).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram returned error: %v", err)
	}
	return program
}

func run(t *testing.T, input string) (string, error) {
	t.Helper()
	var out strings.Builder
	err := eval.NewEvaluator(&out).Run(mustParse(t, input))
	return out.String(), err
}

func TestEvalFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)
	for _, testcase := range testcases {
		actual, err := run(t, testcase.Input)

		if diff := cmp.Diff(testcase.Expected["output"], actual); diff != "" {
			t.Errorf("Eval %s output mismatch (-want +got):\n%s", testcase.Label, diff)
		}

		expectedErr, ok := testcase.Expected["error"]
		switch {
		case !ok && err != nil:
			t.Errorf("Eval %s returned error: %v", testcase.Label, err)
		case ok && err == nil:
			t.Errorf("Eval %s succeeded, expected error containing %q", testcase.Label, expectedErr)
		case ok && !strings.Contains(err.Error(), expectedErr):
			t.Errorf("Eval %s returned error %q, expected it to contain %q", testcase.Label, err, expectedErr)
		}
	}
}

func TestPrintIntegerRoundTrip(t *testing.T) {
	t.Parallel()

	for _, n := range []int64{0, 1, 7, 42, 1000000, -5, math.MaxInt64, math.MinInt64} {
		input := "print " + strconv.FormatInt(n, 10) + ";"
		actual, err := run(t, input)
		if err != nil {
			t.Errorf("%q returned error: %v", input, err)
			continue
		}
		if diff := cmp.Diff(strconv.FormatInt(n, 10)+"\n", actual); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestNegatedLiteral(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input    string
		expected string
	}{
		{"print -9223372036854775808;", "-9223372036854775808\n"},
		{"print - -9223372036854775807;", "9223372036854775807\n"},
		{`print -"5";`, "-5\n"},
		{"print -9223372036854775808 + 1;", "-9223372036854775807\n"},
	}
	for _, testcase := range testcases {
		actual, err := run(t, testcase.input)
		if err != nil {
			t.Errorf("%q returned error: %v", testcase.input, err)
			continue
		}
		if diff := cmp.Diff(testcase.expected, actual); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", testcase.input, diff)
		}
	}

	// out of range even when negated
	_, err := run(t, "print -9223372036854775809;")
	var mismatch *eval.TypeMismatchError
	if !errors.As(err, &mismatch) || mismatch.Right != "String" {
		t.Errorf("expected TypeMismatchError on String, got %v", err)
	}
}

func TestLiteralFallsBackToString(t *testing.T) {
	t.Parallel()

	ev := eval.NewEvaluator(&strings.Builder{})
	testcases := []struct {
		raw      string
		expected eval.Value
	}{
		{"12", eval.Int(12)},
		{"-3", eval.Int(-3)},
		{"abc", eval.String("abc")},
		{"", eval.String("")},
		{"1.5", eval.String("1.5")},
		{"99999999999999999999", eval.String("99999999999999999999")},
	}
	for _, testcase := range testcases {
		v, err := ev.Eval(&ast.Literal{Token: token.Token{Kind: token.STRING, Lexeme: testcase.raw, Line: 1}})
		if err != nil {
			t.Errorf("Eval(%q) returned error: %v", testcase.raw, err)
			continue
		}
		if v != testcase.expected {
			t.Errorf("Eval(%q) = %#v, expected %#v", testcase.raw, v, testcase.expected)
		}
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		value    eval.Value
		expected bool
	}{
		{eval.Bool(true), true},
		{eval.Bool(false), false},
		{eval.Int(0), false},
		{eval.Int(-1), true},
		{eval.String(""), false},
		{eval.String("0"), true},
	}
	for _, testcase := range testcases {
		if got := testcase.value.Truthy(); got != testcase.expected {
			t.Errorf("%#v.Truthy() = %v, expected %v", testcase.value, got, testcase.expected)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	t.Run("type mismatch", func(t *testing.T) {
		out, err := run(t, `print "a" - "b";`)
		var mismatch *eval.TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected TypeMismatchError, got %v", err)
		}
		if mismatch.Op.Kind != token.MINUS || mismatch.Left != "String" || mismatch.Right != "String" {
			t.Errorf("unexpected error fields: %+v", mismatch)
		}
		if out != "" {
			t.Errorf("expected no output, got %q", out)
		}
	})

	t.Run("undefined variable", func(t *testing.T) {
		_, err := run(t, "print nope;")
		var undefined *eval.UndefinedVariableError
		if !errors.As(err, &undefined) || undefined.Name.Lexeme != "nope" {
			t.Errorf("expected UndefinedVariableError for nope, got %v", err)
		}
	})

	t.Run("undefined function", func(t *testing.T) {
		_, err := run(t, "nope(1);")
		var undefined *eval.UndefinedFunctionError
		if !errors.As(err, &undefined) || undefined.Name.Lexeme != "nope" {
			t.Errorf("expected UndefinedFunctionError for nope, got %v", err)
		}
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := run(t, "let z = 0; print 5 / z;")
		var arith *eval.ArithmeticError
		if !errors.As(err, &arith) {
			t.Errorf("expected ArithmeticError, got %v", err)
		}
	})
}

func TestFunctionRegistry(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	ev := eval.NewEvaluator(&out)
	if err := ev.Run(mustParse(t, "func f(a) { return a; } let x = f(3);")); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	fn, ok := ev.Function("f")
	if !ok {
		t.Fatalf("f is not registered")
	}
	if len(fn.Params) != 1 || fn.Params[0].Lexeme != "a" {
		t.Errorf("unexpected params %v", fn.Params)
	}
	if v, ok := ev.Lookup("x"); !ok || v != eval.Int(3) {
		t.Errorf("x = %v, %v, expected 3", v, ok)
	}
	if _, ok := ev.Lookup("a"); ok {
		t.Errorf("parameter a leaked into the global frame")
	}

	// state carries over to the next program on the same evaluator
	if err := ev.Run(mustParse(t, "print f(x) + 1;")); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diff := cmp.Diff("4\n", out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestIndependentEvaluators(t *testing.T) {
	t.Parallel()

	first := eval.NewEvaluator(&strings.Builder{})
	if err := first.Run(mustParse(t, "let x = 1; func f() { return 1; }")); err != nil {
		t.Fatal(err)
	}

	second := eval.NewEvaluator(&strings.Builder{})
	if _, ok := second.Lookup("x"); ok {
		t.Errorf("x is visible from an unrelated evaluator")
	}
	if _, ok := second.Function("f"); ok {
		t.Errorf("f is visible from an unrelated evaluator")
	}
}

func TestCallDepth(t *testing.T) {
	t.Parallel()

	input := "func loop(n) { let r = loop(n + 1); return r; } loop(0);"

	ev := eval.NewEvaluator(&strings.Builder{})
	ev.MaxCallDepth = 50
	err := ev.Run(mustParse(t, input))
	var depth *eval.CallDepthError
	if !errors.As(err, &depth) || depth.Limit != 50 {
		t.Fatalf("expected CallDepthError with limit 50, got %v", err)
	}

	// the frames are unwound after the failure
	if err := ev.Run(mustParse(t, "let y = 2; print y;")); err != nil {
		t.Errorf("evaluator unusable after depth error: %v", err)
	}
	if v, ok := ev.Lookup("y"); !ok || v != eval.Int(2) {
		t.Errorf("y = %v, %v, expected 2 in the global frame", v, ok)
	}
}

func TestCallDepthAllowsDeepRecursion(t *testing.T) {
	t.Parallel()

	input := `
func count(n) {
  let r = n;
  if (n > 0) { r = count(n - 1) + 1; }
  return r;
}
print count(500);
`
	actual, err := run(t, input)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if diff := cmp.Diff("500\n", actual); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
