package token_test

import (
	"testing"

	"github.com/takoeight0821/rill/token"
)

func TestKindString(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		kind     token.Kind
		expected string
	}{
		{token.EOF, "EOF"},
		{token.SEMICOLON, "SEMICOLON"},
		{token.PRINT, "PRINT"},
		{token.Kind(-1), "Kind(-1)"},
		{token.Kind(1000), "Kind(1000)"},
	}
	for _, testcase := range testcases {
		if got := testcase.kind.String(); got != testcase.expected {
			t.Errorf("Kind(%d).String() = %q, expected %q", int(testcase.kind), got, testcase.expected)
		}
	}
}

func TestKeywordsAreKeywords(t *testing.T) {
	t.Parallel()

	for word, kind := range token.Keywords {
		if kind < token.LET || kind > token.PRINT {
			t.Errorf("%q maps to non-keyword kind %v", word, kind)
		}
	}
}

func TestTokenString(t *testing.T) {
	t.Parallel()

	tok := token.Token{Kind: token.STRING, Lexeme: "a\"b", Line: 3}
	if got, expected := tok.String(), `{STRING, "a\"b", 3}`; got != expected {
		t.Errorf("String() = %q, expected %q", got, expected)
	}
}
