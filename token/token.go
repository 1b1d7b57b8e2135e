package token

import "fmt"

type Kind int

const (
	EOF Kind = iota
	INVALID

	// Single-character tokens.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	SEMICOLON
	ASSIGN
	COMMA

	// Operators.
	PLUS
	MINUS
	ASTERISK
	SLASH
	GREATER
	LESS

	// Literals and identifiers.
	IDENT
	NUMBER
	STRING

	// Keywords.
	LET
	IF
	ELSE
	FUNC
	RETURN
	PRINT
)

var kindNames = [...]string{
	EOF:        "EOF",
	INVALID:    "INVALID",
	LEFTPAREN:  "LEFTPAREN",
	RIGHTPAREN: "RIGHTPAREN",
	LEFTBRACE:  "LEFTBRACE",
	RIGHTBRACE: "RIGHTBRACE",
	SEMICOLON:  "SEMICOLON",
	ASSIGN:     "ASSIGN",
	COMMA:      "COMMA",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	ASTERISK:   "ASTERISK",
	SLASH:      "SLASH",
	GREATER:    "GREATER",
	LESS:       "LESS",
	IDENT:      "IDENT",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	LET:        "LET",
	IF:         "IF",
	ELSE:       "ELSE",
	FUNC:       "FUNC",
	RETURN:     "RETURN",
	PRINT:      "PRINT",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Keywords maps reserved words to their kinds.
var Keywords = map[string]Kind{
	"let":    LET,
	"if":     IF,
	"else":   ELSE,
	"func":   FUNC,
	"return": RETURN,
	"print":  PRINT,
}

// Token is a lexical unit. For STRING tokens Lexeme holds the decoded contents without quotes.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %d}", t.Kind, t.Lexeme, t.Line)
}
