package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/takoeight0821/rill/token"
	"github.com/takoeight0821/rill/utils"
)

// Lex scans source into tokens terminated by a single EOF token.
// Characters that start no token are skipped. Scanning stops at the first error.
func Lex(source string) ([]token.Token, error) {
	lexer := lexer{
		source:  source,
		tokens:  []token.Token{},
		start:   0,
		current: 0,
		line:    1,
	}

	for !lexer.isAtEnd() {
		if err := lexer.scanToken(); err != nil {
			return nil, err
		}
	}

	lexer.tokens = append(lexer.tokens, token.Token{Kind: token.EOF, Lexeme: "", Line: lexer.line})

	return lexer.tokens, nil
}

type lexer struct {
	source string
	tokens []token.Token

	start   int // start of current lexeme
	current int // current position in source
	line    int // current line number
}

func (l lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l lexer) peek() rune {
	if l.isAtEnd() {
		return '\x00'
	}
	runeValue, _ := utf8.DecodeRuneInString(l.source[l.current:])

	return runeValue
}

func (l *lexer) advance() rune {
	runeValue, width := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += width

	return runeValue
}

func (l *lexer) addToken(kind token.Kind) {
	l.addLexeme(kind, l.source[l.start:l.current])
}

func (l *lexer) addLexeme(kind token.Kind, lexeme string) {
	l.tokens = append(l.tokens, token.Token{Kind: kind, Lexeme: lexeme, Line: l.line})
}

func (l *lexer) scanToken() error {
	l.start = l.current
	char := l.advance()
	switch {
	case char == '\n':
		l.line++
	case char == '"':
		return l.string()
	case isDigit(char):
		l.number()
	case isAlpha(char):
		l.identifier()
	default:
		if k, ok := singleChar[char]; ok {
			l.addToken(k)
		}
		// anything else is ignored
	}

	return nil
}

var singleChar = map[rune]token.Kind{
	'(': token.LEFTPAREN,
	')': token.RIGHTPAREN,
	'{': token.LEFTBRACE,
	'}': token.RIGHTBRACE,
	'=': token.ASSIGN,
	';': token.SEMICOLON,
	',': token.COMMA,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.ASTERISK,
	'/': token.SLASH,
	'>': token.GREATER,
	'<': token.LESS,
}

// UnterminatedStringError reports a string literal opened on Line and never closed.
// Lex returns it wrapped in a utils.ErrorAt pointing at the opening quote.
type UnterminatedStringError struct {
	Line int
}

func (e UnterminatedStringError) Error() string {
	return "unterminated string"
}

func unterminated(line int) error {
	return utils.ErrorAt{
		Where: token.Token{Kind: token.STRING, Lexeme: `"`, Line: line},
		Err:   UnterminatedStringError{Line: line},
	}
}

// string reads up to the closing quote. \" \\ \n and \t are decoded,
// any other escape is kept as written.
func (l *lexer) string() error {
	startLine := l.line
	var b strings.Builder
	for l.peek() != '"' && !l.isAtEnd() {
		char := l.advance()
		if char == '\n' {
			l.line++
		}
		if char != '\\' {
			b.WriteRune(char)
			continue
		}
		if l.isAtEnd() {
			return unterminated(startLine)
		}
		switch escaped := l.advance(); escaped {
		case '"', '\\':
			b.WriteRune(escaped)
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		default:
			if escaped == '\n' {
				l.line++
			}
			b.WriteRune('\\')
			b.WriteRune(escaped)
		}
	}

	if l.isAtEnd() {
		return unterminated(startLine)
	}

	// closing quote
	l.advance()

	l.tokens = append(l.tokens, token.Token{Kind: token.STRING, Lexeme: b.String(), Line: startLine})

	return nil
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// number keeps the digits as text; conversion happens at evaluation time.
func (l *lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	l.addToken(token.NUMBER)
}

func isAlpha(c rune) bool {
	return unicode.IsLetter(c)
}

func (l *lexer) identifier() {
	for isAlpha(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	value := l.source[l.start:l.current]

	if k, ok := token.Keywords[value]; ok {
		l.addLexeme(k, value)
	} else {
		l.addLexeme(token.IDENT, value)
	}
}
