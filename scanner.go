package minic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cznic/mathutil"
)

type TokenKind int

const (
	EOF TokenKind = iota
	INVALIDTOKEN
	IDENTIFIER
	INTEGER
	FLOAT
	STRING

	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	MULTIPLY_ASSIGN
	EQUALS
	NOT_EQUALS
	LESS_THAN
	GREATER_THAN
	LESS_EQUAL_THAN
	GREATER_EQUAL_THAN
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	SEMICOLON
	COMMA

	// keywords
	IF
	ELSE
	WHILE
	FOR
	RETURN
	FUNCTION
	KEYWORD_INT
	KEYWORD_STR
	KEYWORD_FLOAT
	KEYWORD_BOOL
	TRUE
	FALSE

	// elided by the scanner
	COMMENT
	WHITESPACE
)

var tokenKindNames = [...]string{
	EOF:                "EOF",
	INVALIDTOKEN:       "INVALIDTOKEN",
	IDENTIFIER:         "IDENTIFIER",
	INTEGER:            "INTEGER",
	FLOAT:              "FLOAT",
	STRING:             "STRING",
	PLUS:               "PLUS",
	MINUS:              "MINUS",
	MULTIPLY:           "MULTIPLY",
	DIVIDE:             "DIVIDE",
	ASSIGN:             "ASSIGN",
	PLUS_ASSIGN:        "PLUS_ASSIGN",
	MINUS_ASSIGN:       "MINUS_ASSIGN",
	MULTIPLY_ASSIGN:    "MULTIPLY_ASSIGN",
	EQUALS:             "EQUALS",
	NOT_EQUALS:         "NOT_EQUALS",
	LESS_THAN:          "LESS_THAN",
	GREATER_THAN:       "GREATER_THAN",
	LESS_EQUAL_THAN:    "LESS_EQUAL_THAN",
	GREATER_EQUAL_THAN: "GREATER_EQUAL_THAN",
	LPAREN:             "LPAREN",
	RPAREN:             "RPAREN",
	LBRACE:             "LBRACE",
	RBRACE:             "RBRACE",
	SEMICOLON:          "SEMICOLON",
	COMMA:              "COMMA",
	IF:                 "IF",
	ELSE:               "ELSE",
	WHILE:              "WHILE",
	FOR:                "FOR",
	RETURN:             "RETURN",
	FUNCTION:           "FUNCTION",
	KEYWORD_INT:        "KEYWORD_INT",
	KEYWORD_STR:        "KEYWORD_STR",
	KEYWORD_FLOAT:      "KEYWORD_FLOAT",
	KEYWORD_BOOL:       "KEYWORD_BOOL",
	TRUE:               "TRUE",
	FALSE:              "FALSE",
	COMMENT:            "COMMENT",
	WHITESPACE:         "WHITESPACE",
}

func (t TokenKind) String() string {
	if t >= 0 && int(t) < len(tokenKindNames) {
		return tokenKindNames[t]
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// ParseTokenKind maps a category name produced by String back to its kind.
func ParseTokenKind(name string) (TokenKind, bool) {
	for k, n := range tokenKindNames {
		if n == name {
			return TokenKind(k), true
		}
	}
	return EOF, false
}

// IsTypeKeyword reports whether t introduces a type specifier.
func (t TokenKind) IsTypeKeyword() bool {
	switch t {
	case KEYWORD_INT, KEYWORD_STR, KEYWORD_FLOAT, KEYWORD_BOOL:
		return true
	}
	return false
}

type Pos struct {
	Filename string
	Line     uint
}

func (p Pos) IsZero() bool {
	return p.Filename == "" && p.Line == 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

type Token struct {
	Pos
	Kind   TokenKind
	Lexeme string
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

type tokenRule struct {
	kind    TokenKind
	pattern *regexp.Regexp
}

// Rules are tried in order and the first match wins, so keywords precede
// IDENTIFIER and two-character operators precede their prefixes.
var tokenRules = []tokenRule{
	rule(COMMENT, `/\*.*?\*/`),
	rule(IF, `\bif\b`),
	rule(ELSE, `\belse\b`),
	rule(WHILE, `\bwhile\b`),
	rule(FOR, `\bfor\b`),
	rule(RETURN, `\breturn\b`),
	rule(FUNCTION, `\bfunction\b`),
	rule(KEYWORD_INT, `\bint\b`),
	rule(KEYWORD_STR, `\bstr\b`),
	rule(KEYWORD_FLOAT, `\bfloat\b`),
	rule(KEYWORD_BOOL, `\bbool\b`),
	rule(TRUE, `\btrue\b`),
	rule(FALSE, `\bfalse\b`),
	rule(FLOAT, `\d+\.\d+`),
	rule(INTEGER, `\d+`),
	rule(STRING, `"[^"\n]*"`),
	rule(IDENTIFIER, `[a-zA-Z_][a-zA-Z0-9_]*`),
	rule(PLUS_ASSIGN, `\+=`),
	rule(MINUS_ASSIGN, `-=`),
	rule(MULTIPLY_ASSIGN, `\*=`),
	rule(EQUALS, `==`),
	rule(NOT_EQUALS, `!=`),
	rule(LESS_EQUAL_THAN, `<=`),
	rule(GREATER_EQUAL_THAN, `>=`),
	rule(PLUS, `\+`),
	rule(MINUS, `-`),
	rule(MULTIPLY, `\*`),
	rule(DIVIDE, `/`),
	rule(LESS_THAN, `<`),
	rule(GREATER_THAN, `>`),
	rule(ASSIGN, `=`),
	rule(LPAREN, `\(`),
	rule(RPAREN, `\)`),
	rule(LBRACE, `\{`),
	rule(RBRACE, `\}`),
	rule(SEMICOLON, `;`),
	rule(COMMA, `,`),
	rule(WHITESPACE, `\s+`),
}

func rule(kind TokenKind, pattern string) tokenRule {
	return tokenRule{
		kind:    kind,
		pattern: regexp.MustCompile(`^(?:` + pattern + `)`),
	}
}

// Tokenize scans the whole source. Whitespace and comments are dropped and
// unmatched input becomes INVALIDTOKEN tokens, so it never fails.
func Tokenize(filename string, source []byte) []Token {
	sc := NewScanner(filename, source)
	tokens := []Token{}
	for {
		tok, ok := sc.Scan()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

type Scanner struct {
	pos    Pos
	source []byte
	start  int
	end    int
}

func NewScanner(filename string, source []byte) Scanner {
	const DEFAULT_LINE uint = 1
	return Scanner{
		pos: Pos{
			Filename: filename,
			Line:     DEFAULT_LINE,
		},
		source: source,
	}
}

// Scan returns the next significant token, or false at end of input.
func (s *Scanner) Scan() (Token, bool) {
	for s.end < len(s.source) {
		s.start = s.end
		rest := s.source[s.end:]
		kind, n := matchRule(rest)
		if n == 0 {
			kind, n = INVALIDTOKEN, invalidSpan(rest)
		}
		s.end += n
		t := s.token(kind)
		if kind == WHITESPACE || kind == COMMENT {
			continue
		}
		return t, true
	}
	return Token{Pos: s.pos, Kind: EOF}, false
}

func matchRule(rest []byte) (TokenKind, int) {
	for _, r := range tokenRules {
		if loc := r.pattern.FindIndex(rest); loc != nil && loc[1] > 0 {
			return r.kind, loc[1]
		}
	}
	return INVALIDTOKEN, 0
}

// invalidSpan swallows everything up to the next space.
func invalidSpan(rest []byte) int {
	if i := strings.IndexByte(string(rest), ' '); i > 0 {
		return i
	}
	return len(rest)
}

func (s *Scanner) token(t TokenKind) Token {
	end := mathutil.Clamp(s.end, 0, len(s.source))
	lexeme := string(s.source[s.start:end])
	s.start = end
	tok := Token{
		Pos: Pos{
			Filename: s.pos.Filename,
			Line:     s.pos.Line,
		},
		Kind:   t,
		Lexeme: lexeme,
	}
	s.pos.Line += uint(strings.Count(lexeme, "\n"))
	return tok
}
