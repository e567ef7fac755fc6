package lexer

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER
	INTEGER
	FLOAT
	STRING

	// Keywords
	FN
	STRUCT
	IF
	ELSE
	WHILE
	FOR
	RETURN
	EXTERN
	TRUE
	FALSE

	// Paired delimiters
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET

	// Punctuation
	DOT
	SEMICOLON
	COMMA
	COLON
	ARROW // ->

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AND       // &  (bitwise)
	PIPE      // |  (bitwise)
	CARET     // ^  (bitwise)
	ASSIGN    // =
	EQUALS    // ==
	NOT_EQ    // !=
	LESS      // <
	LESS_EQ   // <=
	GREATER   // >
	GREATER_EQ // >=
)

var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	FLOAT:      "FLOAT",
	STRING:     "STRING",
	FN:         "FN",
	STRUCT:     "STRUCT",
	IF:         "IF",
	ELSE:       "ELSE",
	WHILE:      "WHILE",
	FOR:        "FOR",
	RETURN:     "RETURN",
	EXTERN:     "EXTERN",
	TRUE:       "TRUE",
	FALSE:      "FALSE",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	DOT:        "DOT",
	SEMICOLON:  "SEMICOLON",
	COMMA:      "COMMA",
	COLON:      "COLON",
	ARROW:      "ARROW",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	PERCENT:    "PERCENT",
	AND:        "AND",
	PIPE:       "PIPE",
	CARET:      "CARET",
	ASSIGN:     "ASSIGN",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	LESS_EQ:    "LESS_EQ",
	GREATER:    "GREATER",
	GREATER_EQ: "GREATER_EQ",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
