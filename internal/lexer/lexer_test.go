package lexer

import (
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
		wantErr  bool
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Basic Tokens",
			input: "+ - * / & = == != < > ; , { } ( )",
			expected: []Token{
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: MINUS, Lexeme: "-", Line: 1},
				{Type: STAR, Lexeme: "*", Line: 1},
				{Type: SLASH, Lexeme: "/", Line: 1},
				{Type: AND, Lexeme: "&", Line: 1},
				{Type: ASSIGN, Lexeme: "=", Line: 1},
				{Type: EQUALS, Lexeme: "==", Line: 1},
				{Type: NOT_EQ, Lexeme: "!=", Line: 1},
				{Type: LESS, Lexeme: "<", Line: 1},
				{Type: GREATER, Lexeme: ">", Line: 1},
				{Type: SEMICOLON, Lexeme: ";", Line: 1},
				{Type: COMMA, Lexeme: ",", Line: 1},
				{Type: LBRACE, Lexeme: "{", Line: 1},
				{Type: RBRACE, Lexeme: "}", Line: 1},
				{Type: LPAREN, Lexeme: "(", Line: 1},
				{Type: RPAREN, Lexeme: ")", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Keywords and identifiers",
			input: "struct if else while for return extern true false variableName _under_score",
			expected: []Token{
				{Type: STRUCT, Lexeme: "struct", Line: 1},
				{Type: IF, Lexeme: "if", Line: 1},
				{Type: ELSE, Lexeme: "else", Line: 1},
				{Type: WHILE, Lexeme: "while", Line: 1},
				{Type: FOR, Lexeme: "for", Line: 1},
				{Type: RETURN, Lexeme: "return", Line: 1},
				{Type: EXTERN, Lexeme: "extern", Line: 1},
				{Type: TRUE, Lexeme: "true", Line: 1},
				{Type: FALSE, Lexeme: "false", Line: 1},
				{Type: IDENTIFIER, Lexeme: "variableName", Line: 1},
				{Type: IDENTIFIER, Lexeme: "_under_score", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Integer and float literals",
			input: "42 3.14 0",
			expected: []Token{
				{Type: INTEGER, Lexeme: "42", Line: 1},
				{Type: FLOAT, Lexeme: "3.14", Line: 1},
				{Type: INTEGER, Lexeme: "0", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Dot access is not confused with a float",
			input: "p.x",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "p", Line: 1},
				{Type: DOT, Lexeme: ".", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Arrow and comparisons",
			input: "-> <= >=",
			expected: []Token{
				{Type: ARROW, Lexeme: "->", Line: 1},
				{Type: LESS_EQ, Lexeme: "<=", Line: 1},
				{Type: GREATER_EQ, Lexeme: ">=", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Line comment is skipped",
			input: "1 // trailing\n2",
			expected: []Token{
				{Type: INTEGER, Lexeme: "1", Line: 1},
				{Type: INTEGER, Lexeme: "2", Line: 2},
				{Type: EOF, Lexeme: "", Line: 2},
			},
		},
		{
			name:    "Unterminated string",
			input:   `"abc`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
		})
	}
}
