package parser

import "testing"

func TestOperatorTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
		value    string
	}{
		// Arithmetic
		{"+", TOKEN_PLUS, "+"},
		{"-", TOKEN_MINUS, "-"},
		{"*", TOKEN_STAR, "*"},
		{"/", TOKEN_SLASH, "/"},
		{`\`, TOKEN_BACKSLASH, `\`},
		{"^", TOKEN_CARET, "^"},

		// Comparison
		{"=", TOKEN_EQ, "="},
		{"<>", TOKEN_NE, "<>"},
		{"<", TOKEN_LT, "<"},
		{">", TOKEN_GT, ">"},
		{"<=", TOKEN_LE, "<="},
		{">=", TOKEN_GE, ">="},

		// Word operators are keywords
		{"and", TOKEN_KEYWORD, "AND"},
		{"Or", TOKEN_KEYWORD, "OR"},
		{"XOR", TOKEN_KEYWORD, "XOR"},
		{"not", TOKEN_KEYWORD, "NOT"},
		{"mod", TOKEN_KEYWORD, "MOD"},

		// Other
		{"@", TOKEN_AT, "@"},
		{"#", TOKEN_HASH, "#"},
		{";", TOKEN_SEMICOLON, ";"},
		{"!", TOKEN_ILLEGAL, "!"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			tok := lexer.NextToken()

			if tok.Type != tt.expected {
				t.Errorf("expected token type %s, got %s", tt.expected, tok.Type)
			}
			if tok.Value != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, tok.Value)
			}
		})
	}
}

func TestOperatorSequences(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenType
	}{
		{"1+2", []TokenType{TOKEN_NUMBER, TOKEN_PLUS, TOKEN_NUMBER, TOKEN_EOF}},
		{"a<>b", []TokenType{TOKEN_IDENTIFIER, TOKEN_NE, TOKEN_IDENTIFIER, TOKEN_EOF}},
		{"x<=-1", []TokenType{TOKEN_IDENTIFIER, TOKEN_LE, TOKEN_MINUS, TOKEN_NUMBER, TOKEN_EOF}},
		{"2^.5", []TokenType{TOKEN_NUMBER, TOKEN_CARET, TOKEN_NUMBER, TOKEN_EOF}},
		{"a MOD&FF", []TokenType{TOKEN_IDENTIFIER, TOKEN_KEYWORD, TOKEN_HEX, TOKEN_EOF}},
		{"a> =b", []TokenType{TOKEN_IDENTIFIER, TOKEN_GT, TOKEN_EQ, TOKEN_IDENTIFIER, TOKEN_EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			for i, expectedType := range tt.expected {
				tok := lexer.NextToken()
				if tok.Type != expectedType {
					t.Errorf("token %d: expected type %s, got %s", i, expectedType, tok.Type)
				}
			}
		})
	}
}
