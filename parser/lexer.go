package parser

import (
	"strings"
)

// Lexer tokenizes line-numbered BASIC source code
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
}

// NewLexer creates a new Lexer instance
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// resetTo moves the lexer back to the given offset
func (l *Lexer) resetTo(offset int) {
	l.readPosition = offset
	l.readChar()
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace skips blanks; newlines are significant
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.position}
	start := l.position

	switch {
	case l.ch == 0:
		tok.Type = TOKEN_EOF
		return tok
	case isLetter(l.ch):
		return l.readWord()
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		tok.Type = TOKEN_NUMBER
		tok.Value = l.readNumber()
		tok.Len = l.position - start
		return tok
	case l.ch == '&':
		return l.readRadixNumber()
	case l.ch == '"':
		tok.Type = TOKEN_STRING
		tok.Literal = l.readString()
		tok.Value = l.input[start:l.position]
		tok.Len = l.position - start
		return tok
	case l.ch == '\'':
		l.readChar()
		tok.Type = TOKEN_REM
		tok.Value = "'"
		tok.Literal = l.readToEOL()
		tok.Len = l.position - start
		return tok
	case l.ch == '|':
		l.readChar()
		name := l.readIdentifierChars()
		tok.Type = TOKEN_RSX
		tok.Value = strings.ToUpper(name)
		tok.Len = l.position - start
		return tok
	case l.ch == '?':
		l.readChar()
		tok.Type = TOKEN_KEYWORD
		tok.Value = "PRINT"
		tok.Len = 1
		return tok
	}

	tok.Len = 1
	switch l.ch {
	case '\n':
		tok.Type = TOKEN_NEWLINE
	case '+':
		tok.Type = TOKEN_PLUS
	case '-':
		tok.Type = TOKEN_MINUS
	case '*':
		tok.Type = TOKEN_STAR
	case '/':
		tok.Type = TOKEN_SLASH
	case '\\':
		tok.Type = TOKEN_BACKSLASH
	case '^':
		tok.Type = TOKEN_CARET
	case '=':
		tok.Type = TOKEN_EQ
	case '<':
		switch l.peekChar() {
		case '>':
			l.readChar()
			tok.Type = TOKEN_NE
			tok.Len = 2
		case '=':
			l.readChar()
			tok.Type = TOKEN_LE
			tok.Len = 2
		default:
			tok.Type = TOKEN_LT
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = TOKEN_GE
			tok.Len = 2
		} else {
			tok.Type = TOKEN_GT
		}
	case '@':
		tok.Type = TOKEN_AT
	case '(':
		tok.Type = TOKEN_LPAREN
	case ')':
		tok.Type = TOKEN_RPAREN
	case ',':
		tok.Type = TOKEN_COMMA
	case ';':
		tok.Type = TOKEN_SEMICOLON
	case ':':
		tok.Type = TOKEN_COLON
	case '#':
		tok.Type = TOKEN_HASH
	default:
		tok.Type = TOKEN_ILLEGAL
	}
	l.readChar()
	tok.Value = l.input[start:l.position]
	return tok
}

// readWord reads an identifier or keyword, including a trailing type sigil.
// REM and DATA swallow the rest of their statement.
func (l *Lexer) readWord() Token {
	start := l.position
	word := l.readIdentifierChars()
	if l.ch == '$' || l.ch == '%' || l.ch == '!' {
		word += string(l.ch)
		l.readChar()
	}
	upper := strings.ToUpper(word)

	tok := Token{Pos: start}
	switch {
	case keywords[upper]:
		tok.Type = TOKEN_KEYWORD
		tok.Value = upper
	case len(upper) > 2 && strings.HasPrefix(upper, "FN"):
		// FNname is the FN keyword glued to the function name
		l.resetTo(start + 2)
		tok.Type = TOKEN_KEYWORD
		tok.Value = "FN"
	default:
		tok.Type = TOKEN_IDENTIFIER
		tok.Value = word
	}
	tok.Len = l.position - start

	switch tok.Value {
	case "REM":
		tok.Type = TOKEN_REM
		tok.Literal = strings.TrimPrefix(l.readToEOL(), " ")
		tok.Len = l.position - start
	case "DATA":
		tok.Type = TOKEN_DATA
		tok.Literal = l.readDataItems()
		tok.Len = l.position - start
	}
	return tok
}

// readIdentifierChars reads letters, digits and dots
func (l *Lexer) readIdentifierChars() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '.' {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber reads a decimal number with optional fraction and exponent
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		save := l.position
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			if !isDigit(l.ch) {
				// not an exponent after all (e.g. "1E" followed by a name)
				l.resetTo(save)
				return l.input[start:l.position]
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	return l.input[start:l.position]
}

// readRadixNumber reads &FF, &HFF or &X101
func (l *Lexer) readRadixNumber() Token {
	start := l.position
	tok := Token{Pos: start, Type: TOKEN_HEX}
	l.readChar() // skip '&'
	switch l.ch {
	case 'x', 'X':
		tok.Type = TOKEN_BIN
		l.readChar()
		for l.ch == '0' || l.ch == '1' {
			l.readChar()
		}
	case 'h', 'H':
		l.readChar()
		fallthrough
	default:
		for isHexDigit(l.ch) {
			l.readChar()
		}
	}
	tok.Value = l.input[start:l.position]
	tok.Len = l.position - start
	if tok.Len == 1 || (tok.Len == 2 && tok.Type == TOKEN_BIN) {
		tok.Type = TOKEN_ILLEGAL
	}
	return tok
}

// isLetter returns true if the character is an ASCII letter
func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// isDigit returns true if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
