package parser

import "strings"

// readString reads a string literal. A missing closing quote ends the
// string at the end of the line, as the CPC does.
func (l *Lexer) readString() string {
	l.readChar() // skip opening quote
	start := l.position
	for l.ch != '"' && l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	lit := l.input[start:l.position]
	if l.ch == '"' {
		l.readChar()
	}
	return lit
}

// readToEOL reads up to (not including) the end of the line
func (l *Lexer) readToEOL() string {
	start := l.position
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	return strings.TrimRight(l.input[start:l.position], "\r")
}

// readDataItems reads the raw DATA list up to a colon outside quotes
func (l *Lexer) readDataItems() string {
	start := l.position
	inQuote := false
	for l.ch != '\n' && l.ch != 0 && (inQuote || l.ch != ':') {
		if l.ch == '"' {
			inQuote = !inQuote
		}
		l.readChar()
	}
	return strings.TrimRight(l.input[start:l.position], "\r")
}
