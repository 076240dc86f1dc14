package compiler

import (
	"fmt"

	"cpcbasic/parser"
)

// ErrorKind classifies compile errors
type ErrorKind int

const (
	ERR_STRUCTURAL  ErrorKind = iota // line numbers, NEXT/WEND nesting
	ERR_TYPE                         // illegal operand type combination
	ERR_REFERENCE                    // jump to a line that does not exist
	ERR_SYNTAX                       // source text the parser rejected
	ERR_UNSUPPORTED                  // unknown RSX in strict mode
)

var errorKindNames = [...]string{
	ERR_STRUCTURAL:  "structural",
	ERR_TYPE:        "type",
	ERR_REFERENCE:   "reference",
	ERR_SYNTAX:      "syntax",
	ERR_UNSUPPORTED: "unsupported",
}

// String returns the kind name
func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "unknown"
}

// Error is a fatal compile error. It carries the offending source value
// and its position; Line is the BASIC line being compiled when known.
type Error struct {
	Kind    ErrorKind
	Message string
	Value   string
	Pos     int
	Len     int
	Line    string
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Line != "" {
		msg += " in " + e.Line
	}
	msg += fmt.Sprintf(" at pos %d", e.Pos)
	if e.Value != "" {
		msg += ": " + e.Value
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// errorAt builds an error positioned at node n
func (c *Compiler) errorAt(kind ErrorKind, message string, n *parser.Node) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Value:   n.Value,
		Pos:     n.Pos,
		Len:     n.Len,
		Line:    c.line,
	}
}
