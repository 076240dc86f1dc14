package parser

import "fmt"

// SyntaxError reports source text the parser could not understand
type SyntaxError struct {
	Message string
	Value   string
	Pos     int
}

func (e *SyntaxError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s at pos %d", e.Message, e.Pos)
	}
	return fmt.Sprintf("%s at pos %d: %s", e.Message, e.Pos, e.Value)
}
