package parser

import (
	"strings"

	"cpcbasic/types"
)

// Kind tags an AST node. The set is closed: every consumer switches over
// these constants and NODE_COUNT bounds tables indexed by kind.
type Kind int

const (
	NODE_PROGRAM Kind = iota // Args: lines
	NODE_LINE                // Value: line number ("" for a direct line), Args: statements

	// Expressions
	NODE_NUMBER     // Value: decimal literal
	NODE_HEX        // Value: &FF / &HFF
	NODE_BIN        // Value: &X101
	NODE_STRING     // Value: decoded string
	NODE_VAR        // Value: name with sigil
	NODE_ARRAY      // Value: name with sigil, Args: indices
	NODE_PAREN      // Left: inner expression
	NODE_BINARY     // Value: operator, Left/Right: operands
	NODE_UNARY      // Value: operator (-, +, NOT, @), Left: operand
	NODE_FUNCTION   // Value: upper-case function name, Args
	NODE_FN         // Value: user function name, Args
	NODE_STREAM     // #n; Left: stream number
	NODE_LINENUMBER // Value: referenced line
	NODE_LETTERS    // Value: raw letter range or name list item (DEFINT a-c, ERASE a)
	NODE_COMMA_TAB  // "," inside PRINT
	NODE_NEWLINE    // end of a PRINT without trailing separator
	NODE_USING      // PRINT USING; Left: format, Args: values
	NODE_SEPARATOR  // Value: ";" after INPUT (no CRLF)

	// Statements
	NODE_ASSIGN       // Left: target, Right: value
	NODE_PRINT        // Left: stream (optional), Args: items
	NODE_INPUT        // Left: stream, Right: prompt, Args: targets, Args2: flags
	NODE_LINE_INPUT   // same layout as NODE_INPUT
	NODE_IF           // Left: condition, Args: then, Args2: else
	NODE_FOR          // Left: loop variable, Args: start, end[, step]
	NODE_NEXT         // Args: loop variables
	NODE_WHILE        // Left: condition
	NODE_WEND         //
	NODE_GOTO         // Args: line number
	NODE_GOSUB        // Args: line number
	NODE_RETURN       //
	NODE_ON_GOTO      // Left: selector, Args: line numbers
	NODE_ON_GOSUB     // Left: selector, Args: line numbers
	NODE_ON_ERROR     // Args: line number (0 disables)
	NODE_RESUME       // Args: optional line number
	NODE_RESUME_NEXT  //
	NODE_ERROR        // Args: error number
	NODE_DATA         // Args: items
	NODE_READ         // Args: targets
	NODE_RESTORE      // Args: optional line number
	NODE_DEF_FN       // Value: function name, Args: parameters, Right: body
	NODE_DIM          // Args: arrays
	NODE_END          //
	NODE_STOP         //
	NODE_TRON         //
	NODE_TROFF        //
	NODE_RUN          // Args: optional line number or file name
	NODE_CHAIN        // Args: file[, line]
	NODE_CHAIN_MERGE  // Args: file[, line]
	NODE_MERGE        // Args: file
	NODE_EVERY        // Args: interval[, timer], Right: line number
	NODE_AFTER        // Args: delay[, timer], Right: line number
	NODE_REM          // Value: comment text
	NODE_RSX          // Value: upper-case RSX name, Args
	NODE_COMMAND      // Value: upper-case keyword, Args

	NODE_COUNT
)

var kindNames = [...]string{
	NODE_PROGRAM:      "program",
	NODE_LINE:         "line",
	NODE_NUMBER:       "number",
	NODE_HEX:          "hex",
	NODE_BIN:          "bin",
	NODE_STRING:       "string",
	NODE_VAR:          "var",
	NODE_ARRAY:        "array",
	NODE_PAREN:        "paren",
	NODE_BINARY:       "binary",
	NODE_UNARY:        "unary",
	NODE_FUNCTION:     "function",
	NODE_FN:           "fn",
	NODE_STREAM:       "stream",
	NODE_LINENUMBER:   "linenumber",
	NODE_LETTERS:      "letters",
	NODE_COMMA_TAB:    "commaTab",
	NODE_NEWLINE:      "newline",
	NODE_USING:        "using",
	NODE_SEPARATOR:    "separator",
	NODE_ASSIGN:       "assign",
	NODE_PRINT:        "print",
	NODE_INPUT:        "input",
	NODE_LINE_INPUT:   "lineInput",
	NODE_IF:           "if",
	NODE_FOR:          "for",
	NODE_NEXT:         "next",
	NODE_WHILE:        "while",
	NODE_WEND:         "wend",
	NODE_GOTO:         "goto",
	NODE_GOSUB:        "gosub",
	NODE_RETURN:       "return",
	NODE_ON_GOTO:      "onGoto",
	NODE_ON_GOSUB:     "onGosub",
	NODE_ON_ERROR:     "onErrorGoto",
	NODE_RESUME:       "resume",
	NODE_RESUME_NEXT:  "resumeNext",
	NODE_ERROR:        "error",
	NODE_DATA:         "data",
	NODE_READ:         "read",
	NODE_RESTORE:      "restore",
	NODE_DEF_FN:       "defFn",
	NODE_DIM:          "dim",
	NODE_END:          "end",
	NODE_STOP:         "stop",
	NODE_TRON:         "tron",
	NODE_TROFF:        "troff",
	NODE_RUN:          "run",
	NODE_CHAIN:        "chain",
	NODE_CHAIN_MERGE:  "chainMerge",
	NODE_MERGE:        "merge",
	NODE_EVERY:        "every",
	NODE_AFTER:        "after",
	NODE_REM:          "rem",
	NODE_RSX:          "rsx",
	NODE_COMMAND:      "command",
}

// String returns the kind name
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Node is one parsed syntactic unit. Nodes form a tree; children are owned
// exclusively by their parent. Text and Type are filled in by the compiler.
type Node struct {
	Kind  Kind
	Value string // raw lexeme or decoded value
	Pos   int    // byte offset in the source
	Len   int    // length in bytes

	Left  *Node
	Right *Node
	Args  []*Node
	Args2 []*Node

	Text string        // generated text
	Type types.TypeTag // inferred type
}

// Walk visits n and all of its descendants depth first
func Walk(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	Walk(n.Left, visit)
	Walk(n.Right, visit)
	for _, a := range n.Args {
		Walk(a, visit)
	}
	for _, a := range n.Args2 {
		Walk(a, visit)
	}
}

// SExpr renders the tree as an s-expression, for tests and debugging
func SExpr(n *Node) string {
	if n == nil {
		return "nil"
	}
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(n.Kind.String())
	if n.Value != "" {
		sb.WriteString(" \"")
		sb.WriteString(n.Value)
		sb.WriteString("\"")
	}
	if n.Left != nil {
		sb.WriteString(" ")
		sb.WriteString(SExpr(n.Left))
	}
	if n.Right != nil {
		sb.WriteString(" ")
		sb.WriteString(SExpr(n.Right))
	}
	for _, a := range n.Args {
		sb.WriteString(" ")
		sb.WriteString(SExpr(a))
	}
	if len(n.Args2) > 0 {
		sb.WriteString(" |")
		for _, a := range n.Args2 {
			sb.WriteString(" ")
			sb.WriteString(SExpr(a))
		}
	}
	sb.WriteString(")")
	return sb.String()
}
