package parser

import (
	"strings"
)

// Unparse renders a parsed line back to BASIC source with upper-case
// keywords and no optional whitespace. Parsing the result yields the same
// tree as the input line.
func Unparse(line *Node) string {
	var sb strings.Builder
	if line.Value != "" {
		sb.WriteString(line.Value)
		if len(line.Args) > 0 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString(unparseStatements(line.Args))
	return sb.String()
}

// UnparseProgram renders every line of a program, one per element
func UnparseProgram(prog *Node) []string {
	lines := make([]string, 0, len(prog.Args))
	for _, line := range prog.Args {
		lines = append(lines, Unparse(line))
	}
	return lines
}

func unparseStatements(stmts []*Node) string {
	parts := make([]string, len(stmts))
	for i, stmt := range stmts {
		parts[i] = unparseStmt(stmt)
	}
	return strings.Join(parts, ":")
}

// unparseStmt converts a statement to source code
func unparseStmt(n *Node) string {
	switch n.Kind {
	case NODE_ASSIGN:
		return unparseExpr(n.Left) + "=" + unparseExpr(n.Right)

	case NODE_PRINT:
		return unparsePrint(n)

	case NODE_INPUT, NODE_LINE_INPUT:
		return unparseInput(n)

	case NODE_IF:
		var sb strings.Builder
		sb.WriteString("IF ")
		sb.WriteString(unparseExpr(n.Left))
		sb.WriteString(" THEN")
		if len(n.Args) > 0 {
			sb.WriteString(" ")
			sb.WriteString(unparseStatements(n.Args))
		}
		if len(n.Args2) > 0 {
			sb.WriteString(" ELSE ")
			sb.WriteString(unparseStatements(n.Args2))
		}
		return sb.String()

	case NODE_FOR:
		s := "FOR " + unparseExpr(n.Left) + "=" + unparseExpr(n.Args[0]) + " TO " + unparseExpr(n.Args[1])
		if len(n.Args) > 2 {
			s += " STEP " + unparseExpr(n.Args[2])
		}
		return s

	case NODE_WHILE:
		return "WHILE " + unparseExpr(n.Left)

	case NODE_ON_GOTO, NODE_ON_GOSUB:
		jump := " GOTO "
		if n.Kind == NODE_ON_GOSUB {
			jump = " GOSUB "
		}
		return "ON " + unparseExpr(n.Left) + jump + unparseList(n.Args)

	case NODE_ON_ERROR:
		return "ON ERROR GOTO " + unparseList(n.Args)

	case NODE_RESUME_NEXT:
		return "RESUME NEXT"

	case NODE_DATA:
		items := make([]string, len(n.Args))
		for i, item := range n.Args {
			items[i] = unparseDataItem(item.Value)
		}
		return "DATA " + strings.Join(items, ",")

	case NODE_DEF_FN:
		s := "DEF FN" + n.Value
		if len(n.Args) > 0 {
			s += "(" + unparseList(n.Args) + ")"
		}
		return s + "=" + unparseExpr(n.Right)

	case NODE_CHAIN_MERGE:
		return withArgs("CHAIN MERGE", n.Args)

	case NODE_EVERY, NODE_AFTER:
		return n.Value + " " + unparseList(n.Args) + " GOSUB " + unparseExpr(n.Right)

	case NODE_REM:
		if n.Value == "" {
			return "REM"
		}
		return "REM " + n.Value

	case NODE_RSX:
		if len(n.Args) == 0 {
			return "|" + n.Value
		}
		return "|" + n.Value + "," + unparseList(n.Args)
	}

	// keyword followed by an optional argument list
	return withArgs(n.Value, n.Args)
}

func withArgs(keyword string, args []*Node) string {
	if len(args) == 0 {
		return keyword
	}
	return keyword + " " + unparseList(args)
}

// unparsePrint restores the ; separators the parser folds away: between
// two values and after a last value that suppresses the newline
func unparsePrint(n *Node) string {
	var sb strings.Builder
	sb.WriteString("PRINT")

	items := n.Args
	newline := len(items) > 0 && items[len(items)-1].Kind == NODE_NEWLINE
	if newline {
		items = items[:len(items)-1]
	}

	if n.Left != nil {
		sb.WriteString(" ")
		sb.WriteString(unparseExpr(n.Left))
		if len(items) > 0 {
			sb.WriteString(",")
		}
	} else if len(items) > 0 {
		sb.WriteString(" ")
	}

	for i, item := range items {
		if i > 0 && item.Kind != NODE_COMMA_TAB && needsSeparator(items[i-1]) {
			sb.WriteString(";")
		}
		sb.WriteString(unparseExpr(item))
	}

	if !newline && (len(items) == 0 || needsSeparator(items[len(items)-1])) {
		sb.WriteString(";")
	}
	return sb.String()
}

// needsSeparator reports whether a PRINT item must be followed by ";"
// before another value
func needsSeparator(item *Node) bool {
	switch item.Kind {
	case NODE_COMMA_TAB:
		return false
	case NODE_USING:
		return len(item.Args) > 0
	}
	return true
}

func unparseInput(n *Node) string {
	var sb strings.Builder
	if n.Kind == NODE_LINE_INPUT {
		sb.WriteString("LINE INPUT ")
	} else {
		sb.WriteString("INPUT ")
	}
	if n.Left != nil {
		sb.WriteString(unparseExpr(n.Left))
		sb.WriteString(",")
	}
	if len(n.Args2) > 0 {
		sb.WriteString(";")
	}
	if n.Right != nil {
		if prompt, ok := strings.CutSuffix(n.Right.Value, "? "); ok {
			sb.WriteString(`"` + prompt + `";`)
		} else {
			sb.WriteString(`"` + n.Right.Value + `",`)
		}
	}
	sb.WriteString(unparseList(n.Args))
	return sb.String()
}

// unparseDataItem quotes items that would not survive as bare text
func unparseDataItem(v string) string {
	if strings.Contains(v, `"`) {
		return v
	}
	if v == "" || strings.ContainsAny(v, ",:") || strings.TrimSpace(v) != v {
		return `"` + v + `"`
	}
	return v
}

func unparseList(args []*Node) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = unparseExpr(a)
	}
	return strings.Join(parts, ",")
}

// unparseExpr converts an expression to source code. Grouping is carried
// by NODE_PAREN, so operands are emitted in order without added parens.
func unparseExpr(n *Node) string {
	switch n.Kind {
	case NODE_STRING:
		return `"` + n.Value + `"`

	case NODE_ARRAY:
		return n.Value + "(" + unparseList(n.Args) + ")"

	case NODE_PAREN:
		return "(" + unparseExpr(n.Left) + ")"

	case NODE_BINARY:
		op := n.Value
		if isWordOperator(op) {
			op = " " + op + " "
		}
		return unparseExpr(n.Left) + op + unparseExpr(n.Right)

	case NODE_UNARY:
		if n.Value == "NOT" {
			return "NOT " + unparseExpr(n.Left)
		}
		return n.Value + unparseExpr(n.Left)

	case NODE_FUNCTION:
		if len(n.Args) == 0 {
			return n.Value
		}
		return n.Value + "(" + unparseList(n.Args) + ")"

	case NODE_FN:
		if len(n.Args) == 0 {
			return "FN" + n.Value
		}
		return "FN" + n.Value + "(" + unparseList(n.Args) + ")"

	case NODE_STREAM:
		return "#" + unparseExpr(n.Left)

	case NODE_COMMA_TAB:
		return ","

	case NODE_USING:
		s := "USING " + unparseExpr(n.Left) + ";"
		if len(n.Args) > 0 {
			parts := make([]string, len(n.Args))
			for i, a := range n.Args {
				parts[i] = unparseExpr(a)
			}
			s += strings.Join(parts, ";")
		}
		return s
	}

	// numbers, variables, line numbers and letter ranges keep their text
	return n.Value
}

func isWordOperator(op string) bool {
	switch op {
	case "MOD", "AND", "OR", "XOR":
		return true
	}
	return false
}
