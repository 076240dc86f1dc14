package compiler

import (
	"strconv"
	"strings"

	"cpcbasic/parser"
	"cpcbasic/types"
	"cpcbasic/vars"
)

// maxInt is the largest literal that is typed as an integer
const maxInt = 32767

// binaryRules holds the legality rule of every binary operator
var binaryRules = map[string]types.Rule{
	"+":   types.RulePlus,
	"-":   types.RuleArith,
	"*":   types.RuleArith,
	"/":   types.RuleDivide,
	"^":   types.RulePower,
	"\\":  types.RuleInteger,
	"MOD": types.RuleInteger,
	"AND": types.RuleInteger,
	"OR":  types.RuleInteger,
	"XOR": types.RuleInteger,
	"=":   types.RuleCompare,
	"<>":  types.RuleCompare,
	"<":   types.RuleCompare,
	">":   types.RuleCompare,
	"<=":  types.RuleCompare,
	">=":  types.RuleCompare,
}

var jsOperators = map[string]string{
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"MOD": "%",
	"AND": "&",
	"OR":  "|",
	"XOR": "^",
	"=":   "===",
	"<>":  "!==",
	"<":   "<",
	">":   ">",
	"<=":  "<=",
	">=":  ">=",
}

// intFunctions are the built-in functions returning an integer; names
// ending in $ return strings and all others return reals
var intFunctions = map[string]bool{
	"ASC": true, "CINT": true, "EOF": true, "ERL": true, "ERR": true,
	"FRE": true, "HIMEM": true, "INKEY": true, "INP": true, "INSTR": true,
	"JOY": true, "LEN": true, "PEEK": true, "POS": true, "REMAIN": true,
	"SGN": true, "SQ": true, "TEST": true, "TESTR": true, "UNT": true,
	"VPOS": true, "XPOS": true, "YPOS": true,
}

// functionType returns the result type of a built-in function
func functionType(name string) types.TypeTag {
	switch {
	case strings.HasSuffix(name, "$"):
		return types.TYPE_STR
	case intFunctions[name]:
		return types.TYPE_INT
	}
	return types.TYPE_REAL
}

// operand returns the text of n for use inside a larger expression.
// Powers are emitted as calls and need no parentheses.
func operand(n *parser.Node) string {
	if n.Kind == parser.NODE_BINARY && n.Value != "^" {
		return "(" + n.Text + ")"
	}
	return n.Text
}

// rounded returns the text of n rounded to an integer unless it already
// is one
func rounded(n *parser.Node) string {
	if n.Type == types.TYPE_INT {
		return n.Text
	}
	return "o.vmRound(" + n.Text + ")"
}

// compileNumber types decimal literals: whole numbers up to 32767 are
// integers, everything else is real
func (c *Compiler) compileNumber(n *parser.Node) error {
	n.Text, n.Type = numberLiteral(n.Value)
	return nil
}

func numberLiteral(s string) (string, types.TypeTag) {
	if isDigits(s) {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			if v <= maxInt {
				return strconv.FormatInt(v, 10), types.TYPE_INT
			}
			return strconv.FormatInt(v, 10), types.TYPE_REAL
		}
	}

	// leading zeros would read as octal
	text := strings.TrimLeft(s, "0")
	if text == "" || text[0] == '.' || text[0] == 'e' || text[0] == 'E' {
		text = "0" + text
	}
	return text, types.TYPE_REAL
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compileRadix converts &FF, &HFF and &X101 literals
func (c *Compiler) compileRadix(n *parser.Node) error {
	digits := strings.ToLower(strings.TrimPrefix(n.Value, "&"))
	switch {
	case n.Kind == parser.NODE_BIN:
		n.Text = "0b" + strings.TrimPrefix(digits, "x")
	default:
		n.Text = "0x" + strings.TrimPrefix(digits, "h")
	}
	n.Type = types.TYPE_INT
	return nil
}

func (c *Compiler) compileString(n *parser.Node) error {
	n.Text = strconv.Quote(n.Value)
	n.Type = types.TYPE_STR
	return nil
}

// compileQuoted emits the raw value as a string argument
func (c *Compiler) compileQuoted(n *parser.Node) error {
	n.Text = strconv.Quote(n.Value)
	n.Type = types.TYPE_STR
	return nil
}

func (c *Compiler) compileVar(n *parser.Node) error {
	name := vars.Mangle(n.Value, 0)
	n.Type = c.vars.StaticTypeOf(name)
	if param, ok := c.scope[strings.ToLower(n.Value)]; ok {
		n.Text = param
		return nil
	}
	c.vars.DeclareIfAbsent(name)
	n.Text = "v." + name
	return nil
}

func (c *Compiler) compileArray(n *parser.Node) error {
	name := vars.Mangle(n.Value, len(n.Args))
	c.vars.DeclareIfAbsent(name)

	var sb strings.Builder
	sb.WriteString("v.")
	sb.WriteString(name)
	for _, index := range n.Args {
		if err := c.compileNode(index); err != nil {
			return err
		}
		if err := c.expectNumeric(index); err != nil {
			return err
		}
		sb.WriteString("[")
		sb.WriteString(rounded(index))
		sb.WriteString("]")
	}
	n.Text = sb.String()
	n.Type = c.vars.StaticTypeOf(name)
	return nil
}

// mangledName returns the variable name a target stores into
func mangledName(n *parser.Node) string {
	if n.Kind == parser.NODE_ARRAY {
		return vars.Mangle(n.Value, len(n.Args))
	}
	return vars.Mangle(n.Value, 0)
}

func (c *Compiler) compileParen(n *parser.Node) error {
	if err := c.compileNode(n.Left); err != nil {
		return err
	}
	n.Text = "(" + n.Left.Text + ")"
	n.Type = n.Left.Type
	return nil
}

// compileBinary resolves the operand types before any text is produced,
// then inserts rounding only for operands not statically integer
func (c *Compiler) compileBinary(n *parser.Node) error {
	left, right := n.Left, n.Right
	if err := c.compileNode(left); err != nil {
		return err
	}
	if err := c.compileNode(right); err != nil {
		return err
	}

	rule, ok := binaryRules[n.Value]
	if !ok {
		return c.errorAt(ERR_SYNTAX, "Unknown operator", n)
	}
	typ, err := types.Propagate(rule, left.Type, right.Type)
	if err != nil {
		return c.typeError(n)
	}
	n.Type = typ

	lt, rt := operand(left), operand(right)
	if rule.NeedsRound(left.Type) {
		lt = rounded(left)
	}
	if rule.NeedsRound(right.Type) {
		rt = rounded(right)
	}

	switch n.Value {
	case "^":
		n.Text = "Math.pow(" + left.Text + ", " + right.Text + ")"
	case "\\":
		n.Text = lt + " / " + rt + " | 0"
	case "=", "<>", "<", ">", "<=", ">=":
		n.Text = lt + " " + jsOperators[n.Value] + " " + rt + " ? -1 : 0"
	default:
		n.Text = lt + " " + jsOperators[n.Value] + " " + rt
	}
	return nil
}

func (c *Compiler) compileUnary(n *parser.Node) error {
	x := n.Left
	if err := c.compileNode(x); err != nil {
		return err
	}

	var rule types.Rule
	switch n.Value {
	case "-", "+":
		rule = types.RuleSign
	case "NOT":
		rule = types.RuleNot
	case "@":
		rule = types.RuleAddress
	default:
		return c.errorAt(ERR_SYNTAX, "Unknown operator", n)
	}
	typ, err := types.PropagateUnary(rule, x.Type)
	if err != nil {
		return c.typeError(n)
	}
	n.Type = typ

	switch n.Value {
	case "-":
		text := operand(x)
		if strings.HasPrefix(text, "-") {
			text = "(" + text + ")"
		}
		n.Text = "-" + text
	case "+":
		n.Text = x.Text
	case "NOT":
		if rule.NeedsRound(x.Type) {
			n.Text = "~" + rounded(x)
		} else {
			n.Text = "~" + operand(x)
		}
	case "@":
		args := []string{strconv.Quote(mangledName(x))}
		for _, index := range x.Args {
			args = append(args, rounded(index))
		}
		n.Text = "o.addressOf(" + strings.Join(args, ", ") + ")"
	}
	return nil
}

// compileArgs compiles a list of expressions and returns their texts
func (c *Compiler) compileArgs(args []*parser.Node) ([]string, error) {
	texts := make([]string, 0, len(args))
	for _, arg := range args {
		if err := c.compileNode(arg); err != nil {
			return nil, err
		}
		texts = append(texts, arg.Text)
	}
	return texts, nil
}

// compileFunction emits a call to the runtime's implementation. SPC and
// TAB receive the stream of the enclosing PRINT.
func (c *Compiler) compileFunction(n *parser.Node) error {
	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	if n.Value == "SPC" || n.Value == "TAB" {
		args = append([]string{c.stream}, args...)
	}
	n.Text = "o." + strings.ToLower(n.Value) + "(" + strings.Join(args, ", ") + ")"
	n.Type = functionType(n.Value)
	return nil
}

// fnName is the property a DEF FN function is stored in
func fnName(name string) string {
	return "fn" + vars.Mangle(name, 0)
}

func (c *Compiler) compileFnCall(n *parser.Node) error {
	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	n.Text = "v." + fnName(n.Value) + "(" + strings.Join(args, ", ") + ")"
	n.Type = c.vars.StaticTypeOf(fnName(n.Value))
	return nil
}

func (c *Compiler) compileStream(n *parser.Node) error {
	if err := c.compileNode(n.Left); err != nil {
		return err
	}
	if err := c.expectNumeric(n.Left); err != nil {
		return err
	}
	n.Text = rounded(n.Left)
	n.Type = types.TYPE_INT
	return nil
}

// compileLineNumber emits a line number without registering a reference;
// statements that jump call lineRef instead
func (c *Compiler) compileLineNumber(n *parser.Node) error {
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return c.errorAt(ERR_STRUCTURAL, "Expected integer line number", n)
	}
	n.Text = strconv.Itoa(v)
	n.Type = types.TYPE_INT
	return nil
}

// lineRef resolves a jump target. Counted references keep the target's
// dispatch entry alive; RESTORE only checks that the line exists.
func (c *Compiler) lineRef(n *parser.Node, count bool) (string, error) {
	if err := c.compileLineNumber(n); err != nil {
		return "", err
	}
	if !c.refs.has(n.Text) {
		if c.features.DynamicMerge {
			return n.Text, nil
		}
		e := c.errorAt(ERR_REFERENCE, "Line does not exist", n)
		return "", e
	}
	if count {
		c.refs.inc(n.Text)
	}
	return n.Text, nil
}

func (c *Compiler) compileCommaTab(n *parser.Node) error {
	n.Text = "o.commaTab(" + c.stream + ")"
	return nil
}

func (c *Compiler) compileNewline(n *parser.Node) error {
	n.Text = `"\r\n"`
	n.Type = types.TYPE_STR
	return nil
}

// compileUsing emits PRINT USING format; values
func (c *Compiler) compileUsing(n *parser.Node) error {
	if err := c.compileNode(n.Left); err != nil {
		return err
	}
	if err := c.expectString(n.Left); err != nil {
		return err
	}
	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	n.Text = "o.using(" + strings.Join(append([]string{n.Left.Text}, args...), ", ") + ")"
	n.Type = types.TYPE_STR
	return nil
}
