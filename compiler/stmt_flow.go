package compiler

import (
	"strconv"
	"strings"

	"cpcbasic/parser"
	"cpcbasic/types"
	"cpcbasic/vars"
)

// transferKinds are the statements that leave the current case of the
// dispatch switch
var transferKinds = map[parser.Kind]bool{
	parser.NODE_INPUT:       true,
	parser.NODE_LINE_INPUT:  true,
	parser.NODE_FOR:         true,
	parser.NODE_NEXT:        true,
	parser.NODE_WHILE:       true,
	parser.NODE_WEND:        true,
	parser.NODE_GOTO:        true,
	parser.NODE_GOSUB:       true,
	parser.NODE_RETURN:      true,
	parser.NODE_ON_GOTO:     true,
	parser.NODE_ON_GOSUB:    true,
	parser.NODE_RESUME:      true,
	parser.NODE_RESUME_NEXT: true,
	parser.NODE_ERROR:       true,
	parser.NODE_END:         true,
	parser.NODE_STOP:        true,
	parser.NODE_RUN:         true,
	parser.NODE_CHAIN:       true,
	parser.NODE_CHAIN_MERGE: true,
	parser.NODE_MERGE:       true,
	parser.NODE_RSX:         true,
}

// hasTransfer reports whether any statement, including those of nested
// IF branches, transfers control
func hasTransfer(stmts []*parser.Node) bool {
	for _, stmt := range stmts {
		switch {
		case stmt.Kind == parser.NODE_IF:
			if hasTransfer(stmt.Args) || hasTransfer(stmt.Args2) {
				return true
			}
		case stmt.Kind == parser.NODE_COMMAND:
			if isSuspendCommand(stmt) {
				return true
			}
		case transferKinds[stmt.Kind]:
			return true
		}
	}
	return false
}

// braces wraps a branch body
func braces(body string) string {
	if body == "" {
		return "{ }"
	}
	return "{ " + body + " }"
}

// compileIf emits a plain if/else when neither branch transfers control.
// Otherwise both branches become labeled blocks of the dispatch switch:
// the condition jumps to the THEN block, the ELSE branch falls through and
// jumps to the join label.
func (c *Compiler) compileIf(n *parser.Node) error {
	cond := n.Left
	if err := c.compileNode(cond); err != nil {
		return err
	}
	if err := c.expectNumeric(cond); err != nil {
		return err
	}

	if !hasTransfer(n.Args) && !hasTransfer(n.Args2) {
		then, err := c.compileBlock(n.Args)
		if err != nil {
			return err
		}
		n.Text = "if (" + cond.Text + ") " + braces(then)
		if len(n.Args2) > 0 {
			els, err := c.compileBlock(n.Args2)
			if err != nil {
				return err
			}
			n.Text += " else " + braces(els)
		}
		return nil
	}

	thenLabel := c.newLabel(LABEL_IF)
	endLabel := c.newLabel(LABEL_IF)
	then, err := c.compileBlock(n.Args)
	if err != nil {
		return err
	}
	els, err := c.compileBlock(n.Args2)
	if err != nil {
		return err
	}

	parts := []string{`if (` + cond.Text + `) { o.goto("` + thenLabel + `"); break; }`}
	if els != "" {
		parts = append(parts, els)
	}
	parts = append(parts, `o.goto("`+endLabel+`"); break;`, "\ncase \""+thenLabel+`":`)
	if then != "" {
		parts = append(parts, then)
	}
	parts = append(parts, "\ncase \""+endLabel+`":`)
	n.Text = joinStatements(parts)
	return nil
}

// numericLiteral reports whether n is an optionally signed number literal
// and returns the sign of its value
func numericLiteral(n *parser.Node) (bool, int) {
	switch n.Kind {
	case parser.NODE_NUMBER:
		v, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return false, 0
		}
		switch {
		case v > 0:
			return true, 1
		case v < 0:
			return true, -1
		}
		return true, 0
	case parser.NODE_HEX, parser.NODE_BIN:
		v, err := strconv.ParseInt(n.Text, 0, 64)
		if err != nil {
			return false, 0
		}
		if v == 0 {
			return true, 0
		}
		return true, 1
	case parser.NODE_UNARY:
		if n.Value != "-" && n.Value != "+" {
			return false, 0
		}
		ok, sign := numericLiteral(n.Left)
		if n.Value == "-" {
			sign = -sign
		}
		return ok, sign
	}
	return false, 0
}

// forBound returns the text of a FOR end or step value. Literals that fit
// the loop variable are used in place; anything else is stored once in a
// shadow variable whose initialisation is appended to init.
func (c *Compiler) forBound(loopVar, bound *parser.Node, shadow string, init *[]string) (string, bool, int, error) {
	if err := c.compileNode(bound); err != nil {
		return "", false, 0, err
	}
	if err := c.expectNumeric(bound); err != nil {
		return "", false, 0, err
	}

	literal, sign := numericLiteral(bound)
	if literal && (loopVar.Type != types.TYPE_INT || bound.Type == types.TYPE_INT) {
		return bound.Text, true, sign, nil
	}

	c.vars.DeclareIfAbsent(shadow)
	value := bound.Text
	if loopVar.Type == types.TYPE_INT {
		value = rounded(bound)
	}
	*init = append(*init, "v."+shadow+" = "+value+";")
	return "v." + shadow, false, 0, nil
}

// compileFor emits the initialisation, then the increment label L and the
// test label Lb. The matching NEXT jumps back to L and opens the exit
// label Le.
func (c *Compiler) compileFor(n *parser.Node) error {
	loopVar := n.Left
	if err := c.compileNode(loopVar); err != nil {
		return err
	}
	if err := c.expectNumeric(loopVar); err != nil {
		return err
	}
	name := vars.Mangle(loopVar.Value, 0)

	start := n.Args[0]
	if err := c.compileNode(start); err != nil {
		return err
	}
	if err := c.expectNumeric(start); err != nil {
		return err
	}
	init := []string{loopVar.Text + " = " + coerce(loopVar, start) + ";"}

	end, _, _, err := c.forBound(loopVar, n.Args[1], name+"End", &init)
	if err != nil {
		return err
	}

	step, stepLiteral, stepSign := "1", true, 1
	if len(n.Args) > 2 {
		if step, stepLiteral, stepSign, err = c.forBound(loopVar, n.Args[2], name+"Step", &init); err != nil {
			return err
		}
	}

	v := loopVar.Text
	var test string
	switch {
	case !stepLiteral:
		test = "(" + step + " < 0 ? " + v + " < " + end + " : " + v + " > " + end + ")"
	case stepSign < 0:
		test = v + " < " + end
	default:
		// a zero step tests like an ascending loop
		test = v + " > " + end
	}

	label := c.newLabel(LABEL_FOR)
	c.forStack = append(c.forStack, forFrame{label: label, name: name})

	parts := append(init,
		`o.goto("`+label+`b"); break;`,
		"\ncase \""+label+`": `+v+" += "+step+";",
		"\ncase \""+label+`b": if (`+test+`) { o.goto("`+label+`e"); break; }`,
	)
	n.Text = joinStatements(parts)
	return nil
}

// compileNext closes one loop per variable, or the innermost loop when no
// variable is given
func (c *Compiler) compileNext(n *parser.Node) error {
	pops := n.Args
	if len(pops) == 0 {
		pops = []*parser.Node{nil}
	}

	parts := make([]string, 0, 2*len(pops))
	for _, arg := range pops {
		if len(c.forStack) == 0 {
			return c.errorAt(ERR_STRUCTURAL, "Unexpected NEXT", n)
		}
		frame := c.forStack[len(c.forStack)-1]
		if arg != nil {
			if err := c.compileNode(arg); err != nil {
				return err
			}
			if vars.Mangle(arg.Value, 0) != frame.name {
				e := c.errorAt(ERR_STRUCTURAL, "Unexpected NEXT variable", n)
				e.Value = arg.Value
				return e
			}
		}
		c.forStack = c.forStack[:len(c.forStack)-1]
		parts = append(parts, `o.goto("`+frame.label+`"); break;`, "\ncase \""+frame.label+`e":`)
	}
	n.Text = joinStatements(parts)
	return nil
}

// compileWhile places the test label L in front of the condition
func (c *Compiler) compileWhile(n *parser.Node) error {
	cond := n.Left
	if err := c.compileNode(cond); err != nil {
		return err
	}
	if err := c.expectNumeric(cond); err != nil {
		return err
	}
	label := c.newLabel(LABEL_WHILE)
	c.whileStack = append(c.whileStack, label)
	n.Text = "\ncase \"" + label + `": if (!(` + cond.Text + `)) { o.goto("` + label + `e"); break; }`
	return nil
}

func (c *Compiler) compileWend(n *parser.Node) error {
	if len(c.whileStack) == 0 {
		return c.errorAt(ERR_STRUCTURAL, "Unexpected WEND", n)
	}
	label := c.whileStack[len(c.whileStack)-1]
	c.whileStack = c.whileStack[:len(c.whileStack)-1]
	n.Text = `o.goto("` + label + `"); break;` + "\ncase \"" + label + `e":`
	return nil
}

func (c *Compiler) compileGoto(n *parser.Node) error {
	target, err := c.lineRef(n.Args[0], true)
	if err != nil {
		return err
	}
	n.Text = "o.goto(" + target + "); break;"
	return nil
}

// compileGosub emits the call followed by its return label
func (c *Compiler) compileGosub(n *parser.Node) error {
	target, err := c.lineRef(n.Args[0], true)
	if err != nil {
		return err
	}
	label := c.newLabel(LABEL_GOSUB)
	n.Text = `o.gosub("` + label + `", ` + target + `); break;` + "\ncase \"" + label + `":`
	return nil
}

func (c *Compiler) compileReturn(n *parser.Node) error {
	n.Text = "o.return(); break;"
	return nil
}

// compileOnJump compiles ON x GOTO/GOSUB. The label is the return point
// of ON GOSUB and the fall-through point when x selects no target.
func (c *Compiler) compileOnJump(n *parser.Node) error {
	selector := n.Left
	if err := c.compileNode(selector); err != nil {
		return err
	}
	if err := c.expectNumeric(selector); err != nil {
		return err
	}

	label := c.newLabel(LABEL_GOSUB)
	args := []string{strconv.Quote(label), rounded(selector)}
	for _, arg := range n.Args {
		target, err := c.lineRef(arg, true)
		if err != nil {
			return err
		}
		args = append(args, target)
	}

	fn := "onGoto"
	if n.Kind == parser.NODE_ON_GOSUB {
		fn = "onGosub"
	}
	n.Text = "o." + fn + "(" + strings.Join(args, ", ") + "); break;\ncase \"" + label + `":`
	return nil
}

// compileOnError compiles ON ERROR GOTO; line 0 switches handling off
func (c *Compiler) compileOnError(n *parser.Node) error {
	arg := n.Args[0]
	if err := c.compileLineNumber(arg); err != nil {
		return err
	}
	target := arg.Text
	if target != "0" {
		var err error
		if target, err = c.lineRef(arg, true); err != nil {
			return err
		}
	}
	n.Text = "o.onErrorGoto(" + target + ");"
	return nil
}

func (c *Compiler) compileResume(n *parser.Node) error {
	switch {
	case n.Kind == parser.NODE_RESUME_NEXT:
		n.Text = "o.resumeNext(); break;"
	case len(n.Args) > 0:
		target, err := c.lineRef(n.Args[0], true)
		if err != nil {
			return err
		}
		n.Text = "o.resume(" + target + "); break;"
	default:
		n.Text = "o.resume(); break;"
	}
	return nil
}

func (c *Compiler) compileError(n *parser.Node) error {
	code := n.Args[0]
	if err := c.compileNode(code); err != nil {
		return err
	}
	if err := c.expectNumeric(code); err != nil {
		return err
	}
	n.Text = "o.error(" + rounded(code) + "); break;"
	return nil
}

// compileStop compiles END and STOP; the label is where CONT resumes
func (c *Compiler) compileStop(n *parser.Node) error {
	fn := "stop"
	if n.Kind == parser.NODE_END {
		fn = "end"
	}
	label := c.newLabel(LABEL_STOP)
	n.Text = "o." + fn + `("` + label + `"); break;` + "\ncase \"" + label + `":`
	return nil
}

func (c *Compiler) compileRun(n *parser.Node) error {
	if len(n.Args) == 1 && n.Args[0].Kind == parser.NODE_LINENUMBER {
		target, err := c.lineRef(n.Args[0], true)
		if err != nil {
			return err
		}
		n.Text = "o.run(" + target + "); break;"
		return nil
	}
	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	n.Text = "o.run(" + strings.Join(args, ", ") + "); break;"
	return nil
}

// compileChain compiles CHAIN, CHAIN MERGE and MERGE. Their line
// arguments refer to the loaded program, not to this one.
func (c *Compiler) compileChain(n *parser.Node) error {
	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	fn := "chain"
	switch n.Kind {
	case parser.NODE_CHAIN_MERGE:
		fn = "chainMerge"
	case parser.NODE_MERGE:
		fn = "merge"
	}
	n.Text = "o." + fn + "(" + strings.Join(args, ", ") + "); break;"
	return nil
}
