package compiler

import (
	"strconv"
	"strings"

	"cpcbasic/parser"
	"cpcbasic/types"
	"cpcbasic/vars"
)

// coerce returns the text that stores value into target. Statically
// matching types are stored as they are, a real stored into an integer
// variable is rounded, and anything not known until runtime goes through
// o.vmAssign.
func coerce(target, value *parser.Node) string {
	switch {
	case target.Type == types.TYPE_INT && value.Type == types.TYPE_INT,
		target.Type == types.TYPE_REAL && value.Type.IsNumeric(),
		target.Type == types.TYPE_STR && value.Type == types.TYPE_STR:
		return value.Text
	case target.Type == types.TYPE_INT && value.Type == types.TYPE_REAL:
		return "o.vmRound(" + value.Text + ")"
	}
	return "o.vmAssign(" + strconv.Quote(mangledName(target)) + ", " + value.Text + ")"
}

// compileAssign compiles LET and implicit assignment
func (c *Compiler) compileAssign(n *parser.Node) error {
	target, value := n.Left, n.Right
	if err := c.compileNode(target); err != nil {
		return err
	}
	if err := c.compileNode(value); err != nil {
		return err
	}
	if err := types.CheckAssign(target.Type, value.Type); err != nil {
		return c.typeError(n)
	}
	n.Text = target.Text + " = " + coerce(target, value) + ";"
	return nil
}

func (c *Compiler) compilePrint(n *parser.Node) error {
	stream := "0"
	if n.Left != nil {
		if err := c.compileNode(n.Left); err != nil {
			return err
		}
		stream = n.Left.Text
	}

	prev := c.stream
	c.stream = stream
	defer func() { c.stream = prev }()

	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	n.Text = "o.print(" + strings.Join(append([]string{stream}, args...), ", ") + ");"
	return nil
}

// compileInput splits INPUT into two suspend points: one before the
// prompt is shown and one after the runtime has collected the values
func (c *Compiler) compileInput(n *parser.Node) error {
	stream := "0"
	if n.Left != nil {
		if err := c.compileNode(n.Left); err != nil {
			return err
		}
		stream = n.Left.Text
	}
	noCRLF := `""`
	if len(n.Args2) > 0 {
		noCRLF = `";"`
	}
	prompt := `"? "`
	if n.Right != nil {
		prompt = strconv.Quote(n.Right.Value)
	}

	names := make([]string, 0, len(n.Args))
	for _, target := range n.Args {
		if err := c.compileNode(target); err != nil {
			return err
		}
		if n.Kind == parser.NODE_LINE_INPUT {
			if err := c.expectString(target); err != nil {
				return err
			}
		}
		names = append(names, strconv.Quote(mangledName(target)))
	}

	fn := "input"
	if n.Kind == parser.NODE_LINE_INPUT {
		fn = "lineInput"
	}
	start := c.newLabel(LABEL_STOP)
	done := c.newLabel(LABEL_STOP)

	var sb strings.Builder
	sb.WriteString(`o.goto("` + start + `"); break;` + "\n")
	sb.WriteString(`case "` + start + `": o.` + fn + "(")
	sb.WriteString(strings.Join(append([]string{stream, noCRLF, prompt}, names...), ", "))
	sb.WriteString(`); o.goto("` + done + `"); break;` + "\n")
	sb.WriteString(`case "` + done + `":`)
	for i, target := range n.Args {
		sb.WriteString(" " + target.Text + " = o.vmGetNextInput(" + names[i] + ");")
	}
	n.Text = sb.String()
	return nil
}

func (c *Compiler) compileRead(n *parser.Node) error {
	parts := make([]string, 0, len(n.Args))
	for _, target := range n.Args {
		if err := c.compileNode(target); err != nil {
			return err
		}
		parts = append(parts, target.Text+" = o.read("+strconv.Quote(mangledName(target))+");")
	}
	n.Text = strings.Join(parts, " ")
	return nil
}

// compileData hoists the items to program start; only a marker remains
func (c *Compiler) compileData(n *parser.Node) error {
	line := c.line
	if line == directLabel {
		line = strconv.Quote(line)
	}
	args := []string{line}
	for _, item := range n.Args {
		args = append(args, strconv.Quote(item.Value))
	}
	c.data = append(c.data, "o.data("+strings.Join(args, ", ")+");")
	n.Text = "/* data */"
	return nil
}

func (c *Compiler) compileRestore(n *parser.Node) error {
	if len(n.Args) == 0 {
		n.Text = "o.restore();"
		return nil
	}
	target, err := c.lineRef(n.Args[0], false)
	if err != nil {
		return err
	}
	n.Text = "o.restore(" + target + ");"
	return nil
}

// withScope compiles fn with the DEF FN parameters in scope. The previous
// scope is restored on every exit path.
func (c *Compiler) withScope(scope map[string]string, fn func() error) error {
	prev := c.scope
	c.scope = scope
	defer func() { c.scope = prev }()
	return fn()
}

func (c *Compiler) compileDefFn(n *parser.Node) error {
	scope := make(map[string]string, len(n.Args))
	params := make([]string, 0, len(n.Args))
	for _, param := range n.Args {
		name := vars.ParamName(param.Value)
		scope[strings.ToLower(param.Value)] = name
		params = append(params, name)
	}

	body := n.Right
	if err := c.withScope(scope, func() error { return c.compileNode(body) }); err != nil {
		return err
	}

	fnType := c.vars.StaticTypeOf(fnName(n.Value))
	if err := types.CheckAssign(fnType, body.Type); err != nil {
		return c.typeError(n)
	}
	result := body.Text
	if fnType == types.TYPE_INT {
		result = rounded(body)
	}
	n.Text = "v." + fnName(n.Value) + " = function (" + strings.Join(params, ", ") + ") { return " + result + "; };"
	return nil
}

func (c *Compiler) compileDim(n *parser.Node) error {
	parts := make([]string, 0, len(n.Args))
	for _, arr := range n.Args {
		name := vars.Mangle(arr.Value, len(arr.Args))
		c.vars.DeclareIfAbsent(name)
		args := []string{strconv.Quote(name)}
		for _, dim := range arr.Args {
			if err := c.compileNode(dim); err != nil {
				return err
			}
			if err := c.expectNumeric(dim); err != nil {
				return err
			}
			args = append(args, rounded(dim))
		}
		parts = append(parts, "o.dim("+strings.Join(args, ", ")+");")
	}
	n.Text = strings.Join(parts, " ")
	return nil
}

func (c *Compiler) compileTron(n *parser.Node) error {
	if n.Kind == parser.NODE_TRON {
		n.Text = "o.tron();"
	} else {
		n.Text = "o.troff();"
	}
	return nil
}

func (c *Compiler) compileRem(n *parser.Node) error {
	n.Text = ""
	return nil
}

// compileTimer compiles EVERY/AFTER time[,timer] GOSUB line
func (c *Compiler) compileTimer(n *parser.Node) error {
	args := make([]string, 0, len(n.Args)+1)
	for _, arg := range n.Args {
		if err := c.compileNode(arg); err != nil {
			return err
		}
		if err := c.expectNumeric(arg); err != nil {
			return err
		}
		args = append(args, rounded(arg))
	}
	if len(args) == 1 {
		args = append(args, "0")
	}
	target, err := c.lineRef(n.Right, true)
	if err != nil {
		return err
	}
	fn := "every"
	if n.Kind == parser.NODE_AFTER {
		fn = "after"
	}
	n.Text = "o." + fn + "(" + strings.Join(append(args, target), ", ") + ");"
	return nil
}

// knownRsx are the RSX commands the runtime implements
var knownRsx = map[string]bool{
	"a": true, "b": true, "basic": true, "cpm": true, "dir": true,
	"disc": true, "disc.in": true, "disc.out": true, "drive": true,
	"era": true, "ren": true, "tape": true, "tape.in": true,
	"tape.out": true, "user": true, "mode": true, "renum": true,
}

// compileRsx compiles |NAME,args. Unknown names are resolved at runtime
// unless the compiler is strict.
func (c *Compiler) compileRsx(n *parser.Node) error {
	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	name := strings.ToLower(n.Value)

	var call string
	if knownRsx[name] {
		call = "o.rsx." + strings.ReplaceAll(name, ".", "_") + "(" + strings.Join(args, ", ") + ");"
	} else {
		if c.opts.Strict {
			return c.errorAt(ERR_UNSUPPORTED, "Unknown RSX command", n)
		}
		c.warn("Unknown RSX command in " + c.line + ": |" + n.Value)
		call = "o.callRsx(" + strings.Join(append([]string{strconv.Quote(name)}, args...), ", ") + ");"
	}
	n.Text = c.suspend(call)
	return nil
}

// suspendCommands yield to the runtime after they have been issued
var suspendCommands = map[string]bool{
	"CALL": true, "CAT": true, "CLEAR INPUT": true, "DELETE": true,
	"EDIT": true, "FRAME": true, "LIST": true, "LOAD": true, "NEW": true,
	"OPENIN": true, "OPENOUT": true, "RENUM": true, "SAVE": true,
	"SOUND": true, "WAIT": true,
}

// isSuspendCommand reports whether the generic command n is a suspend
// point. RANDOMIZE without a seed asks for one.
func isSuspendCommand(n *parser.Node) bool {
	if n.Value == "RANDOMIZE" {
		return len(n.Args) == 0
	}
	return suspendCommands[n.Value]
}

// suspend appends a resume label after call
func (c *Compiler) suspend(call string) string {
	label := c.newLabel(LABEL_STOP)
	return call + ` o.goto("` + label + `"); break;` + "\ncase \"" + label + `":`
}

// commandMethod converts a keyword like "GRAPHICS PEN" into "graphicsPen"
func commandMethod(keyword string) string {
	words := strings.Fields(strings.ToLower(keyword))
	for i := 1; i < len(words); i++ {
		words[i] = strings.ToUpper(words[i][:1]) + words[i][1:]
	}
	return strings.Join(words, "")
}

// compileCommand compiles keyword statements that map onto one runtime call
func (c *Compiler) compileCommand(n *parser.Node) error {
	args, err := c.compileArgs(n.Args)
	if err != nil {
		return err
	}
	call := "o." + commandMethod(n.Value) + "(" + strings.Join(args, ", ") + ");"
	if isSuspendCommand(n) {
		call = c.suspend(call)
	}
	n.Text = call
	return nil
}
