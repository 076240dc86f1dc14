// Package compiler turns a parsed line-numbered BASIC program into
// JavaScript. The generated text is the body of a function that receives
// the runtime object o and the variable object v; it runs as a loop over a
// switch on the instruction pointer o.l, so the runtime can stop after any
// statement and resume later at the same label.
package compiler

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"cpcbasic/parser"
	"cpcbasic/trace"
	"cpcbasic/types"
	"cpcbasic/vars"
)

// Options configure a compilation
type Options struct {
	Trace            bool // instrument every statement even without TRON
	Quiet            bool // do not log warnings
	NoOuterFrame     bool // emit only the line fragments, without the dispatch loop
	AllowDirectLines bool // accept one trailing line without a line number
	Strict           bool // unknown RSX commands are errors instead of warnings
	DynamicMerge     bool // the code will be merged into a running program

	Logger *log.Logger    // warnings; nil uses the standard logger
	Tracer *trace.Tracer // compile tracing; may be nil
}

// SourceSpan locates a statement in the source text
type SourceSpan struct {
	Pos int
	Len int
}

// LineRef is an entry of the final line table
type LineRef struct {
	Line string
	Refs int
}

// Result is the output of a successful compilation
type Result struct {
	Text      string
	SourceMap map[string]SourceSpan // "line:statement" -> source span
	Warnings  []string
	Variables []string // mangled names, sorted
	Lines     []LineRef
}

// forFrame is an open FOR loop
type forFrame struct {
	label string
	name  string // mangled loop variable
}

// Compiler compiles one program at a time. It is not safe for concurrent
// use; create one Compiler per goroutine.
type Compiler struct {
	opts Options

	vars     *vars.Table
	labels   Labels
	refs     *references
	counts   CountMap
	features Features

	forStack   []forFrame
	whileStack []string

	data      []string
	sourceMap map[string]SourceSpan
	warnings  []string

	line   string            // label of the line being compiled
	stream string            // stream of the PRINT being compiled
	scope  map[string]string // DEF FN parameters while compiling its body
}

// New creates a compiler
func New(opts Options) *Compiler {
	return &Compiler{opts: opts}
}

// Compile parses and compiles BASIC source text
func Compile(source string, opts Options) (*Result, error) {
	return New(opts).CompileSource(source)
}

// CompileSource parses and compiles BASIC source text. Parser errors are
// returned as ERR_SYNTAX errors wrapping the *parser.SyntaxError.
func (c *Compiler) CompileSource(source string) (*Result, error) {
	prog, err := parser.NewParser(source).ParseProgram()
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			return nil, &Error{Kind: ERR_SYNTAX, Message: se.Message, Value: se.Value, Pos: se.Pos, Err: err}
		}
		return nil, err
	}
	return c.CompileProgram(prog)
}

// reset clears the per-compilation state
func (c *Compiler) reset() {
	c.vars = vars.NewTable()
	c.labels = Labels{}
	c.refs = newReferences()
	c.counts = CountMap{}
	c.features = Features{}
	c.forStack = c.forStack[:0]
	c.whileStack = c.whileStack[:0]
	c.data = nil
	c.sourceMap = make(map[string]SourceSpan)
	c.warnings = nil
	c.line = ""
	c.stream = "0"
	c.scope = nil
}

// CompileProgram compiles a NODE_PROGRAM tree. The nodes are annotated in
// place with their generated text and inferred type.
func (c *Compiler) CompileProgram(prog *parser.Node) (*Result, error) {
	c.reset()

	if err := c.precheck(prog); err != nil {
		return nil, err
	}
	if err := c.compileNode(prog); err != nil {
		return nil, err
	}

	text := prog.Text
	if !c.opts.NoOuterFrame {
		text = c.assemble(text)
	}
	if !c.features.KeepLabels {
		text = c.eliminate(text)
	}

	lines := make([]LineRef, 0, len(c.refs.order))
	for _, line := range c.refs.order {
		lines = append(lines, LineRef{Line: line, Refs: c.refs.counts[line]})
	}

	return &Result{
		Text:      text,
		SourceMap: c.sourceMap,
		Warnings:  c.warnings,
		Variables: c.vars.Names(),
		Lines:     lines,
	}, nil
}

// Features returns the switches derived by the last precheck
func (c *Compiler) Features() Features {
	return c.features
}

// handlerFor maps every node kind to its generator. A nil result means the
// kind is not handled, which the package tests rule out for every kind.
func handlerFor(kind parser.Kind) func(*Compiler, *parser.Node) error {
	switch kind {
	case parser.NODE_PROGRAM:
		return (*Compiler).compileLines
	case parser.NODE_LINE:
		return (*Compiler).compileLine

	// Expressions
	case parser.NODE_NUMBER:
		return (*Compiler).compileNumber
	case parser.NODE_HEX, parser.NODE_BIN:
		return (*Compiler).compileRadix
	case parser.NODE_STRING:
		return (*Compiler).compileString
	case parser.NODE_VAR:
		return (*Compiler).compileVar
	case parser.NODE_ARRAY:
		return (*Compiler).compileArray
	case parser.NODE_PAREN:
		return (*Compiler).compileParen
	case parser.NODE_BINARY:
		return (*Compiler).compileBinary
	case parser.NODE_UNARY:
		return (*Compiler).compileUnary
	case parser.NODE_FUNCTION:
		return (*Compiler).compileFunction
	case parser.NODE_FN:
		return (*Compiler).compileFnCall
	case parser.NODE_STREAM:
		return (*Compiler).compileStream
	case parser.NODE_LINENUMBER:
		return (*Compiler).compileLineNumber
	case parser.NODE_LETTERS, parser.NODE_SEPARATOR:
		return (*Compiler).compileQuoted
	case parser.NODE_COMMA_TAB:
		return (*Compiler).compileCommaTab
	case parser.NODE_NEWLINE:
		return (*Compiler).compileNewline
	case parser.NODE_USING:
		return (*Compiler).compileUsing

	// Statements
	case parser.NODE_ASSIGN:
		return (*Compiler).compileAssign
	case parser.NODE_PRINT:
		return (*Compiler).compilePrint
	case parser.NODE_INPUT, parser.NODE_LINE_INPUT:
		return (*Compiler).compileInput
	case parser.NODE_IF:
		return (*Compiler).compileIf
	case parser.NODE_FOR:
		return (*Compiler).compileFor
	case parser.NODE_NEXT:
		return (*Compiler).compileNext
	case parser.NODE_WHILE:
		return (*Compiler).compileWhile
	case parser.NODE_WEND:
		return (*Compiler).compileWend
	case parser.NODE_GOTO:
		return (*Compiler).compileGoto
	case parser.NODE_GOSUB:
		return (*Compiler).compileGosub
	case parser.NODE_RETURN:
		return (*Compiler).compileReturn
	case parser.NODE_ON_GOTO, parser.NODE_ON_GOSUB:
		return (*Compiler).compileOnJump
	case parser.NODE_ON_ERROR:
		return (*Compiler).compileOnError
	case parser.NODE_RESUME, parser.NODE_RESUME_NEXT:
		return (*Compiler).compileResume
	case parser.NODE_ERROR:
		return (*Compiler).compileError
	case parser.NODE_DATA:
		return (*Compiler).compileData
	case parser.NODE_READ:
		return (*Compiler).compileRead
	case parser.NODE_RESTORE:
		return (*Compiler).compileRestore
	case parser.NODE_DEF_FN:
		return (*Compiler).compileDefFn
	case parser.NODE_DIM:
		return (*Compiler).compileDim
	case parser.NODE_END, parser.NODE_STOP:
		return (*Compiler).compileStop
	case parser.NODE_TRON, parser.NODE_TROFF:
		return (*Compiler).compileTron
	case parser.NODE_RUN:
		return (*Compiler).compileRun
	case parser.NODE_CHAIN, parser.NODE_CHAIN_MERGE, parser.NODE_MERGE:
		return (*Compiler).compileChain
	case parser.NODE_EVERY, parser.NODE_AFTER:
		return (*Compiler).compileTimer
	case parser.NODE_REM:
		return (*Compiler).compileRem
	case parser.NODE_RSX:
		return (*Compiler).compileRsx
	case parser.NODE_COMMAND:
		return (*Compiler).compileCommand
	}
	return nil
}

// compileNode dispatches compilation based on node kind. Every handler
// leaves the generated text in n.Text and the inferred type in n.Type.
func (c *Compiler) compileNode(n *parser.Node) error {
	handler := handlerFor(n.Kind)
	if handler == nil {
		return c.errorAt(ERR_STRUCTURAL, "Unknown node kind "+n.Kind.String(), n)
	}
	return handler(c, n)
}

// compileLines compiles every line of the program
func (c *Compiler) compileLines(n *parser.Node) error {
	var sb strings.Builder
	for _, line := range n.Args {
		if err := c.compileNode(line); err != nil {
			return err
		}
		sb.WriteString(line.Text)
	}
	n.Text = sb.String()
	return nil
}

// lineLabel returns the dispatch label of a line and its form as a
// JavaScript case value
func lineLabel(line *parser.Node) (string, string) {
	if line.Value == "" {
		return directLabel, strconv.Quote(directLabel)
	}
	n, _ := strconv.Atoi(line.Value) // validated by precheck
	label := strconv.Itoa(n)
	return label, label
}

// compileLine compiles one source line into a dispatch entry
func (c *Compiler) compileLine(n *parser.Node) error {
	label, value := lineLabel(n)
	c.line = label
	c.labels.Reset(label)

	parts := []string{"case " + value + ": o.l = " + value + ";"}
	for i, stmt := range n.Args {
		key := label + ":" + strconv.Itoa(i+1)
		c.sourceMap[key] = SourceSpan{Pos: stmt.Pos, Len: stmt.Len}

		if err := c.compileNode(stmt); err != nil {
			return err
		}
		if stmt.Text == "" {
			continue
		}
		text := stmt.Text
		if c.features.Trace {
			text = traced(text, `o.vmTrace("`+key+`");`)
		}
		parts = append(parts, text)
	}

	n.Text = joinStatements(parts) + "\n"
	c.opts.Tracer.Line(label, n.Text)
	return nil
}

// traced puts the trace call in front of a statement fragment. A fragment
// that opens with a case label is a jump target, so the call goes after
// the label and runs on every jump to it.
func traced(text, call string) string {
	if !strings.HasPrefix(text, "\ncase ") {
		return call + " " + text
	}
	i := strings.Index(text, ":")
	return text[:i+1] + " " + call + text[i+1:]
}

// joinStatements joins statement fragments with blanks. Fragments that
// open a new case label start on their own line already.
func joinStatements(parts []string) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 && !strings.HasPrefix(part, "\n") {
			sb.WriteString(" ")
		}
		sb.WriteString(part)
	}
	return sb.String()
}

// compileBlock compiles the statements of an IF branch
func (c *Compiler) compileBlock(stmts []*parser.Node) (string, error) {
	parts := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		if err := c.compileNode(stmt); err != nil {
			return "", err
		}
		if stmt.Text != "" {
			parts = append(parts, stmt.Text)
		}
	}
	return joinStatements(parts), nil
}

// newLabel mints a label for the current line
func (c *Compiler) newLabel(kind LabelKind) string {
	label := c.labels.New(kind)
	c.opts.Tracer.Label(c.line, label)
	return label
}

// warn records a non-fatal diagnostic
func (c *Compiler) warn(msg string) {
	c.warnings = append(c.warnings, msg)
	c.opts.Tracer.Warning(c.line, msg)
	if c.opts.Quiet {
		return
	}
	if c.opts.Logger != nil {
		c.opts.Logger.Printf("warning: %s", msg)
	} else {
		log.Printf("warning: %s", msg)
	}
}

// typeError reports an illegal type at node n
func (c *Compiler) typeError(n *parser.Node) error {
	e := c.errorAt(ERR_TYPE, "Type error", n)
	e.Err = types.ErrType
	return e
}

// expectNumeric rejects statically string-typed nodes
func (c *Compiler) expectNumeric(n *parser.Node) error {
	if n.Type == types.TYPE_STR {
		return c.typeError(n)
	}
	return nil
}

// expectString rejects statically numeric nodes
func (c *Compiler) expectString(n *parser.Node) error {
	if n.Type.IsNumeric() {
		return c.typeError(n)
	}
	return nil
}
