package compiler

import (
	"errors"
	"strconv"

	"cpcbasic/parser"
)

// maxLine is the highest line number the CPC accepts
const maxLine = 65535

// directLabel is the dispatch label of a line without a number
const directLabel = "direct"

// references is the line table: every declared line with the number of
// static jumps that target it
type references struct {
	counts map[string]int
	order  []string
}

func newReferences() *references {
	return &references{counts: make(map[string]int)}
}

func (r *references) declare(line string) {
	r.counts[line] = 0
	r.order = append(r.order, line)
}

func (r *references) has(line string) bool {
	_, ok := r.counts[line]
	return ok
}

func (r *references) inc(line string) {
	r.counts[line]++
}

// CountMap is the node kind histogram of a program
type CountMap [parser.NODE_COUNT]int

// Features are the program-wide behaviors derived from the histogram
type Features struct {
	Trace        bool // every statement reports its position to the runtime
	KeepLabels   bool // no dispatch entry may be eliminated
	DynamicMerge bool // unknown jump targets are left to the runtime
}

// features derives the cross-cutting switches once, so the statement
// compilers never consult the histogram themselves
func (m *CountMap) features(opts Options, resumeNoArgs int) Features {
	merge := m[parser.NODE_MERGE] > 0 || m[parser.NODE_CHAIN_MERGE] > 0 || opts.DynamicMerge
	return Features{
		Trace:        opts.Trace || m[parser.NODE_TRON] > 0 || resumeNoArgs > 0,
		KeepLabels:   merge || m[parser.NODE_RESUME_NEXT] > 0 || resumeNoArgs > 0,
		DynamicMerge: merge,
	}
}

// precheck validates line numbers, seeds the line table and counts node
// kinds. It runs once before any code is generated.
func (c *Compiler) precheck(prog *parser.Node) error {
	var counts CountMap
	resumeNoArgs := 0
	last := 0
	direct := false

	for _, line := range prog.Args {
		if line.Value == "" {
			if !c.opts.AllowDirectLines || direct {
				return &Error{Kind: ERR_STRUCTURAL, Message: "Direct command found", Pos: line.Pos, Len: line.Len}
			}
			direct = true
		} else {
			n, err := strconv.Atoi(line.Value)
			if errors.Is(err, strconv.ErrRange) {
				n, err = maxLine+1, nil
			}
			if err != nil {
				return &Error{Kind: ERR_STRUCTURAL, Message: "Expected integer line number", Value: line.Value, Pos: line.Pos, Len: line.Len}
			}
			if n < 1 || n > maxLine {
				return &Error{Kind: ERR_STRUCTURAL, Message: "Line number overflow", Value: line.Value, Pos: line.Pos, Len: line.Len}
			}
			key := strconv.Itoa(n)
			if c.refs.has(key) {
				return &Error{Kind: ERR_STRUCTURAL, Message: "Duplicate line number", Value: line.Value, Pos: line.Pos, Len: line.Len}
			}
			if direct || n <= last {
				return &Error{Kind: ERR_STRUCTURAL, Message: "Expected increasing line number", Value: line.Value, Pos: line.Pos, Len: line.Len}
			}
			last = n
			c.refs.declare(key)
		}

		parser.Walk(line, func(n *parser.Node) {
			counts[n.Kind]++
			if n.Kind == parser.NODE_RESUME && len(n.Args) == 0 {
				resumeNoArgs++
			}
		})
	}

	c.counts = counts
	c.features = counts.features(c.opts, resumeNoArgs)
	return nil
}
