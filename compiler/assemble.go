package compiler

import (
	"regexp"
	"strings"
)

// assemble wraps the line fragments in the dispatch loop. Entry 0 sets up
// the line table and the hoisted DATA, then jumps to the start line.
func (c *Compiler) assemble(body string) string {
	var sb strings.Builder
	sb.WriteString("while (o.vmLoopCondition()) {\nswitch (o.l) {\ncase 0:\n")
	sb.WriteString("o.vmSetLabels([" + strings.Join(c.refs.order, ", ") + "]);\n")
	for _, data := range c.data {
		sb.WriteString(data)
		sb.WriteString("\n")
	}
	sb.WriteString(`o.goto(o.startLine ? o.startLine : "start"); break;` + "\n")
	sb.WriteString(`case "start":` + "\n")
	sb.WriteString(body)
	sb.WriteString(`case "end": o.vmStop("end", 90); break;` + "\n")
	sb.WriteString(`default: o.error(8); o.goto("end"); break;` + "\n")
	sb.WriteString("}\n}\n")
	return sb.String()
}

var lineCaseRe = regexp.MustCompile(`(?m)^case (\d+):`)

// eliminate comments out the dispatch entries of lines no jump targets.
// Execution still falls through them from the previous line.
func (c *Compiler) eliminate(text string) string {
	return lineCaseRe.ReplaceAllStringFunc(text, func(m string) string {
		line := lineCaseRe.FindStringSubmatch(m)[1]
		if count, ok := c.refs.counts[line]; !ok || count > 0 {
			return m
		}
		c.opts.Tracer.Eliminated(line)
		return "/* " + m + " */"
	})
}
