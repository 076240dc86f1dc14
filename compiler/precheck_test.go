package compiler

import (
	"testing"

	"cpcbasic/parser"
	"github.com/nalgeon/be"
)

func TestFeatures(t *testing.T) {
	tests := []struct {
		src  string
		opts Options
		want Features
	}{
		{"10 PRINT", Options{}, Features{}},
		{"10 PRINT", Options{Trace: true}, Features{Trace: true}},
		{"10 TRON", Options{}, Features{Trace: true}},
		{"10 RESUME NEXT", Options{}, Features{KeepLabels: true}},
		{"10 RESUME", Options{}, Features{Trace: true, KeepLabels: true}},
		{"10 RESUME 10", Options{}, Features{}},
		{`10 MERGE "x"`, Options{}, Features{KeepLabels: true, DynamicMerge: true}},
		{`10 CHAIN MERGE "x"`, Options{}, Features{KeepLabels: true, DynamicMerge: true}},
		{`10 CHAIN "x"`, Options{}, Features{}},
		{"10 PRINT", Options{DynamicMerge: true}, Features{KeepLabels: true, DynamicMerge: true}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog, err := parser.NewParser(tt.src).ParseProgram()
			be.Err(t, err, nil)
			c := New(tt.opts)
			c.reset()
			be.Err(t, c.precheck(prog), nil)
			be.Equal(t, c.Features(), tt.want)
		})
	}
}

func TestPrecheckCounts(t *testing.T) {
	prog, err := parser.NewParser("10 GOSUB 20:GOSUB 20\n20 a=1+2:RETURN").ParseProgram()
	be.Err(t, err, nil)
	c := New(Options{})
	c.reset()
	be.Err(t, c.precheck(prog), nil)

	be.Equal(t, c.counts[parser.NODE_LINE], 2)
	be.Equal(t, c.counts[parser.NODE_GOSUB], 2)
	be.Equal(t, c.counts[parser.NODE_BINARY], 1)
	be.Equal(t, c.refs.order, []string{"10", "20"})
	be.Equal(t, c.refs.counts["20"], 0)
}

func TestReferenceCounts(t *testing.T) {
	res := compile(t, "10 GOSUB 30:GOSUB 30\n20 EVERY 5 GOSUB 30\n30 RETURN", Options{})
	be.Equal(t, res.Lines, []LineRef{{"10", 0}, {"20", 0}, {"30", 3}})
}

func TestLeadingZeroLineNumbers(t *testing.T) {
	res := compile(t, "010 GOTO 10", Options{NoOuterFrame: true})
	be.Equal(t, res.Text, "case 10: o.l = 10; o.goto(10); break;\n")
}
