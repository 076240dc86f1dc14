package mdtest

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases(t *testing.T) {
	markdown := `# Jumps

Some prose that is ignored.

## Test: goto
` + fence + `basic
10 GOTO 10
` + fence + `
` + fence + `js
case 10: o.l = 10; o.goto(10); break;
` + fence + `

## Test: missing line
` + fence + `basic
10 GOTO 20
` + fence + `
` + fence + `compile-error
Line does not exist in 10 at pos 8: 20
` + fence

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "goto")
	be.Equal(t, cases[0].Input, "10 GOTO 10")
	be.Equal(t, cases[0].InputType, InputTypeBasic)
	be.Equal(t, len(cases[0].Assertions), 1)
	be.Equal(t, cases[0].Assertions[0].Type, AssertionTypeJS)
	be.Equal(t, cases[0].Assertions[0].Content, "case 10: o.l = 10; o.goto(10); break;")

	be.Equal(t, cases[1].Name, "missing line")
	be.Equal(t, cases[1].Assertions[0].Type, AssertionTypeCompileError)
	be.Equal(t, cases[1].Assertions[0].Line, 18)
}

func TestExtractOptions(t *testing.T) {
	markdown := `## Test: traced
` + fence + `basic
10 PRINT
` + fence + `
` + fence + `options
trace
no-frame
` + fence + `
` + fence + `ast
(line "10" (print "PRINT" (newline)))
` + fence + `
` + fence + `warnings
` + fence

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, cases[0].Options, []string{"trace", "no-frame"})
	be.True(t, cases[0].HasOption("trace"))
	be.True(t, !cases[0].HasOption("strict"))
	be.Equal(t, len(cases[0].Assertions), 2)
	be.Equal(t, cases[0].Assertions[1].Type, AssertionTypeWarnings)
	be.Equal(t, cases[0].Assertions[1].Content, "")
}

func TestExtractMultilineInput(t *testing.T) {
	markdown := `## Test: two lines
` + fence + `basic
10 PRINT 1
20 END
` + fence + `
` + fence + `program
whatever
` + fence

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, cases[0].Input, "10 PRINT 1\n20 END")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{
			"fence outside test",
			fence + "basic\n10 END\n" + fence,
			"fence found outside of test case",
		},
		{
			"unknown fence",
			"## Test: x\n" + fence + "basic\n10 END\n" + fence + "\n" + fence + "python\nx\n" + fence,
			"unknown fence language 'python'",
		},
		{
			"two inputs",
			"## Test: x\n" + fence + "basic\n10 END\n" + fence + "\n" + fence + "basic\n20 END\n" + fence,
			"multiple input fences",
		},
		{
			"no input",
			"## Test: x\n" + fence + "js\nx\n" + fence,
			"has no input fence",
		},
		{
			"no assertion",
			"## Test: x\n" + fence + "basic\n10 END\n" + fence + "\n\n## Test: y\n",
			"has no assertion fences",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTestCases(tt.markdown)
			be.True(t, err != nil)
			be.True(t, strings.Contains(err.Error(), tt.want))
		})
	}
}

func TestUnlabelledFencesIgnored(t *testing.T) {
	markdown := fence + "\nplain block\n" + fence + `

## Test: x
` + fence + `basic
10 END
` + fence + `
` + fence + `
notes
` + fence + `
` + fence + `js
x
` + fence

	cases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 1)
	be.Equal(t, len(cases[0].Assertions), 1)
}
