// Package mdtest extracts golden compiler cases from Markdown documents.
//
// A case starts at a heading "Test: <name>" and holds one ```basic fence
// with the program, an optional ```options fence and one or more assertion
// fences.
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of the program fence
type InputType string

const (
	InputTypeBasic InputType = "basic"
)

// AssertionType is the language of an assertion fence
type AssertionType string

const (
	AssertionTypeJS           AssertionType = "js"            // line fragments, no outer frame
	AssertionTypeProgram      AssertionType = "program"       // complete framed output
	AssertionTypeAST          AssertionType = "ast"           // S-expression per source line
	AssertionTypeCompileError AssertionType = "compile-error" // error text
	AssertionTypeWarnings     AssertionType = "warnings"      // one warning per line
)

const optionsFence = "options"

// Assertion is one expected outcome of a test case
type Assertion struct {
	Type    AssertionType
	Content string
	Line    int // line of the fence in the Markdown file
}

// TestCase is a program together with its assertions
type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Options    []string // words of the options fence, e.g. "trace"
	Assertions []Assertion
}

// ExtractTestCases parses a Markdown document and returns its test cases
// in document order
func ExtractTestCases(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validate(current); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}
			current = &TestCase{Name: strings.TrimPrefix(heading, "Test: ")}

		case *ast.FencedCodeBlock:
			language := string(n.Language(source))
			content := extractCodeBlock(n, source)
			line := lineNumber(n, source)

			if current == nil {
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of test case", line, language)
				}
				return ast.WalkContinue, nil
			}

			switch {
			case language == string(InputTypeBasic):
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple input fences found in test '%s'", line, current.Name)
				}
				current.Input = strings.TrimRight(content, "\n")
				current.InputType = InputTypeBasic
			case language == optionsFence:
				current.Options = append(current.Options, strings.Fields(content)...)
			case isAssertionFence(language):
				current.Assertions = append(current.Assertions, Assertion{
					Type:    AssertionType(language),
					Content: strings.TrimRight(content, "\n"),
					Line:    line,
				})
			case language != "":
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, current.Name)
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}

	if current != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}
	return cases, nil
}

// HasOption reports whether the options fence named opt
func (tc *TestCase) HasOption(opt string) bool {
	for _, o := range tc.Options {
		if o == opt {
			return true
		}
	}
	return false
}

func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				buf.Write(t.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractCodeBlock(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionTypeJS, AssertionTypeProgram, AssertionTypeAST,
		AssertionTypeCompileError, AssertionTypeWarnings:
		return true
	}
	return false
}

func validate(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	}
	if len(tc.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	return nil
}

// lineNumber returns the 1-based line of the first content line of node
func lineNumber(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
