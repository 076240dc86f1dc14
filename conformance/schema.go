package conformance

import "cpcbasic/compiler"

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Options     SuiteOptions `yaml:"options,omitempty"`
	Tests       []TestCase   `yaml:"tests"`
}

// SuiteOptions are the compiler switches of a suite or a single test
type SuiteOptions struct {
	Trace            bool `yaml:"trace,omitempty"`
	NoOuterFrame     bool `yaml:"no_outer_frame,omitempty"`
	AllowDirectLines bool `yaml:"direct_lines,omitempty"`
	Strict           bool `yaml:"strict,omitempty"`
	DynamicMerge     bool `yaml:"dynamic_merge,omitempty"`
}

// merge returns the union of two option sets; a test can switch options
// on but not off
func (o SuiteOptions) merge(other *SuiteOptions) SuiteOptions {
	if other == nil {
		return o
	}
	return SuiteOptions{
		Trace:            o.Trace || other.Trace,
		NoOuterFrame:     o.NoOuterFrame || other.NoOuterFrame,
		AllowDirectLines: o.AllowDirectLines || other.AllowDirectLines,
		Strict:           o.Strict || other.Strict,
		DynamicMerge:     o.DynamicMerge || other.DynamicMerge,
	}
}

// compilerOptions converts to compiler options. Warnings are collected in
// the result, never logged.
func (o SuiteOptions) compilerOptions() compiler.Options {
	return compiler.Options{
		Trace:            o.Trace,
		Quiet:            true,
		NoOuterFrame:     o.NoOuterFrame,
		AllowDirectLines: o.AllowDirectLines,
		Strict:           o.Strict,
		DynamicMerge:     o.DynamicMerge,
	}
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Skip        interface{}   `yaml:"skip,omitempty"` // bool or string
	Program     string        `yaml:"program"`
	Options     *SuiteOptions `yaml:"options,omitempty"`
	Expect      Expectation   `yaml:"expect"`
}

// Expectation defines what the compiler must produce for a program
type Expectation struct {
	Contains    []string       `yaml:"contains,omitempty"`     // substrings of the output
	NotContains []string       `yaml:"not_contains,omitempty"` // forbidden substrings
	Match       string         `yaml:"match,omitempty"`        // regex over the output
	Error       string         `yaml:"error,omitempty"`        // structural, type, reference, syntax, unsupported
	Message     string         `yaml:"message,omitempty"`      // error message
	Pos         *int           `yaml:"pos,omitempty"`          // error position
	Warnings    []string       `yaml:"warnings,omitempty"`
	Variables   []string       `yaml:"variables,omitempty"`
	Refs        map[string]int `yaml:"refs,omitempty"` // line -> reference count
}

// IsEmpty reports whether the expectation checks nothing
func (e *Expectation) IsEmpty() bool {
	return len(e.Contains) == 0 && len(e.NotContains) == 0 && e.Match == "" &&
		e.Error == "" && e.Message == "" && len(e.Warnings) == 0 &&
		len(e.Variables) == 0 && len(e.Refs) == 0
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}
