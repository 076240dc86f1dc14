package conformance

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"cpcbasic/compiler"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner compiles conformance programs and checks their expectations
type Runner struct {
	compiler *compiler.Compiler // reused across tests with the same options
	options  SuiteOptions
}

// NewRunner creates a new test runner
func NewRunner() *Runner {
	return &Runner{}
}

// compile runs the compiler with the options of one test. The compiler is
// rebuilt only when the options change.
func (r *Runner) compile(program string, opts SuiteOptions) (*compiler.Result, error) {
	if r.compiler == nil || r.options != opts {
		r.compiler = compiler.New(opts.compilerOptions())
		r.options = opts
	}
	return r.compiler.CompileSource(program)
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: reason,
		}
	}

	if test.Test.Program == "" {
		return TestResult{
			Test:       test,
			Skipped:    true,
			SkipReason: "no program",
		}
	}

	opts := test.Suite.Options.merge(test.Test.Options)
	res, err := r.compile(test.Test.Program, opts)

	passed, checkErr := r.checkExpectation(test.Test, res, err)
	return TestResult{
		Test:   test,
		Passed: passed,
		Error:  checkErr,
	}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}

// checkExpectation checks the compile outcome against the test
func (r *Runner) checkExpectation(test TestCase, res *compiler.Result, err error) (bool, error) {
	expect := test.Expect
	if expect.IsEmpty() {
		return false, fmt.Errorf("no expectation specified")
	}

	// Expected failure
	if expect.Error != "" || expect.Message != "" {
		if err == nil {
			return false, fmt.Errorf("expected %s error, compile succeeded", expect.Error)
		}
		var ce *compiler.Error
		if !errors.As(err, &ce) {
			return false, fmt.Errorf("expected compile error, got %v", err)
		}
		if expect.Error != "" && ce.Kind.String() != expect.Error {
			return false, fmt.Errorf("expected %s error, got %s: %v", expect.Error, ce.Kind, ce)
		}
		if expect.Message != "" && ce.Message != expect.Message {
			return false, fmt.Errorf("expected message %q, got %q", expect.Message, ce.Message)
		}
		if expect.Pos != nil && ce.Pos != *expect.Pos {
			return false, fmt.Errorf("expected error at pos %d, got %d", *expect.Pos, ce.Pos)
		}
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("unexpected error: %w", err)
	}

	for _, want := range expect.Contains {
		if !strings.Contains(res.Text, want) {
			return false, fmt.Errorf("output does not contain %q:\n%s", want, res.Text)
		}
	}
	for _, bad := range expect.NotContains {
		if strings.Contains(res.Text, bad) {
			return false, fmt.Errorf("output contains %q:\n%s", bad, res.Text)
		}
	}
	if expect.Match != "" {
		re, err := regexp.Compile(expect.Match)
		if err != nil {
			return false, fmt.Errorf("bad match pattern: %w", err)
		}
		if !re.MatchString(res.Text) {
			return false, fmt.Errorf("output does not match %q:\n%s", expect.Match, res.Text)
		}
	}
	if len(expect.Warnings) > 0 && !slices.Equal(res.Warnings, expect.Warnings) {
		return false, fmt.Errorf("expected warnings %q, got %q", expect.Warnings, res.Warnings)
	}
	if len(expect.Variables) > 0 && !slices.Equal(res.Variables, expect.Variables) {
		return false, fmt.Errorf("expected variables %v, got %v", expect.Variables, res.Variables)
	}
	for line, want := range expect.Refs {
		got, ok := refCount(res, line)
		if !ok {
			return false, fmt.Errorf("line %s not in line table", line)
		}
		if got != want {
			return false, fmt.Errorf("expected %d references to line %s, got %d", want, line, got)
		}
	}
	return true, nil
}

func refCount(res *compiler.Result, line string) (int, bool) {
	for _, ref := range res.Lines {
		if ref.Line == line {
			return ref.Refs, true
		}
	}
	return 0, false
}
