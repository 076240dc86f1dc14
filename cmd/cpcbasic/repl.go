package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"cpcbasic/compiler"
	"cpcbasic/parser"
	"github.com/peterh/liner"
)

const historyFile = ".cpcbasic_history"

// session is the program being edited at the prompt. Numbered lines are
// stored; anything else is compiled as a direct line after the program.
type session struct {
	lines map[int]string
	opts  compiler.Options
}

func newSession(opts compiler.Options) *session {
	opts.AllowDirectLines = true
	return &session{lines: make(map[int]string), opts: opts}
}

// numbers returns the stored line numbers in order
func (s *session) numbers() []int {
	nums := make([]int, 0, len(s.lines))
	for n := range s.lines {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// source returns the stored program followed by the optional direct line
func (s *session) source(direct string) string {
	var sb strings.Builder
	for _, n := range s.numbers() {
		sb.WriteString(s.lines[n])
		sb.WriteString("\n")
	}
	sb.WriteString(direct)
	return sb.String()
}

// splitLineNumber returns the leading line number of input, if any
func splitLineNumber(input string) (int, string, bool) {
	i := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(input[:i])
	if err != nil {
		return 0, "", false
	}
	return n, strings.TrimSpace(input[i:]), true
}

// listLine normalizes a typed line the way LIST shows it. Lines that do
// not parse are kept as typed; the error surfaces on the next compile.
func listLine(input string) string {
	prog, err := parser.NewParser(input).ParseProgram()
	if err != nil || len(prog.Args) != 1 {
		return input
	}
	return parser.Unparse(prog.Args[0])
}

// handle processes one line of input and returns the text to show
func (s *session) handle(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if n, body, ok := splitLineNumber(input); ok {
		if body == "" {
			delete(s.lines, n)
		} else {
			s.lines[n] = listLine(input)
		}
		return "", false
	}

	switch strings.ToUpper(input) {
	case "BYE", "QUIT":
		return "", true
	case "NEW":
		s.lines = make(map[int]string)
		return "", false
	case "LIST":
		return s.source(""), false
	case "COMPILE":
		opts := s.opts
		opts.AllowDirectLines = false
		res, err := compiler.Compile(s.source(""), opts)
		if err != nil {
			return err.Error() + "\n", false
		}
		return res.Text, false
	}

	res, err := compiler.Compile(s.source(input), s.opts)
	if err != nil {
		return err.Error() + "\n", false
	}
	return res.Text, false
}

// runREPL reads lines with editing and history until EOF or BYE
func runREPL(opts compiler.Options) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	s := newSession(opts)
	fmt.Println("Ready")
	for {
		input, err := ln.Prompt("")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println()
				break
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}

		out, done := s.handle(input)
		if done {
			break
		}
		fmt.Print(out)
		if strings.TrimSpace(input) != "" {
			ln.AppendHistory(input)
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}
