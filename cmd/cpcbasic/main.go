package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cpcbasic/compiler"
	"cpcbasic/parser"
	"cpcbasic/trace"
	"github.com/goforj/godump"
	"golang.org/x/term"
)

func main() {
	output := flag.String("o", "", "Write the generated JavaScript to this file instead of stdout")

	// Compiler options
	traceCode := flag.Bool("trace", false, "Instrument every statement with o.vmTrace")
	quiet := flag.Bool("quiet", false, "Do not log warnings")
	noFrame := flag.Bool("no-frame", false, "Emit only the line fragments, without the dispatch loop")
	direct := flag.Bool("direct", false, "Accept one trailing line without a line number")
	strict := flag.Bool("strict", false, "Treat unknown RSX commands as errors")
	dynamicMerge := flag.Bool("dynamic-merge", false, "Allow jumps to lines that will be merged at runtime")

	// Compile tracing
	traceCompile := flag.Bool("trace-compile", false, "Trace the compiler to stderr")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob on line numbers, e.g., '1*,200')")

	// Inspection
	dumpAST := flag.Bool("dump-ast", false, "Dump the parsed program instead of compiling it")
	sexpr := flag.Bool("sexpr", false, "Print the parsed program as S-expressions")
	list := flag.Bool("list", false, "Print the program normalized, with upper-case keywords")
	fingerprint := flag.Bool("fingerprint", false, "Print the cache key of the program and options")
	cacheDir := flag.String("cache", "", "Directory of compiled programs keyed by fingerprint")
	repl := flag.Bool("repl", false, "Start the interactive prompt even when stdin is not a terminal")

	flag.Parse()

	if *traceCompile {
		trace.Init(true, splitFilters(*traceFilter), os.Stderr)
		log.Printf("Compile tracing enabled (filters: %v)", splitFilters(*traceFilter))
	} else {
		trace.Init(false, nil, nil)
	}

	opts := compiler.Options{
		Trace:            *traceCode,
		Quiet:            *quiet,
		NoOuterFrame:     *noFrame,
		AllowDirectLines: *direct,
		Strict:           *strict,
		DynamicMerge:     *dynamicMerge,
		Tracer:           trace.Global(),
	}

	if flag.NArg() == 0 && (*repl || term.IsTerminal(int(os.Stdin.Fd()))) {
		os.Exit(runREPL(opts))
	}

	source, name, err := readSource(flag.Args())
	if err != nil {
		log.Fatalf("Failed to read source: %v", err)
	}

	switch {
	case *dumpAST || *sexpr || *list:
		prog, err := parser.NewParser(source).ParseProgram()
		if err != nil {
			log.Fatalf("%s: %v", name, err)
		}
		switch {
		case *dumpAST:
			godump.Dump(prog)
		case *list:
			for _, line := range parser.UnparseProgram(prog) {
				fmt.Println(line)
			}
		default:
			for _, line := range prog.Args {
				fmt.Println(parser.SExpr(line))
			}
		}
		return
	case *fingerprint:
		fmt.Println(compiler.Fingerprint(source, opts))
		return
	}

	text, err := compileCached(*cacheDir, source, opts)
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}

	if *output == "" {
		fmt.Print(text)
		return
	}
	if err := os.WriteFile(*output, []byte(text), 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
}

// splitFilters splits a comma separated filter list
func splitFilters(s string) []string {
	if s == "" {
		return nil
	}
	filters := strings.Split(s, ",")
	for i := range filters {
		filters[i] = strings.TrimSpace(filters[i])
	}
	return filters
}

// readSource reads the program from the named file, or from stdin
func readSource(args []string) (string, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), "<stdin>", err
	}
	if len(args) > 1 {
		return "", "", fmt.Errorf("expected one source file, got %d", len(args))
	}
	data, err := os.ReadFile(args[0])
	return string(data), args[0], err
}
