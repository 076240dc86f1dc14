package compiler

import "strconv"

// LabelKind selects one of the per-line label counters
type LabelKind int

const (
	LABEL_FOR   LabelKind = iota // f
	LABEL_GOSUB                  // g, also ON GOTO/GOSUB
	LABEL_IF                     // i
	LABEL_STOP                   // s, stop/end/input and other suspend points
	LABEL_WHILE                  // w

	labelKinds
)

const labelLetters = "fgisw"

// Labels mints synthetic jump targets of the form <line><kind><ordinal>.
// The counters restart for every source line so that the labels of a line
// do not depend on what other lines contain.
type Labels struct {
	line   string
	counts [labelKinds]int
}

// Reset starts a new source line
func (l *Labels) Reset(line string) {
	l.line = line
	l.counts = [labelKinds]int{}
}

// New returns the next label of the given kind for the current line
func (l *Labels) New(kind LabelKind) string {
	n := l.counts[kind]
	l.counts[kind]++
	return l.line + labelLetters[kind:kind+1] + strconv.Itoa(n)
}
