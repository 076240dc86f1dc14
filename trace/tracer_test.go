package trace

import (
	"bytes"
	"strings"
	"testing"
)

func TestTracerLine(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, nil, &buf)
	tr.Line("10", "case 10: o.l = 10;\n")

	want := "[TRACE] LINE 10 => case 10: o.l = 10;\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestTracerFilters(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, []string{"1?"}, &buf)
	tr.Line("10", "a")
	tr.Line("20", "b")
	tr.Label("15", "15g0")
	tr.Eliminated("200")

	out := buf.String()
	if !strings.Contains(out, "LINE 10") {
		t.Errorf("line 10 missing from %q", out)
	}
	if strings.Contains(out, "LINE 20") || strings.Contains(out, "200") {
		t.Errorf("filtered lines traced: %q", out)
	}
	if !strings.Contains(out, "LABEL 15g0") {
		t.Errorf("label missing from %q", out)
	}
}

func TestTracerDisabled(t *testing.T) {
	var buf bytes.Buffer
	tr := New(false, nil, &buf)
	tr.Line("10", "a")
	tr.Warning("10", "b")
	if buf.Len() != 0 {
		t.Errorf("disabled tracer wrote %q", buf.String())
	}
}

func TestNilTracer(t *testing.T) {
	var tr *Tracer
	if tr.IsEnabled() {
		t.Fatal("nil tracer reports enabled")
	}
	// must not panic
	tr.Line("10", "a")
	tr.Label("10", "10f0")
	tr.Warning("10", "w")
	tr.Eliminated("10")
}

func TestTracerWarningTruncates(t *testing.T) {
	var buf bytes.Buffer
	tr := New(true, nil, &buf)
	tr.Warning("10", strings.Repeat("x", 80))
	if !strings.Contains(buf.String(), strings.Repeat("x", 57)+"...") {
		t.Errorf("warning not truncated: %q", buf.String())
	}
}

func TestGlobalTracer(t *testing.T) {
	var buf bytes.Buffer
	Init(true, nil, &buf)
	defer func() { globalTracer = nil }()

	Global().Line("30", "x")
	if !strings.Contains(buf.String(), "LINE 30") {
		t.Errorf("global tracer did not write: %q", buf.String())
	}
}
