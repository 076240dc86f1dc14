package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cpcbasic/compiler"
)

func TestSessionEditing(t *testing.T) {
	s := newSession(compiler.Options{Quiet: true})

	s.handle("20 PRINT 2")
	s.handle("10 PRINT 1")
	s.handle("30 GOTO 10")
	if got := s.source(""); got != "10 PRINT 1\n20 PRINT 2\n30 GOTO 10\n" {
		t.Errorf("source = %q", got)
	}

	// a bare number deletes the line
	s.handle("20")
	if out, _ := s.handle("list"); out != "10 PRINT 1\n30 GOTO 10\n" {
		t.Errorf("LIST = %q", out)
	}

	s.handle("NEW")
	if len(s.lines) != 0 {
		t.Errorf("NEW left %d lines", len(s.lines))
	}

	if _, done := s.handle("bye"); !done {
		t.Error("BYE did not end the session")
	}
}

func TestSessionListNormalizes(t *testing.T) {
	s := newSession(compiler.Options{Quiet: true})
	s.handle("10 for i = 1 to 3 : print i; : next")
	s.handle("20 this is not basic")

	out, _ := s.handle("LIST")
	want := "10 FOR i=1 TO 3:PRINT i;:NEXT\n20 this is not basic\n"
	if out != want {
		t.Errorf("LIST = %q, want %q", out, want)
	}
}

func TestSessionDirectLine(t *testing.T) {
	s := newSession(compiler.Options{Quiet: true, NoOuterFrame: true})
	s.handle("10 a=1")

	out, done := s.handle("PRINT a")
	if done {
		t.Fatal("direct line ended the session")
	}
	if !strings.Contains(out, `case "direct": o.l = "direct"; o.print(0, v.a, "\r\n");`) {
		t.Errorf("direct line output = %q", out)
	}

	out, _ = s.handle("GOTO 99")
	if !strings.HasPrefix(out, "Line does not exist") {
		t.Errorf("error output = %q", out)
	}

	out, _ = s.handle("compile")
	if strings.Contains(out, "direct") {
		t.Errorf("COMPILE included a direct line: %q", out)
	}
}

func TestSplitLineNumber(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		body string
		ok   bool
	}{
		{"10 PRINT", 10, "PRINT", true},
		{"20", 20, "", true},
		{"PRINT 10", 0, "", false},
		{"99999999999999999999 END", 0, "", false},
	}
	for _, tt := range tests {
		n, body, ok := splitLineNumber(tt.in)
		if n != tt.n || body != tt.body || ok != tt.ok {
			t.Errorf("splitLineNumber(%q) = %d, %q, %v; want %d, %q, %v", tt.in, n, body, ok, tt.n, tt.body, tt.ok)
		}
	}
}

func TestCompileCached(t *testing.T) {
	dir := t.TempDir()
	opts := compiler.Options{Quiet: true}

	first, err := compileCached(dir, "10 GOTO 10", opts)
	if err != nil {
		t.Fatalf("compileCached error = %v", err)
	}
	path := filepath.Join(dir, compiler.Fingerprint("10 GOTO 10", opts)+".js")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}
	if string(data) != first {
		t.Error("cache entry differs from compiled text")
	}

	// a cached entry is returned as it is
	if err := os.WriteFile(path, []byte("cached"), 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := compileCached(dir, "10 GOTO 10", opts)
	if err != nil || second != "cached" {
		t.Errorf("compileCached = %q, %v; want cached entry", second, err)
	}

	if _, err := compileCached(dir, "10 GOTO 20", opts); err == nil {
		t.Error("compile error not reported")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("cache holds %d entries, want 1", len(entries))
	}
}

func TestSplitFilters(t *testing.T) {
	if got := splitFilters(""); got != nil {
		t.Errorf("splitFilters(\"\") = %v", got)
	}
	got := splitFilters("1*, 200")
	if len(got) != 2 || got[0] != "1*" || got[1] != "200" {
		t.Errorf("splitFilters = %v", got)
	}
}
