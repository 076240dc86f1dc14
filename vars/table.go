// Package vars keeps track of the variables a compiled program touches and
// maps BASIC variable names onto names that are valid in the generated code.
package vars

import (
	"sort"
	"strings"

	"cpcbasic/types"
)

// Table records declared variables by mangled name.
// A Table belongs to one compilation and is not safe for concurrent use.
type Table struct {
	vars map[string]types.TypeTag
}

// NewTable creates an empty variable table
func NewTable() *Table {
	return &Table{vars: make(map[string]types.TypeTag)}
}

// DeclareIfAbsent records a mangled variable name. It returns true when
// the name was not known before.
func (t *Table) DeclareIfAbsent(name string) bool {
	if _, ok := t.vars[name]; ok {
		return false
	}
	t.vars[name] = typeOfMangled(name)
	return true
}

// Len returns the number of declared variables
func (t *Table) Len() int {
	return len(t.vars)
}

// Names returns the declared mangled names in sorted order
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.vars))
	for name := range t.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StaticTypeOf returns the type of a mangled variable name: the type it
// was declared with, or the type its sigil implies when it is not in the
// table. Names without a sigil are typed at runtime by DEFINT, DEFREAL
// and DEFSTR, so they are TYPE_UNKNOWN here.
func (t *Table) StaticTypeOf(name string) types.TypeTag {
	if typ, ok := t.vars[name]; ok {
		return typ
	}
	return typeOfMangled(name)
}

// typeOfMangled recovers the static type from a mangled name
func typeOfMangled(name string) types.TypeTag {
	base := strings.TrimRight(name, "A")
	// shadow variables of FOR loops share the loop variable's type
	base = strings.TrimSuffix(strings.TrimSuffix(base, "End"), "Step")
	if base == "" {
		return types.TYPE_UNKNOWN
	}
	switch base[len(base)-1] {
	case 'I':
		return types.TYPE_INT
	case 'R':
		return types.TYPE_REAL
	case '$':
		return types.TYPE_STR
	}
	return types.TYPE_UNKNOWN
}

// Mangle converts a BASIC variable name into its generated form:
// lower-case, dots folded to underscores, % and ! mapped to I and R,
// $ kept, and one A appended per array dimension.
//
//	Mangle("A%", 0)    == "aI"
//	Mangle("b.c$", 2)  == "b_c$AA"
func Mangle(name string, dims int) string {
	var sb strings.Builder
	sb.Grow(len(name) + dims)
	for i := 0; i < len(name); i++ {
		ch := name[i]
		switch {
		case ch == '.':
			sb.WriteByte('_')
		case ch == '%':
			sb.WriteByte('I')
		case ch == '!':
			sb.WriteByte('R')
		case 'A' <= ch && ch <= 'Z':
			sb.WriteByte(ch + ('a' - 'A'))
		default:
			sb.WriteByte(ch)
		}
	}
	for i := 0; i < dims; i++ {
		sb.WriteByte('A')
	}
	return sb.String()
}

// reserved lists host-language words that cannot be used as bare
// parameter names
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "static": true,
	"await": true, "o": true, "v": true,
}

// ParamName mangles a DEF FN parameter. Parameters are emitted as bare
// identifiers, so names that collide with reserved words or with the
// runtime and variable objects get a trailing underscore.
func ParamName(name string) string {
	mangled := Mangle(name, 0)
	if reserved[mangled] {
		mangled += "_"
	}
	return mangled
}
