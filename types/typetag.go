package types

// TypeTag is the static value category of a BASIC expression
type TypeTag int

const (
	TYPE_UNKNOWN TypeTag = iota // decided at runtime (DEFINT/DEFREAL/DEFSTR)
	TYPE_INT
	TYPE_REAL
	TYPE_STR
)

// String returns the string representation of the type tag
func (t TypeTag) String() string {
	switch t {
	case TYPE_INT:
		return "INT"
	case TYPE_REAL:
		return "REAL"
	case TYPE_STR:
		return "STR"
	default:
		return "UNKNOWN"
	}
}

// Code returns the one-letter code used in legality tables ("" when unknown)
func (t TypeTag) Code() string {
	switch t {
	case TYPE_INT:
		return "I"
	case TYPE_REAL:
		return "R"
	case TYPE_STR:
		return "$"
	default:
		return ""
	}
}

// IsKnown returns true if the tag is statically resolved
func (t TypeTag) IsKnown() bool {
	return t != TYPE_UNKNOWN
}

// IsNumeric returns true for TYPE_INT and TYPE_REAL
func (t TypeTag) IsNumeric() bool {
	return t == TYPE_INT || t == TYPE_REAL
}

// FromSigil maps a BASIC type sigil to its tag.
// '%' is integer, '!' is real, '$' is string; anything else is unknown.
func FromSigil(sigil byte) TypeTag {
	switch sigil {
	case '%':
		return TYPE_INT
	case '!':
		return TYPE_REAL
	case '$':
		return TYPE_STR
	default:
		return TYPE_UNKNOWN
	}
}
