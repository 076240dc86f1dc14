package types

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestPropagate(t *testing.T) {
	tests := []struct {
		name        string
		rule        Rule
		left, right TypeTag
		want        TypeTag
		wantErr     bool
	}{
		{"int plus int", RulePlus, TYPE_INT, TYPE_INT, TYPE_INT, false},
		{"int plus real", RulePlus, TYPE_INT, TYPE_REAL, TYPE_REAL, false},
		{"real plus int", RulePlus, TYPE_REAL, TYPE_INT, TYPE_REAL, false},
		{"string concat", RulePlus, TYPE_STR, TYPE_STR, TYPE_STR, false},
		{"string plus int", RulePlus, TYPE_STR, TYPE_INT, TYPE_UNKNOWN, true},
		{"string plus unknown", RulePlus, TYPE_STR, TYPE_UNKNOWN, TYPE_STR, false},
		{"unknown plus real", RulePlus, TYPE_UNKNOWN, TYPE_REAL, TYPE_REAL, false},
		{"unknown plus int stays unknown", RulePlus, TYPE_UNKNOWN, TYPE_INT, TYPE_UNKNOWN, false},
		{"both unknown", RulePlus, TYPE_UNKNOWN, TYPE_UNKNOWN, TYPE_UNKNOWN, false},
		{"string minus", RuleArith, TYPE_STR, TYPE_STR, TYPE_UNKNOWN, true},
		{"string minus unknown", RuleArith, TYPE_UNKNOWN, TYPE_STR, TYPE_UNKNOWN, true},
		{"int divide int", RuleDivide, TYPE_INT, TYPE_INT, TYPE_REAL, false},
		{"int power int", RulePower, TYPE_INT, TYPE_INT, TYPE_REAL, false},
		{"real mod int", RuleInteger, TYPE_REAL, TYPE_INT, TYPE_INT, false},
		{"unknown and unknown", RuleInteger, TYPE_UNKNOWN, TYPE_UNKNOWN, TYPE_INT, false},
		{"string and", RuleInteger, TYPE_STR, TYPE_INT, TYPE_UNKNOWN, true},
		{"compare strings", RuleCompare, TYPE_STR, TYPE_STR, TYPE_INT, false},
		{"compare numbers", RuleCompare, TYPE_REAL, TYPE_INT, TYPE_INT, false},
		{"compare mixed", RuleCompare, TYPE_STR, TYPE_REAL, TYPE_UNKNOWN, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Propagate(tt.rule, tt.left, tt.right)
			if tt.wantErr {
				be.Err(t, err, ErrType)
				return
			}
			be.Err(t, err, nil)
			be.Equal(t, got, tt.want)
		})
	}
}

func TestPropagateUnary(t *testing.T) {
	got, err := PropagateUnary(RuleSign, TYPE_REAL)
	be.Err(t, err, nil)
	be.Equal(t, got, TYPE_REAL)

	got, err = PropagateUnary(RuleNot, TYPE_REAL)
	be.Err(t, err, nil)
	be.Equal(t, got, TYPE_INT)

	got, err = PropagateUnary(RuleSign, TYPE_UNKNOWN)
	be.Err(t, err, nil)
	be.Equal(t, got, TYPE_UNKNOWN)

	_, err = PropagateUnary(RuleSign, TYPE_STR)
	be.Err(t, err, ErrType)

	got, err = PropagateUnary(RuleAddress, TYPE_STR)
	be.Err(t, err, nil)
	be.Equal(t, got, TYPE_INT)
}

func TestNeedsRound(t *testing.T) {
	be.True(t, RuleInteger.NeedsRound(TYPE_REAL))
	be.True(t, RuleInteger.NeedsRound(TYPE_UNKNOWN))
	be.True(t, !RuleInteger.NeedsRound(TYPE_INT))
	be.True(t, !RulePlus.NeedsRound(TYPE_REAL))
}

func TestCheckAssign(t *testing.T) {
	be.Err(t, CheckAssign(TYPE_STR, TYPE_INT), ErrType)
	be.Err(t, CheckAssign(TYPE_INT, TYPE_STR), ErrType)
	be.Err(t, CheckAssign(TYPE_INT, TYPE_REAL), nil)
	be.Err(t, CheckAssign(TYPE_UNKNOWN, TYPE_STR), nil)
	be.Err(t, CheckAssign(TYPE_STR, TYPE_UNKNOWN), nil)
}

func TestTypeTagCodes(t *testing.T) {
	tests := []struct {
		tag  TypeTag
		code string
		name string
	}{
		{TYPE_UNKNOWN, "", "UNKNOWN"},
		{TYPE_INT, "I", "INT"},
		{TYPE_REAL, "R", "REAL"},
		{TYPE_STR, "$", "STR"},
	}
	for _, tt := range tests {
		if tt.tag.Code() != tt.code {
			t.Errorf("%s.Code() = %q, want %q", tt.name, tt.tag.Code(), tt.code)
		}
		if tt.tag.String() != tt.name {
			t.Errorf("String() = %s, want %s", tt.tag.String(), tt.name)
		}
	}
	be.Equal(t, FromSigil('%'), TYPE_INT)
	be.Equal(t, FromSigil('!'), TYPE_REAL)
	be.Equal(t, FromSigil('$'), TYPE_STR)
	be.Equal(t, FromSigil('a'), TYPE_UNKNOWN)
}
