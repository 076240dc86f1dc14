package types

import (
	"errors"
	"strings"
)

// ErrType is returned when an operator is applied to an illegal
// combination of operand types
var ErrType = errors.New("type error")

// Rule describes which operand types an operator accepts and what it yields.
//
// Pairs lists the legal combinations as space separated codes, two
// characters for binary operators ("II RR IR RI $$") and one for unary
// operators ("I R"). Result forces the result type; when it is
// TYPE_UNKNOWN the result follows the operands (equal types keep their
// type, mixed numeric types widen to TYPE_REAL). Round marks operators
// whose operands are rounded to the nearest integer first.
type Rule struct {
	Pairs  string
	Result TypeTag
	Round  bool
}

// Operator rules
var (
	RulePlus    = Rule{Pairs: "II RR IR RI $$"}
	RuleArith   = Rule{Pairs: "II RR IR RI"}
	RuleDivide  = Rule{Pairs: "II RR IR RI", Result: TYPE_REAL}
	RulePower   = Rule{Pairs: "II RR IR RI", Result: TYPE_REAL}
	RuleInteger = Rule{Pairs: "II RR IR RI", Result: TYPE_INT, Round: true}
	RuleCompare = Rule{Pairs: "II RR IR RI $$", Result: TYPE_INT}

	RuleSign    = Rule{Pairs: "I R"}
	RuleNot     = Rule{Pairs: "I R", Result: TYPE_INT, Round: true}
	RuleAddress = Rule{Pairs: "I R $", Result: TYPE_INT}
)

// allows reports whether the code combination appears in the pair list.
// An empty code matches any character at that position.
func (r Rule) allows(left, right string) bool {
	for _, pair := range strings.Fields(r.Pairs) {
		if len(pair) != 2 {
			continue
		}
		if (left == "" || pair[:1] == left) && (right == "" || pair[1:] == right) {
			return true
		}
	}
	return false
}

// Propagate computes the result type of a binary operator from the static
// types of its operands. It has no side effects besides returning ErrType
// for illegal combinations.
func Propagate(rule Rule, left, right TypeTag) (TypeTag, error) {
	if !rule.allows(left.Code(), right.Code()) {
		return TYPE_UNKNOWN, ErrType
	}
	if rule.Result != TYPE_UNKNOWN {
		return rule.Result, nil
	}

	switch {
	case left.IsKnown() && right.IsKnown():
		if left == right {
			return left, nil
		}
		return TYPE_REAL, nil
	case left == TYPE_STR || right == TYPE_STR:
		return TYPE_STR, nil
	case left == TYPE_REAL || right == TYPE_REAL:
		// real combined with any number stays real
		return TYPE_REAL, nil
	default:
		// an untyped operand may hold a real at runtime, so an integer on
		// the other side decides nothing
		return TYPE_UNKNOWN, nil
	}
}

// PropagateUnary computes the result type of a unary operator
func PropagateUnary(rule Rule, operand TypeTag) (TypeTag, error) {
	if operand.IsKnown() {
		legal := false
		for _, code := range strings.Fields(rule.Pairs) {
			if code == operand.Code() {
				legal = true
				break
			}
		}
		if !legal {
			return TYPE_UNKNOWN, ErrType
		}
	}
	if rule.Result != TYPE_UNKNOWN {
		return rule.Result, nil
	}
	return operand, nil
}

// NeedsRound reports whether an operand of the given type must pass
// through the rounding wrapper for this rule
func (r Rule) NeedsRound(operand TypeTag) bool {
	return r.Round && operand != TYPE_INT
}

// CheckAssign verifies that a value of type value may be stored in a
// target of type target. Unknown types on either side are deferred to
// the runtime.
func CheckAssign(target, value TypeTag) error {
	if !target.IsKnown() || !value.IsKnown() {
		return nil
	}
	if (target == TYPE_STR) != (value == TYPE_STR) {
		return ErrType
	}
	return nil
}
