// Package condition evaluates the small expression grammar allowed in
// template `when:` conditions: comparisons, membership tests and boolean
// combinators over literals and `$variable` references. Expressions are
// parsed into a tagged expression tree and evaluated directly; no
// general-purpose interpreter is involved.
//
// Grammar:
//
//	expr       := or
//	or         := and ("or" and)*
//	and        := unary ("and" unary)*
//	unary      := "not" unary | comparison
//	comparison := operand (compareOp operand | ["not"] "in" operand)?
//	compareOp  := "==" | "!=" | "<" | "<=" | ">" | ">="
//	operand    := string | number | "true" | "false" | "$name" | list | "(" expr ")"
//	list       := "[" [operand ("," operand)*] "]"
package condition

import (
	"fmt"
	"strconv"
	"strings"

	errUtils "github.com/packmeta/packmeta/errors"
)

// Expr is a parsed condition expression.
type Expr interface {
	eval(vars map[string]string) (value, error)
}

// Parse compiles a condition expression. The zero-value empty string is not a
// valid expression.
func Parse(input string) (Expr, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("%w: unexpected token %q", errUtils.ErrConditionSyntax, p.peek().text)
	}
	return expr, nil
}

// Eval parses and evaluates an expression against a variable context. The
// result of a non-boolean expression is an error, never a truthiness guess.
func Eval(input string, vars map[string]string) (bool, error) {
	expr, err := Parse(input)
	if err != nil {
		return false, err
	}
	return EvalExpr(expr, vars)
}

// EvalExpr evaluates a previously parsed expression.
func EvalExpr(expr Expr, vars map[string]string) (bool, error) {
	v, err := expr.eval(vars)
	if err != nil {
		return false, err
	}
	b, ok := v.(boolValue)
	if !ok {
		return false, fmt.Errorf("%w: expression does not evaluate to a boolean", errUtils.ErrConditionEval)
	}
	return bool(b), nil
}

// value is the runtime value domain: strings, numbers, booleans and lists.
type value interface{ isValue() }

type stringValue string
type numberValue float64
type boolValue bool
type listValue []value

func (stringValue) isValue() {}
func (numberValue) isValue() {}
func (boolValue) isValue()   {}
func (listValue) isValue()   {}

// Expression tree nodes, one tag per grammar production.

type literalNode struct{ v value }

type varNode struct{ name string }

type listNode struct{ items []Expr }

type notNode struct{ operand Expr }

type boolNode struct {
	op    string // "and" | "or"
	left  Expr
	right Expr
}

type compareNode struct {
	op    string // "==" | "!=" | "<" | "<=" | ">" | ">="
	left  Expr
	right Expr
}

type membershipNode struct {
	negated bool
	needle  Expr
	hay     Expr
}

func (n literalNode) eval(map[string]string) (value, error) { return n.v, nil }

func (n varNode) eval(vars map[string]string) (value, error) {
	raw, ok := vars[n.name]
	if !ok {
		// Unresolved variables compare as their literal token text, mirroring
		// the substitutor's leave-it-literal stance.
		return stringValue("$" + n.name), nil
	}
	return stringValue(raw), nil
}

func (n listNode) eval(vars map[string]string) (value, error) {
	items := make(listValue, len(n.items))
	for i, item := range n.items {
		v, err := item.eval(vars)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return items, nil
}

func (n notNode) eval(vars map[string]string) (value, error) {
	v, err := n.operand.eval(vars)
	if err != nil {
		return nil, err
	}
	b, ok := v.(boolValue)
	if !ok {
		return nil, fmt.Errorf("%w: operand of 'not' is not a boolean", errUtils.ErrConditionEval)
	}
	return !b, nil
}

func (n boolNode) eval(vars map[string]string) (value, error) {
	left, err := n.left.eval(vars)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(boolValue)
	if !ok {
		return nil, fmt.Errorf("%w: operand of %q is not a boolean", errUtils.ErrConditionEval, n.op)
	}

	// Short-circuit.
	if n.op == "and" && !lb {
		return boolValue(false), nil
	}
	if n.op == "or" && bool(lb) {
		return boolValue(true), nil
	}

	right, err := n.right.eval(vars)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(boolValue)
	if !ok {
		return nil, fmt.Errorf("%w: operand of %q is not a boolean", errUtils.ErrConditionEval, n.op)
	}
	return rb, nil
}

func (n compareNode) eval(vars map[string]string) (value, error) {
	left, err := n.left.eval(vars)
	if err != nil {
		return nil, err
	}
	right, err := n.right.eval(vars)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return boolValue(valuesEqual(left, right)), nil
	case "!=":
		return boolValue(!valuesEqual(left, right)), nil
	}

	// Ordering operators require two numbers or two strings.
	if ln, lok := asNumber(left); lok {
		if rn, rok := asNumber(right); rok {
			return boolValue(compareOrdered(n.op, ln, rn)), nil
		}
	}
	ls, lok := left.(stringValue)
	rs, rok := right.(stringValue)
	if lok && rok {
		return boolValue(compareOrderedStrings(n.op, string(ls), string(rs))), nil
	}
	return nil, fmt.Errorf("%w: operands of %q are not comparable", errUtils.ErrConditionEval, n.op)
}

func (n membershipNode) eval(vars map[string]string) (value, error) {
	needle, err := n.needle.eval(vars)
	if err != nil {
		return nil, err
	}
	hay, err := n.hay.eval(vars)
	if err != nil {
		return nil, err
	}

	var found bool
	switch h := hay.(type) {
	case listValue:
		for _, item := range h {
			if valuesEqual(needle, item) {
				found = true
				break
			}
		}
	case stringValue:
		ns, ok := needle.(stringValue)
		if !ok {
			return nil, fmt.Errorf("%w: membership in a string requires a string operand", errUtils.ErrConditionEval)
		}
		found = strings.Contains(string(h), string(ns))
	default:
		return nil, fmt.Errorf("%w: right operand of 'in' must be a list or string", errUtils.ErrConditionEval)
	}

	if n.negated {
		found = !found
	}
	return boolValue(found), nil
}

// valuesEqual compares two values, allowing a string that parses as a number
// to equal that number ("8080" == 8080), since variable context values are
// always strings.
func valuesEqual(a value, b value) bool {
	if an, ok := asNumber(a); ok {
		if bn, bok := asNumber(b); bok {
			return an == bn
		}
	}
	switch av := a.(type) {
	case stringValue:
		bv, ok := b.(stringValue)
		return ok && av == bv
	case boolValue:
		bv, ok := b.(boolValue)
		return ok && av == bv
	case listValue:
		bv, ok := b.(listValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func asNumber(v value) (float64, bool) {
	switch typed := v.(type) {
	case numberValue:
		return float64(typed), true
	case stringValue:
		f, err := strconv.ParseFloat(string(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func compareOrdered(op string, a float64, b float64) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}

func compareOrderedStrings(op string, a string, b string) bool {
	switch op {
	case "<":
		return a < b
	case "<=":
		return a <= b
	case ">":
		return a > b
	default:
		return a >= b
	}
}
