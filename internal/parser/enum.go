package parser

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/julianshen/dotnetdocs/internal/symbols"
)

// enumEvaluator computes enum member values in declaration order. Members
// without an initializer take the previous value plus one; initializers may
// combine literals and earlier members with | & ^ << >> + - * and ~.
type enumEvaluator struct {
	underlying string
	known      map[string]int64
	last       int64
	lastOK     bool
	started    bool
}

func newEnumEvaluator(underlying string) *enumEvaluator {
	return &enumEvaluator{underlying: underlying, known: map[string]int64{}}
}

// next returns the decimal value of member name. When the value cannot be
// computed the initializer text is returned with ok false.
func (ev *enumEvaluator) next(name string, init *sitter.Node, source []byte) (string, bool) {
	var v int64
	ok := true
	switch {
	case init != nil:
		v, ok = ev.eval(init, source)
	case !ev.started:
		v = 0
	case ev.lastOK:
		v = ev.last + 1
	default:
		ok = false
	}
	ev.started = true
	ev.last, ev.lastOK = v, ok
	if !ok {
		if init != nil {
			return strings.Join(strings.Fields(init.Content(source)), " "), false
		}
		return "", false
	}
	ev.known[name] = v
	return formatEnumValue(v, ev.underlying), true
}

func (ev *enumEvaluator) eval(n *sitter.Node, source []byte) (int64, bool) {
	if n == nil {
		return 0, false
	}
	switch n.Type() {
	case "integer_literal":
		u, ok := symbols.IntegerLiteral(n.Content(source))
		return int64(u), ok
	case "identifier":
		v, ok := ev.known[n.Content(source)]
		return v, ok
	case "member_access_expression":
		name := n.ChildByFieldName("name")
		if name == nil {
			return 0, false
		}
		v, ok := ev.known[name.Content(source)]
		return v, ok
	case "parenthesized_expression", "checked_expression", "unchecked_expression":
		return ev.eval(lastNamed(n), source)
	case "cast_expression":
		return ev.eval(n.ChildByFieldName("value"), source)
	case "prefix_unary_expression":
		operand := n.ChildByFieldName("operand")
		if operand == nil {
			operand = lastNamed(n)
		}
		v, ok := ev.eval(operand, source)
		if !ok {
			return 0, false
		}
		switch n.Child(0).Type() {
		case "~":
			return ^v, true
		case "-":
			return -v, true
		case "+":
			return v, true
		}
		return 0, false
	case "binary_expression":
		left, lok := ev.eval(n.ChildByFieldName("left"), source)
		right, rok := ev.eval(n.ChildByFieldName("right"), source)
		if !lok || !rok {
			return 0, false
		}
		op := n.ChildByFieldName("operator")
		if op == nil && n.ChildCount() > 2 {
			op = n.Child(1)
		}
		if op == nil {
			return 0, false
		}
		switch op.Type() {
		case "|":
			return left | right, true
		case "&":
			return left & right, true
		case "^":
			return left ^ right, true
		case "<<":
			return left << uint(right), true
		case ">>":
			return left >> uint(right), true
		case "+":
			return left + right, true
		case "-":
			return left - right, true
		case "*":
			return left * right, true
		}
	}
	return 0, false
}

func lastNamed(n *sitter.Node) *sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(int(n.NamedChildCount()) - 1)
}

// formatEnumValue renders v in decimal, wrapped to the width and signedness
// of the enum's underlying type.
func formatEnumValue(v int64, underlying string) string {
	switch strings.TrimPrefix(underlying, "System.") {
	case "byte", "Byte":
		return strconv.FormatUint(uint64(uint8(v)), 10)
	case "sbyte", "SByte":
		return strconv.FormatInt(int64(int8(v)), 10)
	case "short", "Int16":
		return strconv.FormatInt(int64(int16(v)), 10)
	case "ushort", "UInt16":
		return strconv.FormatUint(uint64(uint16(v)), 10)
	case "uint", "UInt32":
		return strconv.FormatUint(uint64(uint32(v)), 10)
	case "long", "Int64":
		return strconv.FormatInt(v, 10)
	case "ulong", "UInt64":
		return strconv.FormatUint(uint64(v), 10)
	}
	return strconv.FormatInt(int64(int32(v)), 10)
}
