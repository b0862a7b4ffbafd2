package molt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/juju/errors"
)

// Kind tags which field of a Value is populated.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindList
	KindFunction
	KindBuiltin
)

// Number preserves whether a numeric value was produced as an integer or
// a float, so printing round-trips "3" vs "3.0"-style distinctions, while
// every arithmetic operation promotes operands as needed.
type Number struct {
	IsFloat bool
	I       int64
	F       float64
}

func IntNumber(i int64) Number     { return Number{I: i} }
func FloatNumber(f float64) Number { return Number{IsFloat: true, F: f} }

func (n Number) AsFloat() float64 {
	if n.IsFloat {
		return n.F
	}
	return float64(n.I)
}

func (n Number) IsZero() bool {
	if n.IsFloat {
		return n.F == 0
	}
	return n.I == 0
}

func (n Number) String() string {
	if n.IsFloat {
		s := strconv.FormatFloat(n.F, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatInt(n.I, 10)
}

// Value is a plain, non-pointer tagged union. Copying a Value is a
// struct copy: Number and String fields copy independently, while the
// List field is a pointer whose pointee is shared, giving list values
// copy-on-assign reference semantics for free.
type Value struct {
	Kind    Kind
	num     Number
	str     string
	list    *List
	fn      *Function
	builtin *Builtin

	Span Span
	Ctx  *Context
}

func NumberValue(n Number) Value      { return Value{Kind: KindNumber, num: n} }
func StringValue(s string) Value      { return Value{Kind: KindString, str: s} }
func ListValue(l *List) Value         { return Value{Kind: KindList, list: l} }
func FunctionValue(f *Function) Value { return Value{Kind: KindFunction, fn: f} }
func BuiltinValue(b *Builtin) Value   { return Value{Kind: KindBuiltin, builtin: b} }

var (
	Null  = NumberValue(IntNumber(0))
	True  = NumberValue(IntNumber(1))
	False = NumberValue(IntNumber(0))
)

func (v Value) Number() Number      { return v.num }
func (v Value) Text() string        { return v.str }
func (v Value) List() *List         { return v.list }
func (v Value) Function() *Function { return v.fn }
func (v Value) Builtin() *Builtin   { return v.builtin }

func (v Value) WithPos(span Span, ctx *Context) Value {
	v.Span = span
	v.Ctx = ctx
	return v
}

// IsCallable reports whether the value can appear as a Call's callee.
func (v Value) IsCallable() bool {
	return v.Kind == KindFunction || v.Kind == KindBuiltin
}

// IsTrue implements the truthiness table in §4.3: Number is true if
// non-zero, String is true if non-empty, List is true if non-empty.
// Function/Builtin values are always true.
func (v Value) IsTrue() bool {
	switch v.Kind {
	case KindNumber:
		return !v.num.IsZero()
	case KindString:
		return v.str != ""
	case KindList:
		return v.list != nil && len(v.list.Elements) > 0
	default:
		return true
	}
}

// Display renders a value the way it appears nested inside a list
// literal's printed form: strings are quoted.
func (v Value) Display() string {
	if v.Kind == KindString {
		return strconv.Quote(v.str)
	}
	return v.String()
}

// String renders a value the way print/print_ret render it at the top
// level: strings are bare, lists render their elements with Display so
// a list of strings still shows quotes around each element.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return v.num.String()
	case KindString:
		return v.str
	case KindList:
		parts := make([]string, len(v.list.Elements))
		for i, e := range v.list.Elements {
			parts[i] = e.Display()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.fn.displayName())
	case KindBuiltin:
		return fmt.Sprintf("<built-in function %s>", v.builtin.Name)
	default:
		return "<unknown>"
	}
}

func illegalOp(op string, left, right Value, span Span) error {
	return NewRuntimeError(span, nil,
		errors.Errorf("illegal operation: %s %s %s", kindName(left.Kind), op, kindName(right.Kind)))
}

func kindName(k Kind) string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindFunction:
		return "Function"
	case KindBuiltin:
		return "BuiltInFunction"
	default:
		return "?"
	}
}

func numericBinary(op TokenKind, a, b Number) Number {
	bothInt := !a.IsFloat && !b.IsFloat
	switch op {
	case TokPlus:
		if bothInt {
			return IntNumber(a.I + b.I)
		}
		return FloatNumber(a.AsFloat() + b.AsFloat())
	case TokMinus:
		if bothInt {
			return IntNumber(a.I - b.I)
		}
		return FloatNumber(a.AsFloat() - b.AsFloat())
	case TokMul:
		if bothInt {
			return IntNumber(a.I * b.I)
		}
		return FloatNumber(a.AsFloat() * b.AsFloat())
	case TokPower:
		if bothInt && b.I >= 0 {
			r := int64(1)
			for i := int64(0); i < b.I; i++ {
				r *= a.I
			}
			return IntNumber(r)
		}
		return FloatNumber(math.Pow(a.AsFloat(), b.AsFloat()))
	}
	return Number{}
}

func numericCompare(op TokenKind, a, b Number) bool {
	af, bf := a.AsFloat(), b.AsFloat()
	switch op {
	case TokEqEq:
		return af == bf
	case TokNotEq:
		return af != bf
	case TokLt:
		return af < bf
	case TokGt:
		return af > bf
	case TokLte:
		return af <= bf
	case TokGte:
		return af >= bf
	}
	return false
}

func boolNumber(b bool) Value {
	if b {
		return NumberValue(IntNumber(1))
	}
	return NumberValue(IntNumber(0))
}

// applyBinary implements the operator table in spec.md §4.3: it switches
// on (left.Kind, op, right.Kind) and returns IllegalOperation for any
// combination not in the table, with no per-type dispatch methods.
func applyBinary(left Value, op TokenKind, opKeyword string, right Value, span Span) (Value, error) {
	switch {
	case left.Kind == KindNumber && right.Kind == KindNumber:
		switch op {
		case TokPlus, TokMinus, TokMul, TokPower:
			return NumberValue(numericBinary(op, left.num, right.num)), nil
		case TokDiv:
			if right.num.IsZero() {
				return Value{}, NewRuntimeError(span, nil, errors.New("division by zero"))
			}
			return NumberValue(FloatNumber(left.num.AsFloat() / right.num.AsFloat())), nil
		case TokEqEq, TokNotEq, TokLt, TokGt, TokLte, TokGte:
			return boolNumber(numericCompare(op, left.num, right.num)), nil
		case TokKeyword:
			switch opKeyword {
			case "and":
				return boolNumber(left.IsTrue() && right.IsTrue()), nil
			case "or":
				return boolNumber(left.IsTrue() || right.IsTrue()), nil
			}
		}

	case left.Kind == KindString && right.Kind == KindString:
		if op == TokPlus {
			return StringValue(left.str + right.str), nil
		}

	case left.Kind == KindString && right.Kind == KindNumber:
		if op == TokMul {
			n := right.num
			if n.IsFloat || n.I < 0 {
				return Value{}, NewRuntimeError(span, nil, errors.New("string repeat count must be a non-negative integer"))
			}
			return StringValue(strings.Repeat(left.str, int(n.I))), nil
		}

	case left.Kind == KindList:
		switch op {
		case TokPlus:
			elems := append(append([]Value{}, left.list.Elements...), right)
			return ListValue(NewList(elems)), nil
		case TokMinus:
			if right.Kind == KindNumber {
				idx, err := listIndex(left.list, right.num, span)
				if err != nil {
					return Value{}, err
				}
				elems := append([]Value{}, left.list.Elements[:idx]...)
				elems = append(elems, left.list.Elements[idx+1:]...)
				return ListValue(NewList(elems)), nil
			}
		case TokMul:
			if right.Kind == KindList {
				elems := append(append([]Value{}, left.list.Elements...), right.list.Elements...)
				return ListValue(NewList(elems)), nil
			}
		case TokDiv:
			if right.Kind == KindNumber {
				idx, err := listIndex(left.list, right.num, span)
				if err != nil {
					return Value{}, err
				}
				return left.list.Elements[idx], nil
			}
		}
	}

	return Value{}, illegalOp(opDisplay(op, opKeyword), left, right, span)
}

func listIndex(l *List, n Number, span Span) (int, error) {
	if n.IsFloat {
		return 0, NewRuntimeError(span, nil, errors.New("list index must be an integer"))
	}
	idx := int(n.I)
	if idx < 0 || idx >= len(l.Elements) {
		return 0, NewRuntimeError(span, nil, errors.New("list index out of range"))
	}
	return idx, nil
}

func opDisplay(op TokenKind, opKeyword string) string {
	if op == TokKeyword {
		return opKeyword
	}
	return op.String()
}

// applyUnary implements unary '+'/'-'/'not'. '-x' is 'x * -1'; 'not x'
// flips truthiness to 0/1, matching the original's Number.notted().
func applyUnary(op TokenKind, opKeyword string, operand Value, span Span) (Value, error) {
	if op == TokKeyword && opKeyword == "not" {
		if operand.Kind != KindNumber {
			return Value{}, illegalOp("not", operand, operand, span)
		}
		return boolNumber(operand.num.IsZero()), nil
	}
	if operand.Kind != KindNumber {
		return Value{}, illegalOp(opDisplay(op, opKeyword), operand, operand, span)
	}
	switch op {
	case TokMinus:
		return applyBinary(operand, TokMul, "", NumberValue(IntNumber(-1)), span)
	case TokPlus:
		return operand, nil
	}
	return Value{}, illegalOp(opDisplay(op, opKeyword), operand, operand, span)
}
