package lang

import (
	"math"
	"strconv"
	"strings"
)

// Kind classifies a runtime value.
type Kind int

const (
	KindAbsent Kind = iota
	KindNumber
	KindBool
	KindString
	KindSequence
	KindClosure
	KindNative
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "Absent"

	case KindNumber:
		return "Number"

	case KindBool:
		return "Bool"

	case KindString:
		return "String"

	case KindSequence:
		return "Sequence"

	case KindClosure:
		return "Closure"

	case KindNative:
		return "Native"

	default:
		return "Unknown"
	}
}

// Value is a runtime value. The absent value is a nil Value.
//
// The set of implementations is closed to the types in this file.
type Value interface {
	Kind() Kind
}

// Number is an IEEE-754 double.
type Number float64

// Bool is a boolean.
type Bool bool

// String is a text value.
type String string

// Sequence is an ordered, mutable list of values.
// Sequences are shared by reference; pop mutates them in place.
type Sequence struct {
	Items []Value
}

// NewSequence returns a sequence holding items.
func NewSequence(items ...Value) *Sequence {
	if items == nil {
		items = []Value{}
	}

	return &Sequence{Items: items}
}

// Len returns the number of items.
func (s *Sequence) Len() int { return len(s.Items) }

// Closure is a user function together with the scope it was created in.
type Closure struct {
	Params []string
	Body   *Block
	Scope  Scope
}

// NativeFunc implements a built-in. It receives exactly the arguments
// consumed by one application.
type NativeFunc func(c Caller, args []Value) (Value, error)

// Native is a built-in function.
type Native struct {
	Name  string
	Arity int
	Fn    NativeFunc
}

func (Number) Kind() Kind    { return KindNumber }
func (Bool) Kind() Kind      { return KindBool }
func (String) Kind() Kind    { return KindString }
func (*Sequence) Kind() Kind { return KindSequence }
func (*Closure) Kind() Kind  { return KindClosure }
func (*Native) Kind() Kind   { return KindNative }

func kindOf(v Value) Kind {
	if v == nil {
		return KindAbsent
	}

	return v.Kind()
}

// IsCallable reports whether v may be applied to arguments.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *Closure, *Native:
		return true
	}

	return false
}

// arity returns the number of parameters a callable declares.
func arity(v Value) int {
	switch fn := v.(type) {
	case *Closure:
		return len(fn.Params)

	case *Native:
		return fn.Arity
	}

	return 0
}

// Truthy reports whether v counts as true for the ! operator.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false

	case Bool:
		return bool(x)

	case Number:
		return x != 0 && !math.IsNaN(float64(x))

	case String:
		return x != ""

	case *Sequence:
		return len(x.Items) > 0
	}

	return true
}

// Equal reports whether a and b are equal without type coercion.
// Sequences compare element-wise; callables compare by identity.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil

	case Number:
		y, ok := b.(Number)

		return ok && x == y

	case Bool:
		y, ok := b.(Bool)

		return ok && x == y

	case String:
		y, ok := b.(String)

		return ok && x == y

	case *Sequence:
		y, ok := b.(*Sequence)
		if !ok {
			return false
		}

		if x == y {
			return true
		}

		if len(x.Items) != len(y.Items) {
			return false
		}

		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}

		return true

	case *Closure:
		y, ok := b.(*Closure)

		return ok && x == y

	case *Native:
		y, ok := b.(*Native)

		return ok && x == y
	}

	return false
}

// FormatValue renders v for display.
func FormatValue(v Value) string {
	var sb strings.Builder

	writeValue(&sb, v)

	return sb.String()
}

func writeValue(sb *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("nil")

	case Number:
		sb.WriteString(formatNumber(float64(x)))

	case Bool:
		sb.WriteString(strconv.FormatBool(bool(x)))

	case String:
		sb.WriteString(string(x))

	case *Sequence:
		sb.WriteByte('[')

		for i, item := range x.Items {
			if i > 0 {
				sb.WriteString(", ")
			}

			writeValue(sb, item)
		}

		sb.WriteByte(']')

	case *Closure:
		sb.WriteString("<fn(")
		sb.WriteString(strings.Join(x.Params, ", "))
		sb.WriteString(")>")

	case *Native:
		sb.WriteString("<fn ")
		sb.WriteString(x.Name)
		sb.WriteByte('>')
	}
}

// formatNumber prints integral values without a fraction or exponent.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"

	case math.IsInf(f, -1):
		return "-Infinity"

	case math.IsNaN(f):
		return "NaN"

	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	return strconv.FormatFloat(f, 'g', -1, 64)
}
