package sql

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema/field"
)

// Value is a bound parameter: one scalar value tagged with its field type.
// It lets values of different Go types share one ordered parameter list
// while keeping what is needed to bind each of them.
//
// The zero Value carries field.TypeInvalid and is rejected by Bind.
type Value struct {
	typ field.Type
	i   int64
	f   float64
	s   string
}

// Int32 returns an Int32 bound value.
func Int32(v int32) Value { return Value{typ: field.TypeInt32, i: int64(v)} }

// Int64 returns an Int64 bound value.
func Int64(v int64) Value { return Value{typ: field.TypeInt64, i: v} }

// Float32 returns a Float32 bound value.
func Float32(v float32) Value { return Value{typ: field.TypeFloat32, f: float64(v)} }

// Float64 returns a Float64 bound value.
func Float64(v float64) Value { return Value{typ: field.TypeFloat64, f: v} }

// Text returns a Text bound value.
func Text(v string) Value { return Value{typ: field.TypeText, s: v} }

// Type returns the type tag of the value.
func (v Value) Type() field.Type { return v.typ }

// Any returns the value as its Go type (int32, int64, float32, float64 or
// string), or nil for the zero Value.
func (v Value) Any() any {
	switch v.typ {
	case field.TypeInt32:
		return int32(v.i)
	case field.TypeInt64:
		return v.i
	case field.TypeFloat32:
		return float32(v.f)
	case field.TypeFloat64:
		return v.f
	case field.TypeText:
		return v.s
	default:
		return nil
	}
}

// String implements fmt.Stringer, e.g. Int32(5) or Text("bob").
func (v Value) String() string {
	switch v.typ {
	case field.TypeInt32, field.TypeInt64:
		return v.typ.String() + "(" + strconv.FormatInt(v.i, 10) + ")"
	case field.TypeFloat32:
		return v.typ.String() + "(" + strconv.FormatFloat(v.f, 'g', -1, 32) + ")"
	case field.TypeFloat64:
		return v.typ.String() + "(" + strconv.FormatFloat(v.f, 'g', -1, 64) + ")"
	case field.TypeText:
		return v.typ.String() + "(" + strconv.Quote(v.s) + ")"
	default:
		return "invalid"
	}
}

// ValueOf tags x with the field type t. The Go type of x must be the one of t
// (int32 for Int32, string for Text, and so on), or a named type of that kind.
// Values are never converted: an int for an Int32 field, or a string for an
// Int64 field, fail with a BuilderContractError.
func ValueOf(t field.Type, x any) (Value, error) {
	if v, ok := x.(Value); ok {
		if v.typ != t || !t.Valid() {
			return Value{}, sqlderive.NewBuilderContractError("", "", fmt.Sprintf("expected %s value, got %s", t, v.typ))
		}
		return v, nil
	}
	rv := reflect.ValueOf(x)
	if !rv.IsValid() {
		return Value{}, sqlderive.NewBuilderContractError("", "", fmt.Sprintf("expected %s value, got nil", t.GoType()))
	}
	switch k := rv.Kind(); {
	case t == field.TypeInt32 && k == reflect.Int32:
		return Int32(int32(rv.Int())), nil
	case t == field.TypeInt64 && k == reflect.Int64:
		return Int64(rv.Int()), nil
	case t == field.TypeFloat32 && k == reflect.Float32:
		return Float32(float32(rv.Float())), nil
	case t == field.TypeFloat64 && k == reflect.Float64:
		return Float64(rv.Float()), nil
	case t == field.TypeText && k == reflect.String:
		return Text(rv.String()), nil
	}
	if !t.Valid() {
		return Value{}, sqlderive.NewBuilderContractError("", "", fmt.Sprintf("unsupported field type %s", t))
	}
	return Value{}, sqlderive.NewBuilderContractError("", "", fmt.Sprintf("expected %s value, got %T", t.GoType(), x))
}

// Bind converts the values into statement arguments, keeping their order:
// args[i] is bound to placeholder $i+1. Every field type is bound; a value
// with an unrecognized tag aborts the whole bind with a BindingError so that
// placeholders and arguments can never drift apart.
func Bind(values []Value) ([]any, error) {
	args := make([]any, len(values))
	for i, v := range values {
		switch v.typ {
		case field.TypeInt32:
			args[i] = int32(v.i)
		case field.TypeInt64:
			args[i] = v.i
		case field.TypeFloat32:
			args[i] = float32(v.f)
		case field.TypeFloat64:
			args[i] = v.f
		case field.TypeText:
			args[i] = v.s
		default:
			return nil, sqlderive.NewBindingError(i, v.typ.String())
		}
	}
	return args, nil
}
