package field

import (
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/cases"

	"github.com/syssam/sqlderive"
)

// Type is the semantic type of a record field. The set is closed: a field
// is one of the five scalar types below, or the schema is rejected.
type Type uint8

// Field types.
const (
	TypeInvalid Type = iota
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeText
	endTypes
)

var (
	typeNames = [...]string{
		TypeInvalid: "invalid",
		TypeInt32:   "Int32",
		TypeInt64:   "Int64",
		TypeFloat32: "Float32",
		TypeFloat64: "Float64",
		TypeText:    "Text",
	}
	goTypes = [...]string{
		TypeInt32:   "int32",
		TypeInt64:   "int64",
		TypeFloat32: "float32",
		TypeFloat64: "float64",
		TypeText:    "string",
	}
	sqlTypes = [...]string{
		TypeInt32:   "INTEGER",
		TypeInt64:   "BIGINT",
		TypeFloat32: "REAL",
		TypeFloat64: "DOUBLE PRECISION",
		TypeText:    "TEXT",
	}
)

// Types lists every valid field type in declaration order.
var Types = []Type{TypeInt32, TypeInt64, TypeFloat32, TypeFloat64, TypeText}

// Valid reports if the given type is one of the supported field types.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// String returns the semantic name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// GoType returns the Go type name used to hold values of this type.
func (t Type) GoType() string {
	if !t.Valid() {
		return ""
	}
	return goTypes[t]
}

// SQLType returns the SQL column-type token of the type.
func (t Type) SQLType() (string, error) {
	if !t.Valid() {
		return "", sqlderive.NewSchemaError("", "", fmt.Sprintf("unsupported field type %d", t), nil)
	}
	return sqlTypes[t], nil
}

// SQLType maps a field type to its SQL column-type token.
// It fails with a SchemaError for anything outside the supported set.
func SQLType(t Type) (string, error) {
	return t.SQLType()
}

// tags holds every accepted declared-type tag, case-folded.
var tags = map[string]Type{
	"int32":   TypeInt32,
	"i32":     TypeInt32,
	"integer": TypeInt32,
	"int64":   TypeInt64,
	"i64":     TypeInt64,
	"bigint":  TypeInt64,
	"float32": TypeFloat32,
	"f32":     TypeFloat32,
	"real":    TypeFloat32,
	"float64": TypeFloat64,
	"f64":     TypeFloat64,
	"double":  TypeFloat64,
	"string":  TypeText,
	"text":    TypeText,

	"double precision": TypeFloat64,
}

// ParseType resolves a declared type tag into a field type. Tags are matched
// case-insensitively and may use Go names (int32, string), short names
// (i32, f64, String), semantic names (Int64, Text) or the SQL tokens.
func ParseType(tag string) (Type, error) {
	key := strings.Join(strings.Fields(cases.Fold().String(tag)), " ")
	if t, ok := tags[key]; ok {
		return t, nil
	}
	return TypeInvalid, sqlderive.NewSchemaError("", "", fmt.Sprintf("unsupported field type %q", tag), nil)
}

// TypeOf maps a Go type to its field type by kind. Named types whose
// underlying kind is supported (e.g. type UserID int32) are accepted.
func TypeOf(rt reflect.Type) (Type, error) {
	if rt == nil {
		return TypeInvalid, sqlderive.NewSchemaError("", "", "unsupported field type <nil>", nil)
	}
	switch rt.Kind() {
	case reflect.Int32:
		return TypeInt32, nil
	case reflect.Int64:
		return TypeInt64, nil
	case reflect.Float32:
		return TypeFloat32, nil
	case reflect.Float64:
		return TypeFloat64, nil
	case reflect.String:
		return TypeText, nil
	default:
		return TypeInvalid, sqlderive.NewSchemaError("", "", fmt.Sprintf("unsupported field type %s", rt), nil)
	}
}
