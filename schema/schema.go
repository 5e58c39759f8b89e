package schema

import (
	"fmt"
	"regexp"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema/field"
)

// validIdentifierRe validates SQL identifiers (alphanumeric and underscores,
// dots for schema.name).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// ValidIdentifier reports if s can be used verbatim as a table or column name
// in generated statements.
func ValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Field is a resolved field of a record schema.
type Field struct {
	Name string
	Type field.Type
}

// SQLType returns the SQL column type of the field.
func (f Field) SQLType() string {
	t, _ := f.Type.SQLType()
	return t
}

// Schema describes a record type: the table it is stored in and its fields
// in declaration order. A Schema is immutable once built; it is safe to share
// between goroutines.
type Schema struct {
	name   string
	table  string
	fields []Field
	index  map[string]int
}

// New builds a schema for the record type name. An empty table defaults to
// the record name. Every field is resolved through the type mapper; the first
// failure aborts with a SchemaError naming the offending field.
func New(name, table string, fields ...*field.Descriptor) (*Schema, error) {
	if table == "" {
		table = name
	}
	if !ValidIdentifier(table) {
		return nil, sqlderive.NewSchemaError(name, "", fmt.Sprintf("invalid table name %q", table), nil)
	}
	if len(fields) == 0 {
		return nil, sqlderive.NewSchemaError(name, "", "record has no fields", nil)
	}
	s := &Schema{
		name:   name,
		table:  table,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, fd := range fields {
		if fd == nil {
			return nil, sqlderive.NewSchemaError(name, "", "nil field descriptor", nil)
		}
		if !ValidIdentifier(fd.Name) {
			return nil, sqlderive.NewSchemaError(name, fd.Name, "invalid field name", nil)
		}
		if fd.Err != nil {
			return nil, sqlderive.NewSchemaError(name, fd.Name, "unsupported field type", fd.Err)
		}
		if _, err := fd.Type.SQLType(); err != nil {
			return nil, sqlderive.NewSchemaError(name, fd.Name, "unsupported field type", err)
		}
		if _, ok := s.index[fd.Name]; ok {
			return nil, sqlderive.NewSchemaError(name, fd.Name, "duplicate field", nil)
		}
		s.index[fd.Name] = len(s.fields)
		s.fields = append(s.fields, Field{Name: fd.Name, Type: fd.Type})
	}
	return s, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// schema variables, such as the ones emitted by the code generator.
func MustNew(name, table string, fields ...*field.Descriptor) *Schema {
	s, err := New(name, table, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the record type name.
func (s *Schema) Name() string { return s.name }

// Table returns the table name.
func (s *Schema) Table() string { return s.table }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns a copy of the fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the named field.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Position returns the 0-based declaration position of the named field, or -1.
func (s *Schema) Position(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}
