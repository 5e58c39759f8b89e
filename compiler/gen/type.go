package gen

import (
	"fmt"
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema"
	"github.com/syssam/sqlderive/schema/field"
)

// Type is the generation model of one record schema.
type Type struct {
	// Name is the Go name of the record struct, e.g. User.
	Name string
	// Record is the schema name the type was built from.
	Record string
	// Table is the table name.
	Table string
	// Fields holds the fields in declaration order.
	Fields []*Field

	schema *schema.Schema
}

// Field is the generation model of one record field.
type Field struct {
	// Name is the field (and column) name.
	Name string
	// StructField is the name of the Go struct field, e.g. UserID.
	StructField string
	// Var is the name of the package-level field handle, e.g. UserName.
	Var string
	// Method is the name of the typed query method, e.g. Name.
	Method string
	// Type is the field type.
	Type field.Type
}

// reserved holds the method names of the generated query type. A field
// named String is renamed as well since it clashes with the String method
// of the record struct.
var reserved = map[string]struct{}{
	"Where":  {},
	"Select": {},
	"Delete": {},
	"EQ":     {},
}

// NewType builds the generation model of s. The Go name is derived from the
// part of the schema name after the last dot, so "app.User" generates User.
func NewType(s *schema.Schema) (*Type, error) {
	name := s.Name()
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	t := &Type{
		Name:   pascal(name),
		Record: s.Name(),
		Table:  s.Table(),
		schema: s,
	}
	if !exported(t.Name) {
		return nil, sqlderive.NewSchemaError(s.Name(), "", fmt.Sprintf("record name does not form a Go identifier (%q)", t.Name), nil)
	}
	seen := make(map[string]string, s.Len())
	for _, sf := range s.Fields() {
		f := &Field{
			Name:        sf.Name,
			StructField: pascal(sf.Name),
			Type:        sf.Type,
		}
		if !exported(f.StructField) {
			return nil, sqlderive.NewSchemaError(s.Name(), sf.Name, fmt.Sprintf("field name does not form a Go identifier (%q)", f.StructField), nil)
		}
		if f.StructField == "String" {
			f.StructField += "Field"
		}
		if prev, ok := seen[f.StructField]; ok {
			return nil, sqlderive.NewSchemaError(s.Name(), sf.Name, fmt.Sprintf("Go name %s is also used by field %q", f.StructField, prev), nil)
		}
		seen[f.StructField] = sf.Name
		f.Method = f.StructField
		if _, ok := reserved[f.Method]; ok {
			f.Method += "Field"
		}
		f.Var = t.Name + f.StructField
		switch f.Var {
		case t.SchemaName(), t.ClientName(), t.QueryName():
			f.Var += "Field"
		}
		t.Fields = append(t.Fields, f)
	}
	return t, nil
}

// Schema returns the record schema of the type.
func (t *Type) Schema() *schema.Schema { return t.schema }

// SchemaName returns the name of the generated schema variable.
func (t *Type) SchemaName() string { return t.Name + "Schema" }

// ClientName returns the name of the generated client type.
func (t *Type) ClientName() string { return t.Name + "Client" }

// QueryName returns the name of the generated query type.
func (t *Type) QueryName() string { return t.Name + "Query" }

// FileName returns the name of the file the type is generated into.
// Names ending in _test are suffixed so the file is not a test file.
func (t *Type) FileName() string {
	base := snake(t.Name)
	if strings.HasSuffix(base, "_test") {
		base += "_record"
	}
	return base + ".go"
}

// Receiver returns the receiver name used in the type's methods.
func (t *Type) Receiver() string { return receiver(t.Name) }

// names returns every package-level identifier the type declares.
func (t *Type) names() []string {
	names := []string{t.Name, t.SchemaName(), t.ClientName(), t.QueryName(), "New" + t.ClientName()}
	for _, f := range t.Fields {
		names = append(names, f.Var)
	}
	return names
}

// GoType returns the Go type name of the field.
func (f *Field) GoType() string { return f.Type.GoType() }

// Handle returns the name of the sql field-handle type of the field, e.g. Int32Field.
func (f *Field) Handle() string { return f.Type.String() + "Field" }

// Constructor returns the name of the field package constructor, e.g. Int32.
func (f *Field) Constructor() string { return f.Type.String() }

func exported(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return token.IsIdentifier(s) && unicode.IsUpper(r)
}
