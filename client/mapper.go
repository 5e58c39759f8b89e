package client

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/dialect/sql"
	"github.com/syssam/sqlderive/schema"
	"github.com/syssam/sqlderive/schema/field"
)

// mapper binds the fields of a record schema to the struct fields of T.
type mapper struct {
	typ reflect.Type
	// index[i] is the struct field index of the i-th schema field.
	index [][]int
}

// newMapper matches every schema field with a struct field of typ. A struct
// field matches if its `sql` tag equals the field name, or, without a tag, if
// its name equals the camelized field name ignoring case ("user_id" matches
// UserID and UserId).
func newMapper(typ reflect.Type, s *schema.Schema) (*mapper, error) {
	if typ.Kind() != reflect.Struct {
		return nil, sqlderive.NewSchemaError(s.Name(), "", fmt.Sprintf("record type %s is not a struct", typ), nil)
	}
	byName := make(map[string][]int, typ.NumField())
	for _, sf := range reflect.VisibleFields(typ) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		tag := sf.Tag.Get("sql")
		if tag == "-" {
			continue
		}
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			byName[name] = sf.Index
			continue
		}
		key := strings.ToLower(sf.Name)
		if _, ok := byName[key]; !ok {
			byName[key] = sf.Index
		}
	}
	m := &mapper{typ: typ, index: make([][]int, s.Len())}
	used := make(map[string]string, s.Len())
	for i, f := range s.Fields() {
		idx, ok := byName[f.Name]
		if !ok {
			idx, ok = byName[strings.ToLower(inflect.Camelize(f.Name))]
		}
		if !ok {
			return nil, sqlderive.NewSchemaError(s.Name(), f.Name, fmt.Sprintf("no field of %s maps to the column", typ), nil)
		}
		sf := typ.FieldByIndex(idx)
		if prev, ok := used[sf.Name]; ok {
			return nil, sqlderive.NewSchemaError(s.Name(), f.Name, fmt.Sprintf("struct field %s is already bound to %q", sf.Name, prev), nil)
		}
		used[sf.Name] = f.Name
		t, err := field.TypeOf(sf.Type)
		if err != nil {
			return nil, sqlderive.NewSchemaError(s.Name(), f.Name, fmt.Sprintf("struct field %s", sf.Name), err)
		}
		if t != f.Type {
			return nil, sqlderive.NewSchemaError(s.Name(), f.Name, fmt.Sprintf("struct field %s is %s, record declares %s", sf.Name, sf.Type, f.Type), nil)
		}
		m.index[i] = idx
	}
	return m, nil
}

// values returns the bound values of rec in schema field order.
func (m *mapper) values(s *schema.Schema, rec reflect.Value) ([]sql.Value, error) {
	fields := s.Fields()
	vs := make([]sql.Value, len(fields))
	for i, f := range fields {
		v, err := sql.ValueOf(f.Type, rec.FieldByIndex(m.index[i]).Interface())
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

// scan decodes all rows into records. Columns are matched by name, so the
// table may order them differently; columns the record does not declare are
// discarded. A column matches its field exactly or, failing that, ignoring
// case, since some databases fold unquoted identifiers. Every field of the
// record must have a column.
func (m *mapper) scan(s *schema.Schema, rows sql.ColumnScanner) ([]reflect.Value, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	pos, err := columnPositions(s, columns)
	if err != nil {
		return nil, err
	}
	var recs []reflect.Value
	for rows.Next() {
		rec := reflect.New(m.typ)
		dest := make([]any, len(columns))
		for i, p := range pos {
			if p < 0 {
				dest[i] = new(any)
				continue
			}
			dest[i] = rec.Elem().FieldByIndex(m.index[p]).Addr().Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("client: scanning %s row: %w", s.Table(), err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// columnPositions returns the schema position of every column, or -1 for a
// column the record does not declare.
func columnPositions(s *schema.Schema, columns []string) ([]int, error) {
	pos := make([]int, len(columns))
	bound := make([]bool, s.Len())
	for i, c := range columns {
		pos[i] = s.Position(c)
		if pos[i] >= 0 {
			bound[pos[i]] = true
		}
	}
	for i, c := range columns {
		if pos[i] >= 0 {
			continue
		}
		for j, name := range s.FieldNames() {
			if !bound[j] && strings.EqualFold(name, c) {
				pos[i], bound[j] = j, true
				break
			}
		}
	}
	for j, ok := range bound {
		if !ok {
			return nil, sqlderive.NewBuilderContractError(s.Table(), s.FieldNames()[j], "result set has no column for the field")
		}
	}
	return pos, nil
}
