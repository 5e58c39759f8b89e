package load

import (
	"encoding/json"
	"fmt"

	"github.com/syssam/sqlderive"
	"github.com/syssam/sqlderive/schema"
	"github.com/syssam/sqlderive/schema/field"
)

// File is the content of one schema file.
type File struct {
	Records []*Record `json:"records" yaml:"records"`
}

// Record represents a record type loaded from a schema file.
type Record struct {
	Name   string   `json:"name" yaml:"name" msgpack:"name"`
	Table  string   `json:"table,omitempty" yaml:"table,omitempty" msgpack:"table,omitempty"`
	Fields []*Field `json:"fields" yaml:"fields" msgpack:"fields"`
	// Pos is the file the record was loaded from.
	Pos string `json:"-" yaml:"-" msgpack:"-"`
}

// Field represents a record field loaded from a schema file. Type is a type
// tag accepted by field.ParseType, e.g. "int32", "i64", "double" or "text".
type Field struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Type string `json:"type" yaml:"type" msgpack:"type"`
}

// NewRecord creates a loaded record from a resolved schema.
func NewRecord(s *schema.Schema) *Record {
	r := &Record{Name: s.Name(), Table: s.Table()}
	for _, f := range s.Fields() {
		r.Fields = append(r.Fields, &Field{Name: f.Name, Type: f.Type.String()})
	}
	return r
}

// Schema resolves the record into a schema. It fails with a SchemaError on
// the first field whose type tag is not supported.
func (r *Record) Schema() (*schema.Schema, error) {
	fields := make([]*field.Descriptor, len(r.Fields))
	for i, f := range r.Fields {
		if f == nil {
			return nil, sqlderive.NewSchemaError(r.Name, "", fmt.Sprintf("field %d is empty", i), nil)
		}
		fields[i] = field.New(f.Name, f.Type)
	}
	s, err := schema.New(r.Name, r.Table, fields...)
	if err != nil && r.Pos != "" {
		return nil, fmt.Errorf("%s: %w", r.Pos, err)
	}
	return s, err
}

// MarshalRecord returns the JSON encoding of a record.
func MarshalRecord(r *Record) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalRecord decodes a record encoded by MarshalRecord.
func UnmarshalRecord(buf []byte) (*Record, error) {
	r := &Record{}
	if err := json.Unmarshal(buf, r); err != nil {
		return nil, err
	}
	return r, nil
}
